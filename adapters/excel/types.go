package excel

const (
	fileTypeCSV  = "csv"
	fileTypeXLSX = "xlsx"
)

// defaultSheet is read when a workbook has no sheet list
const defaultSheet = "Sheet1"
