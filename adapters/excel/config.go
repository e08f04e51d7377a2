package excel

// ReaderConfig holds options for tabular file sources
type ReaderConfig struct {
	FilePath  string `json:"file_path"`
	Sheet     string `json:"sheet"`     // empty selects the first sheet
	Delimiter rune   `json:"delimiter"` // CSV only; zero means ','
}

// DefaultReaderConfig returns defaults for path
func DefaultReaderConfig(path string) ReaderConfig {
	return ReaderConfig{FilePath: path, Delimiter: ','}
}
