package errors

import (
	stderrors "errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_PreservesCode(t *testing.T) {
	base := ConfigInvalid("DATA_FILE is required")
	wrapped := Wrap(base, "failed to load config")

	assert.Equal(t, CodeConfigInvalid, GetCode(wrapped))
	assert.Equal(t, "failed to load config: DATA_FILE is required", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrap_ForeignErrorBecomesInternal(t *testing.T) {
	wrapped := Wrapf(io.ErrUnexpectedEOF, "reading %s", "ndvi.csv")

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, io.ErrUnexpectedEOF))
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "anything"))
	assert.Nil(t, Wrapf(nil, "anything %d", 1))
	assert.Nil(t, WithCode(CodeNotFound, nil))
}

func TestSourceError(t *testing.T) {
	err := SourceError("countries.csv", io.EOF)

	assert.True(t, HasCode(err, CodeSourceError))
	assert.Contains(t, err.Error(), "countries.csv")
	assert.True(t, stderrors.Is(err, io.EOF))
}

func TestGetCode_Unknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(io.EOF))
}
