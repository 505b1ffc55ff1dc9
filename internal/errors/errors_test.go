package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_KeepsCode(t *testing.T) {
	base := InsufficientHeaders("S/N", 1)
	wrapped := Wrapf(base, "ingest %s", "clients.xlsx")

	assert.Equal(t, CodeInsufficientHeaders, GetCode(wrapped))
	assert.Contains(t, wrapped.Error(), "found 1 header row(s)")
	assert.True(t, stderrors.Is(wrapped, base))

	found, ok := ContextValue(wrapped, "found")
	require.True(t, ok)
	assert.Equal(t, 1, found)
}

func TestWrap_PlainErrorBecomesInternal(t *testing.T) {
	err := Wrap(fmt.Errorf("disk full"), "write failed")
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Equal(t, "write failed: disk full", err.Error())
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestGetCode_ThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("dashboard: %w", DataFileNotFound("data/merged.csv"))
	assert.True(t, IsAppError(err))
	assert.True(t, HasCode(err, CodeDataFileNotFound))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		err  *AppError
		code string
		msg  string
	}{
		{SourceNotFound("a.xlsx"), CodeSourceNotFound, "workbook not found: a.xlsx"},
		{SheetNotFound("Retail", []string{"Sheet1"}), CodeSheetNotFound, `sheet "Retail" not found (available: [Sheet1])`},
		{InsufficientHeaders("S/N", 0), CodeInsufficientHeaders, "could not find two header rows with marker 'S/N'; found 0 header row(s)"},
		{EmptySegment("segment B (Retail)"), CodeEmptySegment, "segment B (Retail) has no data rows after cleaning"},
		{DataFileNotFound("m.csv"), CodeDataFileNotFound, "data file not found: m.csv"},
		{InternalError("export failed", fmt.Errorf("short write")), CodeInternalError, "export failed: short write"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code)
		assert.Equal(t, tt.msg, tt.err.Error())
	}
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeMalformedData, EmptySegment("segment A"))
	assert.Equal(t, CodeMalformedData, GetCode(err))
	v, ok := ContextValue(err, "segment")
	assert.True(t, ok)
	assert.Equal(t, "segment A", v)
}
