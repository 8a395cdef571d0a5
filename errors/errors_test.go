package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMissingAttributeErrorMessage(t *testing.T) {
	err := NewMissingAttributeError("person", "first_name")

	require.Equal(t, `attribute "first_name" is not set for person`, err.Error())
}

func TestConfigErrorCollectsErrors(t *testing.T) {
	ce := NewConfigError()

	require.Equal(t, 0, ce.ErrorCount())

	ce.AppendParseError(fmt.Errorf("parse boom"))
	ce.AppendProcessError(fmt.Errorf("process boom"))

	require.Equal(t, 2, ce.ErrorCount())
	require.Contains(t, ce.Error(), "parse boom")
	require.Contains(t, ce.Error(), "process boom")
}

func TestParserErrorContainsLocation(t *testing.T) {
	err := NewParserError("/config/person.hcl", 3, 1, ParserErrorLevelError, "something is wrong")

	require.Contains(t, err.Error(), "/config/person.hcl:3,1")
	require.Contains(t, err.Error(), "something is wrong")
}

func TestParserErrorLevelWarning(t *testing.T) {
	err := NewParserError("/config/person.hcl", 3, 1, ParserErrorLevelWarning, "something looks odd")

	require.Equal(t, ParserErrorLevelWarning, err.Level)
}
