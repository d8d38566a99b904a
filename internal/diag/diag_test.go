package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverity_UnusedSemanticErrorIsDemotedToWarning(t *testing.T) {
	d := New(SemanticError, Position{Line: 1, Column: 1}, "unused variable: %s", "x")
	assert.Equal(t, SevWarning, d.Severity())
}

func TestSeverity_OtherSemanticErrorsStayErrors(t *testing.T) {
	d := New(SemanticError, Position{Line: 1, Column: 1}, "return statement outside function")
	assert.Equal(t, SevError, d.Severity())
}

func TestSeverity_NonSemanticKindsAlwaysError(t *testing.T) {
	d := New(UndefinedVariable, Position{Line: 1, Column: 1}, "unused thing is undefined: %s", "y")
	assert.Equal(t, SevError, d.Severity())
}

func TestList_ErrorsAndWarningsPartitionByServerity(t *testing.T) {
	var list List
	list.Add(New(TypeError, Position{}, "bad type"))
	list.Add(New(SemanticError, Position{}, "unused variable: z"))

	require := assert.New(t)
	require.Len(list.Errors(), 1)
	require.Len(list.Warnings(), 1)
	require.True(list.HasErrors())
}

func TestList_HasErrorsIsFalseWhenOnlyWarningsPresent(t *testing.T) {
	var list List
	list.Add(New(SemanticError, Position{}, "unused variable: z"))
	assert.False(t, list.HasErrors())
}
