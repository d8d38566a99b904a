package autofix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFix_InsertsIntegerAnnotation(t *testing.T) {
	assert.Equal(t, `let x: i32 = 12;`, Fix(`let x = 12;`))
}

func TestFix_InsertsFloatAnnotation(t *testing.T) {
	assert.Equal(t, `let x: f64 = 1.5;`, Fix(`let x = 1.5;`))
}

func TestFix_InsertsStringAnnotation(t *testing.T) {
	assert.Equal(t, `let greeting: String = "hi";`, Fix(`let greeting = "hi";`))
}

func TestFix_InsertsBoolAnnotation(t *testing.T) {
	assert.Equal(t, `let flag: bool = true;`, Fix(`let flag = true;`))
}

func TestFix_LeavesAlreadyAnnotatedLetUntouched(t *testing.T) {
	src := `let x: i32 = 12;`
	assert.Equal(t, src, Fix(src))
}

func TestFix_LeavesAmbiguousInitializerUntouched(t *testing.T) {
	// The right-hand side is a call, not a literal; autofix must not guess.
	src := `let x = compute();`
	assert.Equal(t, src, Fix(src))
}
