package ir

import "fmt"

// Value is anything an instruction can take as an operand: a constant, a
// reference to a local SSA-style value, a function parameter, or a global.
type Value interface {
	Type() Type
	String() string
}

// ConstInt is a constant integer value.
type ConstInt struct {
	Val int64
	Typ Type
}

func (c ConstInt) Type() Type    { return c.Typ }
func (c ConstInt) String() string { return fmt.Sprintf("%d", c.Val) }

// ConstFloat is a constant floating-point value.
type ConstFloat struct {
	Val float64
	Typ Type
}

func (c ConstFloat) Type() Type    { return c.Typ }
func (c ConstFloat) String() string { return fmt.Sprintf("%g", c.Val) }

// ConstBool is a constant boolean value (i1).
type ConstBool struct {
	Val bool
}

func (c ConstBool) Type() Type { return I1 }
func (c ConstBool) String() string {
	if c.Val {
		return "true"
	}
	return "false"
}

// GlobalStringRef is the address of a null-terminated interned string
// global's first byte — what printf and its callers pass around.
type GlobalStringRef struct {
	Name string
	Len  int // including the trailing NUL
}

func (g GlobalStringRef) Type() Type    { return I8Ptr }
func (g GlobalStringRef) String() string { return "@" + g.Name }

// LocalRef names a value produced earlier in the same function: a
// parameter, or the result of a prior instruction.
type LocalRef struct {
	Name string
	Typ  Type
}

func (l LocalRef) Type() Type    { return l.Typ }
func (l LocalRef) String() string { return "%" + l.Name }
