package sema

import (
	"github.com/neopaquet/npc/internal/ast"
	"github.com/neopaquet/npc/internal/token"
)

// Symbol is a bound name with a kind and a type. FunctionSymbol and
// StructSymbol are modeled as a sum type (Value/Function/Struct) behind the
// Symbol interface rather than as subclasses of a shared base struct — there
// is no behavior inherited across variants, only data, so a sum type avoids
// the empty-field waste and accidental-coupling risk of embedding unrelated
// fields in one struct.
type Symbol interface {
	symbolName() string
	symbolType() string
	isUsed() bool
	markUsed()
}

// ValueSymbol is a variable or parameter binding.
type ValueSymbol struct {
	Name    string
	Type    string
	Defined bool
	Used    bool
	At      token.Position
}

func (s *ValueSymbol) symbolName() string { return s.Name }
func (s *ValueSymbol) symbolType() string { return s.Type }
func (s *ValueSymbol) isUsed() bool       { return s.Used }
func (s *ValueSymbol) markUsed()          { s.Used = true }

// FunctionSymbol is a function binding.
type FunctionSymbol struct {
	Name       string
	Params     []ast.Param
	ReturnType string // empty means void
	Used       bool
}

func (s *FunctionSymbol) symbolName() string { return s.Name }
func (s *FunctionSymbol) symbolType() string { return s.ReturnType }
func (s *FunctionSymbol) isUsed() bool       { return s.Used }
func (s *FunctionSymbol) markUsed()          { s.Used = true }

// StructSymbol is a struct-type binding.
type StructSymbol struct {
	Name   string
	Fields []ast.StructField
	Used   bool
}

func (s *StructSymbol) symbolName() string { return s.Name }
func (s *StructSymbol) symbolType() string { return s.Name }
func (s *StructSymbol) isUsed() bool       { return s.Used }
func (s *StructSymbol) markUsed()          { s.Used = true }

// FieldType returns the declared type of a struct field, or "" if absent.
func (s *StructSymbol) FieldType(name string) (string, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return "", false
}
