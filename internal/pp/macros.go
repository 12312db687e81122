package pp

import (
	"muscript/internal/caseins"
	"muscript/internal/source"
	"muscript/internal/token"
)

// Define is one `define entry: an optional parameter list and a body of
// arena tokens captured from the definition's logical line.
type Define struct {
	Name   caseins.Name
	Params []caseins.Key
	Body   []token.ID
	Span   source.Span // спан всей директивы, для диагностик
}

// HasParams reports whether the macro was declared with a parameter list.
// `define X() and `define X are different invocations.
func (d *Define) HasParams() bool {
	return d.Params != nil
}

// Macros is the case-insensitive macro table shared across the files of a
// package. `define and `undef mutate it in file order.
type Macros struct {
	defs map[caseins.Key]*Define
}

func NewMacros() *Macros {
	return &Macros{defs: make(map[caseins.Key]*Define)}
}

// Set registers or replaces a macro definition.
func (m *Macros) Set(d *Define) {
	m.defs[d.Name.Key()] = d
}

// Undef removes a macro; removing an unknown name is not an error.
func (m *Macros) Undef(name string) {
	delete(m.defs, caseins.Fold(name))
}

// Lookup finds a macro by its case-insensitive name.
func (m *Macros) Lookup(name string) (*Define, bool) {
	d, ok := m.defs[caseins.Fold(name)]
	return d, ok
}

// IsDefined reports whether name is currently defined.
func (m *Macros) IsDefined(name string) bool {
	_, ok := m.defs[caseins.Fold(name)]
	return ok
}
