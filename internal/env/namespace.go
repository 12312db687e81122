package env

import (
	"muscript/internal/caseins"
	"muscript/internal/types"
)

// namespace is the per-class lookup cache. A key maps to the interned
// entity, or to the miss sentinel once a lookup has failed; either way a
// second lookup never re-reads the partitions.
type namespace struct {
	vars      map[caseins.Key]VarID
	functions map[caseins.Key]FunctionID
}

// CachedVar returns the memoized field lookup for name. known is false
// when the name has never been looked up in this class.
func (e *Env) CachedVar(c types.ClassID, name caseins.Key) (id VarID, ok, known bool) {
	ns := &e.class(c).ns
	id, known = ns.vars[name]
	if !known {
		return NoVar, false, false
	}
	return id, id != NoVar, true
}

// MemoizeVar records a successful field lookup.
func (e *Env) MemoizeVar(c types.ClassID, name caseins.Key, id VarID) {
	ns := &e.class(c).ns
	if ns.vars == nil {
		ns.vars = make(map[caseins.Key]VarID)
	}
	ns.vars[name] = id
}

// MemoizeVarMiss records that name does not resolve in this class.
func (e *Env) MemoizeVarMiss(c types.ClassID, name caseins.Key) {
	e.MemoizeVar(c, name, NoVar)
}

// CachedFunction returns the memoized function lookup for name.
func (e *Env) CachedFunction(c types.ClassID, name caseins.Key) (id FunctionID, ok, known bool) {
	ns := &e.class(c).ns
	id, known = ns.functions[name]
	if !known {
		return NoFunction, false, false
	}
	return id, id != NoFunction, true
}

// MemoizeFunction records a successful function lookup.
func (e *Env) MemoizeFunction(c types.ClassID, name caseins.Key, id FunctionID) {
	ns := &e.class(c).ns
	if ns.functions == nil {
		ns.functions = make(map[caseins.Key]FunctionID)
	}
	ns.functions[name] = id
}

// MemoizeFunctionMiss records that name does not resolve in this class.
func (e *Env) MemoizeFunctionMiss(c types.ClassID, name caseins.Key) {
	e.MemoizeFunction(c, name, NoFunction)
}
