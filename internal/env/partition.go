package env

import (
	"fmt"

	"muscript/internal/caseins"
	"muscript/internal/cst"
	"muscript/internal/diag"
	"muscript/internal/source"
	"muscript/internal/token"
)

// VarEntry points at one declared name inside a var declaration. One
// `var int A, B;` item produces two entries sharing the same Decl.
type VarEntry struct {
	Decl *cst.VarDecl
	Name *cst.DeclName
}

// UntypedClassPartition is the structural index of one source file's
// contribution to a class: declarations bucketed by kind and keyed by
// folded name, before any type resolution happens. A class split across
// several files gets one partition per file.
type UntypedClassPartition struct {
	File   source.FileID
	Header *cst.ClassHeader

	Vars      map[caseins.Key]VarEntry
	Functions map[caseins.Key]*cst.FunctionDecl

	// порядок объявления — для детерминированного обхода
	VarOrder      []caseins.Key
	FunctionOrder []caseins.Key

	Structs []*cst.StructDecl
	Enums   []*cst.EnumDecl
	Consts  []*cst.ConstDecl
	States  []*cst.StateDecl

	DefaultProperties []*cst.DefaultProperties
	Replication       []*cst.Replication
	CppText           []*cst.CppText

	// items the analyzer has no home for yet; CheckItemSupport reports them
	Unsupported []cst.Item
}

// BuildPartition indexes one parsed file into a partition. It is purely
// structural: names are bucketed, nothing is resolved. A file without a
// class header still partitions (headerless files occur mid-edit); the
// missing header is reported here because later phases assume one.
func BuildPartition(arena *token.Arena, file source.FileID, f *cst.File, rep diag.Reporter) *UntypedClassPartition {
	p := &UntypedClassPartition{
		File:      file,
		Header:    f.Header,
		Vars:      make(map[caseins.Key]VarEntry),
		Functions: make(map[caseins.Key]*cst.FunctionDecl),
	}
	if f.Header == nil {
		var sp source.Span
		if len(f.Items) > 0 {
			sp = f.Items[0].Span().Source(arena)
		}
		diag.Error(rep, diag.SemaMissingClass, sp,
			"source file does not start with a `class` header").
			WithNote("every .uc file must declare exactly one class").
			Emit()
	}
	for _, item := range f.Items {
		p.addItem(arena, item, rep)
	}
	return p
}

func (p *UntypedClassPartition) addItem(arena *token.Arena, item cst.Item, rep diag.Reporter) {
	switch it := item.(type) {
	case *cst.VarDecl:
		for i := range it.Names {
			name := &it.Names[i]
			key := name.Name.Key()
			if prev, dup := p.Vars[key]; dup {
				diag.Error(rep, diag.SemaRedefinedLocal, name.Span().Source(arena),
					fmt.Sprintf("variable `%s` is declared twice in this class", name.Name)).
					WithPrimaryMsg("redeclared here").
					WithLabel(prev.Name.Span().Source(arena), "first declared here").
					Emit()
				continue
			}
			p.Vars[key] = VarEntry{Decl: it, Name: name}
			p.VarOrder = append(p.VarOrder, key)
		}
	case *cst.FunctionDecl:
		key := it.Name.Key()
		if prev, dup := p.Functions[key]; dup {
			diag.Error(rep, diag.SemaRedefinedLocal, it.NameSpan.Source(arena),
				fmt.Sprintf("function `%s` is declared twice in this class", it.Name)).
				WithPrimaryMsg("redeclared here").
				WithLabel(prev.NameSpan.Source(arena), "first declared here").
				Emit()
			return
		}
		p.Functions[key] = it
		p.FunctionOrder = append(p.FunctionOrder, key)
	case *cst.Simulated:
		// simulated только переносит флаг; содержимое раскладываем как обычно
		if it.Item != nil {
			p.addItem(arena, it.Item, rep)
		}
	case *cst.StructDecl:
		p.Structs = append(p.Structs, it)
	case *cst.EnumDecl:
		p.Enums = append(p.Enums, it)
	case *cst.ConstDecl:
		p.Consts = append(p.Consts, it)
	case *cst.StateDecl:
		p.States = append(p.States, it)
	case *cst.DefaultProperties:
		p.DefaultProperties = append(p.DefaultProperties, it)
	case *cst.Replication:
		p.Replication = append(p.Replication, it)
	case *cst.CppText:
		p.CppText = append(p.CppText, it)
	case *cst.ClassHeader:
		// header is pulled out by the parser; a second one is malformed input
		p.Unsupported = append(p.Unsupported, it)
	default:
		p.Unsupported = append(p.Unsupported, item)
	}
}

// CheckItemSupport reports the constructs the analyzer does not handle
// yet. Partitioning keeps them so the syntax survives a reprint; analysis
// must not silently ignore them.
func (p *UntypedClassPartition) CheckItemSupport(arena *token.Arena, rep diag.Reporter) {
	if p.Header != nil && p.Header.Within != nil {
		diag.Error(rep, diag.SemaUnsupported, p.Header.WithinSpan.Source(arena),
			"`within` classes are not yet supported").
			WithNote("analysis of this construct is a work in progress").
			Emit()
	}
	for _, st := range p.States {
		diag.Error(rep, diag.SemaUnsupported, st.NameSpan.Source(arena),
			fmt.Sprintf("state `%s` is not yet supported", st.Name)).
			WithNote("analysis of this construct is a work in progress").
			Emit()
	}
	for _, rp := range p.Replication {
		diag.Error(rep, diag.SemaUnsupported, rp.Span().Source(arena),
			"`replication` blocks are not yet supported").
			WithNote("analysis of this construct is a work in progress").
			Emit()
	}
	for _, item := range p.Unsupported {
		diag.Error(rep, diag.SemaUnsupported, item.Span().Source(arena),
			"this declaration is not supported here").
			WithNote("analysis of this construct is a work in progress").
			Emit()
	}
}
