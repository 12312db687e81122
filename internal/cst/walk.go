package cst

// Children returns the direct child nodes of n in source order. Nil
// children are omitted. Used by span checks and tree dumps.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		switch v := c.(type) {
		case nil:
			return
		case *TypeRef:
			if v == nil {
				return
			}
		case *Metadata:
			if v == nil {
				return
			}
		case *LazyBlock:
			if v == nil {
				return
			}
		case *Block:
			if v == nil {
				return
			}
		case *ClassHeader:
			if v == nil {
				return
			}
		}
		out = append(out, c)
	}
	addExpr := func(e Expr) {
		if e != nil {
			out = append(out, e)
		}
	}
	addStmt := func(s Stmt) {
		if s != nil {
			out = append(out, s)
		}
	}

	switch v := n.(type) {
	case *File:
		add(v.Header)
		for _, it := range v.Items {
			out = append(out, it)
		}
	case *BareFile:
		for _, it := range v.Items {
			out = append(out, it)
		}
	case *ClassHeader:
		for i := range v.Specifiers {
			out = append(out, &v.Specifiers[i])
		}
	case *VarDecl:
		add(v.Category)
		for i := range v.Specifiers {
			out = append(out, &v.Specifiers[i])
		}
		add(v.Type)
		for i := range v.Names {
			out = append(out, &v.Names[i])
		}
		add(v.Meta)
	case *DeclName:
		addExpr(v.ArraySize)
	case *ConstDecl:
		addExpr(v.Value)
	case *FunctionDecl:
		for i := range v.Specifiers {
			out = append(out, &v.Specifiers[i])
		}
		add(v.ReturnType)
		for i := range v.Params {
			out = append(out, &v.Params[i])
		}
		add(v.Body)
	case *Param:
		for i := range v.Specifiers {
			out = append(out, &v.Specifiers[i])
		}
		add(v.Type)
		addExpr(v.Default)
	case *Simulated:
		out = append(out, v.Item)
	case *StructDecl:
		for i := range v.Specifiers {
			out = append(out, &v.Specifiers[i])
		}
		for _, m := range v.Members {
			out = append(out, m)
		}
		add(v.CppText)
	case *EnumDecl:
		for i := range v.Variants {
			out = append(out, &v.Variants[i])
		}
	case *EnumVariant:
		add(v.Meta)
	case *StateDecl:
		for i := range v.Specifiers {
			out = append(out, &v.Specifiers[i])
		}
		add(v.Body)
	case *DefaultProperties:
		add(v.Body)
	case *Replication:
		add(v.Body)
	case *CppText:
		add(v.Body)
	case *StmtItem:
		addStmt(v.Stmt)
	case *Block:
		for _, s := range v.Stmts {
			out = append(out, s)
		}
	case *Local:
		add(v.Type)
		for i := range v.Names {
			out = append(out, &v.Names[i])
		}
	case *If:
		addExpr(v.Cond)
		addStmt(v.Then)
		addStmt(v.Else)
	case *While:
		addExpr(v.Cond)
		addStmt(v.Body)
	case *Do:
		addStmt(v.Body)
		addExpr(v.Cond)
	case *For:
		addExpr(v.Init)
		addExpr(v.Cond)
		addExpr(v.Update)
		addStmt(v.Body)
	case *ForEach:
		addExpr(v.Iterator)
		addStmt(v.Body)
	case *Switch:
		addExpr(v.Subject)
		for _, s := range v.Clauses {
			out = append(out, s)
		}
	case *Case:
		addExpr(v.Value)
	case *Return:
		addExpr(v.Value)
	case *ExprStmt:
		addExpr(v.Expr)
	case *Member:
		addExpr(v.Target)
	case *Prefix:
		addExpr(v.Operand)
	case *Postfix:
		addExpr(v.Operand)
	case *Infix:
		addExpr(v.Lhs)
		addExpr(v.Rhs)
	case *Call:
		addExpr(v.Callee)
		for _, a := range v.Args {
			addExpr(a)
		}
	case *Index:
		addExpr(v.Target)
		addExpr(v.Idx)
	case *Paren:
		addExpr(v.Inner)
	case *Ternary:
		addExpr(v.Cond)
		addExpr(v.Then)
		addExpr(v.Else)
	case *TypeRef:
		add(v.Arg)
	}
	return out
}
