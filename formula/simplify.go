package formula

// Simplify folds the propositional constants True/False out of a formula
// and collapses double negation, the way the reference implementation's
// psimplfy pass does between NNF conversion and clausification. It never
// touches modal structure beyond recursing under a single modality. Each
// rule looks at a node's children before they are simplified, so a constant
// that only appears once a child is simplified stays in place: p & ~True
// becomes p & False, not False.
func Simplify(f *Formula) *Formula {
	if f.IsAtomic() {
		return f
	}

	switch f.Type {
	case NodeNot:
		return simplifyNot(f)
	case NodeAnd:
		return simplifyAnd(f)
	case NodeOr:
		return simplifyOr(f)
	case NodeImplies:
		return simplifyImplies(f)
	case NodeIff:
		return simplifyIff(f)
	case NodeBox:
		return simplifyModality(f, Box)
	case NodeDia:
		return simplifyModality(f, Dia)
	default:
		return f
	}
}

func simplifyNot(f *Formula) *Formula {
	left := f.Children[0]

	switch {
	case left.IsBottom():
		return Const(true)
	case left.IsTop():
		return Const(false)
	case !left.IsAtomic():
		if left.Type == NodeNot {
			return Simplify(left.Children[0])
		}
		return Neg(Simplify(left))
	default:
		return f
	}
}

func simplifyAnd(f *Formula) *Formula {
	l, r := f.Children[0], f.Children[1]

	switch {
	case l.IsBottom() || r.IsBottom():
		return Const(false)
	case l.IsTop():
		return Simplify(r)
	case r.IsTop():
		return Simplify(l)
	default:
		return And(Simplify(l), Simplify(r))
	}
}

func simplifyOr(f *Formula) *Formula {
	l, r := f.Children[0], f.Children[1]

	switch {
	case l.IsTop() || r.IsTop():
		return Const(true)
	case l.IsBottom():
		return Simplify(r)
	case r.IsBottom():
		return Simplify(l)
	default:
		return Or(Simplify(l), Simplify(r))
	}
}

func simplifyImplies(f *Formula) *Formula {
	ant, con := f.Children[0], f.Children[1]

	switch {
	case ant.IsBottom() || con.IsTop():
		return Const(true)
	case ant.IsTop():
		return Simplify(con)
	case con.IsBottom():
		return Simplify(Neg(ant))
	default:
		return Implies(Simplify(ant), Simplify(con))
	}
}

func simplifyIff(f *Formula) *Formula {
	l, r := f.Children[0], f.Children[1]

	switch {
	case l.IsTop():
		return Simplify(r)
	case r.IsTop():
		return Simplify(l)
	case l.IsBottom():
		return Simplify(Neg(r))
	case r.IsBottom():
		return Simplify(Neg(l))
	default:
		return Iff(Simplify(l), Simplify(r))
	}
}

func simplifyModality(f *Formula, wrap func(string, *Formula) *Formula) *Formula {
	left := f.Children[0]
	if left.IsAtomic() {
		return f
	}
	return wrap(f.ModalID, Simplify(left))
}
