package formula

// ToNNF converts a formula into negation normal form: implications and
// biconditionals are eliminated, and negation is pushed down to literals,
// dualizing box/diamond modalities along the way (~[i]f -> <i>~f,
// ~<i>f -> [i]~f). The case analysis mirrors the reference nnf_not/nnf_imp/
// nnf_iff/nnf_modality dispatch.
func ToNNF(f *Formula) *Formula {
	switch f.Type {
	case NodeAtom, NodeConst:
		return f
	case NodeNot:
		return nnfNot(f)
	case NodeAnd:
		return And(ToNNF(f.Children[0]), ToNNF(f.Children[1]))
	case NodeOr:
		return Or(ToNNF(f.Children[0]), ToNNF(f.Children[1]))
	case NodeImplies:
		return nnfImplies(f)
	case NodeIff:
		return nnfIff(f)
	case NodeBox:
		return nnfModality(f, Box)
	case NodeDia:
		return nnfModality(f, Dia)
	default:
		return f
	}
}

// nnfNot pushes a negation one level past its operand, recursing until the
// negation lands on a literal.
func nnfNot(f *Formula) *Formula {
	left := f.Children[0]

	if left.IsAtomic() {
		return f
	}

	switch left.Type {
	case NodeNot:
		return ToNNF(left.Children[0])
	case NodeAnd:
		return Or(ToNNF(Neg(left.Children[0])), ToNNF(Neg(left.Children[1])))
	case NodeOr:
		return And(ToNNF(Neg(left.Children[0])), ToNNF(Neg(left.Children[1])))
	case NodeImplies:
		return And(ToNNF(left.Children[0]), ToNNF(Neg(left.Children[1])))
	case NodeIff:
		l, r := left.Children[0], left.Children[1]
		return Or(
			And(ToNNF(l), ToNNF(Neg(r))),
			And(ToNNF(Neg(l)), ToNNF(r)),
		)
	case NodeBox:
		return Dia(left.ModalID, ToNNF(Neg(left.Children[0])))
	case NodeDia:
		return Box(left.ModalID, ToNNF(Neg(left.Children[0])))
	default:
		return Neg(ToNNF(left))
	}
}

func nnfImplies(f *Formula) *Formula {
	ant, con := f.Children[0], f.Children[1]
	return Or(ToNNF(Neg(ant)), ToNNF(con))
}

func nnfIff(f *Formula) *Formula {
	l, r := f.Children[0], f.Children[1]
	return Or(
		And(ToNNF(l), ToNNF(r)),
		And(ToNNF(Neg(l)), ToNNF(Neg(r))),
	)
}

// nnfModality recurses under a box/diamond, reusing its constructor (passed
// in as wrap) to rebuild the same modality around the converted body.
func nnfModality(f *Formula, wrap func(string, *Formula) *Formula) *Formula {
	left := f.Children[0]
	if left.IsAtomic() {
		return f
	}
	return wrap(f.ModalID, ToNNF(left))
}
