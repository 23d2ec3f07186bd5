// Package constraints partitions the clauses the clausifier assigns to a
// single modal-context depth into the four shapes the prover reasons about,
// the Go analogue of the reference implementation's get_constraints.
package constraints

import (
	"github.com/modalk/prover/clausify"
	"github.com/modalk/prover/formula"
)

// Sets holds the four disjoint clause shapes the prover's tableau step
// consumes at a single world.
type Sets struct {
	A  []*clausify.Clause // purely classical disjunctions
	IB []*clausify.Clause // one classical literal, one box literal
	ID []*clausify.Clause // one classical literal, one diamond literal
	D  []*clausify.Clause // a single diamond literal
}

// Empty reports whether every set is empty.
func (s Sets) Empty() bool {
	return len(s.A) == 0 && len(s.IB) == 0 && len(s.ID) == 0 && len(s.D) == 0
}

// Extract partitions the clauses recorded at depth w in mcf into A, IB, ID,
// and D. It is a pure function of mcf and w.
func Extract(mcf clausify.MCF, w int) Sets {
	var s Sets

	clauses, ok := mcf[w]
	if !ok {
		return s
	}

	for _, cl := range clauses {
		switch {
		case len(cl.Disjuncts) > 2:
			s.A = append(s.A, cl)

		case len(cl.Disjuncts) == 1:
			if !cl.Disjuncts[0].IsComplex() {
				s.A = append(s.A, cl)
			} else {
				// A single complex disjunct can only be a bare diamond
				// literal; box-only clauses are never well-formed alone.
				s.D = append(s.D, cl)
			}

		default: // exactly two disjuncts
			switch modalityKind(cl.Disjuncts) {
			case kindBox:
				s.IB = append(s.IB, cl)
			case kindDia:
				s.ID = append(s.ID, cl)
			default:
				s.A = append(s.A, cl)
			}
		}
	}

	return s
}

type kind int

const (
	kindNone kind = iota
	kindBox
	kindDia
)

// modalityKind returns the kind of the first modal disjunct found, or
// kindNone if none of the disjuncts is modal - the reference
// implementation's get_modality.
func modalityKind(disjuncts []*formula.Formula) kind {
	for _, d := range disjuncts {
		if d.Type == formula.NodeBox {
			return kindBox
		}
		if d.Type == formula.NodeDia {
			return kindDia
		}
	}
	return kindNone
}
