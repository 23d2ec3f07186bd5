// Package clausify transforms a formula in negation normal form into modal
// clausal form (MCF): a map from modal depth to the clauses that live at
// that depth, each clause carrying at most one modal literal and, when it
// has one, at most one classical literal beside it (a purely classical
// clause may hold any number of literals). It is the Go analogue of the reference clausal-form
// transform in original_source/src/clausal/clausify.py.
package clausify

import "github.com/modalk/prover/formula"

// ModalContext is the sequence of box-modality world ids entered on the path
// from the root formula down to a clause, outermost first. Only box
// modalities ever appear here: mcf_modality always extends the context with
// a box entry regardless of whether the literal it is splitting off was a
// box or a diamond.
type ModalContext []string

// Equal reports whether mc and other name the same sequence of worlds.
func (mc ModalContext) Equal(other ModalContext) bool {
	if len(mc) != len(other) {
		return false
	}
	for i := range mc {
		if mc[i] != other[i] {
			return false
		}
	}
	return true
}

func (mc ModalContext) String() string {
	s := ""
	for _, id := range mc {
		s += "[" + id + "]"
	}
	return s
}

// Clause is a disjunction of literals sharing a modal context and mc-id, the
// Go analogue of the reference implementation's ModalExpr. A well-formed
// clause carries at most one modal literal, and at most one classical
// literal beside it when it has one; Context.addDisjunct enforces that
// shape, splitting an offending modal literal into a fresh linking clause
// when it would not fit.
type Clause struct {
	MC            ModalContext
	MCID          int
	Disjuncts     []*formula.Formula
	NumPropAtoms  int
	NumModalAtoms int
}

func newClause(mc ModalContext, mcid int) *Clause {
	return &Clause{MC: append(ModalContext(nil), mc...), MCID: mcid}
}

// SameContext reports whether c was recorded under the same modal context
// and mc-id as (mc, mcid) - the reference's eq_modal_context check.
func (c *Clause) SameContext(mc ModalContext, mcid int) bool {
	return c.MCID == mcid && c.MC.Equal(mc)
}

// takeModalLiteral removes and returns the clause's modal literal, if any.
// It does not adjust NumModalAtoms, matching get_modal_lit, which leaves the
// count stale after extraction; a split clause that later receives another
// classical literal therefore has its next modal literal split off as well.
func (c *Clause) takeModalLiteral() *formula.Formula {
	for i, d := range c.Disjuncts {
		if d.IsModal() {
			c.Disjuncts = append(c.Disjuncts[:i:i], c.Disjuncts[i+1:]...)
			return d
		}
	}
	return nil
}

// String renders the clause the way the reference ModalExpr.__str__ does,
// for diagnostics and verbose logging.
func (c *Clause) String() string {
	disjuncts := ""
	for _, d := range c.Disjuncts {
		if disjuncts == "" {
			disjuncts = d.String()
		} else {
			disjuncts += " | " + d.String()
		}
	}
	if len(c.MC) > 0 {
		return "(" + c.MC.String() + " (" + disjuncts + "))"
	}
	return "(" + disjuncts + ")"
}

func findSameContext(clauses []*Clause, mc ModalContext, mcid int) *Clause {
	for _, cl := range clauses {
		if cl.SameContext(mc, mcid) {
			return cl
		}
	}
	return nil
}

// MCF is modal clausal form: clauses grouped by depth, where depth is the
// length of the modal context they were derived under.
type MCF map[int][]*Clause

// Depths returns the depths present in the MCF in increasing order.
func (m MCF) Depths() []int {
	depths := make([]int, 0, len(m))
	for d := range m {
		depths = append(depths, d)
	}
	for i := 1; i < len(depths); i++ {
		for j := i; j > 0 && depths[j-1] > depths[j]; j-- {
			depths[j-1], depths[j] = depths[j], depths[j-1]
		}
	}
	return depths
}
