package clausify

import (
	"fmt"

	"github.com/modalk/prover/core"
	"github.com/modalk/prover/formula"
)

// Context carries the mutable state threaded through one clausification
// run: a Tseitin fresh-atom counter and a running high-water mark for
// mc-ids, mirroring the reference implementation's p_id and max_mc_id
// module-level globals.
type Context struct {
	nextAtomID int
	maxMCID    int
}

// NewContext returns a fresh clausification context.
func NewContext() *Context {
	return &Context{}
}

func (c *Context) freshAtom() *formula.Formula {
	name := fmt.Sprintf("p_%d", c.nextAtomID)
	c.nextAtomID++
	return formula.Atom(name)
}

func (c *Context) bumpMaxMCID(mcid int) {
	if mcid > c.maxMCID {
		c.maxMCID = mcid
	}
}

// Clausify transforms a formula already in negation normal form into modal
// clausal form.
func Clausify(nnf *formula.Formula) (MCF, error) {
	ctx := NewContext()
	mc, body := splitLeadingBoxes(nnf, nil)
	mcf := make(MCF)
	if err := ctx.toMCF(mc, body, mcf, 0, false); err != nil {
		return nil, err
	}
	return mcf, nil
}

// splitLeadingBoxes peels the leading chain of box modalities off f,
// returning the modal context they establish and the remaining body - the
// reference implementation's get_mc.
func splitLeadingBoxes(f *formula.Formula, mc ModalContext) (ModalContext, *formula.Formula) {
	if f.Type == formula.NodeBox {
		return splitLeadingBoxes(f.Children[0], append(mc, f.ModalID))
	}
	return mc, f
}

// toMCF dispatches a formula to its connective-specific transform, or files
// it as a classical literal if it has no structure worth splitting on -
// the reference implementation's to_mcf.
func (c *Context) toMCF(mc ModalContext, f *formula.Formula, mcf MCF, mcid int, distributive bool) error {
	if f == nil {
		return mcfError(f)
	}

	if f.IsComplex() {
		switch f.Type {
		case formula.NodeAnd:
			return c.mcfAnd(mc, f, mcf, mcid, distributive)
		case formula.NodeOr:
			return c.mcfOr(mc, f, mcf, mcid)
		case formula.NodeBox, formula.NodeDia:
			return c.mcfModality(mc, f, mcf, mcid, distributive)
		default:
			return mcfError(f)
		}
	}

	return c.mcfClassicalAtom(mc, f, mcf, mcid)
}

func (c *Context) mcfClassicalAtom(mc ModalContext, f *formula.Formula, mcf MCF, mcid int) error {
	return c.createMC(mc, mcid, mcf, f)
}

// mcfOr applies the reference's mcf_or case analysis: two simple disjuncts
// are filed directly, a simple/complex pair is distributed or filed
// depending on the complex side's connective and on whether the simple side
// is already the clause's sole other conjunct, and two complex disjuncts are
// each recursed into with distributive set: a conjunction or modality among
// them is named by a fresh Tseitin atom, a nested disjunction is flattened
// into the current clause.
func (c *Context) mcfOr(mc ModalContext, f *formula.Formula, mcf MCF, mcid int) error {
	left, right := f.Children[0], f.Children[1]
	leftComplex, rightComplex := left.IsComplex(), right.IsComplex()

	if leftComplex && rightComplex {
		if err := c.toMCF(mc, left, mcf, mcid, true); err != nil {
			return err
		}
		return c.toMCF(mc, right, mcf, mcid, true)
	}

	if !leftComplex && !rightComplex {
		if err := c.toMCF(mc, left, mcf, mcid, false); err != nil {
			return err
		}
		return c.toMCF(mc, right, mcf, mcid, false)
	}

	var complex, simple *formula.Formula
	if rightComplex {
		complex, simple = right, left
	} else {
		complex, simple = left, right
	}

	sameContext := false
	if clauses, ok := mcf[len(mc)]; ok {
		sameContext = findSameContext(clauses, mc, mcid) != nil
	}

	switch {
	case complex.Type == formula.NodeOr || sameContext:
		if err := c.toMCF(mc, simple, mcf, mcid, false); err != nil {
			return err
		}
		return c.toMCF(mc, complex, mcf, mcid, false)

	case complex.Type == formula.NodeAnd:
		comLeft, comRight := complex.Children[0], complex.Children[1]
		distributed := formula.And(formula.Or(simple, comLeft), formula.Or(simple, comRight))
		return c.toMCF(mc, distributed, mcf, mcid, false)

	case complex.IsModal():
		if err := c.toMCF(mc, simple, mcf, mcid, false); err != nil {
			return err
		}
		return c.toMCF(mc, complex, mcf, mcid, false)

	default:
		return mcfError(f)
	}
}

// mcfAnd applies the reference's mcf_and: a top-level conjunction splits
// into two independent sibling contexts identified by fresh mc-ids, unless
// it appears nested inside an OR, in which case it is extracted behind a
// fresh Tseitin atom and reprocessed non-distributively.
func (c *Context) mcfAnd(mc ModalContext, f *formula.Formula, mcf MCF, mcid int, distributive bool) error {
	left, right := f.Children[0], f.Children[1]
	c.bumpMaxMCID(mcid)

	if !distributive {
		leftMC, leftBody := splitLeadingBoxes(left, append(ModalContext(nil), mc...))
		c.maxMCID++
		if err := c.toMCF(leftMC, leftBody, mcf, c.maxMCID, false); err != nil {
			return err
		}

		rightMC, rightBody := splitLeadingBoxes(right, append(ModalContext(nil), mc...))
		c.maxMCID += 3
		return c.toMCF(rightMC, rightBody, mcf, c.maxMCID, false)
	}

	atom := c.freshAtom()
	if err := c.toMCF(mc, atom, mcf, mcid, false); err != nil {
		return err
	}
	updated := formula.Or(formula.Neg(atom), f)
	c.maxMCID++
	return c.toMCF(mc, updated, mcf, c.maxMCID, false)
}

// mcfModality applies the reference's mcf_modality. A modality over a
// literal files directly as a modal literal. A modality over a complex body
// is extracted: a fresh atom stands for the modality in the current clause
// (padded with an explicit false literal if the clause would otherwise be
// empty), and the modality's universal counterpart - always a box, whether
// the original was a box or a diamond - extends the modal context for the
// recursive transform of "~atom | body". A clause that already carries two
// atoms at this depth falls back to the same fresh-atom extraction used for
// modalities nested under OR.
func (c *Context) mcfModality(mc ModalContext, f *formula.Formula, mcf MCF, mcid int, distributive bool) error {
	nested := f.Children[0]
	c.bumpMaxMCID(mcid)

	if !distributive {
		if !nested.IsComplex() {
			return c.createMC(mc, mcid, mcf, f)
		}

		atomsInContext := c.getNumAtoms(mc, mcid, mcf)
		atom := c.freshAtom()

		if atomsInContext == 0 {
			if err := c.createMC(mc, mcid, mcf, formula.Const(false)); err != nil {
				return err
			}
		}

		if atomsInContext <= 1 {
			c.maxMCID += 2
			wrap := formula.Dia
			if f.Type == formula.NodeBox {
				wrap = formula.Box
			}
			if err := c.createMC(mc, mcid, mcf, wrap(f.ModalID, atom)); err != nil {
				return err
			}

			updatedMC := append(append(ModalContext(nil), mc...), f.ModalID)
			updated := formula.Or(formula.Neg(atom), nested)
			return c.toMCF(updatedMC, updated, mcf, c.maxMCID, false)
		}

		return c.toMCF(mc, f, mcf, mcid, true)
	}

	atom := c.freshAtom()
	if err := c.toMCF(mc, atom, mcf, mcid, false); err != nil {
		return err
	}
	updated := formula.Or(formula.Neg(atom), f)
	c.maxMCID += 2
	return c.toMCF(mc, updated, mcf, c.maxMCID, false)
}

// createMC files lit into the clause recorded at depth len(mc) for mcid,
// creating that clause if needed. When filing forces an existing clause to
// split, the resulting linking clause is recursively clausified under a
// fresh mc-id - the reference implementation's create_mc.
func (c *Context) createMC(mc ModalContext, mcid int, mcf MCF, lit *formula.Formula) error {
	c.bumpMaxMCID(mcid)
	key := len(mc)

	clauses, ok := mcf[key]
	if !ok {
		cl := newClause(mc, mcid)
		if _, err := c.addDisjunct(cl, lit); err != nil {
			return err
		}
		mcf[key] = []*Clause{cl}
		return nil
	}

	if cl := findSameContext(clauses, mc, mcid); cl != nil {
		extra, err := c.addDisjunct(cl, lit)
		if err != nil {
			return err
		}
		if extra != nil {
			c.maxMCID += 2
			return c.toMCF(mc, extra, mcf, c.maxMCID, false)
		}
		return nil
	}

	cl := newClause(mc, mcid)
	if _, err := c.addDisjunct(cl, lit); err != nil {
		return err
	}
	mcf[key] = append(mcf[key], cl)
	return nil
}

// addDisjunct appends lit to cl if it still fits the well-formed shape (at
// most one modal literal, and at most one classical literal beside it).
// When it does not fit, the offending modal literal is replaced by a fresh
// placeholder atom and returned wrapped as "~placeholder | offending" for
// the caller to clausify as a separate linking clause - the reference
// implementation's ModalExpr.add_disjunct / adjust_modal_literal.
func (c *Context) addDisjunct(cl *Clause, lit *formula.Formula) (*formula.Formula, error) {
	if !lit.IsComplex() {
		cl.Disjuncts = append(cl.Disjuncts, lit)
		cl.NumPropAtoms++

		if cl.NumModalAtoms >= 1 && cl.NumPropAtoms > 1 {
			offending := cl.takeModalLiteral()
			return c.splitOffModalLiteral(cl, offending), nil
		}
		return nil, nil
	}

	if lit.IsModal() {
		if cl.NumModalAtoms == 0 && cl.NumPropAtoms <= 1 {
			cl.Disjuncts = append(cl.Disjuncts, lit)
			cl.NumModalAtoms++
			return nil, nil
		}
		return c.splitOffModalLiteral(cl, lit), nil
	}

	return nil, mcfError(lit)
}

// splitOffModalLiteral installs a fresh placeholder atom in cl in place of
// offending and returns "~placeholder | offending" for separate
// clausification. It does not adjust cl's atom counts, matching
// adjust_modal_literal, which leaves them as they stood before the split.
func (c *Context) splitOffModalLiteral(cl *Clause, offending *formula.Formula) *formula.Formula {
	atom := c.freshAtom()
	cl.Disjuncts = append(cl.Disjuncts, atom)
	return formula.Or(formula.Neg(atom), offending)
}

// getNumAtoms reports how many atoms already occupy the clause at depth
// len(mc) for mcid: 0 if no such clause exists yet, 2 if the clause already
// holds a modal literal or two classical literals (i.e. is full), and 1
// otherwise - the reference implementation's get_num_atoms.
func (c *Context) getNumAtoms(mc ModalContext, mcid int, mcf MCF) int {
	clauses, ok := mcf[len(mc)]
	if !ok {
		return 0
	}

	cl := findSameContext(clauses, mc, mcid)
	if cl == nil {
		return 0
	}

	classicAtoms := 0
	for _, d := range cl.Disjuncts {
		if !d.IsComplex() {
			classicAtoms++
			if classicAtoms > 1 {
				return 2
			}
		} else if d.IsModal() {
			return 2
		}
	}
	return 1
}

func mcfError(f *formula.Formula) error {
	desc := "<nil>"
	if f != nil {
		desc = f.String()
	}
	return core.NewLogicError("clausify", "toMCF", fmt.Sprintf("ill-formed formula in clausification: %s", desc))
}
