package prover

import (
	set "github.com/hashicorp/go-set/v3"

	"github.com/modalk/prover/formula"
	"github.com/modalk/prover/sat"
)

// oracle adapts the sat package's CDCL solver and MaxSAT solver to the
// three operations the tableau depends on (design notes, §9): a hard solve
// returning an assignment or unsat, blocking-clause accumulation for model
// enumeration, and a weighted soft solve for the "deactivate modalities"
// MaxSAT step.
type oracle struct {
	solver sat.Solver
	maxsat sat.MAXSATSolver
}

func newOracle() *oracle {
	return &oracle{
		solver: sat.NewCDCLSolver(),
		maxsat: sat.NewMAXSATSolver(),
	}
}

// solvePlain looks for any assignment satisfying every clause in fixed.
func (o *oracle) solvePlain(fixed []*sat.Clause) (sat.Assignment, bool) {
	cnf := sat.NewCNF()
	for _, cl := range fixed {
		cnf.AddClause(cl)
	}
	result := o.solver.Solve(cnf)
	if result == nil || !result.Satisfiable {
		return nil, false
	}
	return result.Assignment, true
}

// solve looks for an assignment satisfying hard together with every
// previously accumulated blocking clause.
func (o *oracle) solve(hard, blocked []*sat.Clause) (sat.Assignment, bool) {
	if len(blocked) == 0 {
		return o.solvePlain(hard)
	}
	fixed := make([]*sat.Clause, 0, len(hard)+len(blocked))
	fixed = append(fixed, hard...)
	fixed = append(fixed, blocked...)
	return o.solvePlain(fixed)
}

// solveSoft finds an assignment satisfying every clause in fixed while
// maximising how many of the preferred literals it can also satisfy,
// weighting fixed clauses heavily enough that they always win out over the
// preferences during the MaxSAT binary search.
func (o *oracle) solveSoft(fixed []*sat.Clause, preferred []sat.Literal) sat.Assignment {
	cnf := sat.NewCNF()
	weights := make([]float64, 0, len(fixed)+len(preferred))

	hardWeight := float64(len(preferred)) + 1
	for _, cl := range fixed {
		cnf.AddClause(cl)
		weights = append(weights, hardWeight)
	}
	for _, lit := range preferred {
		cnf.AddClause(sat.NewClause(lit))
		weights = append(weights, 1.0)
	}

	if len(cnf.Clauses) == 0 {
		return sat.Assignment{}
	}

	result := o.maxsat.SolveWeightedMAXSAT(cnf, weights)
	if result == nil {
		return nil
	}
	return result.Assignment
}

// solveWithPreference retries a hard solve while softly preferring the
// given literals to hold, falling back to a plain solve when there is
// nothing to prefer. The returned assignment is verified against fixed
// since the MaxSAT threshold search can, in principle, settle on a model
// that does not actually satisfy every hard clause when none exists.
func (o *oracle) solveWithPreference(fixed []*sat.Clause, preferred []sat.Literal) (sat.Assignment, bool) {
	if len(preferred) == 0 {
		return o.solvePlain(fixed)
	}

	assignment := o.solveSoft(fixed, preferred)
	if assignment == nil {
		return nil, false
	}
	for _, cl := range fixed {
		if !assignment.Satisfies(cl) {
			return nil, false
		}
	}
	return assignment, true
}

// deactivateModalities asks the MaxSAT oracle for a valuation that agrees
// with val on every literal it assigns, while maximising how many of
// active's antecedents it can additionally satisfy. Implications whose
// antecedent remains falsified in that relaxed valuation stay active; the
// rest are dropped, since a model exists in which their antecedent holds
// and the modal consequent need not be forced.
func (o *oracle) deactivateModalities(active []implication, val sat.Assignment) []implication {
	if len(active) == 0 {
		return nil
	}

	fixed := make([]*sat.Clause, 0, len(val))
	for v, b := range val {
		fixed = append(fixed, sat.NewClause(sat.Literal{Variable: v, Negated: !b}))
	}

	preferred := make([]sat.Literal, 0, len(active))
	for _, imp := range active {
		lit, isConst, _ := atomToLiteral(imp.Antecedent)
		if isConst {
			continue
		}
		preferred = append(preferred, lit)
	}

	relaxed := o.solveSoft(fixed, preferred)

	remaining := make([]implication, 0, len(active))
	for _, imp := range active {
		if antecedentFalsified(imp.Antecedent, relaxed) {
			remaining = append(remaining, imp)
		}
	}
	return remaining
}

// modalOffenders tests, for each distinct atom forced true in activeMods,
// whether aHard conjoined with just that single atom is unsatisfiable in
// isolation. The atoms for which it is are returned as the set responsible
// for this world's contradiction - the reference implementation's
// get_modal_offenders.
func (o *oracle) modalOffenders(aHard []*sat.Clause, activeMods []*formula.Formula) []*formula.Formula {
	offenders := make([]*formula.Formula, 0)
	seen := set.New[string](0)

	for _, m := range activeMods {
		if !seen.Insert(m.String()) {
			continue
		}

		lit, isConst, constVal := atomToLiteral(m)
		if isConst {
			if !constVal {
				offenders = append(offenders, m)
			}
			continue
		}

		probe := make([]*sat.Clause, 0, len(aHard)+1)
		probe = append(probe, aHard...)
		probe = append(probe, sat.NewClause(lit))

		if _, ok := o.solvePlain(probe); !ok {
			offenders = append(offenders, m)
		}
	}

	return offenders
}

// atomToLiteral converts a classical literal (an atom, a negated atom, or
// one of the propositional constants) into a SAT literal. isConst reports
// whether f collapsed to a constant instead, in which case constVal is its
// truth value and lit is meaningless - the reference implementation's
// get_bool, generalised to report constants rather than raising for them.
func atomToLiteral(f *formula.Formula) (lit sat.Literal, isConst bool, constVal bool) {
	switch f.Type {
	case formula.NodeAtom:
		return sat.Literal{Variable: f.Value}, false, false
	case formula.NodeConst:
		return sat.Literal{}, true, f.IsTop()
	case formula.NodeNot:
		inner := f.Children[0]
		if inner.Type == formula.NodeConst {
			return sat.Literal{}, true, inner.IsBottom()
		}
		return sat.Literal{Variable: inner.Value, Negated: true}, false, false
	default:
		return sat.Literal{}, true, false
	}
}

// antecedentFalsified reports whether antecedent is not known to hold under
// val: an unassigned variable is conservatively treated as falsified, the
// reference implementation's check_activation literal test.
func antecedentFalsified(antecedent *formula.Formula, val sat.Assignment) bool {
	lit, isConst, constVal := atomToLiteral(antecedent)
	if isConst {
		return !constVal
	}
	v, ok := val[lit.Variable]
	holds := ok && (v != lit.Negated)
	return !holds
}

// blockingClause builds a clause that excludes model: it is satisfied only
// by an assignment that disagrees with model on at least one variable.
func blockingClause(model sat.Assignment) *sat.Clause {
	lits := make([]sat.Literal, 0, len(model))
	for v, val := range model {
		lits = append(lits, sat.Literal{Variable: v, Negated: val})
	}
	return sat.NewClause(lits...)
}

// orClause builds the disjunction of a classical clause's literals. always
// reports whether the clause is trivially satisfied by a constant True
// disjunct, in which case lits is meaningless.
func orClause(disjuncts []*formula.Formula) (cl *sat.Clause, always bool) {
	lits := make([]sat.Literal, 0, len(disjuncts))
	for _, d := range disjuncts {
		lit, isConst, constVal := atomToLiteral(d)
		if isConst {
			if constVal {
				return nil, true
			}
			continue
		}
		lits = append(lits, lit)
	}
	return sat.NewClause(lits...), false
}
