package prover

import (
	set "github.com/hashicorp/go-set/v3"

	"github.com/modalk/prover/clausify"
	"github.com/modalk/prover/constraints"
	"github.com/modalk/prover/formula"
	"github.com/modalk/prover/sat"
)

// worldState holds the constraint sets and SAT bookkeeping owned by one
// world's subtree for the duration of its exploration: its A/IB/ID/D sets
// (computed once and memoised), the valuation currently in force, and the
// blocking clauses accumulated from OR-branches already closed off. usedVals
// is set-valued - the reference implementation's used_vals[w] - with
// elements compared by clause pointer, so a blocking clause rebuilt with the
// same literals is a separate element.
type worldState struct {
	sets       constraints.Sets
	haveSets   bool
	currentVal sat.Assignment
	usedVals   *set.Set[*sat.Clause]
}

// reset clears a world's valuation and blocking history ahead of a fresh
// AND-branch attempt; its constraint sets are a pure function of the MCF
// and are kept.
func (ws *worldState) reset() {
	ws.currentVal = nil
	ws.usedVals = set.New[*sat.Clause](0)
}

// Prover runs the recursive tableau over a single modal clausal form.
type Prover struct {
	mcf    clausify.MCF
	oracle *oracle
	worlds map[int]*worldState
}

// NewProver prepares a tableau search over mcf.
func NewProver(mcf clausify.MCF) *Prover {
	return &Prover{
		mcf:    mcf,
		oracle: newOracle(),
		worlds: make(map[int]*worldState),
	}
}

func (p *Prover) worldAt(w int) *worldState {
	ws, ok := p.worlds[w]
	if !ok {
		ws = &worldState{usedVals: set.New[*sat.Clause](0)}
		p.worlds[w] = ws
	}
	if !ws.haveSets {
		ws.sets = constraints.Extract(p.mcf, w)
		ws.haveSets = true
	}
	return ws
}

// Prove decides the satisfiability of mcf at its root world - the entry
// point corresponding to the reference implementation's k_prove.
func Prove(mcf clausify.MCF) Result {
	return NewProver(mcf).prove(nil, 0)
}

// buildAHard turns a world's A-set into hard SAT clauses, dropping any
// clause trivially satisfied by a constant True disjunct.
func buildAHard(aClauses []*clausify.Clause) []*sat.Clause {
	hard := make([]*sat.Clause, 0, len(aClauses))
	for _, cl := range aClauses {
		clause, always := orClause(cl.Disjuncts)
		if always {
			continue
		}
		hard = append(hard, clause)
	}
	return hard
}

// buildHard extends aHard with a unit clause forcing every atom in
// activeMods true. A constant False atom among them makes the world
// trivially unsatisfiable, recorded as an empty clause.
func buildHard(aHard []*sat.Clause, activeMods []*formula.Formula) []*sat.Clause {
	hard := make([]*sat.Clause, 0, len(aHard)+len(activeMods))
	hard = append(hard, aHard...)
	for _, m := range activeMods {
		lit, isConst, constVal := atomToLiteral(m)
		if isConst {
			if !constVal {
				hard = append(hard, sat.NewClause())
			}
			continue
		}
		hard = append(hard, sat.NewClause(lit))
	}
	return hard
}

// prove looks for a valuation of world w's A-set that also forces every atom
// in activeMods true. A world with nothing to satisfy and nothing forced is
// vacuously Sat - unlike the reference implementation, whose equivalent
// check always evaluates false because its constraint dictionary is never
// actually empty, this checks the constraint sets themselves.
func (p *Prover) prove(activeMods []*formula.Formula, w int) Result {
	ws := p.worldAt(w)

	if ws.sets.Empty() && len(activeMods) == 0 {
		return satResult()
	}

	aHard := buildAHard(ws.sets.A)
	hard := buildHard(aHard, activeMods)

	val, ok := p.oracle.solve(hard, ws.usedVals.Slice())
	if !ok {
		offenders := p.oracle.modalOffenders(aHard, activeMods)
		return offendingResult(offenders)
	}

	ws.currentVal = val
	return p.check(activeMods, w)
}

// check finds the modal literals active under w's current valuation, opens
// an AND-branch successor world for every active diamond, and OR-branches
// by asking for a new valuation when a successor world reports which
// antecedents caused its contradiction.
func (p *Prover) check(activeMods []*formula.Formula, w int) Result {
	ws := p.worldAt(w)
	w1 := w + 1

	ibID := make([]*clausify.Clause, 0, len(ws.sets.IB)+len(ws.sets.ID))
	ibID = append(ibID, ws.sets.IB...)
	ibID = append(ibID, ws.sets.ID...)
	implied := activeModalities(p.oracle, ibID, ws.currentVal)

	boxAtoms := make([]*formula.Formula, 0)
	seenBox := set.New[string](0)
	activeDiamonds := make([]*formula.Formula, 0)
	seenDia := set.New[string](0)

	for _, imp := range implied {
		inner := modalInnerAtom(imp.Modal)
		key := inner.String()
		if imp.Modal.Type == formula.NodeBox {
			if seenBox.Insert(key) {
				boxAtoms = append(boxAtoms, inner)
			}
		} else if seenDia.Insert(key) {
			activeDiamonds = append(activeDiamonds, inner)
		}
	}

	for _, cl := range ws.sets.D {
		inner := modalInnerAtom(cl.Disjuncts[0])
		if seenDia.Insert(inner.String()) {
			activeDiamonds = append(activeDiamonds, inner)
		}
	}

	if len(activeDiamonds) == 0 {
		return satResult()
	}

	for _, diamond := range activeDiamonds {
		nextMods := make([]*formula.Formula, 0, len(boxAtoms)+1)
		nextMods = append(nextMods, boxAtoms...)
		nextMods = append(nextMods, diamond)

		result := p.prove(nextMods, w1)
		if result.Kind == Sat {
			p.worldAt(w1).reset()
			continue
		}
		if result.Kind == Closed {
			return closedResult()
		}

		// Offending: the triggers are the antecedents that, if satisfied,
		// deactivate the modal literals that caused w1's contradiction. Ask
		// the oracle to retry w's valuation preferring those antecedents
		// hold, then re-examine from scratch.
		triggers := modalTriggers(result.Offenders, implied)
		preferred := make([]sat.Literal, 0, len(triggers))
		for _, t := range triggers {
			lit, isConst, _ := atomToLiteral(t)
			if isConst {
				continue
			}
			preferred = append(preferred, lit)
		}

		p.worldAt(w1).reset()

		aHard := buildAHard(ws.sets.A)
		hard := buildHard(aHard, activeMods)
		fixed := make([]*sat.Clause, 0, len(hard)+ws.usedVals.Size())
		fixed = append(fixed, hard...)
		fixed = append(fixed, ws.usedVals.Slice()...)

		val, ok := p.oracle.solveWithPreference(fixed, preferred)
		if !ok || len(val) == 0 {
			return closedResult()
		}

		ws.usedVals.Insert(blockingClause(ws.currentVal))
		ws.currentVal = val
		return p.check(activeMods, w)
	}

	return satResult()
}
