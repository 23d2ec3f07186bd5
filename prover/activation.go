package prover

import (
	set "github.com/hashicorp/go-set/v3"

	"github.com/modalk/prover/clausify"
	"github.com/modalk/prover/formula"
	"github.com/modalk/prover/sat"
)

// checkActivation looks at an IB or ID clause - one classical literal paired
// with one modal literal - and reports whether the classical antecedent is
// falsified under val, in which case the modal literal must hold for the
// clause to be satisfied: the reference implementation's check_activation.
func checkActivation(cl *clausify.Clause, val sat.Assignment) (implication, bool) {
	var classical, modal *formula.Formula
	for _, d := range cl.Disjuncts {
		if d.IsComplex() {
			modal = d
		} else {
			classical = d
		}
	}
	if classical == nil || modal == nil {
		return implication{}, false
	}
	if antecedentFalsified(classical, val) {
		return implication{Modal: modal, Antecedent: classical}, true
	}
	return implication{}, false
}

// activeModalities scans every IB/ID clause for an antecedent falsified
// under val, then asks the oracle to deactivate as many of those
// implications as it can while keeping val's assignments fixed: the
// reference implementation's get_active_modalities.
func activeModalities(o *oracle, ibID []*clausify.Clause, val sat.Assignment) []implication {
	active := make([]implication, 0, len(ibID))
	for _, cl := range ibID {
		if imp, ok := checkActivation(cl, val); ok {
			active = append(active, imp)
		}
	}
	return o.deactivateModalities(active, val)
}

// modalTriggers collects the antecedent of every implication whose modal
// literal's inner atom appears in offending: the reference implementation's
// get_modal_triggers. The result is deduplicated by antecedent text, since
// distinct offending atoms or distinct implications can name the same
// antecedent and the caller only wants each preferred once.
func modalTriggers(offending []*formula.Formula, implied []implication) []*formula.Formula {
	triggers := make([]*formula.Formula, 0)
	seen := set.New[string](0)
	for _, atom := range offending {
		for _, imp := range implied {
			if modalInnerAtom(imp.Modal).Equal(atom) && seen.Insert(imp.Antecedent.String()) {
				triggers = append(triggers, imp.Antecedent)
			}
		}
	}
	return triggers
}
