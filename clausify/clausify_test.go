package clausify

import (
	"testing"

	"github.com/modalk/prover/formula"
)

func parseNNF(t *testing.T, expr string) *formula.Formula {
	t.Helper()
	f, err := formula.Parse(expr)
	if err != nil {
		t.Fatalf("Parse(%q): %v", expr, err)
	}
	return formula.Simplify(formula.ToNNF(f))
}

func countClauses(mcf MCF) int {
	n := 0
	for _, clauses := range mcf {
		for range clauses {
			n++
		}
	}
	return n
}

func TestClausifySingleLiteral(t *testing.T) {
	f := parseNNF(t, "a")
	mcf, err := Clausify(f)
	if err != nil {
		t.Fatalf("Clausify: %v", err)
	}

	clauses, ok := mcf[0]
	if !ok || len(clauses) != 1 {
		t.Fatalf("expected one clause at depth 0, got %v", mcf)
	}
	if len(clauses[0].Disjuncts) != 1 || clauses[0].Disjuncts[0].Value != "a" {
		t.Fatalf("expected single disjunct 'a', got %v", clauses[0].Disjuncts)
	}
}

func TestClausifyConjunctionSplitsIntoSiblingClauses(t *testing.T) {
	f := parseNNF(t, "a & b")
	mcf, err := Clausify(f)
	if err != nil {
		t.Fatalf("Clausify: %v", err)
	}

	clauses, ok := mcf[0]
	if !ok || len(clauses) != 2 {
		t.Fatalf("expected two clauses at depth 0 for a conjunction, got %v", mcf)
	}
}

func TestClausifyDisjunctionOfLiteralsStaysOneClause(t *testing.T) {
	f := parseNNF(t, "a | b")
	mcf, err := Clausify(f)
	if err != nil {
		t.Fatalf("Clausify: %v", err)
	}

	clauses, ok := mcf[0]
	if !ok || len(clauses) != 1 {
		t.Fatalf("expected one clause at depth 0, got %v", mcf)
	}
	if len(clauses[0].Disjuncts) != 2 {
		t.Fatalf("expected two disjuncts, got %v", clauses[0].Disjuncts)
	}
}

func TestClausifyLeadingBoxesEstablishModalContext(t *testing.T) {
	f := parseNNF(t, "[r1][r2]a")
	mcf, err := Clausify(f)
	if err != nil {
		t.Fatalf("Clausify: %v", err)
	}

	clauses, ok := mcf[2]
	if !ok || len(clauses) != 1 {
		t.Fatalf("expected one clause at depth 2, got %v", mcf)
	}
	want := ModalContext{"r1", "r2"}
	if !clauses[0].MC.Equal(want) {
		t.Fatalf("expected modal context %v, got %v", want, clauses[0].MC)
	}
}

func TestClausifyDiamondOverComplexBodyExtendsContext(t *testing.T) {
	f := parseNNF(t, "<r>(a & b)")
	mcf, err := Clausify(f)
	if err != nil {
		t.Fatalf("Clausify: %v", err)
	}

	if _, ok := mcf[0]; !ok {
		t.Fatalf("expected a clause at depth 0 carrying the diamond literal, got %v", mcf)
	}
	clausesAtDepth1, ok := mcf[1]
	if !ok || len(clausesAtDepth1) == 0 {
		t.Fatalf("expected clauses at depth 1 for the diamond's body, got %v", mcf)
	}
	for _, cl := range clausesAtDepth1 {
		want := ModalContext{"r"}
		if !cl.MC.Equal(want) {
			t.Errorf("expected modal context %v, got %v", want, cl.MC)
		}
	}
}

func TestClausifyNeverProducesIllFormedClauses(t *testing.T) {
	cases := []string{
		"a",
		"a & b",
		"a | b",
		"a & b & c",
		"a | b | c",
		"[r]a",
		"<r>a",
		"[r](a & b)",
		"<r>(a | b)",
		"(a & [r]b) | (c & <r>d)",
		"[r1][r2](a | <r3>b)",
	}

	for _, expr := range cases {
		t.Run(expr, func(t *testing.T) {
			f := parseNNF(t, expr)
			mcf, err := Clausify(f)
			if err != nil {
				t.Fatalf("Clausify(%q): %v", expr, err)
			}

			for depth, clauses := range mcf {
				for _, cl := range clauses {
					if cl.NumModalAtoms > 1 {
						t.Errorf("depth %d: clause %s has more than one modal literal", depth, cl)
					}
					modal := 0
					for _, d := range cl.Disjuncts {
						if d.IsModal() {
							modal++
						}
					}
					if modal > 1 {
						t.Errorf("depth %d: clause %s has more than one modal literal", depth, cl)
					}
					if modal == 1 && len(cl.Disjuncts) > 2 {
						t.Errorf("depth %d: clause %s has more than one classical literal beside its modal literal", depth, cl)
					}
				}
			}
		})
	}
}

func TestClausifyIsDeterministicInClauseCount(t *testing.T) {
	f := parseNNF(t, "[r](a & b & c)")
	mcf1, err := Clausify(f)
	if err != nil {
		t.Fatal(err)
	}
	mcf2, err := Clausify(f)
	if err != nil {
		t.Fatal(err)
	}
	if countClauses(mcf1) != countClauses(mcf2) {
		t.Errorf("clause counts differ across runs: %d vs %d", countClauses(mcf1), countClauses(mcf2))
	}
}
