package prover

import "testing"

func TestDecideEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name  string
		expr  string
		valid bool
	}{
		{"excluded middle", "p | ~p", true},
		{"contradiction", "p & ~p", false},
		{"box reflexivity of entailment", "([r]p) => ([r]p)", true},
		{"box distributes over conjunction", "([r](p & q)) => (([r]p) & ([r]q))", true},
		{"box does not imply diamond in K", "([r]p) => (<r>p)", false},
		{"K axiom", "((<r>p) & ([r](p => q))) => (<r>q)", true},
		{"box or its negation", "([r]p) | (~([r]p))", true},
		{"diamond and box negation conflict", "(<r>p) & ([r](~p))", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			valid, err := Decide(c.expr)
			if err != nil {
				t.Fatalf("Decide(%q): %v", c.expr, err)
			}
			if valid != c.valid {
				t.Errorf("Decide(%q) = %v, want %v", c.expr, valid, c.valid)
			}
		})
	}
}

func TestDecideNestedBoxChain(t *testing.T) {
	valid, err := Decide("([r1][r2]p) => ([r1][r2]p)")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !valid {
		t.Errorf("expected a tautological nested box chain to be valid")
	}
}

func TestDecideConstantFolding(t *testing.T) {
	valid, err := Decide("p | true")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !valid {
		t.Errorf("expected 'p | true' to be valid")
	}
}

func TestDecidePropagatesParseErrors(t *testing.T) {
	if _, err := Decide("p &"); err == nil {
		t.Errorf("expected a parse error for a malformed formula")
	}
}
