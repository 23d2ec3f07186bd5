package formula

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParseBasic(t *testing.T) {
	cases := []struct {
		name string
		expr string
		want *Formula
	}{
		{"atom", "a", Atom("a")},
		{"true", "True", Const(true)},
		{"false", "False", Const(false)},
		{"not", "~a", Neg(Atom("a"))},
		{"and", "a & b", And(Atom("a"), Atom("b"))},
		{"or", "a | b", Or(Atom("a"), Atom("b"))},
		{"implies", "a => b", Implies(Atom("a"), Atom("b"))},
		{"iff", "a <=> b", Iff(Atom("a"), Atom("b"))},
		{"box", "[r]a", Box("r", Atom("a"))},
		{"dia", "<r>a", Dia("r", Atom("a"))},
		{"box empty id", "[]a", Box("", Atom("a"))},
		{"precedence and over or", "a | b & c", Or(Atom("a"), And(Atom("b"), Atom("c")))},
		{"precedence unary over and", "~a & b", And(Neg(Atom("a")), Atom("b"))},
		{"implies right assoc", "a => b => c", Implies(Atom("a"), Implies(Atom("b"), Atom("c")))},
		{"paren grouping", "(a | b) & c", And(Or(Atom("a"), Atom("b")), Atom("c"))},
		{"nested modality", "[r]<s>a", Box("r", Dia("s", Atom("a")))},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Parse(c.expr)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", c.expr, err)
			}
			if diff := cmp.Diff(c.want, got, cmpopts.IgnoreFields(Formula{}, "Position")); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", c.expr, diff)
			}
		})
	}
}

func TestParseDistinguishesIffFromDiamond(t *testing.T) {
	got, err := Parse("a <=> b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != NodeIff {
		t.Fatalf("expected Iff node, got %v", got.Type)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{"", "(a", "a &", "[r", "<r"}
	for _, expr := range cases {
		if _, err := Parse(expr); err == nil {
			t.Errorf("Parse(%q) expected error, got nil", expr)
		}
	}
}

func TestToNNFEliminatesImplicationsAndBiconditionals(t *testing.T) {
	f, err := Parse("a => b")
	if err != nil {
		t.Fatal(err)
	}
	got := ToNNF(f)
	want := Or(Neg(Atom("a")), Atom("b"))
	if !got.Equal(want) {
		t.Errorf("ToNNF(a => b) = %s, want %s", got, want)
	}
}

func TestToNNFDualizesModalitiesOnNegation(t *testing.T) {
	f, err := Parse("~[r]a")
	if err != nil {
		t.Fatal(err)
	}
	got := ToNNF(f)
	want := Dia("r", Neg(Atom("a")))
	if !got.Equal(want) {
		t.Errorf("ToNNF(~[r]a) = %s, want %s", got, want)
	}

	f2, err := Parse("~<r>a")
	if err != nil {
		t.Fatal(err)
	}
	got2 := ToNNF(f2)
	want2 := Box("r", Neg(Atom("a")))
	if !got2.Equal(want2) {
		t.Errorf("ToNNF(~<r>a) = %s, want %s", got2, want2)
	}
}

func TestToNNFPushesNegationViaDeMorgan(t *testing.T) {
	f, err := Parse("~(a & b)")
	if err != nil {
		t.Fatal(err)
	}
	got := ToNNF(f)
	want := Or(Neg(Atom("a")), Neg(Atom("b")))
	if !got.Equal(want) {
		t.Errorf("ToNNF(~(a & b)) = %s, want %s", got, want)
	}
}

func TestToNNFCollapsesDoubleNegation(t *testing.T) {
	f, err := Parse("~~a")
	if err != nil {
		t.Fatal(err)
	}
	got := ToNNF(f)
	if !got.Equal(Atom("a")) {
		t.Errorf("ToNNF(~~a) = %s, want a", got)
	}
}

func TestSimplifyFoldsConstants(t *testing.T) {
	cases := []struct {
		name string
		in   *Formula
		want *Formula
	}{
		{"and-false-short-circuits", And(Const(false), Atom("a")), Const(false)},
		{"and-true-drops", And(Const(true), Atom("a")), Atom("a")},
		{"or-true-short-circuits", Or(Const(true), Atom("a")), Const(true)},
		{"or-false-drops", Or(Const(false), Atom("a")), Atom("a")},
		{"not-true", Neg(Const(true)), Const(false)},
		{"not-false", Neg(Const(false)), Const(true)},
		{"implies-false-antecedent", Implies(Const(false), Atom("a")), Const(true)},
		{"implies-false-consequent", Implies(Atom("a"), Const(false)), Neg(Atom("a"))},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Simplify(c.in)
			if !got.Equal(c.want) {
				t.Errorf("Simplify(%s) = %s, want %s", c.in, got, c.want)
			}
		})
	}
}

func TestIsComplexTreatsLiteralsAsSimple(t *testing.T) {
	if Atom("a").IsComplex() {
		t.Error("bare atom should not be complex")
	}
	if Neg(Atom("a")).IsComplex() {
		t.Error("negated atom should not be complex")
	}
	if !And(Atom("a"), Atom("b")).IsComplex() {
		t.Error("conjunction should be complex")
	}
	if !Box("r", Atom("a")).IsComplex() {
		t.Error("modality should be complex")
	}
}
