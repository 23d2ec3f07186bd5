package constraints

import (
	"testing"

	"github.com/modalk/prover/clausify"
	"github.com/modalk/prover/formula"
)

func clausifyExpr(t *testing.T, expr string) clausify.MCF {
	t.Helper()
	f, err := formula.Parse(expr)
	if err != nil {
		t.Fatalf("Parse(%q): %v", expr, err)
	}
	nnf := formula.Simplify(formula.ToNNF(f))
	mcf, err := clausify.Clausify(nnf)
	if err != nil {
		t.Fatalf("Clausify(%q): %v", expr, err)
	}
	return mcf
}

func TestExtractClassifiesAClause(t *testing.T) {
	mcf := clausifyExpr(t, "a | b | c")
	s := Extract(mcf, 0)
	if len(s.A) != 1 {
		t.Fatalf("expected one A-clause, got %+v", s)
	}
	if len(s.IB) != 0 || len(s.ID) != 0 || len(s.D) != 0 {
		t.Fatalf("expected no modal clauses, got %+v", s)
	}
}

func TestExtractClassifiesIBClause(t *testing.T) {
	mcf := clausifyExpr(t, "a | [r]b")
	s := Extract(mcf, 0)
	if len(s.IB) != 1 {
		t.Fatalf("expected one IB-clause, got %+v", s)
	}
}

func TestExtractClassifiesIDClause(t *testing.T) {
	mcf := clausifyExpr(t, "a | <r>b")
	s := Extract(mcf, 0)
	if len(s.ID) != 1 {
		t.Fatalf("expected one ID-clause, got %+v", s)
	}
}

func TestExtractClassifiesDClause(t *testing.T) {
	mcf := clausifyExpr(t, "<r>a")
	s := Extract(mcf, 0)
	if len(s.D) != 1 {
		t.Fatalf("expected one D-clause, got %+v", s)
	}
}

func TestExtractEmptyDepthReturnsEmptySets(t *testing.T) {
	mcf := clausifyExpr(t, "a")
	s := Extract(mcf, 99)
	if !s.Empty() {
		t.Fatalf("expected empty sets at an unused depth, got %+v", s)
	}
}
