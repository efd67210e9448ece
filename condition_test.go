package bench

import "testing"

func TestParseWhileClause_LiteralComparisons(t *testing.T) {
	cases := []struct {
		clause string
		want   bool
	}{
		{"5<10", true},
		{"10<5", false},
		{"7=7", true},
		{"7=8", false},
		{"9>3", true},
		{"3>9", false},
	}
	for _, c := range cases {
		cond, err := parseWhileClause(c.clause)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.clause, err)
		}
		if got := cond.Eval(nil); got != c.want {
			t.Fatalf("%s: got %v, want %v", c.clause, got, c.want)
		}
	}
}

func TestParseWhileClause_VariableOperand(t *testing.T) {
	v := NewVariables()
	v.Set("count", "4")
	cond, err := parseWhileClause("$count<10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cond.Eval(v) {
		t.Fatalf("expected $count<10 to be true with count=4")
	}
	v.Set("count", "20")
	if cond.Eval(v) {
		t.Fatalf("expected $count<10 to be false with count=20")
	}
}

func TestParseWhileClause_AmbiguousFoldsToAlwaysTrue(t *testing.T) {
	ambiguous := []string{"", "noop", "=5=", "<", "5=5=5"}
	for _, clause := range ambiguous {
		cond, err := parseWhileClause(clause)
		if err == nil {
			t.Fatalf("%q: expected a warning error for an ambiguous clause", clause)
		}
		if !cond.Eval(nil) {
			t.Fatalf("%q: expected fold to always-true", clause)
		}
	}
}

func TestBlock_WhileClauseGatesIteration(t *testing.T) {
	tree, err := ParseString(`<?gen.variable name=n default=0 ?><?gen.begin while=$n<1 ?>skip<?gen.end ?>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := tree.GenerateToString(0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "0skip" {
		t.Fatalf("got %q, want %q", out, "0skip")
	}

	if err := tree.SetVariables("{n=1}"); err != nil {
		t.Fatalf("set variables: %v", err)
	}
	out, err = tree.GenerateToString(0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "1" {
		t.Fatalf("got %q, want %q", out, "1")
	}
}
