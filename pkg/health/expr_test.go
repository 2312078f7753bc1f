package health

import (
	"reflect"
	"testing"
)

func TestExpr_Rule(t *testing.T) {
	cases := []struct {
		expr Expr
		want string
	}{
		{False(), "FALSE"},
		{Leaf("a"), `ALARM("a")`},
		{Not(Leaf("a")), `NOT ALARM("a")`},
		{And(Leaf("a"), Leaf("b")), `ALARM("a") AND ALARM("b")`},
		{Or(Leaf("a"), Leaf("b")), `ALARM("a") OR ALARM("b")`},
		{And(Leaf("a"), Or(Leaf("b"), Leaf("c"))), `ALARM("a") AND (ALARM("b") OR ALARM("c"))`},
		{And(Not(Leaf("a")), Or(Leaf("b"))), `NOT ALARM("a") AND (ALARM("b"))`},
		{And(Leaf("a"), Or()), `ALARM("a") AND FALSE`},
		{Not(And(Leaf("a"), Leaf("b"))), `NOT (ALARM("a") AND ALARM("b"))`},
	}
	for _, tc := range cases {
		if got := tc.expr.Rule(); got != tc.want {
			t.Fatalf("Rule() = %q, want %q", got, tc.want)
		}
	}
}

func TestExpr_Eval(t *testing.T) {
	state := map[string]bool{"a": true, "b": false}

	if False().Eval(state) {
		t.Fatal("FALSE evaluated true")
	}
	if !Leaf("a").Eval(state) || Leaf("b").Eval(state) || Leaf("missing").Eval(state) {
		t.Fatal("leaf evaluation wrong")
	}
	if !Not(Leaf("b")).Eval(state) {
		t.Fatal("NOT evaluation wrong")
	}
	if And(Leaf("a"), Leaf("b")).Eval(state) {
		t.Fatal("AND evaluation wrong")
	}
	if !Or(Leaf("a"), Leaf("b")).Eval(state) {
		t.Fatal("OR evaluation wrong")
	}
	if Or().Eval(state) {
		t.Fatal("empty OR must evaluate false")
	}
}

func TestExpr_EmptyOrIsFalseIdentity(t *testing.T) {
	if Or().Kind != ExprFalse {
		t.Fatalf("Or() should reduce to the false constant, got %v", Or().Kind)
	}
}

func TestExpr_ConstantFalse(t *testing.T) {
	cases := []struct {
		expr Expr
		want bool
	}{
		{False(), true},
		{Leaf("a"), false},
		{And(Leaf("a"), False()), true},
		{And(Leaf("a"), Leaf("b")), false},
		{Or(False(), False()), true},
		{Or(False(), Leaf("a")), false},
		{And(Not(Leaf("a")), Or()), true},
		{Not(False()), false},
	}
	for _, tc := range cases {
		if got := tc.expr.ConstantFalse(); got != tc.want {
			t.Fatalf("ConstantFalse(%s) = %v, want %v", tc.expr.Rule(), got, tc.want)
		}
	}
}

func TestExpr_Leaves(t *testing.T) {
	expr := And(Leaf("a"), Or(Leaf("b"), Leaf("a"), Not(Leaf("c"))))
	if got := expr.Leaves(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected leaves: %v", got)
	}
	if got := False().Leaves(); len(got) != 0 {
		t.Fatalf("FALSE has no leaves, got %v", got)
	}
}
