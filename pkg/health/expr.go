package health

import (
	"fmt"
	"strings"
)

// ExprKind tags the boolean expression nodes an alarm rule is built from.
type ExprKind string

const (
	// ExprFalse is the constant-false expression, the identity for OR over
	// an empty operand list.
	ExprFalse ExprKind = "false"
	ExprLeaf  ExprKind = "leaf"
	ExprNot   ExprKind = "not"
	ExprAnd   ExprKind = "and"
	ExprOr    ExprKind = "or"
)

// Expr is a boolean expression over named status alarms. Expressions are
// built bottom-up and never mutated, so they are acyclic by construction.
type Expr struct {
	Kind ExprKind

	// Alarm is the referenced alarm name; set only for leaves.
	Alarm string

	// Operands holds one child for NOT and one or more for AND/OR, in a
	// fixed order that must not change between runs.
	Operands []Expr
}

func False() Expr { return Expr{Kind: ExprFalse} }

func Leaf(alarm string) Expr { return Expr{Kind: ExprLeaf, Alarm: alarm} }

func Not(operand Expr) Expr { return Expr{Kind: ExprNot, Operands: []Expr{operand}} }

// And returns the conjunction of the operands. And of nothing is not a
// meaningful rule; callers always supply at least one operand.
func And(operands ...Expr) Expr { return Expr{Kind: ExprAnd, Operands: operands} }

// Or returns the disjunction of the operands. Or of zero operands is the
// constant-false identity, so composites over an empty redirect set stay
// well defined instead of erroring.
func Or(operands ...Expr) Expr {
	if len(operands) == 0 {
		return False()
	}
	return Expr{Kind: ExprOr, Operands: operands}
}

// Eval evaluates the expression against a truth assignment for the leaf
// alarms. Missing alarms evaluate to false.
func (e Expr) Eval(state map[string]bool) bool {
	switch e.Kind {
	case ExprFalse:
		return false
	case ExprLeaf:
		return state[e.Alarm]
	case ExprNot:
		return !e.Operands[0].Eval(state)
	case ExprAnd:
		for _, op := range e.Operands {
			if !op.Eval(state) {
				return false
			}
		}
		return true
	case ExprOr:
		for _, op := range e.Operands {
			if op.Eval(state) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// ConstantFalse reports whether the expression is false under every
// assignment by structural false-propagation alone (no full truth-table
// walk). The infra layer uses this to skip provisioning degenerate
// composites, e.g. the redirect composites of a topology with no redirects.
func (e Expr) ConstantFalse() bool {
	switch e.Kind {
	case ExprFalse:
		return true
	case ExprAnd:
		for _, op := range e.Operands {
			if op.ConstantFalse() {
				return true
			}
		}
		return false
	case ExprOr:
		for _, op := range e.Operands {
			if !op.ConstantFalse() {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Rule renders the expression in the CloudWatch composite-alarm rule
// language. The rendering is deterministic: identical trees render to
// identical strings, which keeps re-synthesized composites diff-free.
func (e Expr) Rule() string {
	switch e.Kind {
	case ExprFalse:
		return "FALSE"
	case ExprLeaf:
		return fmt.Sprintf("ALARM(%q)", e.Alarm)
	case ExprNot:
		return "NOT " + parenthesized(e.Operands[0])
	case ExprAnd:
		return joinOperands(e.Operands, " AND ")
	case ExprOr:
		return joinOperands(e.Operands, " OR ")
	default:
		return "FALSE"
	}
}

func joinOperands(operands []Expr, sep string) string {
	parts := make([]string, len(operands))
	for i, op := range operands {
		parts[i] = parenthesized(op)
	}
	return strings.Join(parts, sep)
}

func parenthesized(e Expr) string {
	switch e.Kind {
	case ExprAnd, ExprOr:
		return "(" + e.Rule() + ")"
	default:
		return e.Rule()
	}
}

// Leaves returns the alarm names referenced by the expression, in first-seen
// order.
func (e Expr) Leaves() []string {
	var names []string
	seen := map[string]bool{}
	var walk func(Expr)
	walk = func(node Expr) {
		if node.Kind == ExprLeaf {
			if !seen[node.Alarm] {
				seen[node.Alarm] = true
				names = append(names, node.Alarm)
			}
			return
		}
		for _, op := range node.Operands {
			walk(op)
		}
	}
	walk(e)
	return names
}
