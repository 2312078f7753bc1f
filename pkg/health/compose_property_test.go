package health

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/mossrock/siteplan"
)

func genTopologySignals(t *rapid.T) []Signal {
	redirectCount := rapid.IntRange(0, 4).Draw(t, "redirectCount")

	main := siteplan.DomainSpec{Apex: "example.com", Role: siteplan.RoleMain, HostedZoneID: "Z1"}
	var redirects []siteplan.DomainSpec
	for i := 0; i < redirectCount; i++ {
		redirects = append(redirects, siteplan.DomainSpec{
			Apex:         fmt.Sprintf("redirect%d.net", i),
			Role:         siteplan.RoleRedirect,
			HostedZoneID: fmt.Sprintf("Z-%d", i),
		})
	}

	targets, err := siteplan.Resolve(main, redirects)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	signals, err := Signals(targets, "expected content")
	if err != nil {
		t.Fatalf("signal derivation failed: %v", err)
	}
	return signals
}

// The escalation composite requires the main alarm to fire; the isolation
// composite negates it. For every possible assignment of alarm states the
// two can never be true together, which is what keeps a redirect-only
// incident from paging twice during a full outage.
func TestCompositesMutuallyExclusive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		signals := genTopologySignals(t)
		rules, err := ComposeAlarms(signals, Options{})
		if err != nil {
			t.Fatalf("compose failed: %v", err)
		}

		var escalation, isolation Expr
		for _, rule := range rules {
			switch rule.Name {
			case CompositeMainAndRedirectsDown:
				escalation = rule.Expr
			case CompositeRedirectsDownMainOK:
				isolation = rule.Expr
			}
		}

		leaves := map[string]bool{}
		for _, name := range append(escalation.Leaves(), isolation.Leaves()...) {
			leaves[name] = true
		}
		var names []string
		for name := range leaves {
			names = append(names, name)
		}

		// Exhaustive walk of all 2^n assignments; n is at most 9 here.
		for mask := 0; mask < 1<<len(names); mask++ {
			state := map[string]bool{}
			for i, name := range names {
				state[name] = mask&(1<<i) != 0
			}
			if escalation.Eval(state) && isolation.Eval(state) {
				t.Fatalf("both composites true for state %v", state)
			}
		}
	})
}

// Composition must be a pure function of its input: identical signal sets
// yield identical rule trees, rendered rules included.
func TestComposeDeterministicProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		signals := genTopologySignals(t)
		latency := rapid.SampledFrom([]int{0, 250, 1000}).Draw(t, "latency")

		first, err := ComposeAlarms(signals, Options{LatencyThresholdMs: latency})
		if err != nil {
			t.Fatalf("compose failed: %v", err)
		}
		second, err := ComposeAlarms(signals, Options{LatencyThresholdMs: latency})
		if err != nil {
			t.Fatalf("compose failed: %v", err)
		}

		if len(first) != len(second) {
			t.Fatalf("rule count changed between runs: %d != %d", len(first), len(second))
		}
		for i := range first {
			if first[i].Name != second[i].Name {
				t.Fatalf("rule %d name changed: %q != %q", i, first[i].Name, second[i].Name)
			}
			if first[i].Expr.Rule() != second[i].Expr.Rule() {
				t.Fatalf("rule %d rendering changed", i)
			}
		}
	})
}

// Every composite leaf must reference a status alarm that exists for the
// current topology.
func TestCompositeLeavesExist(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		signals := genTopologySignals(t)
		rules, err := ComposeAlarms(signals, Options{})
		if err != nil {
			t.Fatalf("compose failed: %v", err)
		}

		known := map[string]bool{}
		for _, rule := range rules {
			if !rule.Composite() {
				known[rule.Name] = true
			}
		}
		for _, rule := range rules {
			if !rule.Composite() {
				continue
			}
			for _, leaf := range rule.Expr.Leaves() {
				if !known[leaf] {
					t.Fatalf("composite %q references unknown alarm %q", rule.Name, leaf)
				}
			}
		}
	})
}
