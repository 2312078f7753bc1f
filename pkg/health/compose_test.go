package health

import (
	"reflect"
	"testing"

	"github.com/mossrock/siteplan"
)

func topologySignals(t *testing.T, redirectApexes ...string) []Signal {
	t.Helper()
	main := siteplan.DomainSpec{Apex: "example.com", Role: siteplan.RoleMain, HostedZoneID: "Z1"}
	var redirects []siteplan.DomainSpec
	for _, apex := range redirectApexes {
		redirects = append(redirects, siteplan.DomainSpec{Apex: apex, Role: siteplan.RoleRedirect, HostedZoneID: "Z-" + apex})
	}
	targets, err := siteplan.Resolve(main, redirects)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	signals, err := Signals(targets, "Mossrock Digital")
	if err != nil {
		t.Fatalf("signal derivation failed: %v", err)
	}
	return signals
}

func rulesByName(rules []AlarmRule) map[string]AlarmRule {
	out := map[string]AlarmRule{}
	for _, rule := range rules {
		out[rule.Name] = rule
	}
	return out
}

func TestSignals_ContentMatchOnlyOnMainWWW(t *testing.T) {
	signals := topologySignals(t, "example.net")

	for _, signal := range signals {
		if signal.Target.IsMainWWW() {
			if signal.Kind != CheckStatusAndContentMatch || signal.ExpectedContent != "Mossrock Digital" {
				t.Fatalf("main www signal wrong: %#v", signal)
			}
			continue
		}
		if signal.Kind != CheckStatusOnly || signal.ExpectedContent != "" {
			t.Fatalf("non-primary signal must be status-only: %#v", signal)
		}
	}
}

func TestSignals_RequiresExpectedContent(t *testing.T) {
	main := siteplan.DomainSpec{Apex: "example.com", Role: siteplan.RoleMain}
	targets, err := siteplan.Resolve(main, nil)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	_, err = Signals(targets, "")
	if !siteplan.IsMissingRequiredConfig(err) {
		t.Fatalf("expected missing config error, got %v", err)
	}
}

func TestComposeAlarms_LeafSettings(t *testing.T) {
	rules, err := ComposeAlarms(topologySignals(t, "example.net"), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	byName := rulesByName(rules)

	primary := byName["www-example-com-status"]
	if primary.Composite() || primary.EvaluationPeriods != PrimaryEvaluationPeriods {
		t.Fatalf("primary alarm must fire on a single bad period: %#v", primary)
	}
	if primary.Metric != MetricStatus || primary.Threshold != StatusHealthyThreshold {
		t.Fatalf("primary alarm metric settings wrong: %#v", primary)
	}

	for _, name := range []string{"example-com-status", "example-net-status", "www-example-net-status"} {
		rule, ok := byName[name]
		if !ok {
			t.Fatalf("missing status alarm %s", name)
		}
		if rule.EvaluationPeriods != SecondaryEvaluationPeriods {
			t.Fatalf("%s must wait out transient blips: %#v", name, rule)
		}
	}
}

func TestComposeAlarms_CompositeShapes(t *testing.T) {
	rules, err := ComposeAlarms(topologySignals(t, "example.net", "example.org"), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	byName := rulesByName(rules)

	escalation := byName[CompositeMainAndRedirectsDown]
	if !escalation.Composite() {
		t.Fatalf("expected composite: %#v", escalation)
	}
	wantEscalation := `ALARM("www-example-com-status") AND (ALARM("example-net-status") OR ALARM("www-example-net-status") OR ALARM("example-org-status") OR ALARM("www-example-org-status"))`
	if got := escalation.Expr.Rule(); got != wantEscalation {
		t.Fatalf("escalation rule = %q, want %q", got, wantEscalation)
	}

	isolated := byName[CompositeRedirectsDownMainOK]
	wantIsolated := `NOT ALARM("www-example-com-status") AND (ALARM("example-net-status") OR ALARM("www-example-net-status") OR ALARM("example-org-status") OR ALARM("www-example-org-status"))`
	if got := isolated.Expr.Rule(); got != wantIsolated {
		t.Fatalf("isolated rule = %q, want %q", got, wantIsolated)
	}
}

func TestComposeAlarms_ZeroRedirects(t *testing.T) {
	rules, err := ComposeAlarms(topologySignals(t), Options{})
	if err != nil {
		t.Fatalf("composition over zero redirects must not error: %v", err)
	}
	byName := rulesByName(rules)

	escalation := byName[CompositeMainAndRedirectsDown]
	if got := escalation.Expr.Rule(); got != `ALARM("www-example-com-status") AND FALSE` {
		t.Fatalf("unexpected rule: %q", got)
	}
	if !escalation.Expr.ConstantFalse() {
		t.Fatal("escalation over zero redirects must be constant false")
	}
	if !byName[CompositeRedirectsDownMainOK].Expr.ConstantFalse() {
		t.Fatal("isolation over zero redirects must be constant false")
	}
}

func TestComposeAlarms_LatencyOptional(t *testing.T) {
	rules, err := ComposeAlarms(topologySignals(t, "example.net"), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, rule := range rules {
		if rule.Metric == MetricLatency || rule.Name == CompositeMainLatencyHigh {
			t.Fatalf("latency alarms must not exist without a threshold: %#v", rule)
		}
	}

	rules, err = ComposeAlarms(topologySignals(t, "example.net"), Options{LatencyThresholdMs: 750})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	byName := rulesByName(rules)

	apexLatency := byName["example-com-latency"]
	if apexLatency.Metric != MetricLatency || apexLatency.Threshold != 750 {
		t.Fatalf("unexpected apex latency alarm: %#v", apexLatency)
	}
	if _, ok := byName["www-example-com-latency"]; !ok {
		t.Fatal("missing www latency alarm")
	}

	// Latency composites cover only the main pairing, never secondary
	// redirect domains.
	composite := byName[CompositeMainLatencyHigh]
	want := `ALARM("www-example-com-latency") OR ALARM("example-com-latency")`
	if got := composite.Expr.Rule(); got != want {
		t.Fatalf("latency composite = %q, want %q", got, want)
	}
	if _, ok := byName["example-net-latency"]; ok {
		t.Fatal("redirect domains must not get latency alarms")
	}
}

func TestComposeAlarms_MissingMainSignal(t *testing.T) {
	redirectOnly := topologySignals(t, "example.net")[2:]
	_, err := ComposeAlarms(redirectOnly, Options{})
	if !siteplan.IsMissingRequiredConfig(err) {
		t.Fatalf("expected missing config error, got %v", err)
	}
}

func TestComposeAlarms_Deterministic(t *testing.T) {
	signals := topologySignals(t, "example.net", "example.org")
	first, err := ComposeAlarms(signals, Options{LatencyThresholdMs: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := ComposeAlarms(signals, Options{LatencyThresholdMs: 500})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced a different rule set", i)
		}
	}
}
