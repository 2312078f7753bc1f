package health

import (
	"github.com/mossrock/siteplan"
	"github.com/mossrock/siteplan/pkg/naming"
)

// Metric selects the health-check metric a leaf alarm watches.
type Metric string

const (
	// MetricStatus is the check's pass/fail status; the alarm fires when
	// the minimum over the evaluation period drops below the healthy
	// threshold.
	MetricStatus Metric = "status"

	// MetricLatency is the check's time-to-first-byte; the alarm fires
	// when the average exceeds the configured threshold.
	MetricLatency Metric = "latency"
)

// Composite alarm names. Stable: notification runbooks reference them.
const (
	CompositeMainAndRedirectsDown = "main-and-redirects-failing"
	CompositeRedirectsDownMainOK  = "redirects-failing-main-ok"
	CompositeMainLatencyHigh      = "main-latency-high"
)

// StatusHealthyThreshold is the healthy floor for the status metric: any
// non-passing sample trips the alarm.
const StatusHealthyThreshold = 1

// Evaluation periods: the primary alarm fires on the first bad period; every
// other status alarm waits out transient blips on less-critical names.
const (
	PrimaryEvaluationPeriods   = 1
	SecondaryEvaluationPeriods = 3
)

// AlarmRule is one alarm to provision: either a leaf metric alarm bound to a
// signal, or a composite boolean rule over other alarms' states.
type AlarmRule struct {
	Name string

	// Leaf fields; zero for composites.
	SignalFQDN        string
	Metric            Metric
	Threshold         float64
	EvaluationPeriods int

	// Expr is set only for composites.
	Expr Expr
}

// Composite reports whether the rule is a boolean composition rather than a
// metric alarm.
func (r AlarmRule) Composite() bool {
	return r.SignalFQDN == ""
}

// Options configures optional alarm composition behavior.
type Options struct {
	// LatencyThresholdMs enables the latency composite for the main
	// domain pairing when positive. Secondary redirect domains never get
	// latency alarms; they are not response-time critical.
	LatencyThresholdMs int
}

// ComposeAlarms builds the full alarm set for the given signals:
//
//   - one status alarm per signal;
//   - a composite for "main is down and redirect domains are failing too",
//     the early-warning signal that secondary-domain users are affected;
//   - a composite for "redirect domains are unhealthy while main is fine",
//     isolating CDN or certificate problems on secondary domains without
//     double-notifying during a full outage;
//   - optionally a latency composite over the main apex/www pairing.
//
// Composition is pure and deterministic: the same signal set always yields
// an identical rule list, so re-synthesis produces no diffs.
func ComposeAlarms(signals []Signal, opts Options) ([]AlarmRule, error) {
	var (
		rules         []AlarmRule
		mainDown      Expr
		haveMain      bool
		redirectLeafs []Expr
	)

	for _, signal := range signals {
		periods := SecondaryEvaluationPeriods
		if signal.Target.IsMainWWW() {
			periods = PrimaryEvaluationPeriods
		}
		rule := AlarmRule{
			Name:              signal.AlarmName(),
			SignalFQDN:        signal.Target.FQDN,
			Metric:            MetricStatus,
			Threshold:         StatusHealthyThreshold,
			EvaluationPeriods: periods,
		}
		rules = append(rules, rule)

		switch {
		case signal.Target.IsMainWWW():
			mainDown = Leaf(rule.Name)
			haveMain = true
		case signal.Target.Domain.Role == siteplan.RoleRedirect:
			redirectLeafs = append(redirectLeafs, Leaf(rule.Name))
		}
	}

	if !haveMain {
		return nil, siteplan.NewMissingRequiredConfigError(
			"signals", "alarm composition requires the main www signal")
	}

	var latencyComposite *AlarmRule
	if opts.LatencyThresholdMs > 0 {
		mainApex, mainWWW := mainPairFQDNs(signals)
		apexLatency := AlarmRule{
			Name:              naming.AlarmName(mainApex, "latency"),
			SignalFQDN:        mainApex,
			Metric:            MetricLatency,
			Threshold:         float64(opts.LatencyThresholdMs),
			EvaluationPeriods: SecondaryEvaluationPeriods,
		}
		wwwLatency := AlarmRule{
			Name:              naming.AlarmName(mainWWW, "latency"),
			SignalFQDN:        mainWWW,
			Metric:            MetricLatency,
			Threshold:         float64(opts.LatencyThresholdMs),
			EvaluationPeriods: SecondaryEvaluationPeriods,
		}
		rules = append(rules, apexLatency, wwwLatency)
		latencyComposite = &AlarmRule{
			Name: CompositeMainLatencyHigh,
			Expr: Or(Leaf(wwwLatency.Name), Leaf(apexLatency.Name)),
		}
	}

	anyRedirectDown := Or(redirectLeafs...)

	rules = append(rules,
		AlarmRule{
			Name: CompositeMainAndRedirectsDown,
			Expr: And(mainDown, anyRedirectDown),
		},
		AlarmRule{
			Name: CompositeRedirectsDownMainOK,
			Expr: And(Not(mainDown), anyRedirectDown),
		},
	)
	if latencyComposite != nil {
		rules = append(rules, *latencyComposite)
	}
	return rules, nil
}

// mainPairFQDNs returns the apex and www names of the main domain.
func mainPairFQDNs(signals []Signal) (apex, www string) {
	for _, signal := range signals {
		if signal.Target.Domain.Role != siteplan.RoleMain {
			continue
		}
		if signal.Target.Variant == siteplan.VariantApex {
			apex = signal.Target.FQDN
		} else {
			www = signal.Target.FQDN
		}
	}
	return apex, www
}
