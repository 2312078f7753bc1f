// Package health derives the health checks and alarm rules for a resolved
// site topology: one status signal per DNS name, per-signal status alarms,
// and a small set of de-duplicated composite alarms over them.
package health

import (
	"github.com/mossrock/siteplan"
	"github.com/mossrock/siteplan/pkg/naming"
)

// CheckKind selects how a signal's endpoint is probed.
type CheckKind string

const (
	// CheckStatusOnly verifies connectivity and HTTP status.
	CheckStatusOnly CheckKind = "status"

	// CheckStatusAndContentMatch additionally verifies the response body
	// contains an expected string, proving real page content is served
	// rather than a provider error page.
	CheckStatusAndContentMatch CheckKind = "status-and-content"
)

// Signal is a named boolean health indicator bound to one subdomain target.
type Signal struct {
	Target siteplan.SubdomainTarget
	Kind   CheckKind

	// ExpectedContent is required iff Kind is CheckStatusAndContentMatch.
	ExpectedContent string
}

// AlarmName returns the deterministic name of the status alarm watching this
// signal.
func (s Signal) AlarmName() string {
	return naming.AlarmName(s.Target.FQDN, "status")
}

// Signals derives one health signal per target. The main www target serves
// the actual site content and is the only one content-matched; every other
// name only needs a connectivity check.
func Signals(targets []siteplan.SubdomainTarget, expectedContent string) ([]Signal, error) {
	signals := make([]Signal, 0, len(targets))
	for _, target := range targets {
		signal := Signal{Target: target, Kind: CheckStatusOnly}
		if target.IsMainWWW() {
			if expectedContent == "" {
				return nil, siteplan.NewMissingRequiredConfigError(
					"monitoring.expected_content",
					"the main www health check matches page content and needs an expected string")
			}
			signal.Kind = CheckStatusAndContentMatch
			signal.ExpectedContent = expectedContent
		}
		signals = append(signals, signal)
	}
	return signals, nil
}
