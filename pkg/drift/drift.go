// Package drift compares a planned record set against live DNS. It is a
// read-only verification pass: nothing here mutates any resource.
package drift

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mossrock/siteplan/pkg/records"
)

// Querier resolves one record type for one name. Answers are normalized by
// the implementation: trailing dots stripped, order preserved as returned.
type Querier interface {
	Lookup(ctx context.Context, fqdn string, recordType records.Type) ([]string, error)
}

// Status classifies one record's live state against the plan.
type Status string

const (
	StatusOK       Status = "ok"
	StatusMissing  Status = "missing"
	StatusMismatch Status = "mismatch"
	StatusError    Status = "error"
)

// Finding is the drift verdict for one planned record set.
type Finding struct {
	Record records.RecordSpec
	Status Status

	// Live holds the answers observed, mismatch or not.
	Live []string

	Err error
}

// Check verifies every planned record against live DNS.
//
// Alias records resolve to provider-managed addresses that rotate freely, so
// they only need a non-empty answer; value records must match the planned
// set exactly (order-insensitive).
func Check(ctx context.Context, querier Querier, specs []records.RecordSpec) []Finding {
	findings := make([]Finding, 0, len(specs))
	for _, spec := range specs {
		findings = append(findings, checkOne(ctx, querier, spec))
	}
	return findings
}

func checkOne(ctx context.Context, querier Querier, spec records.RecordSpec) Finding {
	live, err := querier.Lookup(ctx, spec.FQDN, spec.Type)
	if err != nil {
		return Finding{Record: spec, Status: StatusError, Err: err}
	}

	finding := Finding{Record: spec, Live: live}
	if len(live) == 0 {
		finding.Status = StatusMissing
		return finding
	}
	if spec.Alias {
		finding.Status = StatusOK
		return finding
	}
	if sameValueSet(spec.Values, live) {
		finding.Status = StatusOK
	} else {
		finding.Status = StatusMismatch
	}
	return finding
}

func sameValueSet(want, got []string) bool {
	if len(want) != len(got) {
		return false
	}
	normalize := func(values []string) []string {
		out := make([]string, len(values))
		for i, value := range values {
			out[i] = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(value), "."))
		}
		sort.Strings(out)
		return out
	}
	wantNorm, gotNorm := normalize(want), normalize(got)
	for i := range wantNorm {
		if wantNorm[i] != gotNorm[i] {
			return false
		}
	}
	return true
}

// Drifted reports whether any finding is not OK.
func Drifted(findings []Finding) bool {
	for _, finding := range findings {
		if finding.Status != StatusOK {
			return true
		}
	}
	return false
}

// Summarize renders one line per non-OK finding.
func Summarize(findings []Finding) []string {
	var lines []string
	for _, finding := range findings {
		switch finding.Status {
		case StatusOK:
		case StatusError:
			lines = append(lines, fmt.Sprintf("%s %s: lookup failed: %v",
				finding.Record.FQDN, finding.Record.Type, finding.Err))
		case StatusMissing:
			lines = append(lines, fmt.Sprintf("%s %s: no live records",
				finding.Record.FQDN, finding.Record.Type))
		case StatusMismatch:
			lines = append(lines, fmt.Sprintf("%s %s: want %v, live %v",
				finding.Record.FQDN, finding.Record.Type, finding.Record.Values, finding.Live))
		}
	}
	return lines
}
