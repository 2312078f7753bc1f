// Package plan assembles a complete infrastructure plan from a validated
// site configuration: resolve the domain topology, derive the record sets,
// derive the health signals, compose the alarms. The whole pass is pure and
// fail-fast; an error means no plan at all, never a partial one.
package plan

import (
	"github.com/mossrock/siteplan"
	"github.com/mossrock/siteplan/pkg/config"
	"github.com/mossrock/siteplan/pkg/health"
	"github.com/mossrock/siteplan/pkg/records"
)

// Plan is the fully resolved output of one planning run. Everything in it is
// recomputed from configuration on every run; nothing is persisted.
type Plan struct {
	// RunID correlates log lines and findings from this run. It is the
	// only non-deterministic field and never feeds resource naming.
	RunID string

	Site *config.Site

	Targets []siteplan.SubdomainTarget
	Records []records.RecordSpec
	Signals []health.Signal
	Alarms  []health.AlarmRule
}

// Build runs the full planning pass for a validated site configuration.
func Build(site *config.Site) (*Plan, error) {
	return build(site, siteplan.ULIDRunIDGenerator{})
}

func build(site *config.Site, ids siteplan.RunIDGenerator) (*Plan, error) {
	if err := site.Validate(); err != nil {
		return nil, err
	}

	targets, err := siteplan.Resolve(site.MainSpec(), site.RedirectSpecs())
	if err != nil {
		return nil, err
	}

	recs, err := records.BuildAll(targets, records.Options{
		PagesHost: site.PagesHost,
		TXTValues: site.TXTRecords,
		SPF:       site.SPF,
		MXValues:  site.MX,
	})
	if err != nil {
		return nil, err
	}

	signals, err := health.Signals(targets, site.Monitoring.ExpectedContent)
	if err != nil {
		return nil, err
	}

	alarms, err := health.ComposeAlarms(signals, health.Options{
		LatencyThresholdMs: site.Monitoring.LatencyThresholdMs,
	})
	if err != nil {
		return nil, err
	}

	return &Plan{
		RunID:   ids.NewRunID(),
		Site:    site,
		Targets: targets,
		Records: recs,
		Signals: signals,
		Alarms:  alarms,
	}, nil
}

// RecordsFor returns the planned records for one FQDN, in plan order.
func (p *Plan) RecordsFor(fqdn string) []records.RecordSpec {
	var out []records.RecordSpec
	for _, rec := range p.Records {
		if rec.FQDN == fqdn {
			out = append(out, rec)
		}
	}
	return out
}
