// Package config loads and validates the site configuration file that feeds
// a planning run.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mossrock/siteplan"
)

// EdgeRegion is the only region CloudFront certificates and DNSSEC
// key-signing keys can live in.
const EdgeRegion = "us-east-1"

// Domain is one configured apex with its pre-existing hosted zone.
type Domain struct {
	Apex         string `yaml:"apex"`
	HostedZoneID string `yaml:"hosted_zone_id"`
}

// DNSSEC configures zone signing for the main hosted zone.
type DNSSEC struct {
	Enabled bool `yaml:"enabled"`

	// KeyRegion is where the KMS key material for the key-signing key
	// lives. Route53 requires us-east-1; anything else is rejected at
	// plan time rather than silently corrected.
	KeyRegion string `yaml:"key_region"`
}

// Monitoring configures health checks and alarm notification.
type Monitoring struct {
	// NotifyEmails receive every alarm transition.
	NotifyEmails []string `yaml:"notify_emails"`

	// ExpectedContent is the string the main www health check must find
	// in the page body.
	ExpectedContent string `yaml:"expected_content"`

	// LatencyThresholdMs enables the optional latency alarms for the
	// main domain pairing when positive.
	LatencyThresholdMs int `yaml:"latency_threshold_ms"`
}

// Site is the full configuration for one planning run.
type Site struct {
	Main      Domain   `yaml:"main"`
	Redirects []Domain `yaml:"redirects"`

	// PagesHost is the GitHub Pages default domain the main www name
	// CNAMEs to, e.g. "mossrock.github.io".
	PagesHost string `yaml:"pages_host"`

	// TXTRecords are domain-verification challenge values published at
	// the main apex.
	TXTRecords []string `yaml:"txt_records"`

	// SPF is the SPF policy for the main apex; empty disables it.
	SPF string `yaml:"spf"`

	// MX lists mail exchangers for the main apex in "<priority> <host>"
	// form.
	MX []string `yaml:"mx"`

	// CertificateRegion is where the redirect-distribution certificate
	// is issued. CloudFront only accepts certificates from us-east-1.
	CertificateRegion string `yaml:"certificate_region"`

	DNSSEC DNSSEC `yaml:"dnssec"`

	Monitoring Monitoring `yaml:"monitoring"`
}

// Load reads and validates a site configuration file. Unknown fields are
// rejected so typos fail the run instead of silently dropping settings.
func Load(path string) (*Site, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading site config: %w", err)
	}

	var site Site
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&site); err != nil {
		return nil, fmt.Errorf("parsing site config %s: %w", path, err)
	}

	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

// Validate checks the configuration against the topology's requirements.
// The first failure aborts; there is no partial-plan mode.
func (s *Site) Validate() error {
	if s.Main.Apex == "" {
		return siteplan.NewMissingRequiredConfigError("main.apex", "main apex domain is required")
	}
	if s.Main.HostedZoneID == "" {
		return siteplan.NewMissingRequiredConfigError("main.hosted_zone_id", "hosted zone for the main apex is required")
	}
	for i, redirect := range s.Redirects {
		if redirect.Apex == "" {
			return siteplan.NewMissingRequiredConfigError(
				fmt.Sprintf("redirects[%d].apex", i), "redirect apex domain is required")
		}
		if redirect.HostedZoneID == "" {
			return siteplan.NewMissingRequiredConfigError(
				fmt.Sprintf("redirects[%d].hosted_zone_id", i),
				fmt.Sprintf("hosted zone for %s is required", redirect.Apex))
		}
	}

	if s.PagesHost == "" {
		return siteplan.NewMissingRequiredConfigError("pages_host", "GitHub Pages host is required for the main www CNAME")
	}
	if s.Monitoring.ExpectedContent == "" {
		return siteplan.NewMissingRequiredConfigError(
			"monitoring.expected_content", "the main www health check needs an expected content string")
	}

	if s.CertificateRegion == "" {
		return siteplan.NewMissingRequiredConfigError(
			"certificate_region", "certificate region is required for redirect distributions")
	}
	if s.CertificateRegion != EdgeRegion {
		return siteplan.NewInvalidRegionError("certificate_region", s.CertificateRegion, EdgeRegion)
	}

	if s.DNSSEC.Enabled {
		if s.DNSSEC.KeyRegion == "" {
			return siteplan.NewMissingRequiredConfigError(
				"dnssec.key_region", "DNSSEC key-signing keys need an explicit region")
		}
		if s.DNSSEC.KeyRegion != EdgeRegion {
			return siteplan.NewInvalidRegionError("dnssec.key_region", s.DNSSEC.KeyRegion, EdgeRegion)
		}
	}
	return nil
}

// MainSpec returns the main domain as a DomainSpec.
func (s *Site) MainSpec() siteplan.DomainSpec {
	return siteplan.DomainSpec{Apex: s.Main.Apex, Role: siteplan.RoleMain, HostedZoneID: s.Main.HostedZoneID}
}

// RedirectSpecs returns the redirect domains as DomainSpecs, in
// configuration order.
func (s *Site) RedirectSpecs() []siteplan.DomainSpec {
	specs := make([]siteplan.DomainSpec, 0, len(s.Redirects))
	for _, redirect := range s.Redirects {
		specs = append(specs, siteplan.DomainSpec{
			Apex:         redirect.Apex,
			Role:         siteplan.RoleRedirect,
			HostedZoneID: redirect.HostedZoneID,
		})
	}
	return specs
}
