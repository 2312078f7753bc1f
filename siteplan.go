// Package siteplan plans the DNS, certificate, and monitoring footprint for a
// static website served from GitHub Pages, with any number of secondary apex
// domains redirecting into it through CloudFront.
//
// The planning core is pure: a site configuration goes in, a fully resolved
// Plan comes out. Provisioning side effects live entirely in the infra
// package, which consumes the plan through CDK constructs.
package siteplan

// Role classifies an apex domain within the site topology.
type Role string

const (
	// RoleMain marks the domain the site is actually served from.
	RoleMain Role = "main"

	// RoleRedirect marks a secondary apex that forwards every request to
	// the main domain.
	RoleRedirect Role = "redirect"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleMain || r == RoleRedirect
}

// DomainSpec describes one registrable apex domain participating in the
// topology. Specs are constructed once from configuration at the start of a
// planning run and are immutable afterwards.
type DomainSpec struct {
	// Apex is the registrable domain without a subdomain label,
	// e.g. "example.com".
	Apex string

	Role Role

	// HostedZoneID is the opaque handle to the DNS zone that already
	// exists for this apex. The planner never creates zones.
	HostedZoneID string
}

// Variant distinguishes the two DNS names derived from every apex.
type Variant string

const (
	VariantApex Variant = "apex"
	VariantWWW  Variant = "www"
)

// SubdomainTarget is one concrete DNS name requiring records, certificate
// coverage, and a health check. Targets are derived from the DomainSpec set
// on every planning run; they are never persisted or mutated.
type SubdomainTarget struct {
	// FQDN is the apex itself or "www." + apex.
	FQDN string

	Variant Variant

	// Domain is the apex this target was derived from.
	Domain DomainSpec
}

// IsMainWWW reports whether the target is the www name of the main domain.
// That name serves the actual site content, carries the content-matched
// health check, and anchors the primary alarm.
func (t SubdomainTarget) IsMainWWW() bool {
	return t.Domain.Role == RoleMain && t.Variant == VariantWWW
}
