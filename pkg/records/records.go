// Package records derives the concrete DNS record set for every subdomain
// target in the site topology. The derivation is pure; translating the
// resulting specs into provider resources is the infra package's job.
package records

import (
	"time"

	"github.com/mossrock/siteplan"
)

// Type is a DNS record type emitted by the builder.
type Type string

const (
	TypeA     Type = "A"
	TypeAAAA  Type = "AAAA"
	TypeCNAME Type = "CNAME"
	TypeTXT   Type = "TXT"
	TypeMX    Type = "MX"
	TypeCAA   Type = "CAA"
)

// AliasKind names the cloud resource an alias record points at.
type AliasKind string

const (
	// AliasRedirectDistribution targets the CloudFront distribution that
	// serves a redirect domain.
	AliasRedirectDistribution AliasKind = "redirect-distribution"
)

// TTL policy. Verification TXT records stay short so ownership challenges
// can be fixed quickly; CAA records on health-checked names stay short per
// provider recommendation so issuance changes propagate fast; everything
// else changes rarely and gets the long default. Alias records carry no TTL
// at all, the provider forbids one.
const (
	TTLDefault          = 30 * time.Minute
	TTLVerification     = 5 * time.Minute
	TTLHealthCheckedCAA = time.Minute
)

// GitHub Pages anycast addresses for apex A/AAAA records. Published by
// GitHub and stable for years; updating them is a config change here, not a
// lookup.
var (
	GitHubPagesIPv4 = []string{
		"185.199.108.153",
		"185.199.109.153",
		"185.199.110.153",
		"185.199.111.153",
	}
	GitHubPagesIPv6 = []string{
		"2606:50c0:8000::153",
		"2606:50c0:8001::153",
		"2606:50c0:8002::153",
		"2606:50c0:8003::153",
	}
)

// Certificate authorities allowed to issue for each kind of name. The main
// apex is served by GitHub Pages (Let's Encrypt) and may later be fronted by
// CloudFront (Amazon); redirect names are Amazon-only since nothing but ACM
// ever issues for them.
var (
	MainCertificateAuthorities = []string{
		"amazon.com",
		"amazontrust.com",
		"awstrust.com",
		"amazonaws.com",
		"letsencrypt.org",
	}
	RedirectCertificateAuthorities = []string{
		"amazon.com",
		"amazontrust.com",
		"awstrust.com",
		"amazonaws.com",
	}
)

// RecordSpec is one planned DNS record set for a single name.
type RecordSpec struct {
	FQDN string
	Type Type

	// TTL is zero iff Alias is set; alias records must omit a TTL.
	TTL time.Duration

	// Alias marks an alias record; AliasTarget names what it points at and
	// Values stays empty.
	Alias       bool
	AliasTarget AliasKind

	Values []string
}

// Options carries the configured values the builder folds into the derived
// records.
type Options struct {
	// PagesHost is the GitHub Pages default domain for the site,
	// e.g. "mossrock.github.io". Required for the main www CNAME.
	PagesHost string

	// TXTValues are domain-verification challenges to publish at the main
	// apex.
	TXTValues []string

	// SPF is the SPF policy string for the main apex, e.g.
	// "v=spf1 include:_spf.google.com ~all". Empty means no SPF record.
	SPF string

	// MXValues are mail exchangers for the main apex in standard
	// "<priority> <host>" form, e.g. "10 mail.example.com".
	MXValues []string
}

// Build derives the record set for one target.
//
// The CNAME/CAA exclusion is structural: the main www target gets a CNAME
// and therefore never a CAA record, since a DNS name cannot carry a CNAME
// alongside other record types.
func Build(target siteplan.SubdomainTarget, opts Options) ([]RecordSpec, error) {
	switch target.Domain.Role {
	case siteplan.RoleMain:
		if target.Variant == siteplan.VariantWWW {
			return buildMainWWW(target, opts)
		}
		return buildMainApex(target, opts), nil
	case siteplan.RoleRedirect:
		return buildRedirect(target), nil
	default:
		return nil, siteplan.NewUnknownDomainRoleError(target.Domain.Apex, target.Domain.Role)
	}
}

func buildMainApex(target siteplan.SubdomainTarget, opts Options) []RecordSpec {
	specs := []RecordSpec{
		{FQDN: target.FQDN, Type: TypeA, TTL: TTLDefault, Values: append([]string(nil), GitHubPagesIPv4...)},
		{FQDN: target.FQDN, Type: TypeAAAA, TTL: TTLDefault, Values: append([]string(nil), GitHubPagesIPv6...)},
		{FQDN: target.FQDN, Type: TypeCAA, TTL: TTLHealthCheckedCAA, Values: append([]string(nil), MainCertificateAuthorities...)},
	}

	txt := append([]string(nil), opts.TXTValues...)
	if opts.SPF != "" {
		txt = append(txt, opts.SPF)
	}
	if len(txt) > 0 {
		specs = append(specs, RecordSpec{FQDN: target.FQDN, Type: TypeTXT, TTL: TTLVerification, Values: txt})
	}
	if len(opts.MXValues) > 0 {
		specs = append(specs, RecordSpec{FQDN: target.FQDN, Type: TypeMX, TTL: TTLDefault, Values: append([]string(nil), opts.MXValues...)})
	}
	return specs
}

func buildMainWWW(target siteplan.SubdomainTarget, opts Options) ([]RecordSpec, error) {
	if opts.PagesHost == "" {
		return nil, siteplan.NewMissingRequiredConfigError("pages_host", "main www CNAME requires the GitHub Pages host")
	}
	return []RecordSpec{
		{FQDN: target.FQDN, Type: TypeCNAME, TTL: TTLDefault, Values: []string{opts.PagesHost}},
	}, nil
}

func buildRedirect(target siteplan.SubdomainTarget) []RecordSpec {
	return []RecordSpec{
		{FQDN: target.FQDN, Type: TypeA, Alias: true, AliasTarget: AliasRedirectDistribution},
		{FQDN: target.FQDN, Type: TypeAAAA, Alias: true, AliasTarget: AliasRedirectDistribution},
		{FQDN: target.FQDN, Type: TypeCAA, TTL: TTLHealthCheckedCAA, Values: append([]string(nil), RedirectCertificateAuthorities...)},
	}
}

// BuildAll derives records for every target, preserving target order.
func BuildAll(targets []siteplan.SubdomainTarget, opts Options) ([]RecordSpec, error) {
	var specs []RecordSpec
	for _, target := range targets {
		built, err := Build(target, opts)
		if err != nil {
			return nil, err
		}
		specs = append(specs, built...)
	}
	return specs, nil
}
