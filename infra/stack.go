package infra

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/mossrock/siteplan"
	"github.com/mossrock/siteplan/pkg/plan"
	"github.com/mossrock/siteplan/pkg/records"
)

// WebsiteStackProps configures the WebsiteStack.
type WebsiteStackProps struct {
	awscdk.StackProps

	Plan *plan.Plan
}

// NewWebsiteStack provisions the full planned footprint in one stack:
// hosted-zone wiring (with DNSSEC for the main zone when enabled), the
// topology-wide certificate, one redirect distribution per secondary apex,
// every record set, and monitoring.
//
// The stack must deploy to us-east-1; CloudFront certificates, DNSSEC key
// material, and Route53 health-check metrics all live there. The
// configuration layer rejects any other region before this code runs.
func NewWebsiteStack(scope constructs.Construct, id string, props *WebsiteStackProps) awscdk.Stack {
	stack := awscdk.NewStack(scope, jsii.String(id), &props.StackProps)
	sitePlan := props.Plan
	site := sitePlan.Site

	awscdk.Tags_Of(stack).Add(jsii.String("managed-by"), jsii.String("siteplan"), nil)

	// Zones, keyed by apex. DNSSEC only covers the main zone; secondary
	// zones hold nothing but redirect plumbing.
	zones := map[string]awsroute53.IHostedZone{}
	mainZone := NewSiteZone(stack, SiteZoneProps{
		Domain:       site.MainSpec(),
		EnableDNSSEC: site.DNSSEC.Enabled,
	})
	zones[site.Main.Apex] = mainZone.Zone()
	for _, redirect := range site.RedirectSpecs() {
		zones[redirect.Apex] = NewSiteZone(stack, SiteZoneProps{Domain: redirect}).Zone()
	}

	certificate := NewSiteCertificate(stack, SiteCertificateProps{
		DomainName:              site.Main.Apex,
		SubjectAlternativeNames: alternativeNames(sitePlan.Targets, site.Main.Apex),
		ValidationZones:         validationZones(sitePlan.Targets, zones),
	})

	// One distribution per redirect apex; both its names alias to it.
	distributions := map[string]awscloudfront.Distribution{}
	mainWWW := "www." + site.Main.Apex
	for _, redirect := range site.RedirectSpecs() {
		dist := NewRedirectDistribution(stack, RedirectDistributionProps{
			Domain:      redirect,
			TargetHost:  mainWWW,
			Certificate: certificate.Certificate(),
		}).Distribution()
		distributions[redirect.Apex] = dist
		distributions["www."+redirect.Apex] = dist
	}

	// Records are grouped per zone: every target's records land in the
	// zone of the apex it derives from.
	for _, domain := range append([]siteplan.DomainSpec{site.MainSpec()}, site.RedirectSpecs()...) {
		var zoneRecords []records.RecordSpec
		zoneRecords = append(zoneRecords, sitePlan.RecordsFor(domain.Apex)...)
		zoneRecords = append(zoneRecords, sitePlan.RecordsFor("www."+domain.Apex)...)
		NewRecordSets(stack, RecordSetsProps{
			Apex:               domain.Apex,
			Zone:               zones[domain.Apex],
			Records:            zoneRecords,
			AliasDistributions: distributions,
		})
	}

	NewMonitoring(stack, MonitoringProps{
		Signals:      sitePlan.Signals,
		Alarms:       sitePlan.Alarms,
		NotifyEmails: site.Monitoring.NotifyEmails,
	})

	return stack
}

func alternativeNames(targets []siteplan.SubdomainTarget, primary string) []string {
	var names []string
	for _, target := range targets {
		if target.FQDN != primary {
			names = append(names, target.FQDN)
		}
	}
	return names
}

func validationZones(targets []siteplan.SubdomainTarget, zones map[string]awsroute53.IHostedZone) map[string]awsroute53.IHostedZone {
	out := make(map[string]awsroute53.IHostedZone, len(targets))
	for _, target := range targets {
		out[target.FQDN] = zones[target.Domain.Apex]
	}
	return out
}
