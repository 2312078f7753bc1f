// Package infra provisions the planned site infrastructure as CDK
// constructs: hosted-zone wiring, certificates, redirect distributions,
// record sets, and monitoring. Constructs consume the pure plan; none of
// them derive topology on their own.
package infra

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awskms"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/mossrock/siteplan"
	"github.com/mossrock/siteplan/pkg/naming"
)

// SiteZone provides access to the pre-existing hosted zone for one apex and,
// for the main zone, its DNSSEC signing resources.
type SiteZone interface {
	Zone() awsroute53.IHostedZone
}

// SiteZoneProps configures the SiteZone construct.
type SiteZoneProps struct {
	// Domain is the apex the zone serves. Its HostedZoneID must name a
	// zone that already exists; the planner never creates zones.
	Domain siteplan.DomainSpec

	// EnableDNSSEC provisions a key-signing key and enables signing for
	// the zone. The surrounding stack must live in us-east-1; Route53
	// only accepts KSK key material there, and the configuration layer
	// rejects anything else before synthesis.
	EnableDNSSEC bool
}

type siteZone struct {
	zone awsroute53.IHostedZone
}

// NewSiteZone wires up the hosted zone reference from its attributes
// (without a lookup) and optionally enables DNSSEC signing.
func NewSiteZone(scope constructs.Construct, props SiteZoneProps) SiteZone {
	scope = constructs.NewConstruct(scope, jsii.String("Zone"+naming.ConstructID(props.Domain.Apex)))
	con := &siteZone{}

	con.zone = awsroute53.PublicHostedZone_FromPublicHostedZoneAttributes(scope, jsii.String("HostedZone"),
		&awsroute53.PublicHostedZoneAttributes{
			ZoneName:     jsii.String(props.Domain.Apex),
			HostedZoneId: jsii.String(props.Domain.HostedZoneID),
		})

	if props.EnableDNSSEC {
		enableDNSSEC(scope, props.Domain)
	}

	return con
}

func (z *siteZone) Zone() awsroute53.IHostedZone {
	return z.zone
}

// enableDNSSEC provisions the KMS signing key, the key-signing key bound to
// it, and zone signing itself. Signing must not activate before the KSK
// exists, hence the explicit dependency.
func enableDNSSEC(scope constructs.Construct, domain siteplan.DomainSpec) {
	key := awskms.NewKey(scope, jsii.String("KskKey"), &awskms.KeyProps{
		KeySpec:     awskms.KeySpec_ECC_NIST_P256,
		KeyUsage:    awskms.KeyUsage_SIGN_VERIFY,
		Description: jsii.String("DNSSEC key-signing key material for " + domain.Apex),
	})
	key.AddToResourcePolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Sid: jsii.String("AllowRoute53DnssecService"),
		Principals: &[]awsiam.IPrincipal{
			awsiam.NewServicePrincipal(jsii.String("dnssec-route53.amazonaws.com"), nil),
		},
		Actions:   jsii.Strings("kms:DescribeKey", "kms:GetPublicKey", "kms:Sign"),
		Resources: jsii.Strings("*"),
	}), jsii.Bool(true))

	ksk := awsroute53.NewCfnKeySigningKey(scope, jsii.String("Ksk"), &awsroute53.CfnKeySigningKeyProps{
		HostedZoneId:            jsii.String(domain.HostedZoneID),
		KeyManagementServiceArn: key.KeyArn(),
		Name:                    jsii.String(naming.ConstructID(domain.Apex) + "Ksk"),
		Status:                  jsii.String("ACTIVE"),
	})

	signing := awsroute53.NewCfnDNSSEC(scope, jsii.String("Signing"), &awsroute53.CfnDNSSECProps{
		HostedZoneId: jsii.String(domain.HostedZoneID),
	})
	signing.AddDependency(ksk)
}
