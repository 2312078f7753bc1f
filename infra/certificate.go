package infra

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// SiteCertificate provides access to the ACM certificate covering every name
// in the topology.
type SiteCertificate interface {
	Certificate() awscertificatemanager.ICertificate
}

// SiteCertificateProps configures the SiteCertificate construct.
type SiteCertificateProps struct {
	// DomainName is the certificate's primary name, the main apex.
	DomainName string

	// SubjectAlternativeNames are every other FQDN in the topology, in
	// plan order.
	SubjectAlternativeNames []string

	// ValidationZones maps each FQDN (primary included) to the hosted
	// zone its DNS validation records go into.
	ValidationZones map[string]awsroute53.IHostedZone
}

type siteCertificate struct {
	certificate awscertificatemanager.ICertificate
}

// NewSiteCertificate creates the DNS-validated certificate for the whole
// topology. DNS validation requires every referenced zone to be delegated
// and operational before deployment.
//
// CloudFront only accepts certificates issued in us-east-1, so the
// surrounding stack is pinned there.
func NewSiteCertificate(scope constructs.Construct, props SiteCertificateProps) SiteCertificate {
	scope = constructs.NewConstruct(scope, jsii.String("Certificate"))
	con := &siteCertificate{}

	sans := make([]*string, 0, len(props.SubjectAlternativeNames))
	for _, name := range props.SubjectAlternativeNames {
		sans = append(sans, jsii.String(name))
	}

	zones := make(map[string]awsroute53.IHostedZone, len(props.ValidationZones))
	for fqdn, zone := range props.ValidationZones {
		zones[fqdn] = zone
	}

	con.certificate = awscertificatemanager.NewCertificate(scope, jsii.String("SiteCertificate"),
		&awscertificatemanager.CertificateProps{
			DomainName:              jsii.String(props.DomainName),
			SubjectAlternativeNames: &sans,
			Validation:              awscertificatemanager.CertificateValidation_FromDnsMultiZone(&zones),
		})

	return con
}

func (c *siteCertificate) Certificate() awscertificatemanager.ICertificate {
	return c.certificate
}
