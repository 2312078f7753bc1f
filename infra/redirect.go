package infra

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfrontorigins"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/mossrock/siteplan"
	"github.com/mossrock/siteplan/pkg/naming"
)

// RedirectDistribution provides access to the CloudFront distribution that
// forwards one redirect domain (apex and www) to the main site.
type RedirectDistribution interface {
	Distribution() awscloudfront.Distribution
}

// RedirectDistributionProps configures the RedirectDistribution construct.
type RedirectDistributionProps struct {
	// Domain is the redirect apex served by this distribution.
	Domain siteplan.DomainSpec

	// TargetHost is where every request is sent, e.g. "www.example.com".
	TargetHost string

	// Certificate must cover the apex and its www name.
	Certificate awscertificatemanager.ICertificate
}

type redirectDistribution struct {
	distribution awscloudfront.Distribution
}

// NewRedirectDistribution builds the redirect chain for one secondary apex:
// an empty S3 bucket configured to redirect every request to the target
// host over HTTPS, fronted by a CloudFront distribution that terminates TLS
// for the apex and www names. The bucket website endpoint only speaks HTTP,
// so the origin policy is pinned accordingly.
func NewRedirectDistribution(scope constructs.Construct, props RedirectDistributionProps) RedirectDistribution {
	scope = constructs.NewConstruct(scope, jsii.String("Redirect"+naming.ConstructID(props.Domain.Apex)))
	con := &redirectDistribution{}

	bucket := awss3.NewBucket(scope, jsii.String("RedirectBucket"), &awss3.BucketProps{
		BucketName: jsii.String(naming.ResourceID(props.Domain.Apex) + "-redirect"),
		WebsiteRedirect: &awss3.RedirectTarget{
			HostName: jsii.String(props.TargetHost),
			Protocol: awss3.RedirectProtocol_HTTPS,
		},
		BlockPublicAccess: awss3.BlockPublicAccess_BLOCK_ALL(),
		RemovalPolicy:     awscdk.RemovalPolicy_DESTROY,
	})

	con.distribution = awscloudfront.NewDistribution(scope, jsii.String("Distribution"), &awscloudfront.DistributionProps{
		Comment: jsii.String("Redirects " + props.Domain.Apex + " to " + props.TargetHost),
		DefaultBehavior: &awscloudfront.BehaviorOptions{
			Origin: awscloudfrontorigins.NewHttpOrigin(bucket.BucketWebsiteDomainName(), &awscloudfrontorigins.HttpOriginProps{
				ProtocolPolicy: awscloudfront.OriginProtocolPolicy_HTTP_ONLY,
			}),
			ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS,
			CachePolicy:          awscloudfront.CachePolicy_CACHING_OPTIMIZED(),
		},
		DomainNames: jsii.Strings(props.Domain.Apex, "www."+props.Domain.Apex),
		Certificate: props.Certificate,
		HttpVersion: awscloudfront.HttpVersion_HTTP2_AND_3,
	})

	return con
}

func (r *redirectDistribution) Distribution() awscloudfront.Distribution {
	return r.distribution
}
