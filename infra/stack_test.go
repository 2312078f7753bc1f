package infra

import (
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"

	"github.com/mossrock/siteplan/pkg/config"
	"github.com/mossrock/siteplan/pkg/plan"
)

func synthTemplate(t *testing.T, site *config.Site) assertions.Template {
	t.Helper()

	built, err := plan.Build(site)
	if err != nil {
		t.Fatalf("building plan: %v", err)
	}

	app := awscdk.NewApp(nil)
	stack := NewWebsiteStack(app, "TestSite", &WebsiteStackProps{
		StackProps: awscdk.StackProps{
			Env: &awscdk.Environment{
				Account: jsii.String("123456789012"),
				Region:  jsii.String("us-east-1"),
			},
		},
		Plan: built,
	})
	return assertions.Template_FromStack(stack, nil)
}

func testSite() *config.Site {
	return &config.Site{
		Main:              config.Domain{Apex: "example.com", HostedZoneID: "Z0001MAIN"},
		Redirects:         []config.Domain{{Apex: "example.net", HostedZoneID: "Z0002NET"}},
		PagesHost:         "mossrock.github.io",
		CertificateRegion: config.EdgeRegion,
		DNSSEC:            config.DNSSEC{Enabled: true, KeyRegion: config.EdgeRegion},
		Monitoring: config.Monitoring{
			NotifyEmails:    []string{"ops@example.com"},
			ExpectedContent: "Mossrock Digital",
		},
	}
}

func TestWebsiteStack_CoreResources(t *testing.T) {
	template := synthTemplate(t, testSite())

	// One certificate covering the whole topology.
	template.ResourceCountIs(jsii.String("AWS::CertificateManager::Certificate"), jsii.Number(1))

	// One redirect chain for example.net.
	template.ResourceCountIs(jsii.String("AWS::S3::Bucket"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::CloudFront::Distribution"), jsii.Number(1))

	// DNSSEC for the main zone only.
	template.ResourceCountIs(jsii.String("AWS::Route53::KeySigningKey"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::Route53::DNSSEC"), jsii.Number(1))

	// Four targets, one health check each.
	template.ResourceCountIs(jsii.String("AWS::Route53::HealthCheck"), jsii.Number(4))

	// Four status alarms plus the two composites.
	template.ResourceCountIs(jsii.String("AWS::CloudWatch::Alarm"), jsii.Number(4))
	template.ResourceCountIs(jsii.String("AWS::CloudWatch::CompositeAlarm"), jsii.Number(2))

	// Alarm notification fan-out.
	template.ResourceCountIs(jsii.String("AWS::SNS::Topic"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::SNS::Subscription"), jsii.Number(1))
}

func TestWebsiteStack_MainWWWContentCheck(t *testing.T) {
	template := synthTemplate(t, testSite())

	template.HasResourceProperties(jsii.String("AWS::Route53::HealthCheck"), map[string]any{
		"HealthCheckConfig": assertions.Match_ObjectLike(&map[string]any{
			"Type":                     "HTTPS_STR_MATCH",
			"FullyQualifiedDomainName": "www.example.com",
			"SearchString":             "Mossrock Digital",
		}),
	})
}

func TestWebsiteStack_ZeroRedirectsSkipsDegenerateComposites(t *testing.T) {
	site := testSite()
	site.Redirects = nil
	template := synthTemplate(t, site)

	template.ResourceCountIs(jsii.String("AWS::CloudFront::Distribution"), jsii.Number(0))
	template.ResourceCountIs(jsii.String("AWS::CloudWatch::CompositeAlarm"), jsii.Number(0))
	template.ResourceCountIs(jsii.String("AWS::Route53::HealthCheck"), jsii.Number(2))
}
