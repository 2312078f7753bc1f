package infra

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53targets"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/mossrock/siteplan/pkg/naming"
	"github.com/mossrock/siteplan/pkg/records"
)

// RecordSetsProps configures the RecordSets construct.
type RecordSetsProps struct {
	// Apex names the zone the records belong to; it scopes the construct
	// tree so one RecordSets instance exists per zone.
	Apex string

	// Zone receives every record in Records; callers group records by
	// zone before instantiating.
	Zone awsroute53.IHostedZone

	Records []records.RecordSpec

	// AliasDistributions maps an FQDN to the CloudFront distribution its
	// alias records point at. Required for every alias record in
	// Records.
	AliasDistributions map[string]awscloudfront.Distribution
}

// NewRecordSets translates planned record specs into Route53 record
// constructs. Construct IDs derive from the record's FQDN and type only, so
// re-synthesis of an unchanged plan is diff-free.
func NewRecordSets(scope constructs.Construct, props RecordSetsProps) constructs.Construct {
	scope = constructs.NewConstruct(scope, jsii.String("Records"+naming.ConstructID(props.Apex)))

	for _, rec := range props.Records {
		id := jsii.String(naming.ConstructID(rec.FQDN) + string(rec.Type))
		name := jsii.String(rec.FQDN)
		ttl := recordTTL(rec)

		switch rec.Type {
		case records.TypeA:
			awsroute53.NewARecord(scope, id, &awsroute53.ARecordProps{
				Zone:       props.Zone,
				RecordName: name,
				Target:     recordTarget(rec, props.AliasDistributions),
				Ttl:        ttl,
			})
		case records.TypeAAAA:
			awsroute53.NewAaaaRecord(scope, id, &awsroute53.AaaaRecordProps{
				Zone:       props.Zone,
				RecordName: name,
				Target:     recordTarget(rec, props.AliasDistributions),
				Ttl:        ttl,
			})
		case records.TypeCNAME:
			awsroute53.NewCnameRecord(scope, id, &awsroute53.CnameRecordProps{
				Zone:       props.Zone,
				RecordName: name,
				DomainName: jsii.String(rec.Values[0]),
				Ttl:        ttl,
			})
		case records.TypeTXT:
			values := make([]*string, 0, len(rec.Values))
			for _, value := range rec.Values {
				values = append(values, jsii.String(value))
			}
			awsroute53.NewTxtRecord(scope, id, &awsroute53.TxtRecordProps{
				Zone:       props.Zone,
				RecordName: name,
				Values:     &values,
				Ttl:        ttl,
			})
		case records.TypeMX:
			awsroute53.NewMxRecord(scope, id, &awsroute53.MxRecordProps{
				Zone:       props.Zone,
				RecordName: name,
				Values:     mxValues(rec.Values),
				Ttl:        ttl,
			})
		case records.TypeCAA:
			awsroute53.NewCaaRecord(scope, id, &awsroute53.CaaRecordProps{
				Zone:       props.Zone,
				RecordName: name,
				Values:     caaValues(rec.Values),
				Ttl:        ttl,
			})
		}
	}

	return scope
}

// recordTTL returns nil for alias records; the provider forbids a TTL there.
func recordTTL(rec records.RecordSpec) awscdk.Duration {
	if rec.Alias || rec.TTL == 0 {
		return nil
	}
	return awscdk.Duration_Seconds(jsii.Number(rec.TTL.Seconds()))
}

func recordTarget(rec records.RecordSpec, dists map[string]awscloudfront.Distribution) awsroute53.RecordTarget {
	if rec.Alias {
		dist, ok := dists[rec.FQDN]
		if !ok {
			panic(fmt.Sprintf("no distribution wired for alias record %s", rec.FQDN))
		}
		return awsroute53.RecordTarget_FromAlias(awsroute53targets.NewCloudFrontTarget(dist))
	}
	values := make([]*string, 0, len(rec.Values))
	for _, value := range rec.Values {
		values = append(values, jsii.String(value))
	}
	return awsroute53.RecordTarget_FromIpAddresses(values...)
}

// parseMXValue splits a "<priority> <host>" mail exchanger value.
func parseMXValue(value string) (priority float64, host string, err error) {
	fields := strings.Fields(value)
	if len(fields) != 2 {
		return 0, "", fmt.Errorf("malformed MX value %q, want \"<priority> <host>\"", value)
	}
	priority, err = strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, "", fmt.Errorf("malformed MX priority in %q: %w", value, err)
	}
	return priority, fields[1], nil
}

func mxValues(raw []string) *[]*awsroute53.MxRecordValue {
	values := make([]*awsroute53.MxRecordValue, 0, len(raw))
	for _, value := range raw {
		priority, host, err := parseMXValue(value)
		if err != nil {
			panic(err.Error())
		}
		values = append(values, &awsroute53.MxRecordValue{
			Priority: jsii.Number(priority),
			HostName: jsii.String(host),
		})
	}
	return &values
}

// caaValues renders a CA allow-list as issue authorizations.
func caaValues(authorities []string) *[]*awsroute53.CaaRecordValue {
	values := make([]*awsroute53.CaaRecordValue, 0, len(authorities))
	for _, authority := range authorities {
		values = append(values, &awsroute53.CaaRecordValue{
			Flag:  jsii.Number(0),
			Tag:   awsroute53.CaaTag_ISSUE,
			Value: jsii.String(authority),
		})
	}
	return &values
}
