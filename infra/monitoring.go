package infra

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatch"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudwatchactions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssns"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssnssubscriptions"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/mossrock/siteplan/pkg/health"
	"github.com/mossrock/siteplan/pkg/naming"
)

// Monitoring provides access to the alarm topic so other constructs can
// attach additional notifications.
type Monitoring interface {
	Topic() awssns.ITopic
}

// MonitoringProps configures the Monitoring construct.
type MonitoringProps struct {
	Signals []health.Signal
	Alarms  []health.AlarmRule

	// NotifyEmails are subscribed to the alarm topic.
	NotifyEmails []string
}

type monitoring struct {
	topic awssns.ITopic
}

// NewMonitoring provisions one Route53 health check per signal, a metric
// alarm per leaf rule, and a composite alarm per composite rule. Composites
// whose rule is constant false (a topology with no redirect domains) are
// skipped: they could never fire and some providers reject them outright.
//
// Route53 health-check metrics only exist in us-east-1, which is where the
// surrounding stack is pinned anyway.
func NewMonitoring(scope constructs.Construct, props MonitoringProps) Monitoring {
	scope = constructs.NewConstruct(scope, jsii.String("Monitoring"))
	con := &monitoring{}

	con.topic = awssns.NewTopic(scope, jsii.String("AlarmTopic"), &awssns.TopicProps{
		DisplayName: jsii.String("Site health alarms"),
	})
	for _, email := range props.NotifyEmails {
		con.topic.AddSubscription(awssnssubscriptions.NewEmailSubscription(jsii.String(email), nil))
	}
	action := awscloudwatchactions.NewSnsAction(con.topic)

	checks := map[string]awsroute53.CfnHealthCheck{}
	for _, signal := range props.Signals {
		checks[signal.Target.FQDN] = newHealthCheck(scope, signal)
	}

	leafAlarms := map[string]awscloudwatch.IAlarm{}
	for _, rule := range props.Alarms {
		if rule.Composite() {
			continue
		}
		check, ok := checks[rule.SignalFQDN]
		if !ok {
			panic(fmt.Sprintf("alarm %s references unknown signal %s", rule.Name, rule.SignalFQDN))
		}
		alarm := newLeafAlarm(scope, rule, check)
		alarm.AddAlarmAction(action)
		leafAlarms[rule.Name] = alarm
	}

	for _, rule := range props.Alarms {
		if !rule.Composite() || rule.Expr.ConstantFalse() {
			continue
		}
		composite := awscloudwatch.NewCompositeAlarm(scope, jsii.String("Composite"+naming.ConstructID(rule.Name)),
			&awscloudwatch.CompositeAlarmProps{
				CompositeAlarmName: jsii.String(rule.Name),
				AlarmRule:          alarmRuleFromExpr(rule.Expr, leafAlarms),
			})
		composite.AddAlarmAction(action)
	}

	return con
}

func (m *monitoring) Topic() awssns.ITopic {
	return m.topic
}

func newHealthCheck(scope constructs.Construct, signal health.Signal) awsroute53.CfnHealthCheck {
	checkType := "HTTPS"
	var searchString *string
	if signal.Kind == health.CheckStatusAndContentMatch {
		checkType = "HTTPS_STR_MATCH"
		searchString = jsii.String(signal.ExpectedContent)
	}

	return awsroute53.NewCfnHealthCheck(scope, jsii.String("Check"+naming.ConstructID(signal.Target.FQDN)),
		&awsroute53.CfnHealthCheckProps{
			HealthCheckConfig: &awsroute53.CfnHealthCheck_HealthCheckConfigProperty{
				Type:                     jsii.String(checkType),
				FullyQualifiedDomainName: jsii.String(signal.Target.FQDN),
				Port:                     jsii.Number(443),
				ResourcePath:             jsii.String("/"),
				EnableSni:                jsii.Bool(true),
				RequestInterval:          jsii.Number(30),
				FailureThreshold:         jsii.Number(3),
				MeasureLatency:           jsii.Bool(true),
				SearchString:             searchString,
			},
		})
}

func newLeafAlarm(scope constructs.Construct, rule health.AlarmRule, check awsroute53.CfnHealthCheck) awscloudwatch.Alarm {
	var (
		metricName string
		statistic  string
		comparison awscloudwatch.ComparisonOperator
	)
	switch rule.Metric {
	case health.MetricLatency:
		metricName = "TimeToFirstByte"
		statistic = "Average"
		comparison = awscloudwatch.ComparisonOperator_GREATER_THAN_THRESHOLD
	default:
		metricName = "HealthCheckStatus"
		statistic = "Minimum"
		comparison = awscloudwatch.ComparisonOperator_LESS_THAN_THRESHOLD
	}

	metric := awscloudwatch.NewMetric(&awscloudwatch.MetricProps{
		Namespace:  jsii.String("AWS/Route53"),
		MetricName: jsii.String(metricName),
		DimensionsMap: &map[string]*string{
			"HealthCheckId": check.AttrHealthCheckId(),
		},
		Statistic: jsii.String(statistic),
		Period:    awscdk.Duration_Minutes(jsii.Number(1)),
	})

	return awscloudwatch.NewAlarm(scope, jsii.String("Alarm"+naming.ConstructID(rule.Name)),
		&awscloudwatch.AlarmProps{
			AlarmName:          jsii.String(rule.Name),
			Metric:             metric,
			Threshold:          jsii.Number(rule.Threshold),
			ComparisonOperator: comparison,
			EvaluationPeriods:  jsii.Number(rule.EvaluationPeriods),
			TreatMissingData:   awscloudwatch.TreatMissingData_BREACHING,
		})
}

// alarmRuleFromExpr maps a composed boolean expression onto the CloudWatch
// alarm-rule model, resolving leaves through the provisioned metric alarms.
func alarmRuleFromExpr(expr health.Expr, leafAlarms map[string]awscloudwatch.IAlarm) awscloudwatch.IAlarmRule {
	switch expr.Kind {
	case health.ExprFalse:
		return awscloudwatch.AlarmRule_FromBoolean(jsii.Bool(false))
	case health.ExprLeaf:
		alarm, ok := leafAlarms[expr.Alarm]
		if !ok {
			panic(fmt.Sprintf("composite references unknown alarm %s", expr.Alarm))
		}
		return awscloudwatch.AlarmRule_FromAlarm(alarm, awscloudwatch.AlarmState_ALARM)
	case health.ExprNot:
		return awscloudwatch.AlarmRule_Not(alarmRuleFromExpr(expr.Operands[0], leafAlarms))
	case health.ExprAnd:
		return awscloudwatch.AlarmRule_AllOf(alarmRuleOperands(expr.Operands, leafAlarms)...)
	case health.ExprOr:
		return awscloudwatch.AlarmRule_AnyOf(alarmRuleOperands(expr.Operands, leafAlarms)...)
	default:
		panic(fmt.Sprintf("unknown expression kind %q", expr.Kind))
	}
}

func alarmRuleOperands(operands []health.Expr, leafAlarms map[string]awscloudwatch.IAlarm) []awscloudwatch.IAlarmRule {
	rules := make([]awscloudwatch.IAlarmRule, 0, len(operands))
	for _, operand := range operands {
		rules = append(rules, alarmRuleFromExpr(operand, leafAlarms))
	}
	return rules
}
