// Command siteplan synthesizes the website stack from a site configuration
// file. It is the CDK app entrypoint: `cdk deploy --app "go run ./cmd/siteplan"`.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/jsii-runtime-go"

	"github.com/mossrock/siteplan/infra"
	"github.com/mossrock/siteplan/pkg/config"
	"github.com/mossrock/siteplan/pkg/observability"
	obszap "github.com/mossrock/siteplan/pkg/observability/zap"
	"github.com/mossrock/siteplan/pkg/plan"
	"github.com/mossrock/siteplan/pkg/sanitization"
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath string
	var stackName string
	var logLevel string
	var logFormat string
	var errorTopicARN string

	flag.StringVar(&configPath, "config", "siteplan.yaml", "site configuration file")
	flag.StringVar(&stackName, "stack", "Website", "stack name")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.StringVar(&logFormat, "log-format", "console", "log format (console or json)")
	flag.StringVar(&errorTopicARN, "error-topic", "", "SNS topic ARN for error notifications (optional)")
	flag.Parse()

	logger, err := newLogger(logLevel, logFormat, errorTopicARN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "siteplan: FAIL: %v\n", err)
		return 2
	}
	defer logger.Close()

	site, err := config.Load(configPath)
	if err != nil {
		logger.Error("loading site configuration", map[string]any{
			"path":  configPath,
			"error": err.Error(),
		})
		return 2
	}

	sitePlan, err := plan.Build(site)
	if err != nil {
		logger.Error("building plan", map[string]any{"error": err.Error()})
		return 2
	}
	logger = logger.WithRunID(sitePlan.RunID)
	logger.Info("plan built", map[string]any{
		"main":      site.Main.Apex,
		"redirects": len(site.Redirects),
		"targets":   len(sitePlan.Targets),
		"records":   len(sitePlan.Records),
		"signals":   len(sitePlan.Signals),
		"alarms":    len(sitePlan.Alarms),
	})

	app := awscdk.NewApp(nil)
	infra.NewWebsiteStack(app, stackName, &infra.WebsiteStackProps{
		StackProps: awscdk.StackProps{
			Env: &awscdk.Environment{
				Account: jsii.String(os.Getenv("CDK_DEFAULT_ACCOUNT")),
				Region:  jsii.String(config.EdgeRegion),
			},
		},
		Plan: sitePlan,
	})
	app.Synth(nil)

	logger.Info("stack synthesized", map[string]any{"stack": stackName})
	return 0
}

func newLogger(level, format, errorTopicARN string) (observability.StructuredLogger, error) {
	var options []obszap.Option
	options = append(options, obszap.WithSanitizer(sanitization.SanitizeFieldValue))

	if errorTopicARN != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.EdgeRegion))
		if err != nil {
			return nil, fmt.Errorf("loading AWS configuration for error notifier: %w", err)
		}
		notifier := obszap.NewSNSNotifier(sns.NewFromConfig(awsCfg), errorTopicARN, obszap.SNSNotifierOptions{})
		options = append(options, obszap.WithErrorNotifier(notifier))
	}

	factory := obszap.NewZapLoggerFactory(options...)
	return factory.CreateConsoleLogger(observability.LoggerConfig{
		Level:  level,
		Format: format,
	})
}
