// Command dnsdrift resolves the planned record set against live DNS and
// reports any divergence. Exit codes follow the dry-run convention: 0 means
// the live zone matches the plan, 1 means drift was found, 2 means the check
// itself failed.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mossrock/siteplan/pkg/config"
	"github.com/mossrock/siteplan/pkg/drift"
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
	var server string
	var logLevel string
	var timeout time.Duration

	flag.StringVar(&configPath, "config", "siteplan.yaml", "site configuration file")
	flag.StringVar(&server, "server", drift.DefaultServer, "DNS server to query (host:port)")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "overall check timeout")
	flag.Parse()

	factory := obszap.NewZapLoggerFactory(obszap.WithSanitizer(sanitization.SanitizeFieldValue))
	logger, err := factory.CreateConsoleLogger(observability.LoggerConfig{
		Level:  logLevel,
		Format: "console",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "dnsdrift: FAIL: %v\n", err)
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

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	findings := drift.Check(ctx, drift.NewResolver(server), sitePlan.Records)

	errored := false
	for _, finding := range findings {
		if finding.Status == drift.StatusError {
			errored = true
		}
	}

	if !drift.Drifted(findings) {
		logger.Info("no drift", map[string]any{
			"records": len(findings),
			"server":  server,
		})
		return 0
	}

	for _, line := range drift.Summarize(findings) {
		fmt.Println(line)
	}
	logger.Warn("drift detected", map[string]any{
		"records": len(findings),
		"server":  server,
	})
	if errored {
		return 2
	}
	return 1
}
