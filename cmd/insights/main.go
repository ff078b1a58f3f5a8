// Campaign Insights CLI - multi-channel campaign performance scoring
//
// Usage:
//
//	insights analyze [--filter '{"channel":"ads"}' | --question "..."] [options]
//	insights ingest --channel ads --records records.ndjson
//	insights serve --port 8080
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"campaign-insights/api"
	"campaign-insights/engine/channel"
	"campaign-insights/engine/dispatch"
	"campaign-insights/format"
	"campaign-insights/nlq"
	"campaign-insights/pkg/platform"
	"campaign-insights/pkg/records"
	"campaign-insights/store"
	"campaign-insights/store/clickhouse"
	"campaign-insights/store/memory"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Missing .env is fine; flags and real env still apply.
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "insights",
		Usage:   "Multi-Channel Campaign Analytics - metric normalization and performance scoring",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"INSIGHTS_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "benchmarks",
				Usage:   "Path to a YAML benchmark override file",
				EnvVars: []string{"INSIGHTS_BENCHMARKS"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-host",
				Value:   "localhost",
				Usage:   "ClickHouse host",
				EnvVars: []string{"CLICKHOUSE_HOST"},
			},
			&cli.IntFlag{
				Name:    "clickhouse-port",
				Value:   9000,
				Usage:   "ClickHouse native port",
				EnvVars: []string{"CLICKHOUSE_PORT"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-database",
				Value:   "campaigns",
				Usage:   "ClickHouse database",
				EnvVars: []string{"CLICKHOUSE_DATABASE"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-user",
				Value:   "default",
				Usage:   "ClickHouse user",
				EnvVars: []string{"CLICKHOUSE_USER"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-password",
				Value:   "",
				Usage:   "ClickHouse password",
				EnvVars: []string{"CLICKHOUSE_PASSWORD"},
			},
		},

		Commands: []*cli.Command{
			analyzeCommand(),
			ingestCommand(),
			serveCommand(),
			channelsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadBenchmarks(c *cli.Context) (channel.Config, error) {
	if path := c.String("benchmarks"); path != "" {
		return channel.LoadConfig(path)
	}
	return channel.DefaultConfig(), nil
}

func clickhouseStore(c *cli.Context) (*clickhouse.Store, error) {
	return clickhouse.NewStore(&clickhouse.Config{
		Host:     c.String("clickhouse-host"),
		Port:     c.Int("clickhouse-port"),
		Database: c.String("clickhouse-database"),
		Username: c.String("clickhouse-user"),
		Password: c.String("clickhouse-password"),
	})
}

// =============================================================================
// ANALYZE COMMAND
// =============================================================================

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Score campaign records across channels",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"q"},
				Usage:   "Filter as a flat JSON object, e.g. '{\"channel\":\"email\"}'",
			},
			&cli.StringFlag{
				Name:  "question",
				Usage: "Natural-language question translated into a filter",
			},
			&cli.StringFlag{
				Name:    "records",
				Aliases: []string{"r"},
				Usage:   "Analyze an NDJSON file instead of the database",
			},
			&cli.StringFlag{
				Name:  "channel",
				Usage: "Channel tag for --records documents",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "table",
				Usage:   "Output format (table, json)",
			},
			&cli.StringFlag{
				Name:    "gateway-url",
				Usage:   "Chat-completion gateway for --question",
				EnvVars: []string{"INSIGHTS_GATEWAY_URL"},
			},
			&cli.StringFlag{
				Name:    "gateway-key",
				Usage:   "Gateway API key",
				EnvVars: []string{"INSIGHTS_GATEWAY_KEY"},
			},
			&cli.StringFlag{
				Name:    "gateway-model",
				Usage:   "Gateway model name",
				EnvVars: []string{"INSIGHTS_GATEWAY_MODEL"},
			},
		},
		Action: runAnalyze,
	}
}

func runAnalyze(c *cli.Context) error {
	ctx := context.Background()
	log := platform.InitLogger(c.String("log-level"))

	cfg, err := loadBenchmarks(c)
	if err != nil {
		return fmt.Errorf("failed to load benchmarks: %w", err)
	}

	var source store.RecordSource
	if path := c.String("records"); path != "" {
		mem, err := loadNDJSON(path, c.String("channel"))
		if err != nil {
			return err
		}
		source = mem
	} else {
		ch, err := clickhouseStore(c)
		if err != nil {
			return fmt.Errorf("failed to connect to ClickHouse: %w", err)
		}
		defer ch.Close()
		source = ch
	}

	dispatcher, err := dispatch.New(source, cfg, log)
	if err != nil {
		return err
	}

	filter, err := resolveFilter(ctx, c, log)
	if err != nil {
		return err
	}

	report := dispatcher.Dispatch(ctx, filter)

	switch c.String("format") {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	default:
		return outputTable(report)
	}
}

func resolveFilter(ctx context.Context, c *cli.Context, log *slog.Logger) (records.Filter, error) {
	if q := c.String("question"); q != "" {
		gateway := c.String("gateway-url")
		if gateway == "" {
			return nil, fmt.Errorf("--question requires --gateway-url")
		}
		client := nlq.NewClient(nlq.Config{
			BaseURL: gateway,
			APIKey:  c.String("gateway-key"),
			Model:   c.String("gateway-model"),
		}, log)
		return client.Translate(ctx, q)
	}
	raw := c.String("filter")
	if raw == "" {
		return nil, nil
	}
	var f records.Filter
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return nil, fmt.Errorf("invalid --filter: %w", err)
	}
	if !records.ValidFilter(f) {
		return nil, fmt.Errorf("--filter values must be scalars")
	}
	return f, nil
}

func loadNDJSON(path, channelTag string) (*memory.Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records file: %w", err)
	}
	defer file.Close()

	mem := memory.NewStore()
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var doc map[string]any
		if err := json.Unmarshal([]byte(text), &doc); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		mem.Add(channelTag, doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}
	return mem, nil
}

// =============================================================================
// OUTPUT FORMATTERS
// =============================================================================

func outputTable(report *dispatch.Report) error {
	fmt.Println()
	fmt.Printf("Report %s generated %s\n", report.ReportID, report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Println()

	names := make([]string, 0, len(report.Metrics))
	for name := range report.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		res := report.Metrics[name]
		fmt.Printf("── %s ──────────────────────────────────────────\n", strings.ToUpper(name))
		fmt.Printf("  Records:  %d\n", res.TotalRecords)
		fmt.Printf("  Score:    %d (%s)\n", res.Summary.Score, res.Summary.Tier)

		if desc := channel.Lookup(name); desc != nil && res.Aggregate != nil {
			for _, rate := range res.Aggregate.Derived.Order {
				spec, ok := desc.Spec(rate)
				if !ok {
					continue
				}
				fmt.Printf("  %-26s %s\n", string(rate)+":", format.Rate(spec, res.Aggregate.Derived.Values[rate]))
			}
		}

		if len(res.Insights) > 0 {
			fmt.Println("  Insights:")
			for _, ins := range res.Insights {
				fmt.Printf("    [%s] %s\n", ins.Kind, ins.Text)
			}
		}
		fmt.Println()
	}

	for _, e := range report.Errors {
		fmt.Printf("!! %s failed: %s (%s)\n", e.Channel, e.Message, e.Code)
	}

	if !report.Success {
		os.Exit(2)
	}
	return nil
}

// =============================================================================
// INGEST COMMAND
// =============================================================================

func ingestCommand() *cli.Command {
	return &cli.Command{
		Name:  "ingest",
		Usage: "Load NDJSON campaign records into ClickHouse",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "records",
				Aliases:  []string{"r"},
				Usage:    "Path to an NDJSON records file",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "channel",
				Usage: "Channel tag for the documents (empty for untagged)",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Value: 1000,
				Usage: "Documents per insert batch",
			},
		},
		Action: runIngest,
	}
}

func runIngest(c *cli.Context) error {
	ctx := context.Background()
	log := platform.InitLogger(c.String("log-level"))

	ch, err := clickhouseStore(c)
	if err != nil {
		return fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	defer ch.Close()

	if err := ch.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	file, err := os.Open(c.String("records"))
	if err != nil {
		return fmt.Errorf("failed to open records file: %w", err)
	}
	defer file.Close()

	channelTag := c.String("channel")
	batchSize := c.Int("batch-size")
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	var batch []records.RawRecord
	total := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ch.Insert(ctx, channelTag, batch); err != nil {
			return fmt.Errorf("insert failed after %d records: %w", total, err)
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var doc map[string]any
		if err := json.Unmarshal([]byte(text), &doc); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		batch = append(batch, records.Normalize(doc))
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read records file: %w", err)
	}
	if err := flush(); err != nil {
		return err
	}

	log.Info("ingest complete", "records", total, "channel", channelTag)
	return nil
}

// =============================================================================
// SERVE COMMAND (API SERVER)
// =============================================================================

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the campaign analytics API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "API server port",
				EnvVars: []string{"INSIGHTS_PORT"},
			},
			&cli.StringFlag{
				Name:    "cors-origins",
				Value:   "*",
				Usage:   "Comma-separated list of allowed CORS origins",
				EnvVars: []string{"INSIGHTS_CORS_ORIGINS"},
			},
			&cli.StringFlag{
				Name:    "gateway-url",
				Usage:   "Chat-completion gateway for /api/v1/ask",
				EnvVars: []string{"INSIGHTS_GATEWAY_URL"},
			},
			&cli.StringFlag{
				Name:    "gateway-key",
				Usage:   "Gateway API key",
				EnvVars: []string{"INSIGHTS_GATEWAY_KEY"},
			},
			&cli.StringFlag{
				Name:    "gateway-model",
				Usage:   "Gateway model name",
				EnvVars: []string{"INSIGHTS_GATEWAY_MODEL"},
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	log := platform.InitLogger(c.String("log-level"))

	cfg, err := loadBenchmarks(c)
	if err != nil {
		return fmt.Errorf("failed to load benchmarks: %w", err)
	}

	ch, err := clickhouseStore(c)
	if err != nil {
		return fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	defer ch.Close()

	if err := ch.Migrate(context.Background()); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	dispatcher, err := dispatch.New(ch, cfg, log)
	if err != nil {
		return err
	}

	var translator nlq.Translator
	if gateway := c.String("gateway-url"); gateway != "" {
		translator = nlq.NewClient(nlq.Config{
			BaseURL: gateway,
			APIKey:  c.String("gateway-key"),
			Model:   c.String("gateway-model"),
		}, log)
	}

	corsOrigins := strings.Split(c.String("cors-origins"), ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}

	server := api.NewServer(dispatcher, ch, translator, &api.Config{
		Port:           c.Int("port"),
		ReadTimeout:    api.DefaultConfig().ReadTimeout,
		WriteTimeout:   api.DefaultConfig().WriteTimeout,
		MaxRequestSize: api.DefaultConfig().MaxRequestSize,
		CORSOrigins:    corsOrigins,
	}, log)

	if err := server.StartWithGracefulShutdown(); err != nil {
		platform.LogFatal(log, "server exited", err)
	}
	return nil
}

// =============================================================================
// CHANNELS COMMAND
// =============================================================================

func channelsCommand() *cli.Command {
	return &cli.Command{
		Name:  "channels",
		Usage: "List registered channels and their scored rates",
		Action: func(c *cli.Context) error {
			cfg, err := loadBenchmarks(c)
			if err != nil {
				return err
			}
			for _, desc := range channel.BuiltIn() {
				bench, _ := cfg.For(desc.Name)
				fmt.Printf("%s\n", desc.Name)
				for _, spec := range desc.Rates {
					weight, scored := bench.Weights[spec.Name]
					if scored {
						fmt.Printf("  %-26s benchmark %-10g weight %g\n", spec.Name, bench.Expected[spec.Name], weight)
					} else {
						fmt.Printf("  %-26s (informational)\n", spec.Name)
					}
				}
			}
			return nil
		},
	}
}
