// Copyright 2025 Regsight Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/regsight/devaudit/ai"
	"github.com/regsight/devaudit/ai/openai"
	"github.com/regsight/devaudit/analysis"
	"github.com/regsight/devaudit/catalog"
	"github.com/regsight/devaudit/core"
	"github.com/regsight/devaudit/export"
	"github.com/regsight/devaudit/fetch"
	"github.com/regsight/devaudit/pdftext"
	"github.com/regsight/devaudit/registry"
	"github.com/regsight/devaudit/scholar"
	"github.com/regsight/devaudit/storage/badger"
	"github.com/regsight/devaudit/webcheck"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "devaudit",
		Usage: "Safety discovery for AI-enabled medical devices",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import the device list spreadsheet into the store",
				ArgsUsage: "DEVICE_LIST.xlsx",
				Action:    importCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:  "supplement",
						Usage: "Supplemental CSV with known algorithms and descriptions",
					},
				},
			},
			{
				Name:      "fetch",
				Usage:     "Fetch and extract summary documents",
				ArgsUsage: "[SUBMISSION_NUMBER...]",
				Action: fetchCommand,
				Flags: append([]cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:    "registry-url",
						Usage:   "Regulatory database base URL",
						EnvVars: []string{"DEVAUDIT_REGISTRY_URL"},
						Value:   registry.DefaultBaseURL,
					},
				}, selectionFlags("fetch")...),
			},
			{
				Name:      "analyze",
				Usage:     "Analyze submissions and store reports",
				ArgsUsage: "[SUBMISSION_NUMBER...]",
				Action: analyzeCommand,
				Flags: append([]cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:    "registry-url",
						Usage:   "Regulatory database base URL",
						EnvVars: []string{"DEVAUDIT_REGISTRY_URL"},
						Value:   registry.DefaultBaseURL,
					},
					&cli.StringFlag{
						Name:    "qa-host",
						Usage:   "Question-answering service host URL",
						EnvVars: []string{"DEVAUDIT_QA_HOST"},
						Value:   "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:    "qa-model",
						Usage:   "Question-answering model name",
						EnvVars: []string{"DEVAUDIT_QA_MODEL"},
						Value:   "qwen2.5:3b",
					},
					&cli.StringFlag{
						Name:    "filter-host",
						Usage:   "Keyword-filter service host URL (defaults to qa-host)",
						EnvVars: []string{"DEVAUDIT_FILTER_HOST"},
					},
					&cli.StringFlag{
						Name:    "filter-model",
						Usage:   "Keyword-filter model name (defaults to qa-model)",
						EnvVars: []string{"DEVAUDIT_FILTER_MODEL"},
					},
					&cli.StringFlag{
						Name:    "token",
						Usage:   "API token for the model services",
						EnvVars: []string{"DEVAUDIT_TOKEN"},
					},
					&cli.Float64Flag{
						Name:  "min-score",
						Usage: "Minimum confidence for question answers",
						Value: 0.1,
					},
					&cli.StringFlag{
						Name:    "scholar-key",
						Usage:   "Semantic Scholar API key (optional, raises rate limits)",
						EnvVars: []string{"DEVAUDIT_SCHOLAR_KEY"},
					},
					&cli.BoolFlag{
						Name:  "no-scholar",
						Usage: "Skip the attack literature search",
					},
					&cli.BoolFlag{
						Name:  "no-web-check",
						Usage: "Skip web relevance validation of keywords",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Concurrent device analyses (default: half the CPUs)",
					},
					&cli.IntFlag{
						Name:  "max-keywords",
						Usage: "Validated keywords fed to the literature search",
						Value: 3,
					},
					&cli.BoolFlag{
						Name:  "reset",
						Usage: "Discard the batch checkpoint and start over",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-analyze submissions that already have a stored report",
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for registry fetch backoff",
						Value: 2 * time.Second,
					},
				}, selectionFlags("analyze")...),
			},
			{
				Name:   "export",
				Usage:  "Export stored reports as CSV",
				Action: exportCommand,
				Flags: []cli.Flag{
					dbFlag(),
					outFlag(),
				},
			},
			{
				Name:   "stats",
				Usage:  "Export device counts by review panel as CSV",
				Action: statsCommand,
				Flags: []cli.Flag{
					dbFlag(),
					outFlag(),
				},
			},
		},
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		EnvVars:  []string{"DEVAUDIT_DB"},
		Required: true,
	}
}

// selectionFlags are the submission selection flags shared by commands that
// work on a set of submissions. resolveNumbers reads them.
func selectionFlags(verb string) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "all",
			Usage: fmt.Sprintf("%s every catalog submission", strings.ToUpper(verb[:1])+verb[1:]),
		},
		&cli.StringFlag{
			Name:  "file",
			Usage: "File with one submission number per line",
		},
		&cli.StringFlag{
			Name:  "from",
			Usage: fmt.Sprintf("First catalog submission number to %s (inclusive)", verb),
		},
		&cli.StringFlag{
			Name:  "to",
			Usage: fmt.Sprintf("Last catalog submission number to %s (inclusive)", verb),
		},
	}
}

func outFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "Output file (defaults to stdout)",
	}
}

func importCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one device list file, got %d", c.NArg())
	}

	repos, err := badger.NewRepositories(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repos.Close()

	deviceList, err := os.Open(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to open device list: %w", err)
	}
	defer deviceList.Close()

	var supplement io.Reader
	if path := c.String("supplement"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open supplement: %w", err)
		}
		defer f.Close()
		supplement = f
	}

	importer, err := catalog.NewImporter(repos.Submissions)
	if err != nil {
		return err
	}

	result, err := importer.Import(ctx, deviceList, supplement)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Imported %d submissions (%d enriched, %d skipped)\n",
		result.Total, result.Enriched, result.Skipped)
	return nil
}

func fetchCommand(c *cli.Context) error {
	ctx := context.Background()

	repos, err := badger.NewRepositories(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repos.Close()

	numbers, err := resolveNumbers(ctx, c, repos)
	if err != nil {
		return err
	}

	regClient := registry.NewClient(fetch.NewClient(),
		registry.WithBaseURL(c.String("registry-url")))

	fetched := 0
	for _, number := range numbers {
		if _, err := repos.Documents.GetDocument(ctx, number); err == nil {
			continue
		}

		if err := fetchDocument(ctx, repos, regClient, number); err != nil {
			fmt.Fprintf(os.Stderr, "No document for %s: %v\n", number, err)
			continue
		}
		fetched++
	}

	fmt.Fprintf(os.Stderr, "Fetched %d of %d documents\n", fetched, len(numbers))
	return nil
}

// fetchDocument retrieves one summary document, extracts its passages, and
// stores it. HTML fallbacks go through the markdown converter.
func fetchDocument(ctx context.Context, repos *badger.Repositories, regClient *registry.Client, number string) error {
	dl, err := regClient.FetchSummary(ctx, number)
	if err != nil {
		return err
	}

	var passages []string
	switch dl.Kind {
	case core.DocumentKindPDF:
		passages, err = pdftext.Passages(dl.Data)
	case core.DocumentKindHTML:
		passages, err = fetch.MarkdownPassages(string(dl.Data), 40)
	}
	if err != nil {
		return err
	}

	return repos.Documents.PutDocument(ctx, &core.Document{
		SubmissionNumber: number,
		SourceURL:        dl.SourceURL,
		Kind:             dl.Kind,
		Passages:         passages,
		FetchedAt:        time.Now().UTC(),
	})
}

func analyzeCommand(c *cli.Context) error {
	ctx := context.Background()

	repos, err := badger.NewRepositories(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repos.Close()

	numbers, err := resolveNumbers(ctx, c, repos)
	if err != nil {
		return err
	}

	filterHost := c.String("filter-host")
	if filterHost == "" {
		filterHost = c.String("qa-host")
	}
	filterModel := c.String("filter-model")
	if filterModel == "" {
		filterModel = c.String("qa-model")
	}

	aiConfig := ai.NewConfig(
		ai.WithQAHost(c.String("qa-host")),
		ai.WithQAModel(c.String("qa-model")),
		ai.WithFilterHost(filterHost),
		ai.WithFilterModel(filterModel),
		ai.WithToken(c.String("token")),
		ai.WithMinScore(c.Float64("min-score")),
	)

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	regClient := registry.NewClient(fetch.NewClient(),
		registry.WithBaseURL(c.String("registry-url")),
		registry.WithRetry(3, c.Duration("retry-delay")))

	opts := []analysis.Option{
		analysis.WithCheckpoints(repos.Checkpoints),
		analysis.WithMaxKeywords(c.Int("max-keywords")),
		analysis.WithForce(c.Bool("force")),
	}
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, analysis.WithPoolSize(size))
	}
	if !c.Bool("no-scholar") {
		scholarOpts := []fetch.Option{}
		if key := c.String("scholar-key"); key != "" {
			scholarOpts = append(scholarOpts, fetch.WithHeader("x-api-key", key))
		}
		searcher := scholar.NewClient(fetch.NewClient(scholarOpts...))
		opts = append(opts, analysis.WithPaperSearcher(searcher))
	}
	if !c.Bool("no-web-check") {
		checker := webcheck.NewChecker(fetch.NewClient())
		opts = append(opts, analysis.WithKeywordChecker(checker))
	}

	pipeline, err := analysis.NewPipeline(
		repos.Submissions,
		repos.Documents,
		repos.Reports,
		provider,
		regClient,
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	if c.Bool("reset") {
		if err := pipeline.ClearCheckpoint(ctx); err != nil {
			return fmt.Errorf("failed to clear checkpoint: %w", err)
		}
	}

	fmt.Fprintf(os.Stderr, "Analyzing %d submissions\n", len(numbers))

	if len(numbers) == 1 {
		report, err := pipeline.AnalyzeOne(ctx, numbers[0])
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "%s: %d algorithms, %d validated keywords, %d attack searches\n",
			report.SubmissionNumber, len(report.Algorithms),
			len(report.Validated), len(report.AttackSearches))
		return nil
	}

	if err := pipeline.AnalyzeBatch(ctx, numbers); err != nil {
		return fmt.Errorf("batch analysis failed: %w", err)
	}
	return nil
}

func exportCommand(c *cli.Context) error {
	ctx := context.Background()

	repos, err := badger.NewRepositories(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repos.Close()

	out, closeOut, err := openOutput(c.String("out"))
	if err != nil {
		return err
	}
	defer closeOut()

	if err := export.ExportReports(ctx, repos.Reports, out); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	repos, err := badger.NewRepositories(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repos.Close()

	out, closeOut, err := openOutput(c.String("out"))
	if err != nil {
		return err
	}
	defer closeOut()

	if err := export.ExportStats(ctx, repos.Submissions, out); err != nil {
		return fmt.Errorf("stats export failed: %w", err)
	}
	return nil
}

// resolveNumbers collects the submission numbers a command should work on:
// positional arguments, a list file, the whole catalog, or a catalog range.
func resolveNumbers(ctx context.Context, c *cli.Context, repos *badger.Repositories) ([]string, error) {
	if c.NArg() > 0 {
		numbers := make([]string, 0, c.NArg())
		for _, arg := range c.Args().Slice() {
			numbers = append(numbers, strings.ToUpper(strings.TrimSpace(arg)))
		}
		return numbers, nil
	}

	if path := c.String("file"); path != "" {
		return readNumberFile(path)
	}

	from := strings.ToUpper(c.String("from"))
	to := strings.ToUpper(c.String("to"))
	if !c.Bool("all") && from == "" && to == "" {
		return nil, fmt.Errorf("no submissions specified: pass numbers, --file, --all, or --from/--to")
	}

	subs, err := repos.Submissions.ListSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}
	if len(subs) == 0 {
		return nil, fmt.Errorf("catalog is empty: run import first")
	}

	numbers := make([]string, 0, len(subs))
	for _, sub := range subs {
		if from != "" && sub.Number < from {
			continue
		}
		if to != "" && sub.Number > to {
			continue
		}
		numbers = append(numbers, sub.Number)
	}
	if len(numbers) == 0 {
		return nil, fmt.Errorf("no catalog submissions in range %s..%s", from, to)
	}
	return numbers, nil
}

// readNumberFile reads one submission number per line, skipping blanks and
// lines starting with #.
func readNumberFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read list file: %w", err)
	}

	var numbers []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		numbers = append(numbers, strings.ToUpper(line))
	}
	if len(numbers) == 0 {
		return nil, fmt.Errorf("list file %s contains no submission numbers", path)
	}
	return numbers, nil
}

func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func setup(c *cli.Context) error {
	// Missing .env is fine; flags and real environment still apply
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
