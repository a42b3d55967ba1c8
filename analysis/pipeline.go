package analysis

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/regsight/devaudit/ai"
	"github.com/regsight/devaudit/core"
	"github.com/regsight/devaudit/registry"
	"github.com/regsight/devaudit/storage"
)

// DocumentFetcher retrieves summary documents from the regulatory database.
// Implemented by registry.Client.
type DocumentFetcher interface {
	FetchSummary(ctx context.Context, number string) (*registry.Download, error)
}

// PaperSearcher finds attack literature for a query.
// Implemented by scholar.Client.
type PaperSearcher interface {
	SearchPapers(ctx context.Context, query string) ([]core.Paper, error)
}

// KeywordChecker validates a technique keyword against web search results.
// Implemented by webcheck.Checker.
type KeywordChecker interface {
	CheckKeyword(ctx context.Context, keyword string) (bool, error)
}

// checkpointStage names the analysis checkpoint in storage.
const checkpointStage = "analyze"

// Pipeline orchestrates device analysis: document retrieval, question
// answering, keyword validation, and attack literature search.
// Devices in a batch are processed concurrently.
type Pipeline struct {
	submissions storage.SubmissionRepository
	documents   storage.DocumentRepository
	reports     storage.ReportRepository
	checkpoints storage.CheckpointRepository
	provider    ai.AIProvider
	fetcher     DocumentFetcher
	searcher    PaperSearcher
	checker     KeywordChecker
	pool        *ants.Pool
	maxKeywords int
	force       bool
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent device processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithCheckpoints records batch progress after each completed device.
// Resume itself is driven by stored reports; the checkpoint shows operators
// how far an interrupted run got.
func WithCheckpoints(checkpoints storage.CheckpointRepository) Option {
	return func(p *Pipeline) error {
		p.checkpoints = checkpoints
		return nil
	}
}

// WithPaperSearcher enables the attack literature stage.
// Without a searcher the stage is skipped and reports carry no attack data.
func WithPaperSearcher(searcher PaperSearcher) Option {
	return func(p *Pipeline) error {
		p.searcher = searcher
		return nil
	}
}

// WithKeywordChecker enables web relevance validation of keywords.
// Without a checker, validated keywords fall back to the model filter alone.
func WithKeywordChecker(checker KeywordChecker) Option {
	return func(p *Pipeline) error {
		p.checker = checker
		return nil
	}
}

// WithForce re-analyzes submissions that already have a stored report.
func WithForce(force bool) Option {
	return func(p *Pipeline) error {
		p.force = force
		return nil
	}
}

// WithMaxKeywords caps how many validated keywords feed the literature
// search. Default is 3.
func WithMaxKeywords(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			n = 1
		}
		p.maxKeywords = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an analysis pipeline.
func NewPipeline(
	submissions storage.SubmissionRepository,
	documents storage.DocumentRepository,
	reports storage.ReportRepository,
	provider ai.AIProvider,
	fetcher DocumentFetcher,
	opts ...Option,
) (*Pipeline, error) {
	if submissions == nil {
		return nil, ErrSubmissionRepositoryRequired
	}
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if reports == nil {
		return nil, ErrReportRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		submissions: submissions,
		documents:   documents,
		reports:     reports,
		provider:    provider,
		fetcher:     fetcher,
		pool:        pool,
		maxKeywords: 3,
		logger:      slog.Default().With("component", "analysis"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// AnalyzeOne runs every analysis stage for a single submission and stores
// the resulting report. Stage failures degrade the report rather than fail
// it: a missing document yields ReportStatusNoDocument, any other failed
// stage yields ReportStatusPartial with that stage's results empty.
func (p *Pipeline) AnalyzeOne(ctx context.Context, number string) (*core.Report, error) {
	sub, err := p.submissions.GetSubmission(ctx, number)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		// Not in the catalog; analyze with registry data only
		sub = &core.Submission{Number: number}
	}

	report := &core.Report{
		SubmissionNumber: sub.Number,
		Device:           sub.Device,
		Company:          sub.Company,
		Panel:            sub.Panel,
		DecisionDate:     sub.DecisionDate,
	}

	doc, err := p.loadDocument(ctx, sub.Number)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		p.logger.Warn("no document for submission", "submission", sub.Number, "err", err)
		report.Status = core.ReportStatusNoDocument
		if err := p.reports.PutReport(ctx, report); err != nil {
			return nil, err
		}
		return report, nil
	}

	partial := false

	algorithms, inputFormats, ok := p.answerStage(ctx, sub, doc)
	partial = partial || !ok
	report.Algorithms = algorithms
	report.InputFormats = inputFormats

	validated, altKeywords, ok := p.keywordStage(ctx, sub, algorithms)
	partial = partial || !ok
	report.Validated = validated
	report.AltKeywords = altKeywords

	searches, rejected, ok := p.attackStage(ctx, validated)
	partial = partial || !ok
	report.AttackSearches = searches
	report.Rejected = rejected

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.Status = core.ReportStatusComplete
	if partial {
		report.Status = core.ReportStatusPartial
	}

	if err := p.reports.PutReport(ctx, report); err != nil {
		return nil, err
	}

	p.logger.Info("analyzed submission",
		"submission", sub.Number,
		"status", report.Status,
		"algorithms", len(report.Algorithms),
		"searches", len(report.AttackSearches))

	return report, nil
}

// AnalyzeBatch analyzes submissions concurrently. Submissions that already
// have a stored report are skipped unless the pipeline was built with
// WithForce, so an interrupted run resumes where it left off. Individual
// device failures are logged and do not stop the batch.
func (p *Pipeline) AnalyzeBatch(ctx context.Context, numbers []string) error {
	if len(numbers) == 0 {
		return ErrNoSubmissions
	}
	numbers = p.skipCompleted(ctx, numbers)
	if len(numbers) == 0 {
		p.logger.Info("all submissions already analyzed")
		return nil
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var failures int

	for _, number := range numbers {
		if err := ctx.Err(); err != nil {
			break
		}

		number := number
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()

			if _, err := p.AnalyzeOne(ctx, number); err != nil {
				p.logger.Error("analysis failed", "submission", number, "err", err)
				mu.Lock()
				failures++
				mu.Unlock()
				return
			}

			mu.Lock()
			p.saveCheckpoint(ctx, number)
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			return err
		}
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	p.logger.Info("batch complete", "total", len(numbers), "failures", failures)
	return nil
}

// skipCompleted drops submissions that already have a stored report, so an
// interrupted batch resumes exactly where it left off regardless of the
// order the pool finished devices in. With force set, everything is kept.
func (p *Pipeline) skipCompleted(ctx context.Context, numbers []string) []string {
	if p.force {
		return numbers
	}

	remaining := make([]string, 0, len(numbers))
	skipped := 0
	for _, number := range numbers {
		_, err := p.reports.GetReport(ctx, number)
		switch {
		case err == nil:
			skipped++
		case errors.Is(err, storage.ErrNotFound):
			remaining = append(remaining, number)
		default:
			p.logger.Warn("failed to check stored report", "submission", number, "err", err)
			remaining = append(remaining, number)
		}
	}

	if skipped > 0 {
		p.logger.Info("skipping submissions with stored reports", "skipped", skipped)
	}
	return remaining
}

// saveCheckpoint records the most recently completed submission.
func (p *Pipeline) saveCheckpoint(ctx context.Context, number string) {
	if p.checkpoints == nil {
		return
	}
	cp := &core.Checkpoint{Stage: checkpointStage, LastSubmission: number}
	if err := p.checkpoints.SaveCheckpoint(ctx, cp); err != nil {
		p.logger.Warn("failed to save checkpoint", "submission", number, "err", err)
	}
}

// ClearCheckpoint discards batch progress so the next run starts fresh.
func (p *Pipeline) ClearCheckpoint(ctx context.Context) error {
	if p.checkpoints == nil {
		return nil
	}
	return p.checkpoints.ClearCheckpoint(ctx, checkpointStage)
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
