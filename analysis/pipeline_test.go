package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/regsight/devaudit/ai"
	"github.com/regsight/devaudit/ai/mock"
	"github.com/regsight/devaudit/core"
	"github.com/regsight/devaudit/registry"
	"github.com/regsight/devaudit/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFetcher implements DocumentFetcher for testing.
type testFetcher struct {
	downloads map[string]*registry.Download
	err       error
}

func (f *testFetcher) FetchSummary(ctx context.Context, number string) (*registry.Download, error) {
	if f.err != nil {
		return nil, f.err
	}
	if dl, ok := f.downloads[number]; ok {
		return dl, nil
	}
	return nil, registry.ErrNoDocument
}

// testSearcher implements PaperSearcher for testing.
type testSearcher struct {
	papers  []core.Paper
	queries []string
	err     error
}

func (s *testSearcher) SearchPapers(ctx context.Context, query string) ([]core.Paper, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.papers, nil
}

// testChecker implements KeywordChecker for testing.
type testChecker struct {
	relevant map[string]bool
	queries  []string
	err      error
}

func (c *testChecker) CheckKeyword(ctx context.Context, keyword string) (bool, error) {
	c.queries = append(c.queries, keyword)
	if c.err != nil {
		return false, c.err
	}
	return c.relevant[keyword], nil
}

func htmlDownload(number string) *registry.Download {
	return &registry.Download{
		SourceURL: "https://example.com/" + number,
		Kind:      core.DocumentKindHTML,
		Data: []byte(`<html><body>
<p>The device applies a convolutional neural network to chest radiographs and produces a triage score.</p>
<p>Input data are DICOM images from standard radiography systems at any resolution.</p>
</body></html>`),
	}
}

func newTestPipeline(t *testing.T, provider ai.AIProvider, fetcher DocumentFetcher, opts ...Option) (*Pipeline, *badger.Repositories) {
	t.Helper()

	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	base := []Option{WithPoolSize(2), WithCheckpoints(repos.Checkpoints)}
	p, err := NewPipeline(repos.Submissions, repos.Documents, repos.Reports, provider, fetcher, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(p.Release)

	return p, repos
}

func TestNewPipeline_Validation(t *testing.T) {
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	provider := mock.NewMockProvider()
	fetcher := &testFetcher{}

	_, err = NewPipeline(nil, repos.Documents, repos.Reports, provider, fetcher)
	assert.ErrorIs(t, err, ErrSubmissionRepositoryRequired)

	_, err = NewPipeline(repos.Submissions, nil, repos.Reports, provider, fetcher)
	assert.ErrorIs(t, err, ErrDocumentRepositoryRequired)

	_, err = NewPipeline(repos.Submissions, repos.Documents, nil, provider, fetcher)
	assert.ErrorIs(t, err, ErrReportRepositoryRequired)

	_, err = NewPipeline(repos.Submissions, repos.Documents, repos.Reports, nil, fetcher)
	assert.ErrorIs(t, err, ErrAIProviderRequired)

	_, err = NewPipeline(repos.Submissions, repos.Documents, repos.Reports, provider, nil)
	assert.ErrorIs(t, err, ErrFetcherRequired)
}

func TestAnalyzeOne_Complete(t *testing.T) {
	ctx := context.Background()

	answerer := mock.NewMockAnswerer()
	answerer.AnswerQuestionFunc = func(ctx context.Context, question string, passages []string) ([]ai.Answer, error) {
		if question == questionInputFormat {
			return []ai.Answer{{Text: "DICOM images", Score: 0.8}}, nil
		}
		return []ai.Answer{
			{Text: "convolutional neural network", Score: 0.9},
			{Text: "neural network", Score: 0.6}, // contained in the first, deduped
		}, nil
	}
	provider := mock.NewMockProviderWithServices(answerer, mock.NewMockKeywordFilter())

	fetcher := &testFetcher{downloads: map[string]*registry.Download{
		"K213760": htmlDownload("K213760"),
	}}
	searcher := &testSearcher{papers: []core.Paper{
		{Title: "Adversarial example attacks on radiograph classifiers", Abstract: "evasion"},
		{Title: "A Survey of attacks", Abstract: "broad overview"},
		{Title: "Unrelated benchmarking paper", Abstract: "datasets"},
	}}

	checker := &testChecker{relevant: map[string]bool{"deep convolutional network": true}}
	p, repos := newTestPipeline(t, provider, fetcher,
		WithPaperSearcher(searcher),
		WithKeywordChecker(checker),
		WithMaxKeywords(1),
	)

	require.NoError(t, repos.Submissions.PutSubmissions(ctx, &core.Submission{
		Number:    "K213760",
		Device:    "ChestLink",
		Company:   "Oxipit",
		KnownAlgo: "deep convolutional network",
	}))

	report, err := p.AnalyzeOne(ctx, "K213760")
	require.NoError(t, err)

	assert.Equal(t, core.ReportStatusComplete, report.Status)

	// Supplement algorithm leads at score 1.0
	require.NotEmpty(t, report.Algorithms)
	assert.Equal(t, "deep convolutional network", report.Algorithms[0].Text)
	assert.Equal(t, 1.0, report.Algorithms[0].Score)

	// Contained duplicate was removed
	for _, f := range report.Algorithms {
		assert.NotEqual(t, "neural network", f.Text)
	}

	require.NotEmpty(t, report.InputFormats)
	assert.Equal(t, "DICOM images", report.InputFormats[0].Text)

	// Every non-generic candidate was checked against the web
	assert.Equal(t, []string{"deep convolutional network", "convolutional neural network"}, checker.queries)

	// Only the web-validated keyword survives; the rejected one does not
	require.Len(t, report.Validated, 1)
	assert.Equal(t, "deep convolutional network", report.Validated[0].Text)

	// The model filter's output is kept separately
	assert.Equal(t, []string{"deep convolutional network", "convolutional neural network"}, report.AltKeywords)

	// One keyword, three query prefixes
	assert.Len(t, searcher.queries, 3)

	// Survey and unclassified papers rejected, attack paper classified
	require.NotEmpty(t, report.AttackSearches)
	for _, s := range report.AttackSearches {
		for _, paper := range s.Papers {
			assert.NotEqual(t, core.AttackClassUnclassified, paper.Class)
		}
	}
	assert.Len(t, report.Rejected, 6) // 2 rejects per query, 3 queries

	// Report persisted
	stored, err := repos.Reports.GetReport(ctx, "K213760")
	require.NoError(t, err)
	assert.Equal(t, report.Status, stored.Status)

	// Document cached
	doc, err := repos.Documents.GetDocument(ctx, "K213760")
	require.NoError(t, err)
	assert.Equal(t, core.DocumentKindHTML, doc.Kind)
}

func TestAnalyzeOne_NoDocument(t *testing.T) {
	ctx := context.Background()

	p, repos := newTestPipeline(t, mock.NewMockProvider(), &testFetcher{})

	require.NoError(t, repos.Submissions.PutSubmissions(ctx, &core.Submission{
		Number: "K999999",
		Device: "Ghost Device",
	}))

	report, err := p.AnalyzeOne(ctx, "K999999")
	require.NoError(t, err)

	assert.Equal(t, core.ReportStatusNoDocument, report.Status)
	assert.Equal(t, "Ghost Device", report.Device)
	assert.Empty(t, report.Algorithms)

	stored, err := repos.Reports.GetReport(ctx, "K999999")
	require.NoError(t, err)
	assert.Equal(t, core.ReportStatusNoDocument, stored.Status)
}

func TestAnalyzeOne_PartialOnStageFailure(t *testing.T) {
	ctx := context.Background()

	answerer := mock.NewMockAnswerer()
	answerer.AnswerQuestionFunc = func(ctx context.Context, question string, passages []string) ([]ai.Answer, error) {
		return nil, errors.New("model unavailable")
	}
	provider := mock.NewMockProviderWithServices(answerer, mock.NewMockKeywordFilter())

	fetcher := &testFetcher{downloads: map[string]*registry.Download{
		"K213760": htmlDownload("K213760"),
	}}

	p, _ := newTestPipeline(t, provider, fetcher)

	report, err := p.AnalyzeOne(ctx, "K213760")
	require.NoError(t, err)

	assert.Equal(t, core.ReportStatusPartial, report.Status)
	assert.Empty(t, report.Algorithms)
}

func TestAnalyzeOne_GenericTermsFiltered(t *testing.T) {
	ctx := context.Background()

	answerer := mock.NewMockAnswerer()
	answerer.AnswerQuestionFunc = func(ctx context.Context, question string, passages []string) ([]ai.Answer, error) {
		if question == questionInputFormat {
			return nil, nil
		}
		return []ai.Answer{
			{Text: "machine learning", Score: 0.9},
			{Text: "random forest", Score: 0.7},
		}, nil
	}
	provider := mock.NewMockProviderWithServices(answerer, mock.NewMockKeywordFilter())

	fetcher := &testFetcher{downloads: map[string]*registry.Download{
		"K213760": htmlDownload("K213760"),
	}}
	searcher := &testSearcher{}

	p, _ := newTestPipeline(t, provider, fetcher, WithPaperSearcher(searcher), WithMaxKeywords(5))

	report, err := p.AnalyzeOne(ctx, "K213760")
	require.NoError(t, err)

	// Generic term stays in algorithms but never reaches validation or search
	for _, f := range report.Validated {
		assert.False(t, isGenericTerm(f.Text))
	}
	for _, q := range searcher.queries {
		assert.NotContains(t, q, "machine learning")
	}
}

func TestAnalyzeOne_CatalogDescriptionAnswered(t *testing.T) {
	ctx := context.Background()

	var seen []string
	answerer := mock.NewMockAnswerer()
	answerer.AnswerQuestionFunc = func(ctx context.Context, question string, passages []string) ([]ai.Answer, error) {
		seen = passages
		return nil, nil
	}
	provider := mock.NewMockProviderWithServices(answerer, mock.NewMockKeywordFilter())

	fetcher := &testFetcher{downloads: map[string]*registry.Download{
		"K213760": htmlDownload("K213760"),
	}}

	p, repos := newTestPipeline(t, provider, fetcher)

	desc := "Software that flags intracranial hemorrhage on CT series."
	require.NoError(t, repos.Submissions.PutSubmissions(ctx, &core.Submission{
		Number:      "K213760",
		Device:      "BriefCase",
		Description: desc,
	}))

	_, err := p.AnalyzeOne(ctx, "K213760")
	require.NoError(t, err)

	// The catalog description is answered over alongside the document
	assert.Contains(t, seen, desc)
	assert.Greater(t, len(seen), 1)
}

func TestAnalyzeBatch_Checkpointing(t *testing.T) {
	ctx := context.Background()

	fetcher := &testFetcher{downloads: map[string]*registry.Download{
		"K000001": htmlDownload("K000001"),
		"K000002": htmlDownload("K000002"),
		"K000003": htmlDownload("K000003"),
	}}

	p, repos := newTestPipeline(t, mock.NewMockProvider(), fetcher)

	numbers := []string{"K000001", "K000002", "K000003"}
	require.NoError(t, p.AnalyzeBatch(ctx, numbers))

	reports, err := repos.Reports.ListReports(ctx)
	require.NoError(t, err)
	assert.Len(t, reports, 3)

	cp, err := repos.Checkpoints.LoadCheckpoint(ctx, checkpointStage)
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Contains(t, numbers, cp.LastSubmission)

	require.NoError(t, p.ClearCheckpoint(ctx))
	cp, err = repos.Checkpoints.LoadCheckpoint(ctx, checkpointStage)
	require.NoError(t, err)
	assert.Nil(t, cp)
}

func TestAnalyzeBatch_SkipsStoredReports(t *testing.T) {
	ctx := context.Background()

	fetcher := &testFetcher{downloads: map[string]*registry.Download{
		"K000001": htmlDownload("K000001"),
		"K000002": htmlDownload("K000002"),
		"K000003": htmlDownload("K000003"),
	}}

	p, repos := newTestPipeline(t, mock.NewMockProvider(), fetcher)

	require.NoError(t, repos.Reports.PutReport(ctx, &core.Report{
		SubmissionNumber: "K000003",
		Device:           "Already Done",
		Status:           core.ReportStatusComplete,
	}))

	// Resume keeps exactly the unfinished numbers, in order
	remaining := p.skipCompleted(ctx, []string{"K000001", "K000002", "K000003"})
	assert.Equal(t, []string{"K000001", "K000002"}, remaining)

	// A batch made entirely of finished devices is a no-op, not an error
	require.NoError(t, p.AnalyzeBatch(ctx, []string{"K000003"}))

	require.NoError(t, p.AnalyzeBatch(ctx, []string{"K000001", "K000002", "K000003"}))

	stored, err := repos.Reports.GetReport(ctx, "K000003")
	require.NoError(t, err)
	assert.Equal(t, "Already Done", stored.Device)

	_, err = repos.Reports.GetReport(ctx, "K000001")
	require.NoError(t, err)
	_, err = repos.Reports.GetReport(ctx, "K000002")
	require.NoError(t, err)
}

func TestAnalyzeBatch_ForceReanalyzes(t *testing.T) {
	ctx := context.Background()

	fetcher := &testFetcher{downloads: map[string]*registry.Download{
		"K000001": htmlDownload("K000001"),
	}}

	p, repos := newTestPipeline(t, mock.NewMockProvider(), fetcher, WithForce(true))

	require.NoError(t, repos.Reports.PutReport(ctx, &core.Report{
		SubmissionNumber: "K000001",
		Device:           "Stale",
		Status:           core.ReportStatusNoDocument,
	}))

	require.NoError(t, p.AnalyzeBatch(ctx, []string{"K000001"}))

	stored, err := repos.Reports.GetReport(ctx, "K000001")
	require.NoError(t, err)
	assert.Equal(t, core.ReportStatusComplete, stored.Status)
	assert.NotEqual(t, "Stale", stored.Device)
}

func TestAnalyzeBatch_Empty(t *testing.T) {
	p, _ := newTestPipeline(t, mock.NewMockProvider(), &testFetcher{})

	err := p.AnalyzeBatch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoSubmissions)
}

func TestIsGenericTerm(t *testing.T) {
	tests := []struct {
		keyword string
		want    bool
	}{
		{"machine learning", true},
		{"uses machine learning models", true},
		{"Artificial  Intelligence", true},
		{"510k submission", true},
		{"510 K", true},
		{"A.I. software", true},
		{"convolutional neural network", false},
		{"random forest", false},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			assert.Equal(t, tt.want, isGenericTerm(tt.keyword))
		})
	}
}

func TestClassifyPaper(t *testing.T) {
	tests := []struct {
		name  string
		paper core.Paper
		want  core.AttackClass
	}{
		{
			name:  "adversarial example",
			paper: core.Paper{Title: "Adversarial examples against ECG models"},
			want:  core.AttackClassInference,
		},
		{
			name:  "membership inference in abstract",
			paper: core.Paper{Title: "Privacy of clinical models", Abstract: "We study membership inference."},
			want:  core.AttackClassInference,
		},
		{
			name:  "poisoning",
			paper: core.Paper{Title: "Poisoning federated medical imaging models"},
			want:  core.AttackClassTraining,
		},
		{
			name:  "unrelated",
			paper: core.Paper{Title: "A benchmark of segmentation networks"},
			want:  core.AttackClassUnclassified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPaper(tt.paper))
		})
	}
}

func TestDedupeFindings(t *testing.T) {
	in := []core.Finding{
		{Score: 0.9, Text: "deep convolutional neural network"},
		{Score: 0.8, Text: "Convolutional Neural Network"},
		{Score: 0.7, Text: "random forest"},
		{Score: 0.6, Text: ""},
	}

	out := dedupeFindings(in)

	require.Len(t, out, 2)
	assert.Equal(t, "deep convolutional neural network", out[0].Text)
	assert.Equal(t, "random forest", out[1].Text)
}
