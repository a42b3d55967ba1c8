package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/regsight/devaudit/core"
	"github.com/regsight/devaudit/storage"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	t.Cleanup(func() { repos.Close() })
	return repos
}

func TestSubmissionBasics(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	sub := &core.Submission{
		Number:       "K213760",
		Device:       "ChestLink",
		Company:      "Oxipit",
		Panel:        "Radiology",
		DecisionDate: time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := repos.Submissions.PutSubmissions(ctx, sub); err != nil {
		t.Fatalf("Failed to put submission: %v", err)
	}
	if sub.InsertedAt.IsZero() {
		t.Fatal("Expected InsertedAt to be set")
	}

	got, err := repos.Submissions.GetSubmission(ctx, "K213760")
	if err != nil {
		t.Fatalf("Failed to get submission: %v", err)
	}
	if got.Device != "ChestLink" {
		t.Fatalf("Expected 'ChestLink', got '%s'", got.Device)
	}
}

func TestSubmissionUpsertPreservesInsertedAt(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	sub := &core.Submission{Number: "K213760", Device: "ChestLink"}
	if err := repos.Submissions.PutSubmissions(ctx, sub); err != nil {
		t.Fatalf("Failed to put submission: %v", err)
	}
	firstInserted := sub.InsertedAt

	updated := &core.Submission{Number: "K213760", Device: "ChestLink v2"}
	if err := repos.Submissions.PutSubmissions(ctx, updated); err != nil {
		t.Fatalf("Failed to upsert submission: %v", err)
	}
	if !updated.InsertedAt.Equal(firstInserted) {
		t.Fatalf("Expected InsertedAt preserved, got %v != %v", updated.InsertedAt, firstInserted)
	}

	got, err := repos.Submissions.GetSubmission(ctx, "K213760")
	if err != nil {
		t.Fatalf("Failed to get submission: %v", err)
	}
	if got.Device != "ChestLink v2" {
		t.Fatalf("Expected 'ChestLink v2', got '%s'", got.Device)
	}
}

func TestSubmissionList(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	subs := []*core.Submission{
		{Number: "K213760", Device: "B"},
		{Number: "K183182", Device: "A"},
		{Number: "P170019", Device: "C"},
	}
	if err := repos.Submissions.PutSubmissions(ctx, subs...); err != nil {
		t.Fatalf("Failed to put submissions: %v", err)
	}

	listed, err := repos.Submissions.ListSubmissions(ctx)
	if err != nil {
		t.Fatalf("Failed to list submissions: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("Expected 3 submissions, got %d", len(listed))
	}
	// Ordered by number (lexicographic)
	if listed[0].Number != "K183182" {
		t.Fatalf("Expected K183182 first, got %s", listed[0].Number)
	}
}

func TestSubmissionNotFound(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	_, err := repos.Submissions.GetSubmission(ctx, "K000000")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	err = repos.Submissions.DeleteSubmissions(ctx, "K000000")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestDocumentRoundtrip(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	doc := &core.Document{
		SubmissionNumber: "K213760",
		SourceURL:        "https://example.com/K213760.pdf",
		Kind:             core.DocumentKindPDF,
		Passages:         []string{"The device uses a convolutional neural network"},
		FetchedAt:        time.Now().UTC(),
	}

	if err := repos.Documents.PutDocument(ctx, doc); err != nil {
		t.Fatalf("Failed to put document: %v", err)
	}

	got, err := repos.Documents.GetDocument(ctx, "K213760")
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}
	if got.Kind != core.DocumentKindPDF {
		t.Fatalf("Expected PDF kind, got %d", got.Kind)
	}
	if len(got.Passages) != 1 {
		t.Fatalf("Expected 1 passage, got %d", len(got.Passages))
	}

	if err := repos.Documents.DeleteDocument(ctx, "K213760"); err != nil {
		t.Fatalf("Failed to delete document: %v", err)
	}
	_, err = repos.Documents.GetDocument(ctx, "K213760")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestReportIDGeneration(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	report := &core.Report{
		SubmissionNumber: "K213760",
		Device:           "ChestLink",
		Status:           core.ReportStatusComplete,
		Algorithms: []core.Finding{
			{Score: 0.92, Text: "convolutional neural network"},
		},
	}

	if err := repos.Reports.PutReport(ctx, report); err != nil {
		t.Fatalf("Failed to put report: %v", err)
	}
	if report.Id == 0 {
		t.Fatal("Expected non-zero ID")
	}
	if report.Id != core.IDFromContent("K213760") {
		t.Fatal("Expected content-based ID from submission number")
	}

	got, err := repos.Reports.GetReport(ctx, "K213760")
	if err != nil {
		t.Fatalf("Failed to get report: %v", err)
	}
	if got.Algorithms[0].Text != "convolutional neural network" {
		t.Fatalf("Unexpected finding: %q", got.Algorithms[0].Text)
	}
}

func TestReportOverwrite(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	first := &core.Report{SubmissionNumber: "K213760", Status: core.ReportStatusNoDocument}
	if err := repos.Reports.PutReport(ctx, first); err != nil {
		t.Fatalf("Failed to put report: %v", err)
	}

	second := &core.Report{SubmissionNumber: "K213760", Status: core.ReportStatusComplete}
	if err := repos.Reports.PutReport(ctx, second); err != nil {
		t.Fatalf("Failed to overwrite report: %v", err)
	}

	listed, err := repos.Reports.ListReports(ctx)
	if err != nil {
		t.Fatalf("Failed to list reports: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("Expected 1 report after overwrite, got %d", len(listed))
	}
	if listed[0].Status != core.ReportStatusComplete {
		t.Fatalf("Expected complete status, got %d", listed[0].Status)
	}
}

func TestCheckpointRoundtrip(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	// Missing checkpoint is nil, nil
	cp, err := repos.Checkpoints.LoadCheckpoint(ctx, "analyze")
	if err != nil {
		t.Fatalf("Failed to load missing checkpoint: %v", err)
	}
	if cp != nil {
		t.Fatal("Expected nil checkpoint")
	}

	save := &core.Checkpoint{Stage: "analyze", LastSubmission: "K213760"}
	if err := repos.Checkpoints.SaveCheckpoint(ctx, save); err != nil {
		t.Fatalf("Failed to save checkpoint: %v", err)
	}

	cp, err = repos.Checkpoints.LoadCheckpoint(ctx, "analyze")
	if err != nil {
		t.Fatalf("Failed to load checkpoint: %v", err)
	}
	if cp == nil || cp.LastSubmission != "K213760" {
		t.Fatalf("Unexpected checkpoint: %+v", cp)
	}

	if err := repos.Checkpoints.ClearCheckpoint(ctx, "analyze"); err != nil {
		t.Fatalf("Failed to clear checkpoint: %v", err)
	}
	cp, err = repos.Checkpoints.LoadCheckpoint(ctx, "analyze")
	if err != nil {
		t.Fatalf("Failed to load cleared checkpoint: %v", err)
	}
	if cp != nil {
		t.Fatal("Expected nil checkpoint after clear")
	}
}
