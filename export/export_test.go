package export

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/regsight/devaudit/core"
	"github.com/regsight/devaudit/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *core.Report {
	return &core.Report{
		SubmissionNumber: "K213760",
		Device:           "ClearRead CT",
		Company:          "Riverain Technologies",
		Panel:            "Radiology",
		DecisionDate:     time.Date(2021, 6, 17, 0, 0, 0, 0, time.UTC),
		Status:           core.ReportStatusComplete,
		Algorithms: []core.Finding{
			{Score: 1.0, Text: "convolutional neural network"},
			{Score: 0.82, Text: "vessel suppression"},
		},
		Validated: []core.Finding{
			{Score: 1.0, Text: "convolutional neural network"},
		},
		InputFormats: []core.Finding{
			{Score: 0.91, Text: "DICOM images"},
		},
		AltKeywords: []string{"deep learning"},
		AttackSearches: []core.AttackSearch{
			{
				Query:   "Security Attacks on convolutional neural network",
				Keyword: "convolutional neural network",
				Papers: []core.Paper{
					{Title: "Adversarial examples in CT screening", URL: "https://example.org/p1", Class: core.AttackClassInference},
				},
			},
		},
		Rejected: []core.Paper{
			{Title: "A survey of attacks on deep learning", URL: "https://example.org/p2"},
		},
	}
}

func TestWriteReports(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReports(&buf, []*core.Report{sampleReport()}))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t,
		"Submission Number,Device,Company,Category,Date of Approval,"+
			"Level 1 - Algorithms Found,Level 2 - Filtered Keywords,"+
			"Level 4 - Input Format,Alt Keywords Level 2,Security Attacks Found",
		lines[0])

	assert.Contains(t, out, "K213760")
	assert.Contains(t, out, "06/17/2021")
	assert.Contains(t, out, "1. convolutional neural network (Score: 1.000) | 2. vessel suppression (Score: 0.820)")
	assert.Contains(t, out, "1. DICOM images (Score: 0.910)")
	assert.Contains(t, out, "1. deep learning")
	assert.Contains(t, out, "Security Attacks on convolutional neural network | Adversarial examples in CT screening (https://example.org/p1)")
	assert.Contains(t, out, " || Rejected Papers: | A survey of attacks on deep learning (https://example.org/p2)")
}

func TestWriteReports_EmptyFields(t *testing.T) {
	report := &core.Report{
		SubmissionNumber: "K999999",
		Status:           core.ReportStatusNoDocument,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReports(&buf, []*core.Report{report}))

	out := buf.String()
	assert.Contains(t, out, "No algorithms found")
	assert.Contains(t, out, "No filtered keywords found")
	assert.Contains(t, out, "No input format found")
	assert.Contains(t, out, "No alternative keywords found")
	assert.Contains(t, out, "No security attacks found")
	// Zero decision date stays blank
	assert.Contains(t, out, "K999999,,,,,")
}

func TestWriteReports_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteReports(&buf, nil), ErrNoReports)
}

func TestExportReports(t *testing.T) {
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	ctx := context.Background()
	require.NoError(t, repos.Reports.PutReport(ctx, sampleReport()))

	var buf bytes.Buffer
	require.NoError(t, ExportReports(ctx, repos.Reports, &buf))
	assert.Contains(t, buf.String(), "K213760")

	assert.ErrorIs(t, ExportReports(ctx, nil, &buf), ErrReportRepositoryRequired)
}

func TestPanelCounts(t *testing.T) {
	subs := []*core.Submission{
		{Number: "K1", Panel: "Radiology"},
		{Number: "K2", Panel: "Radiology"},
		{Number: "K3", Panel: "Cardiovascular"},
		{Number: "K4", Panel: ""},
	}

	stats := PanelCounts(subs)
	require.Len(t, stats, 3)
	assert.Equal(t, PanelCount{Panel: "Radiology", Devices: 2}, stats[0])
	// Ties break alphabetically
	assert.Equal(t, PanelCount{Panel: "Cardiovascular", Devices: 1}, stats[1])
	assert.Equal(t, PanelCount{Panel: "Unknown", Devices: 1}, stats[2])
}

func TestExportStats(t *testing.T) {
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	ctx := context.Background()
	require.NoError(t, repos.Submissions.PutSubmissions(ctx,
		&core.Submission{Number: "K1", Panel: "Radiology"},
		&core.Submission{Number: "K2", Panel: "Radiology"},
	))

	var buf bytes.Buffer
	require.NoError(t, ExportStats(ctx, repos.Submissions, &buf))

	out := buf.String()
	assert.Contains(t, out, "Panel,Devices")
	assert.Contains(t, out, "Radiology,2")
}
