package scholar

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/regsight/devaudit/core"
	"github.com/regsight/devaudit/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{
  "total": 2,
  "data": [
    {"title": "Adversarial examples for deep learning ECG models", "abstract": "We craft perturbations...", "url": "https://example.org/p1"},
    {"title": "", "abstract": "no title", "url": "https://example.org/p2"}
  ]
}`

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(
		fetch.NewClient(),
		WithBaseURL(srv.URL),
		WithRetry(3, time.Millisecond),
		WithPacing(0),
	)
}

func TestSearchPapers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/paper/search", r.URL.Path)
		assert.Equal(t, "adversarial example on ECG analysis", r.URL.Query().Get("query"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		fmt.Fprint(w, searchBody)
	}))
	defer srv.Close()

	client := newTestClient(srv)
	papers, err := client.SearchPapers(context.Background(), "adversarial example on ECG analysis")

	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "Adversarial examples for deep learning ECG models", papers[0].Title)
	assert.Equal(t, "https://example.org/p1", papers[0].URL)
}

func TestSearchPapers_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, searchBody)
	}))
	defer srv.Close()

	client := newTestClient(srv)
	papers, err := client.SearchPapers(context.Background(), "poisoning")

	require.NoError(t, err)
	assert.Len(t, papers, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSearchPapers_ServerErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv)
	_, err := client.SearchPapers(context.Background(), "poisoning")

	assert.ErrorIs(t, err, fetch.ErrUnexpectedStatus)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSearchPapers_EmptyQuery(t *testing.T) {
	client := NewClient(fetch.NewClient())
	_, err := client.SearchPapers(context.Background(), "  ")

	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearchPapers_Pacing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, searchBody)
	}))
	defer srv.Close()

	client := NewClient(
		fetch.NewClient(),
		WithBaseURL(srv.URL),
		WithPacing(50*time.Millisecond),
	)

	start := time.Now()
	_, err := client.SearchPapers(context.Background(), "poisoning")
	require.NoError(t, err)
	_, err = client.SearchPapers(context.Background(), "evasion")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestSearchPapers_PacingCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, searchBody)
	}))
	defer srv.Close()

	client := NewClient(
		fetch.NewClient(),
		WithBaseURL(srv.URL),
		WithPacing(time.Hour),
	)

	_, err := client.SearchPapers(context.Background(), "poisoning")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.SearchPapers(ctx, "evasion")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsSurvey(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"A Survey of Adversarial Attacks on Medical Imaging", true},
		{"Membership inference: a systematic review", true},
		{"Deep learning security: A Review", true},
		{"A review of poisoning defenses", true},
		{"Adversarial perturbations against ECG classifiers", false},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSurvey(core.Paper{Title: tt.title}))
		})
	}
}
