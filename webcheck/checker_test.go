package webcheck

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/regsight/devaudit/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLinks(t *testing.T) {
	body := `<html><body>
<a href="https://vendor.example/product">Product</a>
<a href="https://www.fda.gov/device">FDA</a>
<a href="https://vendor.example/whitepaper.pdf">Whitepaper</a>
<a href="/relative">Relative</a>
<a href="https://vendor.example/product">Product dup</a>
<a href="https://press.example/release">Press</a>
</body></html>`

	links := extractLinks(body)

	assert.Equal(t, []string{
		"https://vendor.example/product",
		"https://press.example/release",
	}, links)
}

func TestSkipLink(t *testing.T) {
	assert.True(t, skipLink("https://www.fda.gov/device"))
	assert.True(t, skipLink("https://vendor.example/logo.img"))
	assert.True(t, skipLink("https://vendor.example/summary.PDF"))
	assert.False(t, skipLink("https://vendor.example/product"))
}

func TestCheckKeyword(t *testing.T) {
	mux := http.NewServeMux()
	var pageURL string
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "convolutional neural network", r.URL.Query().Get("q"))
		fmt.Fprintf(w, `<html><a href="%s">result</a></html>`, pageURL)
	})
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<p>Convolutional networks are a deep   learning architecture for images.</p>
</body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	pageURL = srv.URL + "/page"

	checker := NewChecker(
		fetch.NewClient(),
		WithSearchURL(srv.URL+"/search?q=%s"),
	)

	relevant, err := checker.CheckKeyword(context.Background(), "convolutional neural network")

	require.NoError(t, err)
	assert.True(t, relevant)
}

func TestCheckKeyword_NoRelevantPage(t *testing.T) {
	mux := http.NewServeMux()
	var pageURL string
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><a href="%s">result</a></html>`, pageURL)
	})
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>A page about gardening.</p></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	pageURL = srv.URL + "/page"

	checker := NewChecker(
		fetch.NewClient(),
		WithSearchURL(srv.URL+"/search?q=%s"),
	)

	relevant, err := checker.CheckKeyword(context.Background(), "quantum flux estimator")

	require.NoError(t, err)
	assert.False(t, relevant)
}

func TestCheckKeyword_BrokenPagesSkipped(t *testing.T) {
	mux := http.NewServeMux()
	var brokenURL, goodURL string
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><a href="%s">broken</a><a href="%s">good</a></html>`,
			brokenURL, goodURL)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/good", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>A neural network classifier.</p></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	brokenURL = srv.URL + "/broken"
	goodURL = srv.URL + "/good"

	checker := NewChecker(
		fetch.NewClient(),
		WithSearchURL(srv.URL+"/search?q=%s"),
	)

	relevant, err := checker.CheckKeyword(context.Background(), "random forest")

	require.NoError(t, err)
	assert.True(t, relevant)
}

func TestCheckKeyword_SearchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	checker := NewChecker(
		fetch.NewClient(),
		WithSearchURL(srv.URL+"/search?q=%s"),
	)

	_, err := checker.CheckKeyword(context.Background(), "random forest")
	assert.Error(t, err)
}
