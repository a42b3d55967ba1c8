package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	t.Run("returns body and content type", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>hello</html>"))
		}))
		defer srv.Close()

		client := NewClient()
		res, err := client.Get(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, []byte("<html>hello</html>"), res.Body)
		assert.Contains(t, res.ContentType, "text/html")
	})

	t.Run("sends browser user agent", func(t *testing.T) {
		var gotUA string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
		}))
		defer srv.Close()

		client := NewClient()
		_, err := client.Get(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, DefaultUserAgent, gotUA)
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := NewClient()
		_, err := client.Get(context.Background(), srv.URL)

		assert.ErrorIs(t, err, ErrUnexpectedStatus)
	})

	t.Run("body over size cap", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(make([]byte, 2048))
		}))
		defer srv.Close()

		client := NewClient(WithMaxBodySize(1024))
		_, err := client.Get(context.Background(), srv.URL)

		assert.ErrorIs(t, err, ErrBodyTooLarge)
	})

	t.Run("empty url", func(t *testing.T) {
		client := NewClient()
		_, err := client.Get(context.Background(), "  ")

		assert.ErrorIs(t, err, ErrEmptyURL)
	})

	t.Run("canceled context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		client := NewClient()
		_, err := client.Get(ctx, srv.URL)

		assert.Error(t, err)
	})
}

func TestRetryWithBackoff(t *testing.T) {
	t.Run("succeeds first try", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			return nil
		}, 3, time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, 5, time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		sentinel := errors.New("persistent")
		calls := 0
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			return sentinel
		}, 3, time.Millisecond)

		assert.ErrorIs(t, err, sentinel)
		assert.Equal(t, 3, calls)
	})

	t.Run("invalid max attempts", func(t *testing.T) {
		err := RetryWithBackoff(context.Background(), func() error { return nil }, 0, time.Millisecond)
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := RetryWithBackoff(ctx, func() error { return errors.New("nope") }, 3, time.Millisecond)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMarkdownPassages(t *testing.T) {
	html := `<html><body>
<h1>Device</h1>
<p>The device applies a convolutional neural network to chest radiographs and produces a triage score for each study.</p>
<p>ok</p>
</body></html>`

	passages, err := MarkdownPassages(html, 40)

	require.NoError(t, err)
	require.Len(t, passages, 1)
	assert.Contains(t, passages[0], "convolutional neural network")
}
