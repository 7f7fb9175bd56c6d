package ingest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFetcher(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		body := nativeHeader + "\n1,NQ,long,2025-09-05 06:31,2025-09-05 07:05,100,101,1,0\n"
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte(body))
		}))
		defer server.Close()

		f := NewFetcher(100, 10, zap.NewNop())

		// Act
		r, err := f.Fetch(context.Background(), server.URL)

		// Assert
		require.NoError(t, err)
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, body, string(got))
	})

	t.Run("RetriesOnServerError", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte("trade_id\n"))
		}))
		defer server.Close()

		f := NewFetcher(100, 10, zap.NewNop())

		_, err := f.Fetch(context.Background(), server.URL)

		assert.NoError(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("NoRetryOnNotFound", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		f := NewFetcher(100, 10, zap.NewNop())

		_, err := f.Fetch(context.Background(), server.URL)

		assert.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}
