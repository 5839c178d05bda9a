package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPHandler_Fetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testDefinition))
	}))
	defer srv.Close()

	h := NewHTTPHandler(srv.URL)
	res, err := h.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Example Hub", res.Definition.Name)
	assert.NotEmpty(t, res.Hash)
}

func TestHTTPHandler_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(testDefinition))
	}))
	defer srv.Close()

	h := NewHTTPHandler(srv.URL)
	res, err := h.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load(), "transient server errors are retried")
	assert.Equal(t, "Example Hub", res.Definition.Name)
}

func TestHTTPHandler_ClientErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	h := NewHTTPHandler(srv.URL)
	_, err := h.Fetch(context.Background())
	assert.ErrorContains(t, err, "404")
	assert.Equal(t, int32(1), calls.Load(), "client errors must not be retried")
}

func TestHTTPHandler_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{name: "valid https", url: "https://hub.example/hub.yaml"},
		{name: "empty url", url: "", wantErr: "cannot be empty"},
		{name: "bad scheme", url: "ftp://hub.example/hub.yaml", wantErr: "unsupported scheme"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := NewHTTPHandler(tt.url).Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
