package probe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"raycompile/internal/metrics"
	"raycompile/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatencyDirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	mc := metrics.New()
	pr := New(Config{URL: srv.URL, Timeout: 2 * time.Second, Retries: 1}, mc)

	d, err := pr.Latency(context.Background(), srv.Client())
	require.NoError(t, err)
	assert.Greater(t, d, time.Duration(0))
	assert.Equal(t, 1, mc.Summary().Success)
}

func TestLatencyRetriesBadStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	mc := metrics.New()
	pr := New(Config{URL: srv.URL, Timeout: 2 * time.Second, Retries: 2}, mc)

	_, err := pr.Latency(context.Background(), srv.Client())
	assert.ErrorContains(t, err, "500")
	assert.Equal(t, int32(3), calls.Load())

	s := mc.Summary()
	assert.Equal(t, 0, s.Success)
	assert.Equal(t, 3, s.Failures)
}

func TestLatencyStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr := New(Config{URL: srv.URL, Retries: 5}, nil)
	_, err := pr.Latency(ctx, srv.Client())
	assert.Error(t, err)
}

func TestResultMillis(t *testing.T) {
	assert.Equal(t, 120, Result{Latency: 120 * time.Millisecond}.Millis())
	assert.Equal(t, 1, Result{Latency: 300 * time.Microsecond}.Millis())
	assert.Equal(t, -1, Result{Err: errors.New("x")}.Millis())
}

func TestRunThroughEngine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	direct := model.NewProfile()
	direct.Remark = "direct"
	direct.Protocol = model.ProtocolFreedom

	broken := model.NewProfile()
	broken.Remark = "broken"
	broken.Protocol = model.ProtocolTrojan
	broken.Security = "bogus"

	profiles := []model.Profile{*direct, *broken}

	var seen int
	pr := New(Config{URL: srv.URL, Timeout: 5 * time.Second, Retries: 1, Workers: 4}, metrics.New())
	results, err := pr.Run(context.Background(), profiles, func(Result) { seen++ })
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 2, seen)

	assert.Equal(t, direct.UUID, results[0].UUID)
	require.NoError(t, results[0].Err)
	assert.Greater(t, results[0].Millis(), 0)

	assert.Equal(t, broken.UUID, results[1].UUID)
	assert.Error(t, results[1].Err)
	assert.Equal(t, -1, results[1].Millis())
}

func TestRunEmpty(t *testing.T) {
	results, err := New(Config{}, nil).Run(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNegativeRetriesStillAttemptOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	pr := New(Config{URL: srv.URL, Timeout: 2 * time.Second, Retries: -1}, nil)
	d, err := pr.Latency(context.Background(), srv.Client())
	require.Error(t, err)
	assert.Zero(t, d)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, -1, Result{Latency: d, Err: err}.Millis())
}

func TestRunCancelledKeepsFinishedBatches(t *testing.T) {
	first := model.NewProfile()
	first.Protocol = model.ProtocolTrojan
	first.Security = "bogus"
	second := first.Clone()
	second.UUID = "second"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pr := New(Config{URL: "http://127.0.0.1:1/", Workers: 1}, nil)
	results, err := pr.Run(ctx, []model.Profile{*first, *second}, func(Result) { cancel() })
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 2)

	assert.Equal(t, first.UUID, results[0].UUID)
	assert.Error(t, results[0].Err)
	assert.Empty(t, results[1].UUID, "second batch never ran")
}
