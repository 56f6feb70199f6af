package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elpulgo/pullrefresh/internal/logging"
	"github.com/Elpulgo/pullrefresh/internal/refresh"
)

func TestRecorder_ImplementsObserver(t *testing.T) {
	var _ refresh.Observer = NewRecorder()
}

func TestRecorder_StateGauge(t *testing.T) {
	r := NewRecorder()
	assert.Equal(t, 1.0, testutil.ToFloat64(r.state.WithLabelValues("idle")))

	r.StateChanged(refresh.Idle, refresh.PullingBelowThreshold, 10)
	r.StateChanged(refresh.PullingBelowThreshold, refresh.PullingAboveThreshold, 80)

	assert.Equal(t, 0.0, testutil.ToFloat64(r.state.WithLabelValues("idle")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.state.WithLabelValues("pulling-above")))
	assert.Equal(t, "pulling-above", r.Status().State)
}

func TestRecorder_ReleaseDistance(t *testing.T) {
	r := NewRecorder()
	r.StateChanged(refresh.Idle, refresh.PullingBelowThreshold, 10)
	r.StateChanged(refresh.PullingBelowThreshold, refresh.ReleasedBelowThreshold, 30)
	r.StateChanged(refresh.ReleasedBelowThreshold, refresh.Idle, 0)

	assert.Equal(t, 1, testutil.CollectAndCount(r.pullDistance))
	expected := `
# HELP pullrefresh_release_distance Pull distance at the moment a drag was released
# TYPE pullrefresh_release_distance histogram
pullrefresh_release_distance_bucket{le="0"} 0
pullrefresh_release_distance_bucket{le="20"} 0
pullrefresh_release_distance_bucket{le="40"} 1
pullrefresh_release_distance_bucket{le="60"} 1
pullrefresh_release_distance_bucket{le="80"} 1
pullrefresh_release_distance_bucket{le="100"} 1
pullrefresh_release_distance_bucket{le="120"} 1
pullrefresh_release_distance_bucket{le="140"} 1
pullrefresh_release_distance_bucket{le="160"} 1
pullrefresh_release_distance_bucket{le="+Inf"} 1
pullrefresh_release_distance_sum 30
pullrefresh_release_distance_count 1
`
	require.NoError(t, testutil.CollectAndCompare(r.pullDistance, strings.NewReader(expected)))
}

func TestRecorder_EpisodesAndFetches(t *testing.T) {
	r := NewRecorder()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	r.LoadStarted(1, TriggerGesture)
	r.LoadStarted(2, TriggerAuto)
	r.LoadStarted(3, TriggerAuto)
	r.LoadCancelled()
	r.FetchCompleted(120*time.Millisecond, nil, at)
	r.FetchCompleted(time.Second, errors.New("probe failed"), at.Add(time.Minute))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.episodes.WithLabelValues("gesture")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.episodes.WithLabelValues("auto")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cancellations))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetchErrors))

	status := r.Status()
	assert.Equal(t, uint64(3), status.Episode)
	assert.Equal(t, at, status.LastRefresh, "a failed fetch keeps the last successful time")
	assert.Equal(t, "probe failed", status.LastError)

	r.FetchCompleted(time.Millisecond, nil, at.Add(2*time.Minute))
	assert.Empty(t, r.Status().LastError)
}

func TestHandler_Endpoints(t *testing.T) {
	r := NewRecorder()
	r.LoadStarted(4, TriggerKey)
	r.SourceChanged("fresh")
	handler := NewHandler(r, logging.NewNop())

	t.Run("metrics", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `pullrefresh_loading_episodes_total{trigger="key"} 1`)
		assert.Contains(t, body, `pullrefresh_state{state="idle"} 1`)
		assert.Contains(t, body, "go_goroutines")
	})

	t.Run("status", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var status Status
		require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
		assert.Equal(t, uint64(4), status.Episode)
		assert.Equal(t, "fresh", status.Source)
		assert.Equal(t, "idle", status.State)
	})

	t.Run("healthz", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok\n", w.Body.String())
	})

	t.Run("method not allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/status", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestServer_StartAndShutdown(t *testing.T) {
	s := NewServer("127.0.0.1:0", NewRecorder(), logging.NewNop())
	require.NoError(t, s.Start())

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", s.Addr()))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok\n", string(body))

	require.NoError(t, s.Shutdown(context.Background()))

	_, err = http.Get(fmt.Sprintf("http://%s/healthz", s.Addr()))
	assert.Error(t, err, "server must be closed after Shutdown")
}

func TestServer_StartFailsOnBadAddress(t *testing.T) {
	s := NewServer("256.0.0.1:bad", NewRecorder(), logging.NewNop())
	assert.Error(t, s.Start())
	assert.NoError(t, s.Shutdown(context.Background()), "shutdown without start is a no-op")
}
