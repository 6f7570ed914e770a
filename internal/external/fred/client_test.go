package fred

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/vantage/internal/macro"
	"github.com/wonny/vantage/pkg/httputil"
	"github.com/wonny/vantage/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	hc := httputil.New(logger.NewNop()).DisableRetry()
	return NewClient("test-key", srv.URL, hc, logger.NewNop()), srv
}

func TestObservations(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DGS10", r.URL.Query().Get("series_id"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "desc", r.URL.Query().Get("sort_order"))
		w.Write([]byte(`{
			"observations": [
				{"date": "2026-03-04", "value": "4.25"},
				{"date": "2026-03-03", "value": "."},
				{"date": "2026-03-02", "value": "4.18"}
			]
		}`))
	})

	obs, err := client.Observations(context.Background(), "DGS10", 3)
	require.NoError(t, err)

	// The "." placeholder is dropped, newest stays first.
	require.Len(t, obs, 2)
	assert.InDelta(t, 4.25, obs[0].Value, 1e-9)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), obs[0].Date)
	assert.InDelta(t, 4.18, obs[1].Value, 1e-9)
}

func TestObservationsHTTPError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusBadRequest)
	})

	_, err := client.Observations(context.Background(), "DGS10", 1)
	assert.Error(t, err)
}

func TestLatest(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"observations": [{"date": "2026-03-04", "value": "18.5"}]}`))
	})

	obs, err := client.Latest(context.Background(), "VIXCLS")
	require.NoError(t, err)
	assert.InDelta(t, 18.5, obs.Value, 1e-9)
}

func TestLatestEmptySeries(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"observations": []}`))
	})

	_, err := client.Latest(context.Background(), "VIXCLS")
	assert.Error(t, err)
}

func TestSnapshotBuilderPartialFailure(t *testing.T) {
	// Only VIX responds; everything else 500s. The snapshot must still
	// come back with the one populated field.
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("series_id") != "VIXCLS" {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"observations": [{"date": "2026-03-04", "value": "22.0"}]}`))
	})

	builder := NewSnapshotBuilder(client)
	s, err := builder.FetchSnapshot(context.Background())
	require.NoError(t, err)

	require.NotNil(t, s.VIX)
	assert.InDelta(t, 22.0, *s.VIX, 1e-9)
	assert.Nil(t, s.US10Y)
	assert.Nil(t, s.CPIYoY)
	assert.Equal(t, macro.DXYUnknown, s.DXYTrend)
	assert.Equal(t, 1, s.SourceCount())
}

// obsJSON renders a FRED observations payload, newest first, one value
// per day counting back from 2026-03-04.
func obsJSON(values []float64) []byte {
	day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	var b strings.Builder
	b.WriteString(`{"observations": [`)
	for i, v := range values {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"date": %q, "value": "%g"}`, day.AddDate(0, 0, -i).Format("2006-01-02"), v)
	}
	b.WriteString(`]}`)
	return []byte(b.String())
}

func TestSnapshotBuilderCurrencyChangesAreRaw(t *testing.T) {
	// Yen at 149 after 152 a month ago is a 3.00-yen drop. The change is
	// recorded in index points, not percent, so the carry-unwind
	// threshold of -2 sees -3.00 rather than -1.97.
	jpy := make([]float64, 25)
	for i := range jpy {
		jpy[i] = 152
	}
	jpy[0] = 149

	dxy := make([]float64, 50)
	for i := range dxy {
		dxy[i] = 102
	}
	dxy[0] = 101.4

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("series_id") {
		case SeriesUSDJPY:
			w.Write(obsJSON(jpy))
		case SeriesDXY:
			w.Write(obsJSON(dxy))
		default:
			http.Error(w, "down", http.StatusInternalServerError)
		}
	})

	builder := NewSnapshotBuilder(client)
	s, err := builder.FetchSnapshot(context.Background())
	require.NoError(t, err)

	require.NotNil(t, s.USDJPY30DChg)
	assert.InDelta(t, -3.00, *s.USDJPY30DChg, 1e-9)
	require.NotNil(t, s.DXY30DChg)
	assert.InDelta(t, -0.6, *s.DXY30DChg, 1e-9)
}

func TestDXYTrend(t *testing.T) {
	flat := make([]Observation, 50)
	for i := range flat {
		flat[i] = Observation{Value: 100}
	}
	assert.Equal(t, macro.DXYStable, dxyTrend(flat))

	strong := make([]Observation, 50)
	for i := range strong {
		strong[i] = Observation{Value: 100}
	}
	strong[0].Value = 103
	assert.Equal(t, macro.DXYStrengthening, dxyTrend(strong))

	weak := make([]Observation, 50)
	for i := range weak {
		weak[i] = Observation{Value: 100}
	}
	weak[0].Value = 97
	assert.Equal(t, macro.DXYWeakening, dxyTrend(weak))

	assert.Equal(t, macro.DXYUnknown, dxyTrend(flat[:5]))
}
