package nyse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/vantage/pkg/httputil"
	"github.com/wonny/vantage/pkg/logger"
)

const calendarFixture = `
<html><body>
<table>
  <thead>
    <tr><th>Holiday</th><th>2026</th><th>2027</th></tr>
  </thead>
  <tbody>
    <tr>
      <td>New Year's Day</td>
      <td>Thursday, January 1</td>
      <td>Friday, January 1</td>
    </tr>
    <tr>
      <td>Independence Day</td>
      <td>Friday, July 3 (observed)</td>
      <td>Monday, July 5 (observed)</td>
    </tr>
    <tr>
      <td>Christmas Day</td>
      <td>Friday, December 25</td>
      <td>Friday, December 24 (observed)</td>
    </tr>
  </tbody>
</table>
</body></html>`

func newTestCalendar(t *testing.T, handler http.HandlerFunc) *Calendar {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	hc := httputil.New(logger.NewNop()).DisableRetry()
	return NewCalendar(hc, logger.NewNop()).WithURL(srv.URL)
}

func TestCalendarRefresh(t *testing.T) {
	cal := newTestCalendar(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(calendarFixture))
	})

	require.NoError(t, cal.Refresh(context.Background()))

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"new year 2026", time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), true},
		{"new year 2027", time.Date(2027, 1, 1, 12, 0, 0, 0, time.UTC), true},
		{"observed independence day", time.Date(2026, 7, 3, 12, 0, 0, 0, time.UTC), true},
		{"christmas 2026", time.Date(2026, 12, 25, 12, 0, 0, 0, time.UTC), true},
		{"regular trading day", time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC), false},
		{"actual july 4th is not the observed day", time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cal.IsHoliday(tt.date))
		})
	}
}

func TestCalendarRefreshFailureKeepsSchedule(t *testing.T) {
	fail := false
	cal := newTestCalendar(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(calendarFixture))
	})
	ctx := context.Background()

	require.NoError(t, cal.Refresh(ctx))
	require.True(t, cal.IsHoliday(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	fail = true
	assert.Error(t, cal.Refresh(ctx))

	// Previous schedule survives the failed refresh.
	assert.True(t, cal.IsHoliday(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCalendarEmptyPage(t *testing.T) {
	cal := newTestCalendar(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>nothing here</p></body></html>"))
	})

	// An empty parse is logged, not an error, and yields no holidays.
	require.NoError(t, cal.Refresh(context.Background()))
	assert.False(t, cal.IsHoliday(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}
