package nyse

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/vantage/pkg/httputil"
	"github.com/wonny/vantage/pkg/logger"
)

const calendarURL = "https://www.nyse.com/markets/hours-calendars"

// Calendar scrapes the NYSE holiday schedule and answers whether a
// given date is a full market holiday. It implements
// macro.HolidaySource.
// ⭐ SSOT: 미국 휴장일 조회는 여기서만
//
// Scrape failures degrade gracefully: with no holiday data every
// weekday counts as a trading day, which only makes snapshot TTLs
// slightly more aggressive on holidays.
type Calendar struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	url        string

	mu       sync.RWMutex
	holidays map[string]struct{} // "2006-01-02" keys
	loadedAt time.Time
}

// NewCalendar creates an empty calendar. Call Refresh to load the
// schedule.
func NewCalendar(hc *httputil.Client, log *logger.Logger) *Calendar {
	return &Calendar{
		httpClient: hc,
		logger:     log,
		url:        calendarURL,
		holidays:   make(map[string]struct{}),
	}
}

// WithURL overrides the scrape target, for tests.
func (c *Calendar) WithURL(url string) *Calendar {
	c.url = url
	return c
}

// IsHoliday implements macro.HolidaySource.
func (c *Calendar) IsHoliday(date time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.holidays[date.Format("2006-01-02")]
	return ok
}

// Refresh re-scrapes the holiday schedule. An empty result on a parse
// failure is logged but keeps any previously loaded schedule.
func (c *Calendar) Refresh(ctx context.Context) error {
	resp, err := c.httpClient.Get(ctx, c.url)
	if err != nil {
		return fmt.Errorf("nyse calendar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("nyse calendar: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("nyse calendar: read: %w", err)
	}

	holidays, err := c.parseCalendarHTML(string(body))
	if err != nil {
		return err
	}
	if len(holidays) == 0 {
		c.logger.Warn("NYSE calendar parse found no holidays, keeping previous schedule")
		return nil
	}

	c.mu.Lock()
	c.holidays = holidays
	c.loadedAt = time.Now()
	c.mu.Unlock()

	c.logger.WithField("count", len(holidays)).Info("NYSE holiday schedule loaded")
	return nil
}

// parseCalendarHTML extracts holiday dates from the NYSE hours page.
// The page lays out one table with holiday names in the first column
// and one column per year; cells hold dates like "Thursday, January 1"
// with an optional footnote marker.
func (c *Calendar) parseCalendarHTML(html string) (map[string]struct{}, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("nyse calendar: parse: %w", err)
	}

	holidays := make(map[string]struct{})
	dateRe := regexp.MustCompile(`[A-Z][a-z]+, ([A-Z][a-z]+) (\d{1,2})`)

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		// Year columns come from the header row.
		var years []int
		table.Find("th").Each(func(_ int, th *goquery.Selection) {
			text := strings.TrimSpace(th.Text())
			if y, err := time.Parse("2006", text); err == nil {
				years = append(years, y.Year())
			}
		})
		if len(years) == 0 {
			return
		}

		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			// First cell is the holiday name, the rest map onto years.
			for i := 1; i < cells.Length() && i <= len(years); i++ {
				m := dateRe.FindStringSubmatch(cells.Eq(i).Text())
				if m == nil {
					continue
				}
				dateStr := fmt.Sprintf("%s %s %d", m[1], m[2], years[i-1])
				d, err := time.Parse("January 2 2006", dateStr)
				if err != nil {
					continue
				}
				holidays[d.Format("2006-01-02")] = struct{}{}
			}
		})
	})

	return holidays, nil
}
