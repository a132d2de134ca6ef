package sepehr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SaifAHussain/EPG-IRIB/consts"
	"github.com/SaifAHussain/EPG-IRIB/epg"
)

// Programme is one schedule item as the Sepehr API returns it.
type Programme struct {
	ID          int    `json:"id"`
	Start       int64  `json:"start"`    // ms since epoch
	Duration    int    `json:"duration"` // minutes
	Title       string `json:"title"`
	DescSummary string `json:"descSummary"`
	DescFull    string `json:"descFull"`
	ImageURL    string `json:"imageUrl"`
}

// Desc returns the full description when present, else the summary.
func (p Programme) Desc() string {
	if d := strings.TrimSpace(p.DescFull); d != "" {
		return d
	}
	return strings.TrimSpace(p.DescSummary)
}

type scheduleResponse struct {
	List []Programme `json:"list"`
}

// Client fetches EPG data from the Sepehr API, signing every request
// through its HeaderSource.
type Client struct {
	BaseURL string
	Auth    HeaderSource

	httpClient *http.Client
}

func NewClient(auth HeaderSource) *Client {
	return &Client{
		BaseURL: consts.SEPEHR_API_BASE,
		Auth:    auth,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// DaySchedule fetches one day of programmes for a channel. The API
// answers 500 for dates it has no data for yet; that is an empty day,
// not an error.
func (c *Client) DaySchedule(ctx context.Context, channelID int, day time.Time) ([]Programme, error) {
	params := url.Values{
		"channel_id": {strconv.Itoa(channelID)},
		"date":       {day.Format("2006-01-02")},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	auth, err := c.Auth.AuthHeader(http.MethodGet, c.BaseURL, params)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", auth)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Origin", consts.SEPEHR_ORIGIN)
	req.Header.Set("Referer", consts.SEPEHR_ORIGIN+"/")
	req.Header.Set("User-Agent", consts.UA)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusInternalServerError {
		return nil, nil
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed: %s", res.Status)
	}
	var sched scheduleResponse
	if err := json.NewDecoder(res.Body).Decode(&sched); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	return sched.List, nil
}

// Schedule fetches the guide window starting at from, one request per
// day. A failed day fails the whole channel; the caller decides whether
// that is fatal.
func (c *Client) Schedule(ctx context.Context, channelID int, from time.Time, days int) ([]Programme, error) {
	var all []Programme
	for i := 0; i < days; i++ {
		day := from.AddDate(0, 0, i)
		progs, err := c.DaySchedule(ctx, channelID, day)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", day.Format("2006-01-02"), err)
		}
		all = append(all, progs...)
	}
	return all, nil
}

// Entries converts raw Sepehr programmes to normalizer input, dropping
// items without a start timestamp.
func Entries(progs []Programme, loc *time.Location) []epg.Entry {
	entries := make([]epg.Entry, 0, len(progs))
	for _, p := range progs {
		if p.Start <= 0 {
			continue
		}
		entries = append(entries, epg.Entry{
			Title:    p.Title,
			Desc:     p.Desc(),
			Icon:     p.ImageURL,
			Start:    time.UnixMilli(p.Start).In(loc),
			Duration: p.Duration,
		})
	}
	return entries
}
