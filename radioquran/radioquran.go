package radioquran

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"

	"github.com/SaifAHussain/EPG-IRIB/consts"
	"github.com/SaifAHussain/EPG-IRIB/epg"
)

// Programme is one Radio Quran schedule item. Both the conductor page
// and the JSON feed normalize to this shape; the JSON feed never carries
// a description or duration.
type Programme struct {
	Time        string // "HH:MM", zero-padded
	Title       string
	Description string
	Duration    int // minutes; 0 when unknown
	Image       string
}

var (
	// "مدت:N دقیقه" is the page's duration marker.
	durationRe = regexp.MustCompile(`مدت:(\d+)\s*دقیقه`)
	timeRe     = regexp.MustCompile(`^\d{1,2}:\d{1,2}$`)
	brRe       = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagRe      = regexp.MustCompile(`<[^>]+>`)
)

// Client fetches the Radio Quran schedule from radioquran.ir. The
// conductor HTML page is the primary source (it has descriptions and
// durations); the JSON feed is the fallback.
type Client struct {
	HTMLURL  string
	JSONURL  string
	Attempts int

	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		HTMLURL:  consts.RADIO_QURAN_HTML_URL,
		JSONURL:  consts.RADIO_QURAN_JSON_URL,
		Attempts: 3,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch returns today's programmes, trying the HTML page first and the
// JSON feed when the page yields nothing.
func (c *Client) Fetch(ctx context.Context) ([]Programme, error) {
	if body, err := c.get(ctx, c.HTMLURL); err != nil {
		log.Warn("conductor page fetch failed", "err", err)
	} else {
		progs, err := ParseConductorHTML(strings.NewReader(string(body)))
		if err != nil {
			log.Warn("conductor page parse failed", "err", err)
		} else if len(progs) > 0 {
			return progs, nil
		} else {
			log.Warn("conductor page fetched but no programmes found")
		}
	}

	body, err := c.get(ctx, c.JSONURL)
	if err != nil {
		return nil, fmt.Errorf("json feed: %w", err)
	}
	return ParseFeedJSON(body)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.Attempts; attempt++ {
		body, err := c.getOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if attempt < c.Attempts {
			log.Warn("fetch attempt failed, retrying", "url", url, "attempt", attempt, "err", err)
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", c.Attempts, lastErr)
}

func (c *Client) getOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", consts.UA)
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed: %s", res.Status)
	}
	return io.ReadAll(res.Body)
}

// ParseConductorHTML extracts programmes from the ChannelConductor page.
// Times, titles, descriptions, durations and images live in parallel
// element runs; they are zipped by the shortest run, so a structural
// change on the page degrades to an empty result instead of mismatched
// records.
func ParseConductorHTML(r io.Reader) ([]Programme, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var times []string
	doc.Find("div.fontsize-3").Each(func(_ int, s *goquery.Selection) {
		if t, ok := padTime(strings.TrimSpace(s.Text())); ok {
			times = append(times, t)
		}
	})

	var titles []string
	doc.Find("h4[itemprop]").Each(func(_ int, s *goquery.Selection) {
		if attr, _ := s.Attr("itemprop"); strings.TrimSpace(attr) == "name" {
			titles = append(titles, strings.TrimSpace(s.Text()))
		}
	})

	var descs []string
	doc.Find("p[itemprop=description]").Each(func(_ int, s *goquery.Selection) {
		html, err := s.Html()
		if err != nil {
			html = s.Text()
		}
		descs = append(descs, cleanDescription(html))
	})

	durations := durationRe.FindAllStringSubmatch(doc.Text(), -1)

	var images []string
	doc.Find("img.lazy").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			images = append(images, src)
		}
	})

	n := len(times)
	for _, l := range []int{len(titles), len(descs), len(durations), len(images)} {
		if l < n {
			n = l
		}
	}
	if n == 0 {
		return nil, nil
	}

	programmes := make([]Programme, 0, n)
	for i := 0; i < n; i++ {
		minutes, _ := strconv.Atoi(durations[i][1])
		programmes = append(programmes, Programme{
			Time:        times[i],
			Title:       titles[i],
			Description: descs[i],
			Duration:    minutes,
			Image:       images[i],
		})
	}
	return programmes, nil
}

type feedBox struct {
	Title string `json:"title"`
	Time  string `json:"time"`
	Image string `json:"image"`
}

type feedDocument struct {
	Containers []struct {
		Boxes []feedBox `json:"boxes"`
	} `json:"Containers"`
}

// ParseFeedJSON parses the fallback JSON feed. Entries with a blank
// title or an unparseable time are skipped; relative image paths get the
// site prefix.
func ParseFeedJSON(data []byte) ([]Programme, error) {
	var doc feedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	if len(doc.Containers) == 0 {
		return nil, nil
	}

	var programmes []Programme
	for _, box := range doc.Containers[0].Boxes {
		title := strings.TrimSpace(box.Title)
		if title == "" {
			continue
		}
		t, ok := padTime(strings.TrimSpace(box.Time))
		if !ok {
			continue
		}
		image := box.Image
		if image != "" && !strings.HasPrefix(image, "http") {
			image = consts.RADIO_QURAN_SITE + image
		}
		programmes = append(programmes, Programme{
			Time:  t,
			Title: title,
			Image: image,
		})
	}
	return programmes, nil
}

// Entries maps programmes onto a concrete day for normalization.
func Entries(progs []Programme, day time.Time) []epg.Entry {
	entries := make([]epg.Entry, 0, len(progs))
	for _, p := range progs {
		h, m, ok := splitTime(p.Time)
		if !ok {
			continue
		}
		entries = append(entries, epg.Entry{
			Title:    p.Title,
			Desc:     p.Description,
			Icon:     p.Image,
			Start:    time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location()),
			Duration: p.Duration,
		})
	}
	return entries
}

func padTime(s string) (string, bool) {
	h, m, ok := splitTime(s)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, m), true
}

func splitTime(s string) (hour, minute int, ok bool) {
	if !timeRe.MatchString(s) {
		return 0, 0, false
	}
	parts := strings.SplitN(s, ":", 2)
	hour, _ = strconv.Atoi(parts[0])
	minute, _ = strconv.Atoi(parts[1])
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func cleanDescription(html string) string {
	s := brRe.ReplaceAllString(html, "\n")
	s = tagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
