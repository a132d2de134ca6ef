package epg

import (
	"encoding/xml"
	"errors"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/SaifAHussain/EPG-IRIB/consts"
)

// ErrEmptyGuide means no channel contributed a single programme. The
// run must abort without touching a previously written guide.
var ErrEmptyGuide = errors.New("no programmes from any channel")

type TV struct {
	XMLName      xml.Name     `xml:"tv"`
	Generator    string       `xml:"generator-info-name,attr,omitempty"`
	GeneratorURL string       `xml:"generator-info-url,attr,omitempty"`
	Date         string       `xml:"date,attr,omitempty"`
	Channels     []*Channel   `xml:"channel"`
	Programmes   []*Programme `xml:"programme"`
}

type Channel struct {
	XMLName     xml.Name `xml:"channel"`
	ID          string   `xml:"id,attr"`
	DisplayName string   `xml:"display-name"`
	Icon        *Icon    `xml:"icon,omitempty"`
}

type Icon struct {
	Src string `xml:"src,attr"`
}

// Text is an element body with an optional language attribute.
type Text struct {
	Lang string `xml:"lang,attr,omitempty"`
	Body string `xml:",chardata"`
}

type Programme struct {
	XMLName xml.Name `xml:"programme"`
	Start   string   `xml:"start,attr"`
	Stop    string   `xml:"stop,attr,omitempty"`
	Channel string   `xml:"channel,attr"`
	Title   Text     `xml:"title"`
	Desc    *Text    `xml:"desc,omitempty"`
	Icon    *Icon    `xml:"icon,omitempty"`
}

// Entry is one schedule item from any feed before normalization.
type Entry struct {
	Title    string
	Desc     string
	Icon     string
	Start    time.Time
	Duration int // minutes; 0 when the feed gives none
}

// Normalize turns one channel's entries into programme elements.
// The stop of an entry comes from its explicit duration when set,
// otherwise from the next entry's start; the last entry may end up with
// no stop at all, which is left as-is rather than padded with a guessed
// duration. Entries without a title or start are dropped.
func Normalize(channelID string, entries []Entry) []*Programme {
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Title) == "" || e.Start.IsZero() {
			continue
		}
		kept = append(kept, e)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Start.Before(kept[j].Start)
	})

	programmes := make([]*Programme, 0, len(kept))
	for i, e := range kept {
		p := &Programme{
			Start:   e.Start.Format(consts.TIME_FORMAT),
			Channel: channelID,
			Title:   Text{Lang: "fa", Body: strings.TrimSpace(e.Title)},
		}
		if e.Duration > 0 {
			p.Stop = e.Start.Add(time.Duration(e.Duration) * time.Minute).Format(consts.TIME_FORMAT)
		} else if i+1 < len(kept) && kept[i+1].Start.After(e.Start) {
			p.Stop = kept[i+1].Start.Format(consts.TIME_FORMAT)
		}
		if d := strings.TrimSpace(e.Desc); d != "" {
			p.Desc = &Text{Lang: "fa", Body: d}
		}
		if e.Icon != "" {
			p.Icon = &Icon{Src: e.Icon}
		}
		programmes = append(programmes, p)
	}
	return programmes
}

// New returns an empty guide document stamped with the generation time.
func New(generatedAt time.Time) *TV {
	return &TV{
		Generator:    consts.GENERATOR_NAME,
		GeneratorURL: consts.GENERATOR_URL,
		Date:         generatedAt.Format(consts.TIME_FORMAT),
	}
}

func (tv *TV) AddChannel(id, name, logo string) {
	ch := &Channel{ID: id, DisplayName: name}
	if logo != "" {
		ch.Icon = &Icon{Src: logo}
	}
	tv.Channels = append(tv.Channels, ch)
}

func (tv *TV) AddProgrammes(programmes []*Programme) {
	tv.Programmes = append(tv.Programmes, programmes...)
}

// Marshal renders the document. Output is deterministic for identical
// input: channel order is fixed by the caller and programmes are already
// sorted per channel.
func (tv *TV) Marshal() ([]byte, error) {
	data, err := xml.MarshalIndent(tv, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(data, '\n')...), nil
}

// Write marshals the guide and replaces path atomically via a temp file.
// An empty guide is refused so a stale but good file survives.
func (tv *TV) Write(path string) error {
	if len(tv.Programmes) == 0 {
		return ErrEmptyGuide
	}
	data, err := tv.Marshal()
	if err != nil {
		return err
	}
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return err
	}
	return os.Rename(tempFile, path)
}
