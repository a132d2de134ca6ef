package main

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/SaifAHussain/EPG-IRIB/config"
	"github.com/SaifAHussain/EPG-IRIB/consts"
	"github.com/SaifAHussain/EPG-IRIB/epg"
	"github.com/SaifAHussain/EPG-IRIB/radioquran"
	"github.com/SaifAHussain/EPG-IRIB/sepehr"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("configuration error", "err", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	log.Info("starting EPG generation", "window_days", cfg.Days, "output", cfg.Output)
	if err := run(cfg); err != nil {
		log.Fatal("EPG generation failed", "err", err)
	}
	log.Info("EPG generation completed")
}

func run(cfg *config.Config) error {
	loc, err := time.LoadLocation(consts.IRAN_TZ)
	if err != nil {
		return err
	}
	now := time.Now().In(loc)

	channels, err := config.LoadChannels(consts.CHANNELS_FILE)
	if err != nil {
		return err
	}

	var auth sepehr.HeaderSource
	if cfg.AuthHeader != "" {
		auth = sepehr.StaticHeader(cfg.AuthHeader)
	} else {
		auth = sepehr.NewOAuth1Signer(
			cfg.OAuth.ConsumerKey,
			cfg.OAuth.ConsumerSecret,
			cfg.OAuth.AccessToken,
			cfg.OAuth.TokenSecret,
		)
	}
	sepehrClient := sepehr.NewClient(auth)
	radioClient := radioquran.NewClient()

	ctx := context.Background()
	doc := epg.New(now)
	total := 0

	for _, ch := range channels {
		doc.AddChannel(ch.ID, ch.Name, ch.Logo)

		entries, err := fetchChannel(ctx, ch, sepehrClient, radioClient, now, cfg.Days)
		if err != nil {
			log.Warn("channel fetch failed, continuing without it", "channel", ch.Name, "err", err)
			continue
		}
		programmes := epg.Normalize(ch.ID, entries)
		doc.AddProgrammes(programmes)
		total += len(programmes)
		log.Info("channel fetched", "channel", ch.Name, "programmes", len(programmes))
	}

	if total == 0 {
		return epg.ErrEmptyGuide
	}
	if err := doc.Write(cfg.Output); err != nil {
		return err
	}
	log.Info("guide written", "file", cfg.Output, "programmes", total)
	return nil
}

func fetchChannel(ctx context.Context, ch config.Channel, sc *sepehr.Client, rc *radioquran.Client, now time.Time, days int) ([]epg.Entry, error) {
	if ch.SepehrID > 0 {
		raw, err := sc.Schedule(ctx, ch.SepehrID, now, days)
		if err != nil {
			return nil, err
		}
		return sepehr.Entries(raw, now.Location()), nil
	}
	// The conductor page only ever serves the current day.
	raw, err := rc.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return radioquran.Entries(raw, dayStart), nil
}
