package source

import (
	"context"
	"errors"

	"github.com/jfmyers9/bpmlookup/pkg/tunebat"
	"github.com/rs/zerolog"
)

// TunebatAPI looks tempos up through the Tunebat search API. When the API
// itself fails it hands the lookup to a fallback source, normally the
// tunebat.com scraper.
type TunebatAPI struct {
	client   *tunebat.Client
	fallback Source
	logger   zerolog.Logger
}

// NewTunebatAPI creates the API source. fallback may be nil.
func NewTunebatAPI(client *tunebat.Client, fallback Source, logger zerolog.Logger) *TunebatAPI {
	return &TunebatAPI{
		client:   client,
		fallback: fallback,
		logger:   logger.With().Str("source", "tunebat_api").Logger(),
	}
}

// Name returns the source name
func (t *TunebatAPI) Name() string {
	return "tunebat_api"
}

// Lookup searches for "artist track" and reads the tempo of the best
// matching item.
//
// An empty result list is an answer: the track is unknown, so the
// fallback is skipped. Transport errors, non-200 statuses (rate limiting
// included), malformed payloads and a chosen item without a tempo all
// count as API failures and go to the fallback.
func (t *TunebatAPI) Lookup(ctx context.Context, artist, track string) (Result, bool) {
	resp, err := t.client.Search(ctx, artist+" "+track)
	if err != nil {
		t.logSearchError(err)
		return t.fallBack(ctx, artist, track)
	}

	items := resp.Items()
	if len(items) == 0 {
		t.logger.Debug().Msg("No results found in Tunebat API")
		return Result{}, false
	}

	item, _ := tunebat.BestMatch(items, artist, track)
	if !item.HasBPM() {
		t.logger.Debug().Str("title", item.Name).Msg("BPM field not found in the best match item")
		return t.fallBack(ctx, artist, track)
	}

	bpm := item.BPM.String()
	t.logger.Debug().Str("bpm", bpm).Str("title", item.Name).Msg("Found BPM in Tunebat API")
	return Result{BPM: bpm, Source: TagTunebatAPI}, true
}

func (t *TunebatAPI) logSearchError(err error) {
	var statusErr *tunebat.StatusError
	switch {
	case errors.As(err, &statusErr) && statusErr.RateLimited():
		event := t.logger.Warn()
		if statusErr.RetryAfter > 0 {
			event = event.Dur("retry_after", statusErr.RetryAfter)
		}
		event.Msg("Rate limited by Tunebat API")
	case errors.As(err, &statusErr) && statusErr.Temporary():
		t.logger.Warn().Int("status", statusErr.Code).Msg("Tunebat API unavailable")
	case errors.As(err, &statusErr):
		t.logger.Debug().Int("status", statusErr.Code).Msg("Tunebat API request failed")
	case errors.Is(err, tunebat.ErrMalformedResponse):
		t.logger.Debug().Err(err).Msg("Invalid response from Tunebat API")
	default:
		t.logger.Debug().Err(err).Msg("Error with Tunebat API request")
	}
}

func (t *TunebatAPI) fallBack(ctx context.Context, artist, track string) (Result, bool) {
	if t.fallback == nil {
		return Result{}, false
	}
	t.logger.Debug().Str("fallback", t.fallback.Name()).Msg("Falling back to web scraping")
	return t.fallback.Lookup(ctx, artist, track)
}

// TunebatLogger adapts a zerolog logger to the tunebat SDK's Logger
func TunebatLogger(logger zerolog.Logger) tunebat.Logger {
	return debugLogger{logger: logger}
}

type debugLogger struct {
	logger zerolog.Logger
}

func (l debugLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}
