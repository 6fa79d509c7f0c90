package source

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
)

// Scraper looks up tempos by fetching a site's candidate pages in order
type Scraper struct {
	site    Site
	fetcher *Fetcher
	logger  zerolog.Logger
}

// NewScraper creates a Scraper for site
func NewScraper(site Site, fetcher *Fetcher, logger zerolog.Logger) *Scraper {
	return &Scraper{
		site:    site,
		fetcher: fetcher,
		logger:  logger.With().Str("source", site.Name).Logger(),
	}
}

// Name returns the site name
func (s *Scraper) Name() string {
	return s.site.Name
}

// Lookup tries each candidate URL once, strictly in order, and stops at
// the first page the site's extractor can read a tempo from. Failed
// requests and non-200 pages just move on to the next candidate.
func (s *Scraper) Lookup(ctx context.Context, artist, track string) (Result, bool) {
	for _, target := range s.site.URLs(artist, track) {
		if ctx.Err() != nil {
			s.logger.Debug().Err(ctx.Err()).Msg("Lookup cancelled")
			return Result{}, false
		}

		s.logger.Debug().Str("url", target).Msg("Looking up BPM")

		page, err := s.fetcher.Get(ctx, target, s.site.Referer)
		if err != nil {
			s.logger.Debug().Err(err).Str("url", target).Msg("Request failed")
			continue
		}

		if page.StatusCode != http.StatusOK {
			s.logger.Debug().Int("status", page.StatusCode).Str("url", target).Msg("Failed to fetch page")
			continue
		}

		s.fetcher.dump(s.site.Name, page.Body)

		bpm, ok := s.site.Extract(page.Body, page.ContentType)
		if !ok {
			s.logger.Debug().Str("url", target).Msg("BPM not found on the page")
			continue
		}

		s.logger.Debug().Str("bpm", bpm).Str("url", target).Msg("Found BPM")
		return Result{BPM: bpm, Source: s.site.Tag}, true
	}

	s.logger.Debug().Msg("BPM not found on any candidate page")
	return Result{}, false
}
