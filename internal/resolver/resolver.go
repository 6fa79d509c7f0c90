package resolver

import (
	"context"

	"github.com/jfmyers9/bpmlookup/internal/source"
	"github.com/rs/zerolog"
)

// Outcome is the terminal state of a resolution
type Outcome int

const (
	OutcomeMiss   Outcome = iota // No cache entry and no source produced a value
	OutcomeHit                   // Served from the cache
	OutcomeAPI                   // Found by the API source
	OutcomeScrape                // Found by an HTML scrape source
)

// String returns a human-readable representation of the Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeMiss:
		return "miss"
	case OutcomeHit:
		return "hit"
	case OutcomeAPI:
		return "api_success"
	case OutcomeScrape:
		return "scrape_success"
	default:
		return "unknown"
	}
}

// Cache is the local store consulted before any network activity
type Cache interface {
	EnsureInitialized(ctx context.Context) error
	Lookup(ctx context.Context, artist, track string) (string, bool, error)
	Upsert(ctx context.Context, artist, track, bpm, source string) error
}

// Step pairs a source with the outcome reported when it succeeds
type Step struct {
	Outcome Outcome
	Source  source.Source
}

// Resolution is the result of a lookup
type Resolution struct {
	BPM     string
	Source  string // Source tag; empty on a cache hit or miss
	Outcome Outcome
}

// Found reports whether a tempo was resolved
func (r Resolution) Found() bool {
	return r.Outcome != OutcomeMiss
}

// Resolver runs the cache, then each source step in order
type Resolver struct {
	cache  Cache
	steps  []Step
	logger zerolog.Logger
}

// New creates a Resolver. Steps run in the order given.
func New(cache Cache, logger zerolog.Logger, steps ...Step) *Resolver {
	return &Resolver{
		cache:  cache,
		steps:  steps,
		logger: logger,
	}
}

// Resolve looks up the tempo for artist/track.
//
// The cache is always read first. On a miss each step runs once, in
// order, and the first value found is written back to the cache. Cache
// failures are logged and never abort the lookup: a failed read is a
// miss and a failed write is dropped.
func (r *Resolver) Resolve(ctx context.Context, artist, track string) Resolution {
	logger := r.logger.With().Str("artist", artist).Str("track", track).Logger()
	logger.Info().Msg("Looking up BPM")

	if err := r.cache.EnsureInitialized(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to initialize cache")
	}

	bpm, ok, err := r.cache.Lookup(ctx, artist, track)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read cache")
	}
	if ok {
		logger.Debug().Str("bpm", bpm).Msg("Found BPM in cache")
		return Resolution{BPM: bpm, Outcome: OutcomeHit}
	}

	for _, step := range r.steps {
		result, ok := step.Source.Lookup(ctx, artist, track)
		if !ok {
			logger.Debug().Str("source", step.Source.Name()).Msg("Source found nothing")
			continue
		}

		if err := r.cache.Upsert(ctx, artist, track, result.BPM, result.Source); err != nil {
			logger.Error().Err(err).Msg("Failed to save BPM to cache")
		}

		logger.Info().
			Str("bpm", result.BPM).
			Str("source", result.Source).
			Stringer("outcome", step.Outcome).
			Msg("Resolved BPM")

		return Resolution{BPM: result.BPM, Source: result.Source, Outcome: step.Outcome}
	}

	logger.Info().Msg("BPM not found")
	return Resolution{Outcome: OutcomeMiss}
}
