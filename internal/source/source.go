// Package source implements the external tempo sources: the Tunebat
// search API and HTML scrapers for tunebat.com and songbpm.com.
//
// Every source reports through the same Lookup signature and never
// returns an error. Transport failures, unexpected statuses and
// unparseable payloads are logged and surface as "not found", which
// lets callers simply move on to the next source.
package source

import (
	"context"
)

// Source tags recorded alongside cached values.
const (
	TagTunebatAPI = "tunebat_api"
	TagTunebatWeb = "tunebat_web"
	TagSongBPM    = "songbpm"
)

// Result is a tempo found by a source
type Result struct {
	BPM    string // Numeric text as published by the source
	Source string // Tag identifying which source produced it
}

// Source looks up the tempo of a track in one external service
type Source interface {
	// Name identifies the source in logs
	Name() string

	// Lookup returns the tempo for artist/track, or false if the source
	// could not produce one for any reason
	Lookup(ctx context.Context, artist, track string) (Result, bool)
}
