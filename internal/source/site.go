package source

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/jfmyers9/bpmlookup/internal/extract"
)

// Extractor pulls a tempo out of a page body
type Extractor func(content []byte, contentType string) (string, bool)

// Candidate is one URL shape for a site. Path holds {artist} and {track}
// placeholders; Joiner replaces spaces inside each slug.
type Candidate struct {
	Path   string
	Joiner string
}

// Site describes a scrapeable site: where to look and how to read it
type Site struct {
	Name       string
	Tag        string
	BaseURL    string
	Referer    string
	Candidates []Candidate
	Extract    Extractor
}

// SongBPM is songbpm.com, the last resort source
var SongBPM = Site{
	Name:    "songbpm",
	Tag:     TagSongBPM,
	BaseURL: "https://songbpm.com",
	Referer: "https://songbpm.com/",
	Candidates: []Candidate{
		{Path: "/@{artist}/{track}", Joiner: "-"},
		{Path: "/{artist}/{track}", Joiner: "+"},
	},
	Extract: extract.BPM,
}

// TunebatWeb is the tunebat.com track page, used when the API fails.
// Tunebat usually names pages "Track-Artist", so that shape goes first.
var TunebatWeb = Site{
	Name:    "tunebat",
	Tag:     TagTunebatWeb,
	BaseURL: "https://tunebat.com",
	Referer: "https://tunebat.com/",
	Candidates: []Candidate{
		{Path: "/Info/{track}-{artist}", Joiner: "-"},
		{Path: "/Info/{artist}-{track}", Joiner: "-"},
		{Path: "/Info/{track}/{artist}", Joiner: "-"},
		{Path: "/Info/{track}-by-{artist}", Joiner: "-"},
	},
	Extract: extract.TunebatBPM,
}

// WithBaseURL returns a copy of the site rooted at base. An empty base
// leaves the site unchanged.
func (s Site) WithBaseURL(base string) Site {
	if base != "" {
		s.BaseURL = base
	}
	return s
}

// URLs returns the candidate URLs for artist/track in priority order
func (s Site) URLs(artist, track string) []string {
	base := strings.TrimRight(s.BaseURL, "/")

	urls := make([]string, 0, len(s.Candidates))
	for _, c := range s.Candidates {
		r := strings.NewReplacer(
			"{artist}", url.PathEscape(Slug(artist, c.Joiner)),
			"{track}", url.PathEscape(Slug(track, c.Joiner)),
		)
		urls = append(urls, base+r.Replace(c.Path))
	}
	return urls
}

// Slug lowercases s, joins words with joiner and drops every rune that is
// not a letter, digit, underscore, dash or the joiner itself.
func Slug(s, joiner string) string {
	s = strings.ReplaceAll(strings.ToLower(s), " ", joiner)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || strings.ContainsRune(joiner, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
