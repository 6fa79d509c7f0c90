// Package extract pulls a tempo value out of scraped page content.
//
// Page structure on the sites we scrape changes without notice, so each
// extractor layers several independent heuristics from the most specific
// to the most tolerant. The first heuristic that yields a value wins;
// results are never scored or compared across heuristics.
package extract

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

var (
	firstInteger = regexp.MustCompile(`(\d+)`)
	metricsTempo = regexp.MustCompile(`Tempo \(BPM\)[^\d]*(\d+)`)
	numberBPM    = regexp.MustCompile(`(?i)(\d+)\s*BPM`)
)

// heuristic inspects either the parsed document or the raw content.
// doc is nil when the content could not be parsed as HTML.
type heuristic func(doc *goquery.Document, raw []byte) (string, bool)

// BPM extracts a tempo from a page body using, in order: the headline
// tempo element, the song metrics block, embedded JSON-LD metadata, and
// finally a "<digits> BPM" scan over the raw text.
func BPM(content []byte, contentType string) (string, bool) {
	if isJSON(contentType) {
		return run(nil, content, jsonTempo, regexTempo(numberBPM))
	}
	return run(parse(content), content, headlineTempo, metricsBlockTempo, jsonLDTempo, regexTempo(numberBPM))
}

func run(doc *goquery.Document, raw []byte, heuristics ...heuristic) (string, bool) {
	for _, h := range heuristics {
		if bpm, ok := h(doc, raw); ok {
			return bpm, true
		}
	}
	return "", false
}

func parse(content []byte) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil
	}
	return doc
}

func isJSON(contentType string) bool {
	ct := strings.ToLower(contentType)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	ct = strings.TrimSpace(ct)
	return ct == "application/json" || strings.HasSuffix(ct, "+json")
}

// headlineTempo reads the element that conventionally shows the tempo
// right below the page heading. Only the first match is considered.
func headlineTempo(doc *goquery.Document, _ []byte) (string, bool) {
	if doc == nil {
		return "", false
	}
	sel := doc.Find(".bpm-value, h1 + div").First()
	if sel.Length() == 0 {
		return "", false
	}
	m := firstInteger.FindStringSubmatch(strings.TrimSpace(sel.Text()))
	if m == nil {
		return "", false
	}
	return m[1], true
}

func metricsBlockTempo(doc *goquery.Document, _ []byte) (string, bool) {
	if doc == nil {
		return "", false
	}
	var bpm string
	doc.Find("div.song-metrics, .song-metrics").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, "Tempo (BPM)") {
			return true
		}
		if m := metricsTempo.FindStringSubmatch(text); m != nil {
			bpm = m[1]
			return false
		}
		return true
	})
	return bpm, bpm != ""
}

func jsonLDTempo(doc *goquery.Document, _ []byte) (string, bool) {
	if doc == nil {
		return "", false
	}
	var bpm string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := tempoField(s.Text()); ok {
			bpm = v
			return false
		}
		return true
	})
	return bpm, bpm != ""
}

func jsonTempo(_ *goquery.Document, raw []byte) (string, bool) {
	return tempoField(string(raw))
}

// tempoField finds a "tempo" member on a JSON object, or on the first
// object of a JSON array that carries one.
func tempoField(payload string) (string, bool) {
	payload = strings.TrimSpace(payload)
	if !gjson.Valid(payload) {
		return "", false
	}

	root := gjson.Parse(payload)
	if root.IsArray() {
		var bpm string
		root.ForEach(func(_, item gjson.Result) bool {
			if v, ok := numericTempo(item.Get("tempo")); ok {
				bpm = v
				return false
			}
			return true
		})
		return bpm, bpm != ""
	}

	return numericTempo(root.Get("tempo"))
}

// numericTempo accepts a JSON number, or a string starting with a digit.
// Objects, arrays and other values are not a tempo.
func numericTempo(v gjson.Result) (string, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Raw, true
	case gjson.String:
		s := strings.TrimSpace(v.String())
		if s != "" && s[0] >= '0' && s[0] <= '9' {
			return s, true
		}
	}
	return "", false
}

func regexTempo(patterns ...*regexp.Regexp) heuristic {
	return func(_ *goquery.Document, raw []byte) (string, bool) {
		for _, p := range patterns {
			if m := p.FindSubmatch(raw); m != nil {
				return string(m[1]), true
			}
		}
		return "", false
	}
}
