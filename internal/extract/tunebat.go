package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Plausible tempo range for bare numbers found under generic selectors.
const (
	MinPlausibleBPM = 40
	MaxPlausibleBPM = 220
)

var (
	bareInteger = regexp.MustCompile(`^\d+$`)

	tunebatSelectors = []string{
		".attribute-value",
		".bpm-value",
		".tempo-value",
		".bpm",
		".tempo",
	}

	tunebatPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*BPM`),
		regexp.MustCompile(`(?i)BPM\s*[:-]?\s*(\d+)`),
		regexp.MustCompile(`(?i)tempo\s*[:-]?\s*(\d+)`),
		regexp.MustCompile(`(?i)(\d+)\s*beats per minute`),
	}
)

// TunebatBPM extracts a tempo from a tunebat.com track page: the labelled
// attribute row first, then bare numbers in tempo-ish elements that fall
// in a plausible range, then a set of loose text patterns.
func TunebatBPM(content []byte, _ string) (string, bool) {
	return run(parse(content), content, attributeRowTempo, selectorTempo, regexTempo(tunebatPatterns...))
}

func attributeRowTempo(doc *goquery.Document, _ []byte) (string, bool) {
	if doc == nil {
		return "", false
	}
	var bpm string
	doc.Find("div.row.attribute").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if !strings.Contains(row.Text(), "BPM") {
			return true
		}
		value := row.Find("div.attribute-value").First()
		if value.Length() == 0 {
			return true
		}
		if m := firstInteger.FindStringSubmatch(strings.TrimSpace(value.Text())); m != nil {
			bpm = m[1]
			return false
		}
		return true
	})
	return bpm, bpm != ""
}

func selectorTempo(doc *goquery.Document, _ []byte) (string, bool) {
	if doc == nil {
		return "", false
	}
	for _, selector := range tunebatSelectors {
		var bpm string
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			if plausible(text) {
				bpm = text
				return false
			}
			return true
		})
		if bpm != "" {
			return bpm, true
		}
	}
	return "", false
}

func plausible(text string) bool {
	if !bareInteger.MatchString(text) {
		return false
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return false
	}
	return n >= MinPlausibleBPM && n <= MaxPlausibleBPM
}
