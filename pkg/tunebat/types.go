package tunebat

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// SearchResponse is the decoded body of a track search.
type SearchResponse struct {
	Data *SearchData `json:"data"`
}

// SearchData wraps the result list.
type SearchData struct {
	Items []Item `json:"items"`
}

// Items returns the search results, or nil for an empty response.
func (r *SearchResponse) Items() []Item {
	if r == nil || r.Data == nil {
		return nil
	}
	return r.Data.Items
}

// Item is a single track in a search result. Only the fields needed for
// matching and tempo are decoded; the API sends many more.
type Item struct {
	Artists []string `json:"as"` // Credited artists
	Name    string   `json:"n"`  // Track title
	BPM     Tempo    `json:"b"`  // Tempo, empty when missing or unusable
}

// HasBPM reports whether the item carries a tempo.
func (i Item) HasBPM() bool {
	return i.BPM != ""
}

var tempoPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// Tempo is a track tempo as numeric text. It decodes from a JSON number
// or a numeric string; any other value decodes to the empty Tempo
// instead of failing the whole response.
type Tempo string

// String returns the tempo text.
func (t Tempo) String() string {
	return string(t)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tempo) UnmarshalJSON(data []byte) error {
	*t = ""

	raw := string(bytes.TrimSpace(data))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	if tempoPattern.MatchString(raw) {
		*t = Tempo(raw)
	}
	return nil
}
