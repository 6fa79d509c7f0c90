package tunebat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxBodySize bounds how much of a response is read.
const maxBodySize = 4 << 20

// Search queries the track search endpoint for term.
//
// It makes exactly one request. The returned response always has a
// non-nil Data with a non-nil (possibly empty) Items list.
func (c *Client) Search(ctx context.Context, term string) (*SearchResponse, error) {
	searchURL := c.SearchURL(term)
	c.logDebugf("tunebat: searching %s", searchURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", c.referer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logDebugf("tunebat: status %d", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			Code:       resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		}
	}

	return decodeSearch(body)
}

func decodeSearch(body []byte) (*SearchResponse, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}

	var sr SearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if sr.Data == nil || sr.Data.Items == nil {
		return nil, fmt.Errorf("%w: missing data.items", ErrMalformedResponse)
	}

	return &sr, nil
}

// BestMatch picks the item for artist/track out of a search result.
//
// The first item is the default. An item whose artist list contains
// artist and whose title equals track, both compared case-insensitively,
// replaces the default; the first such item wins. Titles must match
// exactly, so featured artists or punctuation differences fall back to
// the positional default.
func BestMatch(items []Item, artist, track string) (Item, bool) {
	if len(items) == 0 {
		return Item{}, false
	}

	for _, item := range items {
		if !strings.EqualFold(item.Name, track) {
			continue
		}
		for _, a := range item.Artists {
			if strings.EqualFold(a, artist) {
				return item, true
			}
		}
	}

	return items[0], true
}
