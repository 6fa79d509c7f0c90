// Package tunebat provides a small client for the Tunebat track search API.
//
// # Overview
//
// Tunebat exposes an unauthenticated JSON search endpoint that returns
// track metadata including tempo (BPM) and key. This package wraps the
// search call, decodes the compact response format and offers the
// matching rule used to pick a track out of a result list.
//
// # Quick Start
//
//	client, err := tunebat.NewClient(tunebat.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.Search(ctx, "Daft Punk One More Time")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	item, ok := tunebat.BestMatch(resp.Items(), "Daft Punk", "One More Time")
//	if ok && item.HasBPM() {
//	    fmt.Println(item.BPM)
//	}
//
// # Response Format
//
// The API answers with short field names:
//
//	{"data": {"items": [{"as": ["Daft Punk"], "n": "One More Time", "b": 123, ...}]}}
//
// Item maps them to descriptive Go field names.
//
// # Error Handling
//
// Search makes a single attempt and never retries. Non-200 responses are
// returned as *StatusError; rate limiting (HTTP 429) is reported through
// StatusError.RateLimited together with any Retry-After hint. A body
// that is not valid JSON, or lacks data.items, wraps ErrMalformedResponse:
//
//	resp, err := client.Search(ctx, term)
//	var statusErr *tunebat.StatusError
//	switch {
//	case errors.As(err, &statusErr) && statusErr.RateLimited():
//	    // back off for statusErr.RetryAfter
//	case errors.Is(err, tunebat.ErrMalformedResponse):
//	    // the API changed shape
//	}
//
// # Configuration
//
//	client, err := tunebat.NewClient(tunebat.Config{
//	    HTTPClient: &http.Client{Timeout: 30 * time.Second},
//	    UserAgent:  "Mozilla/5.0 ...",
//	    Logger:     myLogger, // Implements tunebat.Logger
//	})
package tunebat
