package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultWikiSummaryURL = "https://en.wikipedia.org/api/rest_v1/page/summary"
	defaultWikiSearchURL  = "https://en.wikipedia.org/w/api.php"

	requestUserAgent = "scribecast/1.0 (script research assistant)"

	defaultWikiSentences = 3
)

// Encyclopedia fetches a topic summary from the Wikipedia REST API. When a
// direct title lookup misses, it runs one keyword search and retries the
// summary with the top hit's title. Fallback depth is capped at 1.
type Encyclopedia struct {
	summaryURL string
	searchURL  string
	sentences  int
	client     *http.Client
}

// NewEncyclopedia creates an encyclopedia source. Empty URLs default to the
// public Wikipedia endpoints; sentences <= 0 defaults to 3.
func NewEncyclopedia(summaryURL, searchURL string, sentences int) *Encyclopedia {
	if summaryURL == "" {
		summaryURL = defaultWikiSummaryURL
	}
	if searchURL == "" {
		searchURL = defaultWikiSearchURL
	}
	if sentences <= 0 {
		sentences = defaultWikiSentences
	}
	return &Encyclopedia{
		summaryURL: summaryURL,
		searchURL:  searchURL,
		sentences:  sentences,
		client:     &http.Client{},
	}
}

func (s *Encyclopedia) Origin() Origin { return OriginEncyclopedia }

func (s *Encyclopedia) Fetch(ctx context.Context, query string, limit int) ([]Snippet, error) {
	if limit <= 0 {
		return nil, nil
	}

	extract, err := s.summary(ctx, query, true)
	if err != nil {
		return nil, err
	}
	if extract == "" {
		return nil, nil
	}
	return []Snippet{{Text: extract, Origin: OriginEncyclopedia}}, nil
}

type wikiSummaryResponse struct {
	Extract string `json:"extract"`
}

func (s *Encyclopedia) summary(ctx context.Context, title string, allowFallback bool) (string, error) {
	slug := strings.ReplaceAll(strings.TrimSpace(title), " ", "_")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.summaryURL+"/"+url.PathEscape(slug), nil)
	if err != nil {
		return "", fmt.Errorf("create summary request: %w", err)
	}
	req.Header.Set("User-Agent", requestUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("summary request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var data wikiSummaryResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return "", fmt.Errorf("decode summary response: %w", err)
		}
		return limitSentences(strings.TrimSpace(data.Extract), s.sentences), nil

	case resp.StatusCode == http.StatusNotFound && allowFallback:
		top, err := s.topSearchHit(ctx, title)
		if err != nil {
			return "", err
		}
		if top == "" {
			return "", nil
		}
		return s.summary(ctx, top, false)

	default:
		return "", fmt.Errorf("summary lookup returned status %d", resp.StatusCode)
	}
}

type wikiSearchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

// topSearchHit returns the title of the best keyword-search match, or "" when
// the search comes up empty.
func (s *Encyclopedia) topSearchHit(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("list", "search")
	q.Set("srsearch", strings.TrimSpace(query))
	q.Set("srlimit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.searchURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("User-Agent", requestUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	var data wikiSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decode search response: %w", err)
	}
	if len(data.Query.Search) == 0 {
		return "", nil
	}
	return data.Query.Search[0].Title, nil
}

// limitSentences keeps the first n sentences of an extract and restores the
// final period.
func limitSentences(extract string, n int) string {
	if extract == "" {
		return ""
	}
	parts := strings.Split(extract, ". ")
	if len(parts) > n {
		parts = parts[:n]
	}
	out := strings.Join(parts, ". ")
	if !strings.HasSuffix(out, ".") {
		out += "."
	}
	return out
}
