package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const defaultDuckDuckGoURL = "https://api.duckduckgo.com"

// WebSearch fetches live web context from the DuckDuckGo instant-answer API.
type WebSearch struct {
	baseURL string
	client  *http.Client
}

// NewWebSearch creates a web search source. baseURL defaults to the public
// DuckDuckGo API if empty.
func NewWebSearch(baseURL string) *WebSearch {
	if baseURL == "" {
		baseURL = defaultDuckDuckGoURL
	}
	return &WebSearch{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

func (s *WebSearch) Origin() Origin { return OriginWeb }

type ddgResponse struct {
	Abstract      string     `json:"Abstract"`
	Answer        string     `json:"Answer"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

// ddgTopic is one related-topic entry. Topic groups nest further entries but
// carry no Text of their own, so they fall out naturally.
type ddgTopic struct {
	Text string `json:"Text"`
}

func (s *WebSearch) Fetch(ctx context.Context, query string, limit int) ([]Snippet, error) {
	if limit <= 0 {
		return nil, nil
	}
	query = strings.TrimSpace(query)

	data, err := s.instantAnswer(ctx, query)
	if err != nil {
		return nil, err
	}

	var texts []string
	if abstract := strings.TrimSpace(data.Abstract); abstract != "" {
		texts = append(texts, "Summary: "+abstract)
	}
	for _, topic := range data.RelatedTopics {
		if t := strings.TrimSpace(topic.Text); t != "" {
			texts = append(texts, t)
		}
	}
	if answer := strings.TrimSpace(data.Answer); answer != "" {
		texts = append(texts, "Answer: "+answer)
	}

	// Fill remaining room with a news-slanted lookup. A failed news call
	// never discards the primary results.
	if len(texts) < limit {
		if news, err := s.instantAnswer(ctx, query+" latest news"); err == nil {
			if abstract := strings.TrimSpace(news.Abstract); abstract != "" {
				texts = append(texts, "Recent news: "+abstract)
			}
			for _, topic := range news.RelatedTopics {
				if t := strings.TrimSpace(topic.Text); t != "" {
					texts = append(texts, "Recent news: "+t)
				}
			}
		}
	}

	if len(texts) > limit {
		texts = texts[:limit]
	}

	snippets := make([]Snippet, 0, len(texts))
	for i, t := range texts {
		snippets = append(snippets, Snippet{Text: t, Origin: OriginWeb, Rank: i})
	}
	return snippets, nil
}

func (s *WebSearch) instantAnswer(ctx context.Context, query string) (*ddgResponse, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create web search request: %w", err)
	}
	req.Header.Set("User-Agent", requestUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web search returned status %d", resp.StatusCode)
	}

	var data ddgResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode web search response: %w", err)
	}
	return &data, nil
}
