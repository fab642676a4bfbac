package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the retrieval sidecar that owns document ingestion and
// vector search. This service only ever asks it two questions: "what matches
// this query" and "give me the whole corpus".
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Query returns the top-matching context snippets joined into one block.
func (c *Client) Query(ctx context.Context, query string, topK int) (string, error) {
	if topK <= 0 {
		topK = 3
	}

	payload, err := json.Marshal(queryRequest{Query: query, TopK: topK})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/query", bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("knowledge store query failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("knowledge store returned %d: %s", resp.StatusCode, string(raw))
	}

	var result queryResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", err
	}

	parts := make([]string, 0, len(result.Results))
	for _, s := range result.Results {
		if s.Content != "" {
			parts = append(parts, s.Content)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// Corpus returns every stored company document, newline-joined. Used by
// product extraction, which reads the whole document set rather than a
// similarity slice.
func (c *Client) Corpus(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/corpus", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("knowledge store corpus fetch failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("knowledge store returned %d: %s", resp.StatusCode, string(raw))
	}

	var result corpusResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", err
	}
	return strings.Join(result.Documents, "\n"), nil
}
