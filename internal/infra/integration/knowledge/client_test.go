package knowledge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryJoinsSnippets(t *testing.T) {
	var captured queryRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]string{
				{"content": "DataSense is our analytics suite."},
				{"content": ""},
				{"content": "CostSense tracks spend."},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	got, err := client.Query(context.Background(), "what products do you sell", 3)

	assert.NoError(t, err)
	assert.Equal(t, "what products do you sell", captured.Query)
	assert.Equal(t, 3, captured.TopK)
	assert.Equal(t, "DataSense is our analytics suite.\nCostSense tracks spend.", got)
}

func TestQueryDefaultsTopK(t *testing.T) {
	var captured queryRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(map[string]interface{}{"results": []map[string]string{}})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	_, err := client.Query(context.Background(), "anything", 0)

	assert.NoError(t, err)
	assert.Equal(t, 3, captured.TopK)
}

func TestCorpusJoinsDocuments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/corpus", r.URL.Path)
		assert.Equal(t, "GET", r.Method)

		json.NewEncoder(w).Encode(map[string][]string{
			"documents": {"DataSense docs", "CostSense docs"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	got, err := client.Corpus(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "DataSense docs\nCostSense docs", got)
}

func TestNonOKStatusSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index rebuilding", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	_, err := client.Query(context.Background(), "anything", 3)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
