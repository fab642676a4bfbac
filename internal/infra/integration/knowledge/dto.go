package knowledge

type queryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type queryResponse struct {
	Results []snippet `json:"results"`
}

type snippet struct {
	Content string  `json:"content"`
	Source  string  `json:"source,omitempty"`
	Score   float64 `json:"score,omitempty"`
}

type corpusResponse struct {
	Documents []string `json:"documents"`
}
