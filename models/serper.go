package models

// SerperRequest is the body for serper.dev's /search endpoint.
type SerperRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num,omitempty"`
}

type SerperResponse struct {
	Organic []SerperOrganicResult `json:"organic"`
}

type SerperOrganicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}
