package api

import "github.com/open-cli-collective/bbcode-preview/pkg/bbcode"

// InlinesResponse is the catalogue payload: inline ids mapped to their
// stored image.
type InlinesResponse struct {
	Inlines map[string]bbcode.Inline `json:"inlines"`
}

// LookupRequest asks for a subset of inline ids.
type LookupRequest struct {
	IDs []string `json:"ids"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors,omitempty"`
}

func (e *ErrorResponse) Error() string {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return e.Message
}
