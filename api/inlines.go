package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/open-cli-collective/bbcode-preview/pkg/bbcode"
)

// GetInlines fetches the whole catalogue.
func (c *Client) GetInlines(ctx context.Context) (map[string]bbcode.Inline, error) {
	body, err := c.Get(ctx, "")
	if err != nil {
		return nil, err
	}
	return decodeInlines(body)
}

// LookupInlines fetches only the given ids. Ids the catalogue does not know
// are absent from the result.
func (c *Client) LookupInlines(ctx context.Context, ids []string) (map[string]bbcode.Inline, error) {
	if len(ids) == 0 {
		return map[string]bbcode.Inline{}, nil
	}
	body, err := c.Post(ctx, "/lookup", LookupRequest{IDs: ids})
	if err != nil {
		return nil, err
	}
	return decodeInlines(body)
}

func decodeInlines(body []byte) (map[string]bbcode.Inline, error) {
	var resp InlinesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Inlines == nil {
		resp.Inlines = map[string]bbcode.Inline{}
	}
	return resp.Inlines, nil
}
