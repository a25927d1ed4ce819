// Package inlines assembles the inline-image catalogue used to resolve
// [img=id] tags from a local file and the catalogue API.
package inlines

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/bbcode-preview/api"
	"github.com/open-cli-collective/bbcode-preview/pkg/bbcode"
)

// Catalogue is the file format: inline ids mapped to stored images. JSON
// files parse as well, being valid YAML.
type Catalogue struct {
	Inlines map[string]bbcode.Inline `yaml:"inlines" json:"inlines"`
}

// Options selects the catalogue sources. Both are optional.
type Options struct {
	File     string
	URL      string
	APIToken string

	// IDs limits the request to URL to these ids. Nil fetches the whole
	// catalogue; an empty slice makes no request.
	IDs []string

	Logger *zerolog.Logger
}

// Load builds a resolver from the configured sources. Entries from File
// override entries fetched from URL.
func Load(ctx context.Context, opts Options) (bbcode.MapResolver, error) {
	log := opts.Logger
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}

	resolver := bbcode.MapResolver{}

	if opts.URL != "" {
		client := api.NewClient(opts.URL, opts.APIToken)
		var (
			fetched map[string]bbcode.Inline
			err     error
		)
		if opts.IDs != nil {
			fetched, err = client.LookupInlines(ctx, opts.IDs)
		} else {
			fetched, err = client.GetInlines(ctx)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch inlines: %w", err)
		}
		for id, in := range fetched {
			resolver[id] = in
		}
		log.Debug().Str("url", opts.URL).Int("count", len(fetched)).Msg("fetched inline catalogue")
	}

	if opts.File != "" {
		cat, err := ReadFile(opts.File)
		if err != nil {
			return nil, err
		}
		for id, in := range cat.Inlines {
			resolver[id] = in
		}
		log.Debug().Str("file", opts.File).Int("count", len(cat.Inlines)).Msg("loaded inline catalogue")
	}

	return resolver, nil
}

// ReadFile reads a catalogue file.
func ReadFile(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inlines file: %w", err)
	}

	var cat Catalogue
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse inlines file: %w", err)
	}
	for id, in := range cat.Inlines {
		if _, err := in.Path(); err != nil {
			return nil, fmt.Errorf("inline %q: %w", id, err)
		}
	}
	return &cat, nil
}
