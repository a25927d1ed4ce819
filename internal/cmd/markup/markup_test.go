package markup

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/bbcode-preview/internal/config"
	"github.com/open-cli-collective/bbcode-preview/pkg/bbcode"
)

// testParserOptions isolates a test from the user's config and environment.
func testParserOptions(t *testing.T, input string) parserOptions {
	t.Helper()
	for _, v := range []string{"BBP_SITE_URL", "BBP_STATIC_URL", "BBP_INLINES_FILE", "BBP_INLINES_URL",
		"BBP_API_TOKEN", "BBP_MAX_DEPTH", "FLIST_SITE_URL", "FLIST_STATIC_URL"} {
		t.Setenv(v, "")
	}
	return parserOptions{
		configPath: filepath.Join(t.TempDir(), "config.yml"),
		noColor:    true,
		stdin:      strings.NewReader(input),
		stderr:     &bytes.Buffer{},
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReadInput(t *testing.T) {
	opts := testParserOptions(t, "from stdin")

	input, name, err := opts.readInput(nil)
	require.NoError(t, err)
	assert.Equal(t, "from stdin", input)
	assert.Equal(t, "stdin", name)

	path := writeFile(t, "profile.txt", "from file")
	input, name, err = opts.readInput([]string{path})
	require.NoError(t, err)
	assert.Equal(t, "from file", input)
	assert.Equal(t, "profile.txt", name)

	_, _, err = opts.readInput([]string{filepath.Join(t.TempDir(), "missing.txt")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read input")
}

func TestNewParser_UsesConfig(t *testing.T) {
	opts := testParserOptions(t, "")
	cfg := &config.Config{SiteURL: "http://site.test/", MaxDepth: 2}
	require.NoError(t, cfg.Save(opts.configPath))

	log := opts.logger()
	p, err := opts.newParser(context.Background(), &log, "")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Options().MaxDepth)

	root, err := p.ParseEverything("[user]Ann[/user]")
	require.NoError(t, err)
	href, _ := root.Children[0].Attr("href")
	assert.Equal(t, "http://site.test/c/Ann", href)
}

func TestNewParser_FlagsOverrideConfig(t *testing.T) {
	opts := testParserOptions(t, "")
	require.NoError(t, (&config.Config{MaxDepth: 2}).Save(opts.configPath))
	opts.maxDepth = 5
	opts.inlinesFile = writeFile(t, "inlines.yml", "inlines:\n  \"1\":\n    hash: abcdef\n    extension: png\n")

	log := opts.logger()
	p, err := opts.newParser(context.Background(), &log, "")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Options().MaxDepth)

	root, err := p.ParseEverything("[img=1]alt[/img]")
	require.NoError(t, err)
	src, _ := root.Children[0].Attr("src")
	assert.Equal(t, "https://static.f-list.net/images/charinline/ab/cd/abcdef.png", src)
}

func TestNewParser_InvalidConfig(t *testing.T) {
	opts := testParserOptions(t, "")
	require.NoError(t, (&config.Config{SiteURL: "ftp://site"}).Save(opts.configPath))

	log := opts.logger()
	_, err := opts.newParser(context.Background(), &log, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestNewParser_RemoteInlines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/lookup", r.URL.Path)
		var req struct {
			IDs []string `json:"ids"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"9"}, req.IDs)
		w.Write([]byte(`{"inlines": {"9": {"hash": "99887766", "extension": "gif"}}}`))
	}))
	defer server.Close()

	opts := testParserOptions(t, "")
	t.Setenv("BBP_INLINES_URL", server.URL)

	input := "[img=9][/img] [img=9]again[/img]"
	log := opts.logger()
	p, err := opts.newParser(context.Background(), &log, input)
	require.NoError(t, err)

	root, err := p.ParseEverything(input)
	require.NoError(t, err)
	require.Len(t, root.Find("img"), 2)
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	opts := parserOptions{stderr: &buf, noColor: true}

	log := opts.logger()
	log.Debug().Msg("hidden")
	log.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	opts.verbose = true
	log = opts.logger()
	log.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestRunRender_Formats(t *testing.T) {
	tests := []struct {
		format   string
		fragment bool
		contains string
	}{
		{"html", true, `<b><span style="white-space: pre-wrap">hi</span></b>`},
		{"html", false, "<!DOCTYPE html>"},
		{"markdown", false, "**hi**"},
		{"text", false, "hi"},
		{"terminal", false, "hi"},
		{"tree", false, "span.bbcode\n  b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var out bytes.Buffer
			opts := &renderOptions{
				parserOptions: testParserOptions(t, "[b]hi[/b]"),
				format:        tt.format,
				fragment:      tt.fragment,
				stdout:        &out,
			}

			require.NoError(t, runRender(context.Background(), opts, nil))
			assert.Contains(t, out.String(), tt.contains)
		})
	}
}

func TestRunRender_JSON(t *testing.T) {
	var out bytes.Buffer
	opts := &renderOptions{
		parserOptions: testParserOptions(t, "[b]hi[/x]"),
		format:        "json",
		stdout:        &out,
	}
	require.NoError(t, runRender(context.Background(), opts, nil))

	var result struct {
		Root     bbcode.Node      `json:"root"`
		Warnings []bbcode.Warning `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "span", result.Root.Tag)
	assert.Equal(t, []string{"bbcode"}, result.Root.Classes)
	require.Len(t, result.Warnings, 2)
	assert.Equal(t, bbcode.WarnUnknownTag, result.Warnings[0].Kind)
	assert.Equal(t, bbcode.WarnUnclosed, result.Warnings[1].Kind)
}

func TestRunRender_Placeholder(t *testing.T) {
	for _, input := range []string{"", "  \n\t"} {
		var out bytes.Buffer
		opts := &renderOptions{
			parserOptions: testParserOptions(t, input),
			format:        "html",
			stdout:        &out,
		}
		require.NoError(t, runRender(context.Background(), opts, nil))
		assert.Equal(t, Placeholder+"\n", out.String())
	}
}

func TestRunRender_InvalidFormat(t *testing.T) {
	opts := &renderOptions{
		parserOptions: testParserOptions(t, "x"),
		format:        "pdf",
		stdout:        &bytes.Buffer{},
	}
	err := runRender(context.Background(), opts, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid render format")
}

func TestRunRender_LogsWarnings(t *testing.T) {
	var stderr bytes.Buffer
	opts := &renderOptions{
		parserOptions: testParserOptions(t, "[nope]x"),
		format:        "text",
		stdout:        &bytes.Buffer{},
	}
	opts.stderr = &stderr

	require.NoError(t, runRender(context.Background(), opts, nil))
	assert.Contains(t, stderr.String(), "bbp check")
}

func TestRunRender_InlineError(t *testing.T) {
	opts := &renderOptions{
		parserOptions: testParserOptions(t, "x"),
		format:        "text",
		stdout:        &bytes.Buffer{},
	}
	opts.inlinesFile = filepath.Join(t.TempDir(), "missing.yml")

	err := runRender(context.Background(), opts, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read inlines file")
}

func TestRunCheck_Table(t *testing.T) {
	var out bytes.Buffer
	opts := &checkOptions{
		parserOptions: testParserOptions(t, "[b]x[/i]\n[foo]"),
		stdout:        &out,
	}
	require.NoError(t, runCheck(context.Background(), opts, nil))

	output := out.String()
	assert.Contains(t, output, "POSITION")
	assert.Contains(t, output, "1:5")
	assert.Contains(t, output, "unmatched-close")
	assert.Contains(t, output, "2:1")
	assert.Contains(t, output, "unknown-tag")
	assert.Contains(t, output, "unclosed")
	assert.Contains(t, output, "stdin: 3 problems")
}

func TestRunCheck_Clean(t *testing.T) {
	var out bytes.Buffer
	opts := &checkOptions{
		parserOptions: testParserOptions(t, "[b]fine[/b]"),
		stdout:        &out,
	}
	require.NoError(t, runCheck(context.Background(), opts, nil))
	assert.Contains(t, out.String(), "✓ stdin: no problems found")
}

func TestRunCheck_JSON(t *testing.T) {
	var out bytes.Buffer
	opts := &checkOptions{
		parserOptions: testParserOptions(t, "ok"),
		output:        "json",
		stdout:        &out,
	}
	require.NoError(t, runCheck(context.Background(), opts, nil))
	assert.Equal(t, "[]", strings.TrimSpace(out.String()))
}

func TestRunCheck_Plain(t *testing.T) {
	var out bytes.Buffer
	opts := &checkOptions{
		parserOptions: testParserOptions(t, "[/b]"),
		output:        "plain",
		stdout:        &out,
	}
	require.NoError(t, runCheck(context.Background(), opts, nil))
	assert.Equal(t, "1:1\tunmatched-close\tb\tclosing tag [/b] does not match open <root>\n", out.String())
}

func TestRunCheck_LongMessages(t *testing.T) {
	input := "[" + strings.Repeat("z", 100) + "]"

	var table bytes.Buffer
	opts := &checkOptions{parserOptions: testParserOptions(t, input), stdout: &table}
	require.NoError(t, runCheck(context.Background(), opts, nil))
	assert.Contains(t, table.String(), "...")
	assert.NotContains(t, table.String(), input)

	var plain bytes.Buffer
	opts = &checkOptions{parserOptions: testParserOptions(t, input), output: "plain", stdout: &plain}
	require.NoError(t, runCheck(context.Background(), opts, nil))
	assert.Contains(t, plain.String(), input)
}

func TestRunCheck_Strict(t *testing.T) {
	opts := &checkOptions{
		parserOptions: testParserOptions(t, "[b]open"),
		strict:        true,
		stdout:        &bytes.Buffer{},
	}
	err := runCheck(context.Background(), opts, nil)
	require.Error(t, err)
	assert.Equal(t, "1 problem in stdin", err.Error())

	opts = &checkOptions{
		parserOptions: testParserOptions(t, "[b]closed[/b]"),
		strict:        true,
		stdout:        &bytes.Buffer{},
	}
	assert.NoError(t, runCheck(context.Background(), opts, nil))
}

func TestRunCheck_InvalidOutput(t *testing.T) {
	opts := &checkOptions{
		parserOptions: testParserOptions(t, "x"),
		output:        "xml",
		stdout:        &bytes.Buffer{},
	}
	err := runCheck(context.Background(), opts, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestRunTags(t *testing.T) {
	var out bytes.Buffer
	opts := &tagsOptions{noColor: true, stdout: &out}
	require.NoError(t, runTags(opts, bbcode.NewFListRegistry(bbcode.FListOptions{})))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 26)
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, out.String(), "noparse")
}

func TestRunTags_KindFilter(t *testing.T) {
	reg := bbcode.NewRegistry()
	reg.Register(bbcode.SimpleTag("b", "b"))
	reg.Register(bbcode.SimpleTag("list", "ul").WithAllowed("item"))
	reg.Register(bbcode.SelfClosingTag("hr", "hr"))
	reg.Register(bbcode.TextTag("code", nil))

	var out bytes.Buffer
	opts := &tagsOptions{kind: "structural", output: "plain", stdout: &out}
	require.NoError(t, runTags(opts, reg))
	assert.Equal(t, "b\tstructural\t*\nlist\tstructural\titem\n", out.String())

	out.Reset()
	opts.kind = "text"
	require.NoError(t, runTags(opts, reg))
	assert.Equal(t, "code\ttext\t-\n", out.String())

	opts.kind = "bogus"
	err := runTags(opts, reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no tags of kind "bogus"`)
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 problem", plural(1, "problem"))
	assert.Equal(t, "0 problems", plural(0, "problem"))
	assert.Equal(t, "4 problems", plural(4, "problem"))
}
