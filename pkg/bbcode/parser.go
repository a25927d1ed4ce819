// parser.go implements the single-pass scanner that builds the node tree
// directly while it walks the input.
package bbcode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultMaxDepth is the number of nested tag scopes rendered before further
// tags are discarded. Exactly this many levels are built; a tag that would
// open level DefaultMaxDepth+1 is discarded with its content.
const DefaultMaxDepth = 100

// ErrInputTooLarge is returned when the input exceeds Options.MaxInputLength.
var ErrInputTooLarge = errors.New("bbcode: input too large")

// Options configures a Parser.
type Options struct {
	// MaxDepth caps nested tag scopes. Zero means DefaultMaxDepth.
	MaxDepth int

	// MaxInputLength rejects inputs longer than this many bytes. Zero disables
	// the check.
	MaxInputLength int

	// Logger receives debug events for every warning. Nil disables logging.
	Logger *zerolog.Logger

	// NewElement constructs element nodes. Nil means NewElement.
	NewElement func(tag string) *Node
}

// Result is the output of Parse.
type Result struct {
	Root     *Node
	Warnings []Warning
}

// Parser converts bracket markup into a Node tree using a Registry.
//
// A Parser holds no per-parse state and may be used from several goroutines
// at once, as long as its Registry is not modified meanwhile.
type Parser struct {
	registry *Registry
	opts     Options

	// state is set only on the copy handed to builders during one parse.
	state *parseState
}

// NewParser creates a parser over reg.
func NewParser(reg *Registry, opts Options) *Parser {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}
	if opts.NewElement == nil {
		opts.NewElement = NewElement
	}
	return &Parser{registry: reg, opts: opts}
}

// Registry returns the registry the parser resolves tags against.
func (p *Parser) Registry() *Registry {
	return p.registry
}

// Options returns the effective options, defaults applied.
func (p *Parser) Options() Options {
	return p.opts
}

// CreateElement creates an element node. Tag builders use this instead of
// constructing nodes directly so that hosts can substitute the factory.
func (p *Parser) CreateElement(tag string) *Node {
	return p.opts.NewElement(tag)
}

// ParseEverything parses input into a span.bbcode root and returns it.
func (p *Parser) ParseEverything(input string) (*Node, error) {
	res, err := p.Parse(input)
	if err != nil {
		return nil, err
	}
	return res.Root, nil
}

// Parse parses input and returns the tree along with any warnings.
// Malformed markup never fails the parse; only builder errors and the input
// length cap do.
func (p *Parser) Parse(input string) (*Result, error) {
	if limit := p.opts.MaxInputLength; limit > 0 && len(input) > limit {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInputTooLarge, len(input), limit)
	}

	root := p.CreateElement("span")
	root.AddClass("bbcode")

	s := newParseState(p.opts.Logger)
	run := &Parser{registry: p.registry, opts: p.opts, state: s}
	if _, err := run.scan(s, input, 0, nil, root, allowAll, 0); err != nil {
		return nil, err
	}
	return &Result{Root: root, Warnings: s.warnings}, nil
}

// parseFragment parses text, which begins at in the input, with reg in place
// of the parser's registry. Warnings found in text join the running parse.
func (p *Parser) parseFragment(reg *Registry, text string, at Position) (*Node, error) {
	opts := p.opts
	opts.Logger = nil
	res, err := NewParser(reg, opts).Parse(text)
	if err != nil {
		return nil, err
	}
	if p.state != nil {
		for _, w := range res.Warnings {
			w.Position = at.offset(w.Position)
			p.state.add(w)
		}
	}
	return res.Root, nil
}

// bodyPosition returns the location of body[offset] for the body of the
// text-capturing tag being built.
func (p *Parser) bodyPosition(body string, offset int) Position {
	if p.state == nil {
		return Position{Line: 1, Column: 1}
	}
	pos := p.state.body
	for i := 0; i < offset && i < len(body); i++ {
		pos = pos.advance(body[i])
	}
	return pos
}

// permission decides whether a tag may be opened at the current point.
type permission func(name string) bool

func allowAll(string) bool { return true }

// and narrows perm by what t allows directly inside itself.
func (perm permission) and(t *Tag) permission {
	return func(name string) bool {
		return t.Allows(name) && perm(name)
	}
}

// bracket is one complete [key=param] or [/key] sequence.
type bracket struct {
	key     string
	param   string
	closing bool
	start   int // index of '['
	end     int // index of ']'
	at      Position
}

// bracketState tracks a pending '[' and '=' while scanning.
type bracketState struct {
	start int
	param int
	at    Position
}

func newBracketState() bracketState {
	return bracketState{start: -1, param: -1}
}

// feed examines input[i], located at here. It reports a bracket when input[i]
// closes a pending '[' with a non-empty key.
func (b *bracketState) feed(input string, i int, here Position) (bracket, bool) {
	switch input[i] {
	case '[':
		b.start, b.param, b.at = i, -1, here
	case '=':
		if b.start != -1 && b.param == -1 {
			b.param = i
		}
	case ']':
		if b.start == -1 {
			return bracket{}, false
		}
		start, paramAt := b.start, b.param
		b.start, b.param = -1, -1

		keyEnd, param := i, ""
		if paramAt != -1 {
			keyEnd, param = paramAt, input[paramAt+1:i]
		}
		key := strings.ToLower(strings.TrimSpace(input[start+1 : keyEnd]))
		closing := strings.HasPrefix(key, "/")
		if closing {
			key = strings.TrimSpace(key[1:])
		}
		if key == "" {
			return bracket{}, false
		}
		return bracket{
			key:     key,
			param:   param,
			closing: closing,
			start:   start,
			end:     i,
			at:      b.at,
		}, true
	}
	return bracket{}, false
}

// scan parses input from start into parent until it meets the closing tag of
// self or the end of input. It returns the index of the closing tag's ']' or
// len(input).
func (p *Parser) scan(s *parseState, input string, start int, self *Tag, parent *Node, allowed permission, depth int) (int, error) {
	if self != nil {
		allowed = allowed.and(self)
	}

	br := newBracketState()
	mark := start
	for i := start; i < len(input); i++ {
		here := s.pos
		s.advance(input[i])

		b, ok := br.feed(input, i, here)
		if !ok {
			continue
		}

		tag, known := p.registry.Lookup(b.key)
		if !known {
			s.warn(b.at, WarnUnknownTag, b.key, "unknown tag %q kept as text", input[b.start:b.end+1])
			continue
		}

		if b.closing {
			if self != nil && self.Name == tag.Name {
				p.AppendText(parent, input[mark:b.start])
				return i, nil
			}
			s.warn(b.at, WarnUnmatchedClose, tag.Name, "closing tag [/%s] does not match open %s", tag.Name, scopeName(self))
			continue
		}

		p.AppendText(parent, input[mark:b.start])
		end, err := p.open(s, input, b, tag, parent, allowed, depth)
		if err != nil {
			return 0, err
		}
		i = end
		mark = i + 1
	}

	if mark < len(input) {
		p.AppendText(parent, input[mark:])
	}
	if self != nil {
		s.warn(s.current.at, WarnUnclosed, self.Name, "tag [%s] is never closed", self.Name)
	}
	return len(input), nil
}

// open handles a recognized opening tag and returns the index where scanning
// resumes (the last consumed byte).
func (p *Parser) open(s *parseState, input string, b bracket, tag *Tag, parent *Node, allowed permission, depth int) (int, error) {
	param := strings.TrimSpace(b.param)

	// A discarded self-closing tag has no body to consume.
	discard := func() int {
		if !tag.HasClosingTag() {
			return b.end
		}
		return p.skip(s, input, b.end+1, tag)
	}

	switch {
	case !allowed(tag.Name):
		s.warn(b.at, WarnDisallowed, tag.Name, "tag [%s] is not allowed inside %s; content discarded", tag.Name, s.current.name)
		return discard(), nil
	case depth >= p.opts.MaxDepth:
		s.warn(b.at, WarnDepthExceeded, tag.Name, "tag [%s] exceeds nesting depth %d; content discarded", tag.Name, p.opts.MaxDepth)
		return discard(), nil
	}

	switch tag.Kind {
	case TextCapturing:
		s.body = s.pos
		end := p.skip(s, input, b.end+1, tag)
		content := capturedBody(input, b.end+1, end)
		if _, err := p.build(tag, parent, param, content, b.at); err != nil {
			return 0, err
		}
		return end, nil

	case SelfClosing:
		_, err := p.build(tag, parent, param, "", b.at)
		return b.end, err

	default:
		el, err := p.build(tag, parent, param, "", b.at)
		if err != nil || el == nil {
			return b.end, err
		}
		prev := s.enter(tag.Name, b.at)
		end, err := p.scan(s, input, b.end+1, tag, el, allowed, depth+1)
		s.current = prev
		return end, err
	}
}

// skip consumes a discarded scope opened by tag, starting after its opening
// bracket. Nested scopes are tracked on an explicit stack so that adversarial
// nesting cannot grow the call stack. It returns the index of the matching
// closing tag's ']' or len(input).
func (p *Parser) skip(s *parseState, input string, start int, tag *Tag) int {
	open := []string{tag.Name}
	br := newBracketState()
	for i := start; i < len(input); i++ {
		here := s.pos
		s.advance(input[i])

		b, ok := br.feed(input, i, here)
		if !ok {
			continue
		}
		t, known := p.registry.Lookup(b.key)
		if !known {
			continue
		}
		if b.closing {
			if t.Name == open[len(open)-1] {
				open = open[:len(open)-1]
				if len(open) == 0 {
					return i
				}
			}
			continue
		}
		if t.HasClosingTag() {
			open = append(open, t.Name)
		}
	}
	return len(input)
}

// capturedBody returns the raw body of a text-capturing tag: everything from
// bodyStart up to the last '[' at or before end.
func capturedBody(input string, bodyStart, end int) string {
	limit := end + 1
	if limit > len(input) {
		limit = len(input)
	}
	contentEnd := strings.LastIndexByte(input[:limit], '[')
	if contentEnd <= bodyStart {
		return ""
	}
	return input[bodyStart:contentEnd]
}

func (p *Parser) build(tag *Tag, parent *Node, param, content string, at Position) (*Node, error) {
	if tag.Build == nil {
		return nil, nil
	}
	el, err := tag.Build(p, parent, param, content)
	if err != nil {
		return nil, &BuildError{Tag: tag.Name, Position: at, Err: err}
	}
	return el, nil
}

// AppendText appends text to parent. Each non-empty line becomes a span that
// preserves whitespace; consecutive lines are separated by a br element.
func (p *Parser) AppendText(parent *Node, text string) {
	if parent == nil || text == "" {
		return
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			span := p.CreateElement("span")
			span.SetStyle("white-space", "pre-wrap")
			span.SetText(line)
			parent.AppendChild(span)
		}
		if i < len(lines)-1 {
			parent.AppendChild(p.CreateElement("br"))
		}
	}
}

func scopeName(t *Tag) string {
	if t == nil {
		return rootTagName
	}
	return "[" + t.Name + "]"
}
