// flist.go registers the tag set of F-List character profiles.
package bbcode

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

const (
	DefaultSiteURL   = "https://www.f-list.net"
	DefaultStaticURL = "https://static.f-list.net"
)

// FListOptions configures NewFListRegistry.
type FListOptions struct {
	SiteURL   string         // profile links; DefaultSiteURL when empty
	StaticURL string         // avatars, eicons, inline images; DefaultStaticURL when empty
	Inlines   InlineResolver // resolves [img=id]; nil treats every id as unknown
}

var (
	colorPattern  = regexp.MustCompile(`(?i)^(#([0-9a-f]{3}){1,2}|[a-z]+)$`)
	domainPattern = regexp.MustCompile(`://(?:www\.)?([^/]+)`)
)

// NewFListRegistry returns a registry with every F-List profile tag.
func NewFListRegistry(opts FListOptions) *Registry {
	site := strings.TrimSuffix(orDefault(opts.SiteURL, DefaultSiteURL), "/")
	static := strings.TrimSuffix(orDefault(opts.StaticURL, DefaultStaticURL), "/")

	reg := NewRegistry()
	for _, name := range []string{"b", "i", "u", "s", "sup", "sub"} {
		reg.Register(SimpleTag(name, name))
	}
	reg.Register(SimpleTag("quote", "blockquote"))
	reg.Register(SelfClosingTag("hr", "hr"))
	for _, align := range []string{"center", "right", "justify", "left"} {
		reg.Register(CustomTag(align, styledDiv("text-align", align)))
	}
	reg.Register(CustomTag("indent", styledDiv("padding-left", "3em")))
	reg.Register(SimpleTag("big", "span", "bigtext"))
	reg.Register(SimpleTag("small", "span", "smalltext"))
	reg.Register(SimpleTag("heading", "h2"))
	reg.Register(CustomTag("color", buildColor))
	reg.Register(CustomTag("collapse", buildCollapse))

	// Link labels are parsed with every tag except url itself.
	var labels *Registry
	reg.Register(TextTag("url", func(p *Parser, parent *Node, param, content string) (*Node, error) {
		return nil, buildURL(p, labels, parent, param, content)
	}))
	reg.Register(TextTag("img", func(p *Parser, parent *Node, param, content string) (*Node, error) {
		return nil, buildImage(p, opts.Inlines, static, parent, param, content)
	}))
	reg.Register(TextTag("icon", func(p *Parser, parent *Node, _, content string) (*Node, error) {
		buildIcon(p, site, static, parent, content)
		return nil, nil
	}))
	reg.Register(TextTag("user", func(p *Parser, parent *Node, _, content string) (*Node, error) {
		buildUser(p, site, parent, content)
		return nil, nil
	}))
	reg.Register(TextTag("eicon", func(p *Parser, parent *Node, _, content string) (*Node, error) {
		img := p.CreateElement("img")
		img.SetAttr("src", static+"/images/eicon/"+strings.ToLower(strings.TrimSpace(content))+".gif")
		img.AddClass("eicon")
		img.SetStyle("width", "50px")
		img.SetStyle("height", "50px")
		parent.AppendChild(img)
		return nil, nil
	}))
	reg.Register(TextTag("noparse", func(p *Parser, parent *Node, _, content string) (*Node, error) {
		p.AppendText(parent, content)
		return nil, nil
	}))
	reg.Register(TextTag("session", func(p *Parser, parent *Node, _, content string) (*Node, error) {
		a := p.CreateElement("a")
		a.SetAttr("href", "#")
		a.SetAttr("onclick", "return false")
		a.AddClass("SessionLink")
		if name := strings.TrimSpace(content); name != "" {
			a.SetText(name)
		}
		parent.AppendChild(a)
		return nil, nil
	}))

	labels = reg.Clone()
	labels.Remove("url")
	return reg
}

func styledDiv(property, value string) BuildFunc {
	return func(p *Parser, parent *Node, _, _ string) (*Node, error) {
		el := p.CreateElement("div")
		el.SetStyle(property, value)
		parent.AppendChild(el)
		return el, nil
	}
}

// buildColor always creates the span; an invalid color only drops the style.
func buildColor(p *Parser, parent *Node, param, _ string) (*Node, error) {
	el := p.CreateElement("span")
	if ValidColor(param) {
		el.SetStyle("color", param)
		el.SetAttr("data-color", param)
	}
	parent.AppendChild(el)
	return el, nil
}

// buildCollapse emits a header/block pair and scopes the body into the block.
func buildCollapse(p *Parser, parent *Node, param, _ string) (*Node, error) {
	header := p.CreateElement("div")
	header.AddClass("CollapseHeader")
	header.SetAttr("role", "button")
	header.SetAttr("aria-expanded", "false")
	header.SetAttr("data-toggle", "collapse")

	headerText := p.CreateElement("div")
	headerText.AddClass("CollapseHeaderText")
	title := p.CreateElement("span")
	if param == "" {
		param = "\u00a0"
	}
	p.AppendText(title, param)
	headerText.AppendChild(title)
	header.AppendChild(headerText)

	block := p.CreateElement("div")
	block.AddClass("CollapseBlock")
	block.SetStyle("display", "none")

	parent.AppendChild(header)
	parent.AppendChild(block)
	return block, nil
}

func buildURL(p *Parser, labels *Registry, parent *Node, param, content string) error {
	target := param
	text := strings.TrimSpace(content)
	if target == "" {
		target = text
	}
	if text == "" {
		text = target
	}

	if !isHTTP(target) {
		literal := "[url"
		if param != "" {
			literal += "=" + param
		}
		p.AppendText(parent, literal+"]"+content+"[/url]")
		return nil
	}

	a := p.CreateElement("a")
	a.SetAttr("href", target)
	a.SetAttr("target", "_blank")
	a.SetAttr("rel", "noopener noreferrer nofollow")
	a.SetStyle("color", "inherit")

	lead := len(content) - len(strings.TrimLeftFunc(content, unicode.IsSpace))
	label, err := p.parseFragment(labels, text, p.bodyPosition(content, lead))
	if err != nil {
		return err
	}
	a.Children = label.Children
	parent.AppendChild(a)

	if m := domainPattern.FindStringSubmatch(target); m != nil {
		domain := p.CreateElement("span")
		domain.SetText(" [" + m[1] + "]")
		domain.SetStyle("font-size", "0.8em")
		parent.AppendChild(domain)
	}
	return nil
}

func buildImage(p *Parser, inlines InlineResolver, static string, parent *Node, param, content string) error {
	img := p.CreateElement("img")
	img.SetStyle("max-width", "100%")

	if param != "" {
		var (
			in  Inline
			ok  bool
			err error
		)
		if inlines != nil {
			in, ok, err = inlines.Inline(param)
			if err != nil {
				return err
			}
		}
		path, pathErr := in.Path()
		if !ok || pathErr != nil {
			// Unknown or foreign inline: show the markup as typed.
			p.AppendText(parent, "[img="+param+"]"+content+"[/img]")
			return nil
		}
		img.SetAttr("src", static+"/"+path)
		img.SetAttr("alt", strings.TrimSpace(content))
		parent.AppendChild(img)
		return nil
	}

	src := strings.TrimSpace(content)
	if !isHTTP(src) {
		p.AppendText(parent, "[img]"+content+"[/img]")
		return nil
	}
	img.SetAttr("src", src)
	parent.AppendChild(img)
	return nil
}

func buildIcon(p *Parser, site, static string, parent *Node, content string) {
	name := strings.TrimSpace(content)
	if name == "" {
		return
	}
	a := p.CreateElement("a")
	a.SetAttr("href", site+"/c/"+encodeURIComponent(name))
	a.SetAttr("target", "_blank")
	a.AddClass("character-icon")

	img := p.CreateElement("img")
	img.SetAttr("src", static+"/images/avatar/"+strings.ReplaceAll(strings.ToLower(name), " ", "%20")+".png")
	img.SetStyle("width", "50px")
	img.SetStyle("height", "50px")
	img.SetStyle("vertical-align", "middle")
	img.SetStyle("margin-right", "5px")
	img.SetStyle("border", "0")

	a.AppendChild(img)
	parent.AppendChild(a)
}

func buildUser(p *Parser, site string, parent *Node, content string) {
	name := strings.TrimSpace(content)
	if name == "" {
		return
	}
	a := p.CreateElement("a")
	a.SetAttr("href", site+"/c/"+encodeURIComponent(name))
	a.SetAttr("target", "_blank")
	a.AddClass("AvatarLink")
	p.AppendText(a, name)
	parent.AppendChild(a)
}

func isHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// componentUnescaper undoes the query escapes that JavaScript's
// encodeURIComponent leaves as literal characters.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent escapes s for use as one URL path segment, spaces as %20.
func encodeURIComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
