package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// ComputedStyle holds the style properties the visibility filter reads.
// Zero values mean "not set".
type ComputedStyle struct {
	Display    string
	Visibility string
	Opacity    string
}

// StyleResolver resolves the effective style of an element at traversal
// time. Hosts with real computed-style access plug in their own
// implementation; InlineStyleResolver is the default.
type StyleResolver interface {
	Style(el *html.Node) ComputedStyle
}

// hiddenTags are elements whose text content is never rendered as page text.
var hiddenTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"object":   true,
	"embed":    true,
	"svg":      true,
}

// inputTags are form controls whose text content is edited, not searched.
var inputTags = map[string]bool{
	"input":    true,
	"textarea": true,
	"select":   true,
}

// Hides reports whether the style makes an element's text invisible.
func (s ComputedStyle) Hides() bool {
	return s.Display == "none" || s.Visibility == "hidden" || s.Opacity == "0"
}

// excludedElement reports whether the element itself (tag or resolved
// style) removes its subtree from searchable text.
func excludedElement(el *html.Node, res StyleResolver) bool {
	if hiddenTags[el.Data] || inputTags[el.Data] {
		return true
	}
	if hasAttr(el, "hidden") {
		return true
	}
	return res.Style(el).Hides()
}

// Searchable reports whether a text node contributes visible page text:
// it must have a parent element, a non-blank content, and no excluded
// element on its ancestor chain. Style is resolved at call time. A nil
// resolver falls back to inline-style resolution.
func Searchable(n *html.Node, res StyleResolver) bool {
	if res == nil {
		res = InlineStyleResolver{}
	}
	if n.Type != html.TextNode {
		return false
	}
	parent := n.Parent
	if parent == nil || parent.Type != html.ElementNode {
		return false
	}
	if strings.TrimSpace(n.Data) == "" {
		return false
	}
	for el := parent; el != nil; el = el.Parent {
		if el.Type != html.ElementNode {
			continue
		}
		if excludedElement(el, res) {
			return false
		}
	}
	return true
}

// InlineStyleResolver reads style from the element's inline style
// attribute. It stands in for real computed style in headless use.
type InlineStyleResolver struct{}

// Style parses the element's style attribute.
func (InlineStyleResolver) Style(el *html.Node) ComputedStyle {
	raw := attrValue(el, "style")
	if raw == "" {
		return ComputedStyle{}
	}
	var cs ComputedStyle
	for _, decl := range strings.Split(raw, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch strings.ToLower(strings.TrimSpace(prop)) {
		case "display":
			cs.Display = strings.ToLower(val)
		case "visibility":
			cs.Visibility = strings.ToLower(val)
		case "opacity":
			cs.Opacity = val
		}
	}
	return cs
}

func attrValue(el *html.Node, name string) string {
	for _, a := range el.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasAttr(el *html.Node, name string) bool {
	for _, a := range el.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}
