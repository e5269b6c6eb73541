package linkmeta

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Parse decodes an HTML document according to contentType and extracts its Detail.
// base is the final location of the document, used to resolve relative URLs.
// Parsing never fails; unreadable documents yield an empty Detail.
func Parse(r io.Reader, contentType string, base *url.URL) Detail {
	decoded, err := charset.NewReader(r, contentType)
	if err != nil {
		decoded = r
	}
	doc, err := html.Parse(decoded)
	if err != nil {
		return Detail{}
	}
	return Extract(doc, base)
}

// Extract reads title, description, icon and preview image from a parsed document.
func Extract(doc *html.Node, base *url.URL) Detail {
	var (
		d                      Detail
		title, desc, icon, img *html.Node
		baseHref               string
	)

	walk(doc, func(n *html.Node) {
		switch n.Data {
		case "title":
			if title == nil {
				title = n
			}
		case "base":
			if baseHref == "" {
				baseHref = attr(n, "href")
			}
		case "meta":
			if desc == nil && strings.EqualFold(attr(n, "name"), "description") && hasAttr(n, "content") {
				desc = n
			}
			if img == nil && strings.EqualFold(attr(n, "property"), "og:image") {
				img = n
			}
		case "link":
			if icon == nil && strings.EqualFold(strings.TrimSpace(attr(n, "rel")), "icon") {
				icon = n
			}
		}
	})

	if baseHref != "" {
		if resolved := resolve(base, baseHref); resolved != "" {
			if u, err := url.Parse(resolved); err == nil {
				base = u
			}
		}
	}

	if title != nil {
		d.Title = strings.Join(strings.Fields(text(title)), " ")
	}
	if desc != nil {
		d.Description = attr(desc, "content")
	}
	if icon != nil {
		d.Icon = resolve(base, attr(icon, "href"))
	}
	if img != nil {
		d.Image = resolve(base, attr(img, "content"))
	}
	return d
}

// walk visits element nodes in document order.
func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func text(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return true
		}
	}
	return false
}

// resolve returns ref as an absolute URL, or "" when ref is empty or unusable.
func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base == nil {
		if !u.IsAbs() {
			return ""
		}
		return u.String()
	}
	return base.ResolveReference(u).String()
}
