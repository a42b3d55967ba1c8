package webcheck

import (
	"strings"

	"golang.org/x/net/html"
)

// skipSubstrings disqualify a result link: registry pages restate what we
// already have, and image or PDF links are not crawlable pages.
var skipSubstrings = []string{"fda.gov", ".img", ".pdf"}

// extractLinks pulls absolute hrefs out of a search result page, in document
// order, skipping registry and non-page links.
func extractLinks(body string) []string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]struct{})

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				link := strings.TrimSpace(attr.Val)
				if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
					continue
				}
				if skipLink(link) {
					continue
				}
				if _, ok := seen[link]; ok {
					continue
				}
				seen[link] = struct{}{}
				links = append(links, link)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links
}

// skipLink reports whether a result link should not be followed.
func skipLink(link string) bool {
	lower := strings.ToLower(link)
	for _, s := range skipSubstrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
