package webserver

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// sanitizer strips markup from free text before it is stored. Text without
// markup, stray angle brackets included, is kept exactly as submitted.
type sanitizer struct {
	policy *bluemonday.Policy
}

func newSanitizer() *sanitizer {
	return &sanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *sanitizer) clean(in string) string {
	out := in
	// Decoding can surface markup that was entity-encoded, so repeat.
	for range 3 {
		if !hasMarkup(out) {
			break
		}
		out = html.UnescapeString(s.policy.Sanitize(out))
	}
	return out
}

// Elements that are markup even without a closing tag.
var standalone = map[string]bool{
	"script": true, "style": true, "iframe": true, "object": true, "embed": true,
	"svg": true, "math": true, "form": true, "frame": true, "frameset": true,
	"img": true, "br": true, "hr": true, "input": true, "link": true, "meta": true,
	"base": true, "area": true, "source": true, "track": true, "wbr": true,
}

// hasMarkup reports whether in holds real HTML: a closed element pair, a
// void or active element, an event handler or URL attribute, or a comment.
// An unmatched "<b and c>" in prose is not markup.
func hasMarkup(in string) bool {
	if !strings.Contains(in, "<") {
		return false
	}
	open := map[string]int{}
	z := html.NewTokenizer(strings.NewReader(in))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.CommentToken, html.DoctypeToken, html.SelfClosingTagToken:
			return true
		case html.StartTagToken:
			tok := z.Token()
			if standalone[tok.Data] {
				return true
			}
			for _, a := range tok.Attr {
				if strings.HasPrefix(a.Key, "on") || a.Key == "href" || a.Key == "src" || a.Key == "style" {
					return true
				}
			}
			open[tok.Data]++
		case html.EndTagToken:
			if open[z.Token().Data] > 0 {
				return true
			}
		}
	}
}
