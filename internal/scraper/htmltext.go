package scraper

import (
	"strings"

	"golang.org/x/net/html"
)

// htmlToText flattens an HTML fragment to plain text. <br> becomes a
// newline, every other tag is dropped and entities are decoded. Invalid
// markup degrades to whatever the tokenizer can salvage.
func htmlToText(fragment string) string {
	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(tokenizer.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "br" {
				b.WriteByte('\n')
			}
		}
	}
}
