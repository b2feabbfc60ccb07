// Package markup renders product descriptions. Only bold text and line breaks
// survive; every other tag is dropped and text is escaped.
package markup

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

var allowed = map[string]bool{
	"b":      true,
	"strong": true,
	"br":     true,
}

// elements whose content is dropped along with the tags
var dropped = map[string]bool{
	"script": true,
	"style":  true,
}

// Sanitize returns HTML containing only <b>, <strong> and <br>. Newlines in
// text become <br>. Unclosed bold tags are closed at the end.
func Sanitize(description string) string {
	if strings.TrimSpace(description) == "" {
		return ""
	}

	var (
		sb   strings.Builder
		open []string
		skip string
	)
	z := html.NewTokenizer(strings.NewReader(description))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if !errors.Is(z.Err(), io.EOF) {
				return html.EscapeString(description)
			}
			for i := len(open) - 1; i >= 0; i-- {
				sb.WriteString("</" + open[i] + ">")
			}
			return sb.String()

		case html.TextToken:
			if skip != "" {
				continue
			}
			text := html.EscapeString(string(z.Text()))
			text = strings.ReplaceAll(text, "\r\n", "\n")
			sb.WriteString(strings.ReplaceAll(text, "\n", "<br>"))

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if dropped[tag] && tt == html.StartTagToken {
				skip = tag
				continue
			}
			if !allowed[tag] || skip != "" {
				continue
			}
			if tag == "br" {
				sb.WriteString("<br>")
				continue
			}
			if tt == html.SelfClosingTagToken {
				continue
			}
			open = append(open, tag)
			sb.WriteString("<" + tag + ">")

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == skip {
				skip = ""
				continue
			}
			if tag == "br" || !allowed[tag] || skip != "" {
				continue
			}
			// close only the innermost matching tag
			for i := len(open) - 1; i >= 0; i-- {
				if open[i] != tag {
					continue
				}
				for j := len(open) - 1; j >= i; j-- {
					sb.WriteString("</" + open[j] + ">")
				}
				open = open[:i]
				break
			}
		}
	}
}

// PlainText strips every tag, for list views and exports.
func PlainText(description string) string {
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(description))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(sb.String())
		case html.TextToken:
			sb.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				sb.WriteByte('\n')
			}
		}
	}
}
