package tgui

import (
	"html"
	"strings"
)

// Mode is a Telegram parse mode. The zero value is plain text.
type Mode string

const (
	Plain      Mode = ""
	MarkdownV2 Mode = "MarkdownV2"
	Markdown   Mode = "Markdown"
	HTML       Mode = "HTML"
)

var (
	markdownV2Escaper = strings.NewReplacer(
		`\`, `\\`,
		"_", `\_`, "*", `\*`, "[", `\[`, "]", `\]`, "(", `\(`, ")", `\)`,
		"~", `\~`, "`", "\\`", ">", `\>`, "#", `\#`, "+", `\+`, "-", `\-`,
		"=", `\=`, "|", `\|`, "{", `\{`, "}", `\}`, ".", `\.`, "!", `\!`,
	)
	markdownEscaper = strings.NewReplacer(
		"_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`,
	)
	// Inside MarkdownV2 link targets only ')' and '\' are special.
	markdownV2URLEscaper = strings.NewReplacer(`\`, `\\`, ")", `\)`)
)

// Esc makes s safe to embed as literal text under m.
func (m Mode) Esc(s string) string {
	switch m {
	case MarkdownV2:
		return markdownV2Escaper.Replace(s)
	case Markdown:
		return markdownEscaper.Replace(s)
	case HTML:
		return html.EscapeString(s)
	default:
		return s
	}
}

// B renders s in bold. s is escaped.
func (m Mode) B(s string) string { return m.Bold(m.Esc(s)) }

// Bold wraps already-escaped text in bold markup.
func (m Mode) Bold(escaped string) string {
	switch m {
	case MarkdownV2, Markdown:
		return "*" + escaped + "*"
	case HTML:
		return "<b>" + escaped + "</b>"
	default:
		return escaped
	}
}

// Link renders a titled link. In plain mode it degrades to "text: url".
func (m Mode) Link(text, url string) string {
	switch m {
	case MarkdownV2:
		return "[" + m.Esc(text) + "](" + markdownV2URLEscaper.Replace(url) + ")"
	case Markdown:
		return "[" + m.Esc(text) + "](" + url + ")"
	case HTML:
		return `<a href="` + html.EscapeString(url) + `">` + html.EscapeString(text) + "</a>"
	default:
		return text + ": " + url
	}
}
