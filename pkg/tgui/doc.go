// Package tgui provides small Telegram text helpers:
//   - Escaping for each parse mode (MarkdownV2, Markdown, HTML, plain)
//   - Inline markup (bold, links) that matches the escaping
//   - Rune-safe truncation
//
// Values returned by Esc, B and Link are already safe for the chosen mode and
// must not be escaped again.
package tgui
