package notifier

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"ytnotify/internal/source"
	"ytnotify/pkg/tgui"
)

// maxTitleRunes keeps one pathological title from pushing the message into
// several Telegram chunks.
const maxTitleRunes = 512

// MessageData is what a custom template sees.
type MessageData struct {
	Video     *source.Video
	ChannelID string
}

// Formatter renders announcement texts for one parse mode.
type Formatter struct {
	mode      tgui.Mode
	channelID string
	tmpl      *template.Template
}

// NewFormatter parses the optional template once. An empty template selects
// the built-in layout.
//
// Template helpers: escape, bold (escapes its argument) and link.
func NewFormatter(parseMode, tmpl, channelID string) (*Formatter, error) {
	mode := tgui.Mode(parseMode)
	f := &Formatter{mode: mode, channelID: channelID}
	if strings.TrimSpace(tmpl) == "" {
		return f, nil
	}
	t, err := template.New("message").
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"escape": mode.Esc,
			"bold":   mode.B,
			"link":   mode.Link,
		}).
		Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("notify.template: %w", err)
	}
	f.tmpl = t
	return f, nil
}

// ParseMode returns the Telegram parse mode the output is written for.
func (f *Formatter) ParseMode() string { return string(f.mode) }

func (f *Formatter) Render(v *source.Video) (string, error) {
	if v == nil {
		return "", fmt.Errorf("render: no video")
	}
	if f.tmpl != nil {
		var buf bytes.Buffer
		if err := f.tmpl.Execute(&buf, MessageData{Video: v, ChannelID: f.channelID}); err != nil {
			return "", fmt.Errorf("render template: %w", err)
		}
		return buf.String(), nil
	}

	m := f.mode
	title := tgui.TruncRunes(strings.TrimSpace(v.Title), maxTitleRunes)
	if title == "" {
		return "👉 " + m.Esc("Checkout the latest video: "+v.URL), nil
	}
	var b strings.Builder
	b.WriteString("🎥 ")
	b.WriteString(m.B("New YouTube Video Published!"))
	b.WriteString("\n\n📌 ")
	b.WriteString(m.B(title))
	b.WriteString("\n🔗 ")
	b.WriteString(m.Esc(v.URL))
	return b.String(), nil
}
