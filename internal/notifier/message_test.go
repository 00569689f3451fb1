package notifier

import (
	"strings"
	"testing"

	"ytnotify/internal/source"
	"ytnotify/pkg/tgui"
)

func TestRenderDefault(t *testing.T) {
	v := &source.Video{ID: "abc123", URL: "https://youtu.be/abc123", Title: "Launch Video"}

	cases := []struct {
		mode tgui.Mode
		want string
	}{
		{tgui.Plain, "🎥 New YouTube Video Published!\n\n📌 Launch Video\n🔗 https://youtu.be/abc123"},
		{tgui.Markdown, "🎥 *New YouTube Video Published!*\n\n📌 *Launch Video*\n🔗 https://youtu.be/abc123"},
		{tgui.MarkdownV2, "🎥 *New YouTube Video Published\\!*\n\n📌 *Launch Video*\n🔗 https://youtu\\.be/abc123"},
		{tgui.HTML, "🎥 <b>New YouTube Video Published!</b>\n\n📌 <b>Launch Video</b>\n🔗 https://youtu.be/abc123"},
	}
	for _, tc := range cases {
		f, err := NewFormatter(string(tc.mode), "", "UC1")
		if err != nil {
			t.Fatalf("NewFormatter(%q): %v", tc.mode, err)
		}
		got, err := f.Render(v)
		if err != nil {
			t.Fatalf("Render(%q): %v", tc.mode, err)
		}
		if got != tc.want {
			t.Fatalf("mode %q:\n got %q\nwant %q", tc.mode, got, tc.want)
		}
	}
}

func TestRenderWithoutTitle(t *testing.T) {
	f, _ := NewFormatter("", "", "UC1")
	got, err := f.Render(&source.Video{ID: "abc123", URL: "https://youtu.be/abc123"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "👉 Checkout the latest video: https://youtu.be/abc123" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderEscapesTitle(t *testing.T) {
	v := &source.Video{ID: "x", URL: "https://youtu.be/x", Title: "Top_10 *tips* [2024] <live> & more"}

	f, _ := NewFormatter(string(tgui.MarkdownV2), "", "UC1")
	got, _ := f.Render(v)
	if !strings.Contains(got, `*Top\_10 \*tips\* \[2024\] <live\> & more*`) {
		t.Fatalf("markdownv2 title not escaped: %q", got)
	}

	f, _ = NewFormatter(string(tgui.HTML), "", "UC1")
	got, _ = f.Render(v)
	if !strings.Contains(got, "<b>Top_10 *tips* [2024] &lt;live&gt; &amp; more</b>") {
		t.Fatalf("html title not escaped: %q", got)
	}
}

func TestRenderTemplate(t *testing.T) {
	f, err := NewFormatter(string(tgui.HTML), `{{bold "New"}}: {{escape .Video.Title}} {{.Video.URL}} ({{.ChannelID}})`, "UC1")
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}
	got, err := f.Render(&source.Video{ID: "x", URL: "https://youtu.be/x", Title: "A & B"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "<b>New</b>: A &amp; B https://youtu.be/x (UC1)" {
		t.Fatalf("got %q", got)
	}
}

func TestNewFormatterRejectsBadTemplate(t *testing.T) {
	if _, err := NewFormatter(string(tgui.HTML), "{{.Video.Title", "UC1"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestRenderTruncatesLongTitles(t *testing.T) {
	f, _ := NewFormatter("", "", "UC1")
	got, err := f.Render(&source.Video{ID: "x", URL: "https://youtu.be/x", Title: strings.Repeat("é", maxTitleRunes+50)})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(got, strings.Repeat("é", maxTitleRunes-1)+"…") {
		t.Fatalf("title not truncated")
	}
	if strings.Contains(got, strings.Repeat("é", maxTitleRunes)) {
		t.Fatalf("title longer than limit")
	}
}

func TestRenderTemplateLink(t *testing.T) {
	f, err := NewFormatter(string(tgui.MarkdownV2), `{{link .Video.Title .Video.URL}}`, "UC1")
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}
	got, _ := f.Render(&source.Video{ID: "x", URL: "https://youtu.be/x", Title: "Hi!"})
	if got != `[Hi\!](https://youtu.be/x)` {
		t.Fatalf("got %q", got)
	}
}
