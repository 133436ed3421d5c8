package telegramtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-bot-client/pkg/telegram"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		mode     telegram.ParseMode
		in       string
		want     string
		entities []telegram.MessageEntity
	}{
		{
			name: "plain passes through",
			mode: telegram.ParseModeNone,
			in:   "*X* <b>",
			want: "*X* <b>",
		},
		{
			name:     "markdown bold",
			mode:     telegram.ParseModeMarkdown,
			in:       "*X*",
			want:     "X",
			entities: []telegram.MessageEntity{{Type: EntityBold, Offset: 0, Length: 1}},
		},
		{
			name: "markdown code and pre",
			mode: telegram.ParseModeMarkdown,
			in:   "run `go test` then\n```go\nfmt.Println()\n```",
			want: "run go test then\nfmt.Println()\n",
			entities: []telegram.MessageEntity{
				{Type: EntityCode, Offset: 4, Length: 7},
				{Type: EntityPre, Offset: 17, Length: 14},
			},
		},
		{
			name:     "markdown link",
			mode:     telegram.ParseModeMarkdown,
			in:       "see [docs](https://core.telegram.org/bots/api)",
			want:     "see docs",
			entities: []telegram.MessageEntity{{Type: EntityTextLink, Offset: 4, Length: 4, URL: "https://core.telegram.org/bots/api"}},
		},
		{
			name:     "offsets count utf16 units",
			mode:     telegram.ParseModeMarkdown,
			in:       "😀 *Привет*",
			want:     "😀 Привет",
			entities: []telegram.MessageEntity{{Type: EntityBold, Offset: 3, Length: 6}},
		},
		{
			name: "markdown v2 nesting and escapes",
			mode: telegram.ParseModeMarkdownV2,
			in:   `*bold __under__* \*lit\* ||hidden||`,
			want: "bold under *lit* hidden",
			entities: []telegram.MessageEntity{
				{Type: EntityBold, Offset: 0, Length: 10},
				{Type: EntityUnderline, Offset: 5, Length: 5},
				{Type: EntitySpoiler, Offset: 17, Length: 6},
			},
		},
		{
			name: "html",
			mode: telegram.ParseModeHTML,
			in:   `<b>bold</b> &lt;tag&gt; <a href="https://t.me">link</a>`,
			want: "bold <tag> link",
			entities: []telegram.MessageEntity{
				{Type: EntityBold, Offset: 0, Length: 4},
				{Type: EntityTextLink, Offset: 11, Length: 4, URL: "https://t.me"},
			},
		},
		{
			name:     "html spoiler span",
			mode:     telegram.ParseModeHTML,
			in:       `<span class="tg-spoiler">x</span>`,
			want:     "x",
			entities: []telegram.MessageEntity{{Type: EntitySpoiler, Offset: 0, Length: 1}},
		},
		{
			name:     "html single quoted href",
			mode:     telegram.ParseModeHTML,
			in:       `<a href='https://t.me'>x</a>`,
			want:     "x",
			entities: []telegram.MessageEntity{{Type: EntityTextLink, Offset: 0, Length: 1, URL: "https://t.me"}},
		},
		{
			name:     "html attributes across lines",
			mode:     telegram.ParseModeHTML,
			in:       "<a\nhref=\"https://t.me\">x</a>",
			want:     "x",
			entities: []telegram.MessageEntity{{Type: EntityTextLink, Offset: 0, Length: 1, URL: "https://t.me"}},
		},
		{
			name:     "html escaped href and numeric entity",
			mode:     telegram.ParseModeHTML,
			in:       `<A HREF="https://t.me/?a=1&amp;b=2">&#1055;</A>`,
			want:     "П",
			entities: []telegram.MessageEntity{{Type: EntityTextLink, Offset: 0, Length: 1, URL: "https://t.me/?a=1&b=2"}},
		},
		{
			name: "html pre with language code",
			mode: telegram.ParseModeHTML,
			in:   `<pre><code class="language-go">x := 1</code></pre>`,
			want: "x := 1",
			entities: []telegram.MessageEntity{
				{Type: EntityCode, Offset: 0, Length: 6},
				{Type: EntityPre, Offset: 0, Length: 6},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, entities, err := Render(tc.in, tc.mode)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.entities, entities)
		})
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name string
		mode telegram.ParseMode
		in   string
	}{
		{"unclosed bold", telegram.ParseModeMarkdown, "*X"},
		{"unclosed code", telegram.ParseModeMarkdown, "`X"},
		{"unclosed link", telegram.ParseModeMarkdown, "[X](http://x"},
		{"mismatched tags", telegram.ParseModeHTML, "<b><i>x</b></i>"},
		{"unknown tag", telegram.ParseModeHTML, "<blink>x</blink>"},
		{"unknown entity", telegram.ParseModeHTML, "&nope;"},
		{"unclosed element", telegram.ParseModeHTML, "<b>x"},
		{"plain span", telegram.ParseModeHTML, `<span class="big">x</span>`},
		{"comment", telegram.ParseModeHTML, "<!-- x -->"},
		{"unknown mode", telegram.ParseMode("BBCode"), "x"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Render(tc.in, tc.mode)
			assert.Error(t, err)
		})
	}
}
