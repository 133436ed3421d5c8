package telegramtest

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf16"

	"golang.org/x/net/html"

	"telegram-bot-client/pkg/telegram"
)

// Entity types produced by the renderers.
const (
	EntityBold          = "bold"
	EntityItalic        = "italic"
	EntityUnderline     = "underline"
	EntityStrikethrough = "strikethrough"
	EntitySpoiler       = "spoiler"
	EntityCode          = "code"
	EntityPre           = "pre"
	EntityTextLink      = "text_link"
)

// Render turns text written in mode into the plain text Telegram stores and
// the entities describing its formatting, with offsets in UTF-16 code units.
// ParseModeNone returns text unchanged.
func Render(text string, mode telegram.ParseMode) (string, []telegram.MessageEntity, error) {
	switch mode {
	case telegram.ParseModeNone:
		return text, nil, nil
	case telegram.ParseModeMarkdown:
		return renderMarkdown(text, false)
	case telegram.ParseModeMarkdownV2:
		return renderMarkdown(text, true)
	case telegram.ParseModeHTML:
		return renderHTML(text)
	}
	return "", nil, fmt.Errorf("unsupported parse_mode %q", mode)
}

type openEntity struct {
	marker string
	typ    string
	offset int
	url    string
}

// builder accumulates plain text and tracks its UTF-16 length.
type builder struct {
	sb       strings.Builder
	pos      int
	open     []openEntity
	entities []telegram.MessageEntity
}

func (b *builder) writeRune(r rune) {
	b.sb.WriteRune(r)
	if n := utf16.RuneLen(r); n > 0 {
		b.pos += n
	} else {
		b.pos++
	}
}

func (b *builder) writeString(s string) {
	for _, r := range s {
		b.writeRune(r)
	}
}

func (b *builder) push(marker, typ, url string) {
	b.open = append(b.open, openEntity{marker: marker, typ: typ, offset: b.pos, url: url})
}

// pop closes the innermost entity if it was opened by marker.
func (b *builder) pop(marker string) bool {
	n := len(b.open)
	if n == 0 || b.open[n-1].marker != marker {
		return false
	}
	e := b.open[n-1]
	b.open = b.open[:n-1]
	b.add(e.typ, e.offset, e.url)
	return true
}

func (b *builder) add(typ string, offset int, url string) {
	if b.pos > offset {
		b.entities = append(b.entities, telegram.MessageEntity{Type: typ, Offset: offset, Length: b.pos - offset, URL: url})
	}
}

func (b *builder) finish() (string, []telegram.MessageEntity, error) {
	if n := len(b.open); n > 0 {
		return "", nil, fmt.Errorf("can't find end of %s entity at offset %d", b.open[n-1].typ, b.open[n-1].offset)
	}
	sort.SliceStable(b.entities, func(i, j int) bool {
		if b.entities[i].Offset != b.entities[j].Offset {
			return b.entities[i].Offset < b.entities[j].Offset
		}
		return b.entities[i].Length > b.entities[j].Length
	})
	return b.sb.String(), b.entities, nil
}

// renderMarkdown handles legacy Markdown and, with v2 set, MarkdownV2 which
// adds underline, strikethrough, spoiler and backslash escapes.
func renderMarkdown(text string, v2 bool) (string, []telegram.MessageEntity, error) {
	var b builder
	rs := []rune(text)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		rest := string(rs[i:])

		switch {
		case v2 && r == '\\' && i+1 < len(rs):
			i++
			b.writeRune(rs[i])

		case strings.HasPrefix(rest, "```"):
			end := strings.Index(rest[3:], "```")
			if end < 0 {
				return "", nil, fmt.Errorf("can't find end of pre entity at offset %d", b.pos)
			}
			body := rest[3 : 3+end]
			if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], " \t") {
				body = body[nl+1:]
			}
			start := b.pos
			b.writeString(body)
			b.add(EntityPre, start, "")
			i += len([]rune(rest[:3+end+3])) - 1

		case r == '`':
			end := strings.IndexRune(rest[1:], '`')
			if end < 0 {
				return "", nil, fmt.Errorf("can't find end of code entity at offset %d", b.pos)
			}
			start := b.pos
			b.writeString(rest[1 : 1+end])
			b.add(EntityCode, start, "")
			i += len([]rune(rest[:1+end+1])) - 1

		case r == '[':
			closeText := strings.Index(rest, "](")
			if closeText < 0 {
				return "", nil, fmt.Errorf("can't find end of text_link entity at offset %d", b.pos)
			}
			closeURL := strings.IndexRune(rest[closeText+2:], ')')
			if closeURL < 0 {
				return "", nil, fmt.Errorf("can't find end of text_link url at offset %d", b.pos)
			}
			start := b.pos
			b.writeString(rest[1:closeText])
			b.add(EntityTextLink, start, rest[closeText+2:closeText+2+closeURL])
			i += len([]rune(rest[:closeText+2+closeURL+1])) - 1

		case v2 && strings.HasPrefix(rest, "__"):
			if !b.pop("__") {
				b.push("__", EntityUnderline, "")
			}
			i++

		case v2 && strings.HasPrefix(rest, "||"):
			if !b.pop("||") {
				b.push("||", EntitySpoiler, "")
			}
			i++

		case v2 && r == '~':
			if !b.pop("~") {
				b.push("~", EntityStrikethrough, "")
			}

		case r == '*':
			if !b.pop("*") {
				b.push("*", EntityBold, "")
			}

		case r == '_':
			if !b.pop("_") {
				b.push("_", EntityItalic, "")
			}

		default:
			b.writeRune(r)
		}
	}
	return b.finish()
}

var htmlTags = map[string]string{
	"b":      EntityBold,
	"strong": EntityBold,
	"i":      EntityItalic,
	"em":     EntityItalic,
	"u":      EntityUnderline,
	"ins":    EntityUnderline,
	"s":      EntityStrikethrough,
	"strike": EntityStrikethrough,
	"del":    EntityStrikethrough,
	"code":   EntityCode,
	"pre":    EntityPre,
	"a":      EntityTextLink,

	"tg-spoiler": EntitySpoiler,
}

func renderHTML(text string) (string, []telegram.MessageEntity, error) {
	var b builder
	z := html.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", nil, err
			}
			return b.finish()

		case html.TextToken:
			if err := checkEntities(string(z.Raw())); err != nil {
				return "", nil, err
			}
			b.writeString(z.Token().Data)

		case html.StartTagToken:
			tok := z.Token()
			typ, ok := htmlTags[tok.Data]
			if tok.Data == "span" {
				class, _ := attr(tok, "class")
				typ, ok = EntitySpoiler, class == "tg-spoiler"
			}
			if !ok {
				return "", nil, fmt.Errorf("unsupported start tag %q", tok.Data)
			}
			var url string
			if tok.Data == "a" {
				url, _ = attr(tok, "href")
			}
			b.push(tok.Data, typ, url)

		case html.EndTagToken:
			name := z.Token().Data
			if !b.pop(name) {
				return "", nil, fmt.Errorf("unexpected end tag %q", name)
			}

		default:
			return "", nil, fmt.Errorf("unsupported html %q", z.Raw())
		}
	}
}

func attr(tok html.Token, key string) (string, bool) {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// checkEntities rejects named character references other than the four
// Telegram supports. Numeric references are always accepted.
func checkEntities(raw string) error {
	for rest := raw; ; {
		i := strings.IndexByte(rest, '&')
		if i < 0 {
			return nil
		}
		rest = rest[i+1:]
		end := strings.IndexByte(rest, ';')
		if end < 0 {
			return nil
		}
		name := rest[:end]
		if name == "" || strings.HasPrefix(name, "#") || !isWord(name) {
			continue
		}
		switch name {
		case "lt", "gt", "amp", "quot":
		default:
			return fmt.Errorf("unsupported entity %q", "&"+name+";")
		}
	}
}

func isWord(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
