package telegram

import (
	"bytes"
	"encoding/json"
)

// MaxCallbackDataSize is the largest callback_data Telegram accepts, in bytes.
const MaxCallbackDataSize = 64

// ReplyMarkup is one of ReplyKeyboardMarkup, ReplyKeyboardHide,
// InlineKeyboardMarkup or ForceReply. The set is closed.
type ReplyMarkup interface {
	replyMarkup()
}

// ReplyKeyboardMarkup shows a custom keyboard with the given rows of labels.
type ReplyKeyboardMarkup struct {
	Keyboard              [][]string
	ResizeKeyboard        bool
	OneTimeKeyboard       bool
	Selective             bool
	InputFieldPlaceholder string
}

// ReplyKeyboardHide removes a custom keyboard shown earlier.
type ReplyKeyboardHide struct {
	Selective bool
}

// ReplyKeyboardRemove is the current Bot API name of ReplyKeyboardHide.
type ReplyKeyboardRemove = ReplyKeyboardHide

// InlineKeyboardMarkup attaches a grid of inline buttons to the message.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton
}

// InlineKeyboardButton must carry exactly one of URL or CallbackData.
type InlineKeyboardButton struct {
	Text         string
	URL          string
	CallbackData string
}

// ForceReply makes the client app show a reply interface to the user.
type ForceReply struct {
	Selective             bool
	InputFieldPlaceholder string
}

func (*ReplyKeyboardMarkup) replyMarkup()  {}
func (*ReplyKeyboardHide) replyMarkup()    {}
func (*InlineKeyboardMarkup) replyMarkup() {}
func (*ForceReply) replyMarkup()           {}

// NewReplyKeyboard builds a keyboard from rows of labels.
func NewReplyKeyboard(rows ...[]string) *ReplyKeyboardMarkup {
	return &ReplyKeyboardMarkup{Keyboard: rows}
}

// NewInlineKeyboard builds an inline keyboard from rows of buttons.
func NewInlineKeyboard(rows ...[]InlineKeyboardButton) *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{InlineKeyboard: rows}
}

// URLButton returns an inline button that opens url.
func URLButton(text, url string) InlineKeyboardButton {
	return InlineKeyboardButton{Text: text, URL: url}
}

// CallbackButton returns an inline button that sends data back to the bot.
func CallbackButton(text, data string) InlineKeyboardButton {
	return InlineKeyboardButton{Text: text, CallbackData: data}
}

type keyboardButtonJSON struct {
	Text string `json:"text"`
}

type replyKeyboardJSON struct {
	Keyboard              [][]keyboardButtonJSON `json:"keyboard"`
	ResizeKeyboard        bool                   `json:"resize_keyboard,omitempty"`
	OneTimeKeyboard       bool                   `json:"one_time_keyboard,omitempty"`
	InputFieldPlaceholder string                 `json:"input_field_placeholder,omitempty"`
	Selective             bool                   `json:"selective,omitempty"`
}

type replyKeyboardRemoveJSON struct {
	RemoveKeyboard bool `json:"remove_keyboard"`
	Selective      bool `json:"selective,omitempty"`
}

type inlineKeyboardButtonJSON struct {
	Text         string `json:"text"`
	URL          string `json:"url,omitempty"`
	CallbackData string `json:"callback_data,omitempty"`
}

type inlineKeyboardJSON struct {
	InlineKeyboard [][]inlineKeyboardButtonJSON `json:"inline_keyboard"`
}

type forceReplyJSON struct {
	ForceReply            bool   `json:"force_reply"`
	InputFieldPlaceholder string `json:"input_field_placeholder,omitempty"`
	Selective             bool   `json:"selective,omitempty"`
}

func (m *ReplyKeyboardMarkup) validate() error {
	if len(m.Keyboard) == 0 {
		return invalid("reply_markup.keyboard", "no rows")
	}
	for i, row := range m.Keyboard {
		if len(row) == 0 {
			return invalid("reply_markup.keyboard", "row %d is empty", i)
		}
		for j, label := range row {
			if label == "" {
				return invalid("reply_markup.keyboard", "button %d in row %d has no text", j, i)
			}
		}
	}
	return nil
}

func (m *ReplyKeyboardMarkup) wire() replyKeyboardJSON {
	rows := make([][]keyboardButtonJSON, len(m.Keyboard))
	for i, row := range m.Keyboard {
		rows[i] = make([]keyboardButtonJSON, len(row))
		for j, label := range row {
			rows[i][j] = keyboardButtonJSON{Text: label}
		}
	}
	return replyKeyboardJSON{
		Keyboard:              rows,
		ResizeKeyboard:        m.ResizeKeyboard,
		OneTimeKeyboard:       m.OneTimeKeyboard,
		InputFieldPlaceholder: m.InputFieldPlaceholder,
		Selective:             m.Selective,
	}
}

func (b InlineKeyboardButton) validate(i, j int) error {
	const field = "reply_markup.inline_keyboard"
	switch {
	case b.Text == "":
		return invalid(field, "button %d in row %d has no text", j, i)
	case b.URL != "" && b.CallbackData != "":
		return invalid(field, "button %q sets both url and callback_data", b.Text)
	case b.URL == "" && b.CallbackData == "":
		return invalid(field, "button %q sets neither url nor callback_data", b.Text)
	case len(b.CallbackData) > MaxCallbackDataSize:
		return invalid(field, "button %q callback_data is %d bytes, limit is %d", b.Text, len(b.CallbackData), MaxCallbackDataSize)
	}
	return nil
}

func (m *InlineKeyboardMarkup) validate() error {
	if len(m.InlineKeyboard) == 0 {
		return invalid("reply_markup.inline_keyboard", "no rows")
	}
	for i, row := range m.InlineKeyboard {
		if len(row) == 0 {
			return invalid("reply_markup.inline_keyboard", "row %d is empty", i)
		}
		for j, b := range row {
			if err := b.validate(i, j); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *InlineKeyboardMarkup) wire() inlineKeyboardJSON {
	rows := make([][]inlineKeyboardButtonJSON, len(m.InlineKeyboard))
	for i, row := range m.InlineKeyboard {
		rows[i] = make([]inlineKeyboardButtonJSON, len(row))
		for j, b := range row {
			rows[i][j] = inlineKeyboardButtonJSON{Text: b.Text, URL: b.URL, CallbackData: b.CallbackData}
		}
	}
	return inlineKeyboardJSON{InlineKeyboard: rows}
}

// encodeReplyMarkup validates m and renders the single JSON shape the Bot API
// expects for its variant. A nil markup encodes to nil.
func encodeReplyMarkup(m ReplyMarkup) (json.RawMessage, error) {
	var v any
	switch m := m.(type) {
	case nil:
		return nil, nil
	case *ReplyKeyboardMarkup:
		if m == nil {
			return nil, nil
		}
		if err := m.validate(); err != nil {
			return nil, err
		}
		v = m.wire()
	case *ReplyKeyboardHide:
		if m == nil {
			return nil, nil
		}
		v = replyKeyboardRemoveJSON{RemoveKeyboard: true, Selective: m.Selective}
	case *InlineKeyboardMarkup:
		if m == nil {
			return nil, nil
		}
		if err := m.validate(); err != nil {
			return nil, err
		}
		v = m.wire()
	case *ForceReply:
		if m == nil {
			return nil, nil
		}
		v = forceReplyJSON{ForceReply: true, InputFieldPlaceholder: m.InputFieldPlaceholder, Selective: m.Selective}
	default:
		return nil, invalid("reply_markup", "unsupported type %T", m)
	}
	return marshalJSON(v)
}

// marshalJSON encodes v without HTML escaping so text reaches Telegram
// byte for byte.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalJSON renders the keyboard in its Bot API wire shape.
func (m *ReplyKeyboardMarkup) MarshalJSON() ([]byte, error) { return encodeReplyMarkup(m) }

// MarshalJSON renders the remove directive in its Bot API wire shape.
func (m *ReplyKeyboardHide) MarshalJSON() ([]byte, error) { return encodeReplyMarkup(m) }

// MarshalJSON renders the inline keyboard in its Bot API wire shape.
func (m *InlineKeyboardMarkup) MarshalJSON() ([]byte, error) { return encodeReplyMarkup(m) }

// MarshalJSON renders the force-reply directive in its Bot API wire shape.
func (m *ForceReply) MarshalJSON() ([]byte, error) { return encodeReplyMarkup(m) }
