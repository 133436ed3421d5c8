package http

import (
	"fmt"
	"strings"

	"gopkg.in/guregu/null.v3"

	"telegram-bot-client/internal/message"
	"telegram-bot-client/pkg/response"
	"telegram-bot-client/pkg/telegram"
)

// --- Request DTOs ---

// parseChatID checks a decoded chat_id. Usernames must carry their leading "@".
func parseChatID(id *telegram.ChatID) (telegram.ChatID, error) {
	if id == nil || id.IsZero() {
		return telegram.ChatID{}, message.ErrInvalidChatID
	}
	if id.Username != "" && !strings.HasPrefix(id.Username, "@") {
		return telegram.ChatID{}, message.ErrInvalidChatID
	}
	return *id, nil
}

type inlineButtonReq struct {
	Text         string `json:"text"`
	URL          string `json:"url"`
	CallbackData string `json:"callback_data"`
}

type markupReq struct {
	Type                  string              `json:"type" binding:"required,oneof=keyboard remove inline force_reply"`
	Keyboard              [][]string          `json:"keyboard"`
	InlineKeyboard        [][]inlineButtonReq `json:"inline_keyboard"`
	ResizeKeyboard        bool                `json:"resize_keyboard"`
	OneTimeKeyboard       bool                `json:"one_time_keyboard"`
	Selective             bool                `json:"selective"`
	InputFieldPlaceholder string              `json:"input_field_placeholder"`
}

func (r *markupReq) toMarkup() (telegram.ReplyMarkup, error) {
	if r == nil {
		return nil, nil
	}
	switch r.Type {
	case "keyboard":
		return &telegram.ReplyKeyboardMarkup{
			Keyboard:              r.Keyboard,
			ResizeKeyboard:        r.ResizeKeyboard,
			OneTimeKeyboard:       r.OneTimeKeyboard,
			Selective:             r.Selective,
			InputFieldPlaceholder: r.InputFieldPlaceholder,
		}, nil
	case "remove":
		return &telegram.ReplyKeyboardRemove{Selective: r.Selective}, nil
	case "inline":
		rows := make([][]telegram.InlineKeyboardButton, len(r.InlineKeyboard))
		for i, row := range r.InlineKeyboard {
			rows[i] = make([]telegram.InlineKeyboardButton, len(row))
			for j, b := range row {
				rows[i][j] = telegram.InlineKeyboardButton{Text: b.Text, URL: b.URL, CallbackData: b.CallbackData}
			}
		}
		return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}, nil
	case "force_reply":
		return &telegram.ForceReply{Selective: r.Selective, InputFieldPlaceholder: r.InputFieldPlaceholder}, nil
	}
	return nil, fmt.Errorf("%w: %q", message.ErrUnknownMarkupType, r.Type)
}

type sendReq struct {
	ChatID                *telegram.ChatID `json:"chat_id"`
	Text                  string           `json:"text"`
	ParseMode             string           `json:"parse_mode" binding:"omitempty,oneof=Markdown MarkdownV2 HTML"`
	DisableNotification   bool             `json:"disable_notification"`
	DisableWebPagePreview bool             `json:"disable_web_page_preview"`
	ReplyToMessageID      int64            `json:"reply_to_message_id" binding:"gte=0"`
	ReplyMarkup           *markupReq       `json:"reply_markup"`
}

func (r sendReq) toInput() (message.SendInput, error) {
	chatID, err := parseChatID(r.ChatID)
	if err != nil {
		return message.SendInput{}, err
	}
	markup, err := r.ReplyMarkup.toMarkup()
	if err != nil {
		return message.SendInput{}, err
	}
	return message.SendInput{
		ChatID:                chatID,
		Text:                  r.Text,
		ParseMode:             telegram.ParseMode(r.ParseMode),
		DisableNotification:   r.DisableNotification,
		DisableWebPagePreview: r.DisableWebPagePreview,
		ReplyToMessageID:      r.ReplyToMessageID,
		ReplyMarkup:           markup,
	}, nil
}

type forwardReq struct {
	ChatID              *telegram.ChatID `json:"chat_id"`
	FromChatID          *telegram.ChatID `json:"from_chat_id"`
	MessageID           int64            `json:"message_id" binding:"required,gt=0"`
	DisableNotification bool             `json:"disable_notification"`
}

func (r forwardReq) toInput() (message.ForwardInput, error) {
	chatID, err := parseChatID(r.ChatID)
	if err != nil {
		return message.ForwardInput{}, err
	}
	fromChatID, err := parseChatID(r.FromChatID)
	if err != nil {
		return message.ForwardInput{}, err
	}
	return message.ForwardInput{
		ChatID:              chatID,
		FromChatID:          fromChatID,
		MessageID:           r.MessageID,
		DisableNotification: r.DisableNotification,
	}, nil
}

// --- Response DTOs ---

type entityResp struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	URL    string `json:"url,omitempty"`
}

type messageResp struct {
	MessageID  int64             `json:"message_id"`
	ChatID     int64             `json:"chat_id"`
	Text       null.String       `json:"text"`
	Entities   []entityResp      `json:"entities,omitempty"`
	SentAt     response.DateTime `json:"sent_at"`
	Forwarded  bool              `json:"forwarded,omitempty"`
	MigratedTo int64             `json:"migrated_to,omitempty"`
}

func newMessageResp(m telegram.Message, migratedTo int64) messageResp {
	resp := messageResp{
		MessageID:  m.MessageID,
		ChatID:     m.ChatID(),
		Text:       m.Text,
		SentAt:     response.NewUnixDateTime(m.Date),
		Forwarded:  m.IsForwarded(),
		MigratedTo: migratedTo,
	}
	for _, e := range m.Entities {
		resp.Entities = append(resp.Entities, entityResp{Type: e.Type, Offset: e.Offset, Length: e.Length, URL: e.URL})
	}
	return resp
}

func (h *handler) newSendResp(o message.SendOutput) messageResp {
	return newMessageResp(o.Message, o.MigratedTo)
}

func (h *handler) newForwardResp(o message.ForwardOutput) messageResp {
	return newMessageResp(o.Message, o.MigratedTo)
}
