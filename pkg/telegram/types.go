package telegram

import (
	"encoding/json"

	"gopkg.in/guregu/null.v3"
)

// ParseMode selects how Telegram interprets formatting markers in message text.
type ParseMode string

const (
	ParseModeNone       ParseMode = ""
	ParseModeMarkdown   ParseMode = "Markdown"
	ParseModeMarkdownV2 ParseMode = "MarkdownV2"
	ParseModeHTML       ParseMode = "HTML"
)

func (m ParseMode) valid() bool {
	switch m {
	case ParseModeNone, ParseModeMarkdown, ParseModeMarkdownV2, ParseModeHTML:
		return true
	}
	return false
}

// Update represents a Telegram incoming update.
type Update struct {
	UpdateID          int64          `json:"update_id"`
	Message           *Message       `json:"message,omitempty"`
	EditedMessage     *Message       `json:"edited_message,omitempty"`
	ChannelPost       *Message       `json:"channel_post,omitempty"`
	EditedChannelPost *Message       `json:"edited_channel_post,omitempty"`
	CallbackQuery     *CallbackQuery `json:"callback_query,omitempty"`
}

// Message represents a Telegram message.
// Text and Caption are null when the field is absent from the payload,
// which is not the same as an empty string.
type Message struct {
	MessageID       int64           `json:"message_id"`
	From            *User           `json:"from,omitempty"`
	Chat            *Chat           `json:"chat"`
	Date            int64           `json:"date"`
	Text            null.String     `json:"text"`
	Entities        []MessageEntity `json:"entities,omitempty"`
	Caption         null.String     `json:"caption"`
	Photo           []PhotoSize     `json:"photo,omitempty"`
	ForwardFrom     *User           `json:"forward_from,omitempty"`
	ForwardFromChat *Chat           `json:"forward_from_chat,omitempty"`
	ForwardDate     int64           `json:"forward_date,omitempty"`
	ReplyToMessage  *Message        `json:"reply_to_message,omitempty"`
}

// ChatID returns the id of the chat the message belongs to, or 0 when the
// payload carried no chat.
func (m *Message) ChatID() int64 {
	if m == nil || m.Chat == nil {
		return 0
	}
	return m.Chat.ID
}

// IsForwarded reports whether the message was forwarded from elsewhere.
func (m *Message) IsForwarded() bool {
	return m != nil && m.ForwardDate != 0
}

// User represents a Telegram user or bot.
type User struct {
	ID           int64  `json:"id"`
	IsBot        bool   `json:"is_bot,omitempty"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// Chat represents a Telegram chat.
type Chat struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// PhotoSize is one size of a photo or a file/sticker thumbnail.
type PhotoSize struct {
	FileID       string `json:"file_id"`
	FileUniqueID string `json:"file_unique_id"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	FileSize     int64  `json:"file_size,omitempty"`
}

// MessageEntity is one special entity in a text message: a hashtag, a link,
// a bold run and so on. Offset and Length are in UTF-16 code units.
type MessageEntity struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	URL    string `json:"url,omitempty"`
	User   *User  `json:"user,omitempty"`
}

// CallbackQuery is sent when a user presses an inline keyboard button
// carrying callback data.
type CallbackQuery struct {
	ID              string   `json:"id"`
	From            *User    `json:"from"`
	Message         *Message `json:"message,omitempty"`
	InlineMessageID string   `json:"inline_message_id,omitempty"`
	ChatInstance    string   `json:"chat_instance,omitempty"`
	Data            string   `json:"data,omitempty"`
}

// ResponseParameters explains why a request was unsuccessful.
type ResponseParameters struct {
	MigrateToChatID int64 `json:"migrate_to_chat_id,omitempty"`
	RetryAfter      int   `json:"retry_after,omitempty"`
}

// APIResponse is the envelope every Bot API method answers with.
type APIResponse struct {
	OK          bool                `json:"ok"`
	ErrorCode   int                 `json:"error_code,omitempty"`
	Description string              `json:"description,omitempty"`
	Result      json.RawMessage     `json:"result,omitempty"`
	Parameters  *ResponseParameters `json:"parameters,omitempty"`
}
