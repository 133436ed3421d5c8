package telegram

import "encoding/json"

// Method names as they appear in the Bot API URL.
const (
	MethodSendMessage    = "sendMessage"
	MethodForwardMessage = "forwardMessage"
	MethodGetUpdates     = "getUpdates"
	MethodGetMe          = "getMe"
	MethodSetWebhook     = "setWebhook"
	MethodDeleteWebhook  = "deleteWebhook"
)

// SendOptions holds the optional parameters of sendMessage.
type SendOptions struct {
	ParseMode             ParseMode
	DisableNotification   bool
	DisableWebPagePreview bool
	ReplyToMessageID      int64
	ReplyMarkup           ReplyMarkup
}

// ForwardOptions holds the optional parameters of forwardMessage.
type ForwardOptions struct {
	DisableNotification bool
}

// GetUpdatesOptions holds the parameters of getUpdates.
// Timeout is the long-poll duration in seconds; zero means a short poll.
type GetUpdatesOptions struct {
	Offset         int64
	Limit          int
	Timeout        int
	AllowedUpdates []string
}

type sendMessageRequest struct {
	ChatID                ChatID          `json:"chat_id"`
	Text                  string          `json:"text"`
	ParseMode             ParseMode       `json:"parse_mode,omitempty"`
	DisableNotification   bool            `json:"disable_notification,omitempty"`
	DisableWebPagePreview bool            `json:"disable_web_page_preview,omitempty"`
	ReplyToMessageID      int64           `json:"reply_to_message_id,omitempty"`
	ReplyMarkup           json.RawMessage `json:"reply_markup,omitempty"`
}

type forwardMessageRequest struct {
	ChatID              ChatID `json:"chat_id"`
	FromChatID          ChatID `json:"from_chat_id"`
	MessageID           int64  `json:"message_id"`
	DisableNotification bool   `json:"disable_notification,omitempty"`
}

type getUpdatesRequest struct {
	Offset         int64    `json:"offset,omitempty"`
	Limit          int      `json:"limit,omitempty"`
	Timeout        int      `json:"timeout,omitempty"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}

type setWebhookRequest struct {
	URL string `json:"url"`
}

type deleteWebhookRequest struct {
	DropPendingUpdates bool `json:"drop_pending_updates,omitempty"`
}

func newSendMessageRequest(chatID ChatID, text string, opts *SendOptions) (*sendMessageRequest, error) {
	if chatID.IsZero() {
		return nil, invalid("chat_id", "must be set")
	}
	if text == "" {
		return nil, invalid("text", "must not be empty")
	}

	req := &sendMessageRequest{ChatID: chatID, Text: text}
	if opts == nil {
		return req, nil
	}
	if !opts.ParseMode.valid() {
		return nil, invalid("parse_mode", "unknown mode %q", opts.ParseMode)
	}
	if opts.ReplyToMessageID < 0 {
		return nil, invalid("reply_to_message_id", "must not be negative")
	}
	markup, err := encodeReplyMarkup(opts.ReplyMarkup)
	if err != nil {
		return nil, err
	}

	req.ParseMode = opts.ParseMode
	req.DisableNotification = opts.DisableNotification
	req.DisableWebPagePreview = opts.DisableWebPagePreview
	req.ReplyToMessageID = opts.ReplyToMessageID
	req.ReplyMarkup = markup
	return req, nil
}

func newForwardMessageRequest(chatID, fromChatID ChatID, messageID int64, opts *ForwardOptions) (*forwardMessageRequest, error) {
	if chatID.IsZero() {
		return nil, invalid("chat_id", "must be set")
	}
	if fromChatID.IsZero() {
		return nil, invalid("from_chat_id", "must be set")
	}
	if messageID <= 0 {
		return nil, invalid("message_id", "must be positive")
	}
	req := &forwardMessageRequest{ChatID: chatID, FromChatID: fromChatID, MessageID: messageID}
	if opts != nil {
		req.DisableNotification = opts.DisableNotification
	}
	return req, nil
}

func newGetUpdatesRequest(opts GetUpdatesOptions) (*getUpdatesRequest, error) {
	if opts.Limit < 0 || opts.Limit > 100 {
		return nil, invalid("limit", "must be between 0 and 100, got %d", opts.Limit)
	}
	if opts.Timeout < 0 {
		return nil, invalid("timeout", "must not be negative")
	}
	return &getUpdatesRequest{
		Offset:         opts.Offset,
		Limit:          opts.Limit,
		Timeout:        opts.Timeout,
		AllowedUpdates: opts.AllowedUpdates,
	}, nil
}
