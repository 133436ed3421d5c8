package message

import "errors"

var (
	ErrUnknownMarkupType = errors.New("unknown reply_markup type")
	ErrInvalidChatID     = errors.New("chat_id must be a number or an @username")
)
