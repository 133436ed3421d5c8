package telegram

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ChatID addresses a chat either by its numeric id or by the public
// @username of a channel or supergroup.
type ChatID struct {
	ID       int64
	Username string
}

// ID returns a ChatID for a numeric chat id.
func ID(id int64) ChatID {
	return ChatID{ID: id}
}

// Username returns a ChatID for a public @username. The leading "@" is optional.
func Username(username string) ChatID {
	return ChatID{Username: "@" + strings.TrimPrefix(username, "@")}
}

// IsZero reports whether the ChatID addresses nothing.
func (c ChatID) IsZero() bool {
	return c.ID == 0 && strings.TrimPrefix(c.Username, "@") == ""
}

func (c ChatID) String() string {
	if c.Username != "" {
		return c.Username
	}
	return strconv.FormatInt(c.ID, 10)
}

// MarshalJSON encodes the chat id as a JSON number, or as a string when
// addressing by username.
func (c ChatID) MarshalJSON() ([]byte, error) {
	if c.Username != "" {
		return json.Marshal(c.Username)
	}
	return []byte(strconv.FormatInt(c.ID, 10)), nil
}

// UnmarshalJSON accepts both encodings produced by MarshalJSON.
func (c *ChatID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			*c = ChatID{ID: id}
			return nil
		}
		*c = ChatID{Username: s}
		return nil
	}

	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*c = ChatID{ID: id}
	return nil
}
