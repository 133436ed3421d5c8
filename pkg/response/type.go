package response

import (
	"encoding/json"
	"time"
)

// DateTimeFormat is the layout DateTime marshals with.
const DateTimeFormat = "2006-01-02 15:04:05"

// Resp is the standard JSON response body.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Errors    any    `json:"errors,omitempty"`
}

// DateTime is a datetime that marshals as DateTimeFormat in local time.
type DateTime time.Time

// NewUnixDateTime converts a Unix timestamp in seconds, as used by the
// Bot API, into a DateTime.
func NewUnixDateTime(sec int64) DateTime {
	return DateTime(time.Unix(sec, 0))
}

// MarshalJSON implements json.Marshaler for DateTime.
func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Local().Format(DateTimeFormat))
}
