package gateway

import (
	"encoding/json"
	"fmt"
)

// textBody wraps a non-JSON reply.
type textBody struct {
	Message string `json:"message"`
}

// errorBody is the set of error shapes the backend is known to send.
// Fields that are not strings are ignored.
type errorBody struct {
	Message json.RawMessage `json:"message"`
	Error   json.RawMessage `json:"error"`
	Msg     json.RawMessage `json:"msg"`
}

// errorMessage picks message, then error, then msg; anything else falls
// back to a generic message carrying the status code.
func errorMessage(body json.RawMessage, status int) string {
	var eb errorBody
	if len(body) > 0 && json.Unmarshal(body, &eb) == nil {
		for _, field := range []json.RawMessage{eb.Message, eb.Error, eb.Msg} {
			if s := stringField(field); s != "" {
				return s
			}
		}
	}
	return fmt.Sprintf("HTTP error %d", status)
}

func stringField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
