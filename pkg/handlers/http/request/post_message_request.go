package request

import (
	"fmt"
	"strings"
)

type PostMessageRequest struct {
	UserID  string `json:"user_id"`
	Text    string `json:"text"`
	BotName string `json:"bot_name"`
}

// Validate only checks the sender. Empty text is a valid message that the
// pipeline ignores.
func (r *PostMessageRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return fmt.Errorf("user_id is required")
	}
	return nil
}
