package message

import (
	"strings"

	"github.com/google/uuid"
)

type UserID string

type Language string

const (
	LanguageFrench Language = "fr"
	LanguageArabic Language = "ar"
)

// Classification is the routing outcome of an inbound text.
type Classification string

const (
	DirectionAToB            Classification = "direction_a_to_b"
	DirectionBToA            Classification = "direction_b_to_a"
	InteractiveGreeting      Classification = "interactive_greeting"
	InteractiveIdentityQuery Classification = "interactive_identity_query"
	InteractiveStatusQuery   Classification = "interactive_status_query"
	Unrecognized             Classification = "unrecognized"
)

func (c Classification) IsInteractive() bool {
	switch c {
	case InteractiveGreeting, InteractiveIdentityQuery, InteractiveStatusQuery:
		return true
	}
	return false
}

func (c Classification) IsDirection() bool {
	return c == DirectionAToB || c == DirectionBToA
}

type Inbound struct {
	ID      string `json:"id"`
	UserID  UserID `json:"user_id"`
	Text    string `json:"text"`
	BotName string `json:"bot_name,omitempty"`
}

func NewInbound(userID UserID, text, botName string) Inbound {
	return Inbound{
		ID:      uuid.New().String(),
		UserID:  userID,
		Text:    text,
		BotName: botName,
	}
}

func (m Inbound) IsBlank() bool {
	return strings.TrimSpace(m.Text) == ""
}
