package request

import (
	"fmt"
	"strings"
)

type PostCommandRequest struct {
	UserID string `json:"user_id"`
}

func (r *PostCommandRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return fmt.Errorf("user_id is required")
	}
	return nil
}
