package api

import (
	"context"
	"net/http"
	"time"

	"github.com/galleryhub/galleryhub/internal/models"
)

// ChatReply is the assistant backend's answer to one message.
type ChatReply struct {
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions,omitempty"`
	IsAI        bool     `json:"isAI,omitempty"`
}

// Chat sends one message to the assistant endpoint together with the
// current user context and client timestamp.
func (c *Client) Chat(ctx context.Context, message string, user models.User) (ChatReply, error) {
	payload := map[string]any{
		"message": message,
		"userId":  user.ID,
		"context": map[string]any{
			"userInfo":  user,
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	var reply ChatReply
	if err := c.doJSON(ctx, http.MethodPost, "/api/chatbot", payload, &reply); err != nil {
		return ChatReply{}, err
	}
	return reply, nil
}
