package http

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ChatHandler answers assistant messages with keyword-matched canned
// replies. It exists so the client's assistant widget can be exercised
// without an AI backend.
type ChatHandler struct{}

type chatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type chatResponse struct {
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions,omitempty"`
	IsAI        bool     `json:"isAI"`
}

// Chat handles POST /api/chatbot.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	writeJSON(w, http.StatusOK, respondTo(req.Message))
}

func respondTo(message string) chatResponse {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "storage"):
		return chatResponse{
			Response:    "You can check your storage usage in your profile. Every account has a 2 GB allowance shared across images, videos, and documents.",
			Suggestions: []string{"How do I free up space?", "What file types can I upload?"},
		}
	case strings.Contains(msg, "upload"):
		return chatResponse{
			Response:    "Use the upload area of each hub to add files. Images can be up to 20 MB each; videos and documents up to 50 MB each.",
			Suggestions: []string{"What file types can I upload?", "How do I delete files?"},
		}
	case strings.Contains(msg, "delete"):
		return chatResponse{
			Response:    "Select one or more items in a gallery and use Delete Selected. Deletion is permanent, so you will be asked to confirm first.",
			Suggestions: []string{"Can I download files before deleting?"},
		}
	case strings.Contains(msg, "download"):
		return chatResponse{
			Response:    "Select items in a gallery and use Download Selected to receive them bundled as a zip archive.",
			Suggestions: []string{"How do I select all items?"},
		}
	case strings.Contains(msg, "hello"), strings.Contains(msg, "hi"):
		return chatResponse{
			Response:    "Hello! Ask me about uploading, downloading, deleting, or your storage.",
			Suggestions: []string{"How much storage do I have?", "How do I upload files?"},
		}
	default:
		return chatResponse{
			Response:    "I can help with uploading, downloading, deleting files, and storage questions. What would you like to know?",
			Suggestions: []string{"How much storage do I have?", "How do I upload files?"},
		}
	}
}
