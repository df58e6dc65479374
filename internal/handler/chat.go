package handler

import (
	"net/http"

	"socialplay/internal/httputil"
	"socialplay/internal/service"
	"socialplay/internal/transport/http/middleware"
	"socialplay/internal/view"
)

type ChatHandler struct {
	chatService *service.ChatService
	pages       *Pages
}

func NewChatHandler(chatService *service.ChatService, pages *Pages) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		pages:       pages,
	}
}

// Chat handles GET /ai-chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())

	history, err := h.chatService.History(r.Context(), user.ID)
	if err != nil {
		h.pages.ServerError(w, r, "Chat", err)
		return
	}
	h.pages.Render(w, r, http.StatusOK, view.PageChat, "AI Chat", history)
}

// Send handles POST /ai-chat. The request blocks until the model answers.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())

	if err := h.chatService.SendMessage(r.Context(), user.ID, r.PostFormValue("message")); err != nil {
		h.pages.ServerError(w, r, "SendMessage", err)
		return
	}

	httputil.Redirect(w, r, "/ai-chat")
}
