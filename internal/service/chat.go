package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"socialplay/internal/inference"
	"socialplay/internal/model"
	"socialplay/internal/repository"
)

// ChatService relays user messages to the inference client and keeps the log.
type ChatService struct {
	chats repository.ChatRepository
	ai    inference.Client
}

func NewChatService(chats repository.ChatRepository, ai inference.Client) *ChatService {
	return &ChatService{chats: chats, ai: ai}
}

// SendMessage records the user's message, asks the model once and records
// the reply. Inference failures become a substitute reply, never an error.
// An empty message records nothing. Once the user's message is stored, the
// relay and the reply no longer follow ctx cancellation, so every stored
// message gets its reply.
func (s *ChatService) SendMessage(ctx context.Context, userID int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if _, err := s.chats.Append(ctx, userID, model.RoleUser, text); err != nil {
		return fmt.Errorf("save user message: %w", err)
	}

	ctx = context.WithoutCancel(ctx)
	reply := s.complete(ctx, userID, text)

	if _, err := s.chats.Append(ctx, userID, model.RoleAI, reply); err != nil {
		return fmt.Errorf("save ai reply: %w", err)
	}
	return nil
}

// History returns the user's chat log oldest first.
func (s *ChatService) History(ctx context.Context, userID int64) ([]model.ChatMessage, error) {
	msgs, err := s.chats.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("chat history: %w", err)
	}
	return msgs, nil
}

func (s *ChatService) complete(ctx context.Context, userID int64, text string) string {
	reply, err := s.ai.Complete(ctx, text)
	switch {
	case err == nil && reply == "":
		log.Printf("[ChatService] AI request ok for user %d (empty response)", userID)
		return model.ReplyEmpty
	case err == nil:
		log.Printf("[ChatService] AI request ok for user %d", userID)
		return reply
	case errors.Is(err, inference.ErrUnreachable):
		log.Printf("[ChatService] AI request failed for user %d: %v", userID, err)
		return fmt.Sprintf(model.ReplyUnreachable, s.ai.Endpoint())
	default:
		log.Printf("[ChatService] AI request failed for user %d: %v", userID, err)
		return model.ReplyUnknown
	}
}
