package core

import (
	"context"
	"fmt"
	"log"

	"github.com/rishindra2005/techno-vidya/internal/store"
)

// FallbackReply is recorded as the assistant turn when the provider call
// fails, so a conversation is never left without a reply to the user's turn.
const FallbackReply = "I'm sorry, I'm having trouble processing your message. Please try again later."

// ChatService owns session lifecycle and message ordering on top of the
// store, and enforces the ownership checks the store's by-id lookups do not.
type ChatService struct {
	store store.Store
	llm   ReplyGenerator
}

func NewChatService(s store.Store, llm ReplyGenerator) *ChatService {
	return &ChatService{store: s, llm: llm}
}

// GetOrCreateSession resumes the caller's session when sessionID names one
// they own; an empty, unknown or foreign id falls through to a fresh session.
// It never hands back another user's session.
func (s *ChatService) GetOrCreateSession(userID, sessionID string) (*store.ChatSession, error) {
	if sessionID != "" {
		session, err := s.store.GetSessionByID(sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up session: %w", err)
		}
		if session != nil && session.UserID == userID {
			return session, nil
		}
	}
	return s.store.CreateSession(userID)
}

// GetSessionDetails returns the session with its messages. Distinguishes
// absent (store.ErrSessionNotFound) from foreign-owned (store.ErrForbidden).
func (s *ChatService) GetSessionDetails(sessionID, userID string) (*store.ChatSession, error) {
	session, err := s.store.GetSessionByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, store.ErrSessionNotFound
	}
	if session.UserID != userID {
		return nil, store.ErrForbidden
	}
	return session, nil
}

func (s *ChatService) ListSessions(userID string) ([]store.ChatSession, error) {
	return s.store.GetSessionsByUserID(userID)
}

func (s *ChatService) DeleteSession(sessionID, userID string) error {
	return s.store.DeleteSession(sessionID, userID)
}

// SendMessage runs one chat turn: append the user message, ask the model,
// append the reply. Exactly one assistant message is recorded per user
// message; provider failures are absorbed into the fallback reply rather
// than surfaced as an error.
func (s *ChatService) SendMessage(ctx context.Context, user *store.User, sessionID, message string, image *ImageData) (string, string, error) {
	session, err := s.GetOrCreateSession(user.ID, sessionID)
	if err != nil {
		return "", "", err
	}

	// History for the model is the conversation as it stood before this turn.
	history := session.Messages

	userMsg := store.ChatMessage{
		UserID:  user.ID,
		Role:    "user",
		Content: message,
	}
	if image != nil {
		userMsg.Image = image.DataURI()
	}
	if _, err := s.store.AppendMessage(session.ID, &userMsg); err != nil {
		return "", "", fmt.Errorf("failed to store user message: %w", err)
	}

	reply, err := s.llm.GenerateReply(ctx, message, history, user, image)
	if err != nil {
		log.Printf("Error generating reply for session %s: %v", session.ID, err)
		reply = FallbackReply
	}

	assistantMsg := store.ChatMessage{
		UserID:  user.ID,
		Role:    "assistant",
		Content: reply,
	}
	if _, err := s.store.AppendMessage(session.ID, &assistantMsg); err != nil {
		return "", "", fmt.Errorf("failed to store assistant message: %w", err)
	}

	return session.ID, reply, nil
}
