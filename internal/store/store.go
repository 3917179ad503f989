package store

import "errors"

var (
	ErrEmailTaken      = errors.New("email already in use")
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("chat session not found")
	ErrForbidden       = errors.New("session owned by another user")
)

// Store is the durable record store for users and chat sessions. Lookups
// return (nil, nil) when no record matches; mutations return the sentinel
// errors above so callers can map them to HTTP status codes with errors.Is.
type Store interface {
	Close() error

	GetUserByID(id string) (*User, error)
	GetUserByEmail(email string) (*User, error)
	// CreateUser assigns ID and CreatedAt. Returns ErrEmailTaken when a user
	// with the same email already exists.
	CreateUser(user *User) (*User, error)
	// UpdateUser replaces the stored record matching user.ID.
	UpdateUser(user *User) error

	CreateSession(userID string) (*ChatSession, error)
	GetSessionByID(id string) (*ChatSession, error)
	// GetSessionsByUserID returns the user's sessions, most recently updated
	// first.
	GetSessionsByUserID(userID string) ([]ChatSession, error)
	// AppendMessage assigns the message ID and Timestamp, appends it to the
	// session, bumps UpdatedAt and returns the updated session.
	AppendMessage(sessionID string, msg *ChatMessage) (*ChatSession, error)
	// DeleteSession removes the session. Returns ErrForbidden when it exists
	// but belongs to a different user.
	DeleteSession(sessionID, requesterID string) error
}
