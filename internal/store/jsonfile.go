package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	usersFileName    = "users.json"
	sessionsFileName = "chat_history.json"
)

// JSONStore keeps users and chat sessions as two pretty-printed JSON array
// files under a data directory. Every operation reads the whole file, mutates
// the array in memory and rewrites the file. A single mutex serializes all
// operations so concurrent requests cannot lose each other's writes; a crash
// mid-write can still truncate a file.
type JSONStore struct {
	usersPath    string
	sessionsPath string
	mu           sync.Mutex
}

func NewJSONStore(dataDir string) (*JSONStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	s := &JSONStore{
		usersPath:    filepath.Join(dataDir, usersFileName),
		sessionsPath: filepath.Join(dataDir, sessionsFileName),
	}
	for _, path := range []string{s.usersPath, s.sessionsPath} {
		if err := ensureArrayFile(path); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *JSONStore) Close() error { return nil }

func ensureArrayFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		return fmt.Errorf("failed to initialize %s: %w", path, err)
	}
	return nil
}

func readArrayFile[T any](path string) ([]T, error) {
	if err := ensureArrayFile(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return records, nil
}

func writeArrayFile[T any](path string, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// storedUser is the on-disk shape of a user row. The API-facing User hides
// the password hash from JSON marshaling, but the file layout must carry it
// or credentials would be lost on the next rewrite.
type storedUser struct {
	User
	PasswordHash string `json:"password"`
}

func (s *JSONStore) readUsers() ([]User, error) {
	stored, err := readArrayFile[storedUser](s.usersPath)
	if err != nil {
		return nil, err
	}
	users := make([]User, len(stored))
	for i, su := range stored {
		users[i] = su.User
		users[i].PasswordHash = su.PasswordHash
	}
	return users, nil
}

func (s *JSONStore) writeUsers(users []User) error {
	stored := make([]storedUser, len(users))
	for i, u := range users {
		stored[i] = storedUser{User: u, PasswordHash: u.PasswordHash}
	}
	return writeArrayFile(s.usersPath, stored)
}

// User methods

func (s *JSONStore) GetUserByID(id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.readUsers()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (s *JSONStore) GetUserByEmail(email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.readUsers()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (s *JSONStore) CreateUser(user *User) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.readUsers()
	if err != nil {
		return nil, err
	}
	// Uniqueness is checked under the same lock as the write so two
	// registrations with the same email cannot both succeed.
	for i := range users {
		if users[i].Email == user.Email {
			return nil, ErrEmailTaken
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	users = append(users, *user)
	if err := s.writeUsers(users); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *JSONStore) UpdateUser(user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.readUsers()
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = *user
			return s.writeUsers(users)
		}
	}
	return ErrUserNotFound
}

// Session methods

func (s *JSONStore) CreateSession(userID string) (*ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions, err := readArrayFile[ChatSession](s.sessionsPath)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	session := ChatSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Messages:  []ChatMessage{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	sessions = append(sessions, session)
	if err := writeArrayFile(s.sessionsPath, sessions); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *JSONStore) GetSessionByID(id string) (*ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions, err := readArrayFile[ChatSession](s.sessionsPath)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].ID == id {
			sortMessages(sessions[i].Messages)
			return &sessions[i], nil
		}
	}
	return nil, nil
}

func (s *JSONStore) GetSessionsByUserID(userID string) ([]ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions, err := readArrayFile[ChatSession](s.sessionsPath)
	if err != nil {
		return nil, err
	}
	var owned []ChatSession
	for _, session := range sessions {
		if session.UserID == userID {
			sortMessages(session.Messages)
			owned = append(owned, session)
		}
	}
	// Most recent conversation first.
	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].UpdatedAt.After(owned[j].UpdatedAt)
	})
	return owned, nil
}

func (s *JSONStore) AppendMessage(sessionID string, msg *ChatMessage) (*ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions, err := readArrayFile[ChatSession](s.sessionsPath)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].ID != sessionID {
			continue
		}
		msg.ID = uuid.NewString()
		msg.Timestamp = time.Now().UTC()
		sessions[i].Messages = append(sessions[i].Messages, *msg)
		sessions[i].UpdatedAt = msg.Timestamp
		sortMessages(sessions[i].Messages)
		if err := writeArrayFile(s.sessionsPath, sessions); err != nil {
			return nil, err
		}
		return &sessions[i], nil
	}
	return nil, ErrSessionNotFound
}

func (s *JSONStore) DeleteSession(sessionID, requesterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions, err := readArrayFile[ChatSession](s.sessionsPath)
	if err != nil {
		return err
	}
	for i := range sessions {
		if sessions[i].ID != sessionID {
			continue
		}
		if sessions[i].UserID != requesterID {
			return ErrForbidden
		}
		sessions = append(sessions[:i], sessions[i+1:]...)
		return writeArrayFile(s.sessionsPath, sessions)
	}
	return ErrSessionNotFound
}

// Appends are sequential per session so insertion order already satisfies the
// ordering invariant; the re-sort is defensive against hand-edited files.
func sortMessages(messages []ChatMessage) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
}
