package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store on an embedded relational database. Unlike the
// JSON-file backend, email uniqueness is a real constraint and ordering is
// done in SQL.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id TEXT PRIMARY KEY, -- UUID
        email TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        name TEXT NOT NULL,
        gender TEXT,
        age TEXT,
        profile_picture TEXT,
        medical_data TEXT, -- JSON blob, NULL when the profile is empty
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS sessions (
        id TEXT PRIMARY KEY, -- UUID
        user_id TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS messages (
        id TEXT PRIMARY KEY, -- UUID
        session_id TEXT NOT NULL,
        user_id TEXT NOT NULL,
        role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
        content TEXT NOT NULL,
        image TEXT,
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (session_id) REFERENCES sessions (id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods

func (s *SQLiteStore) GetUserByID(id string) (*User, error) {
	return s.queryUser("SELECT id, email, password_hash, name, gender, age, profile_picture, medical_data, created_at FROM users WHERE id = ?", id)
}

func (s *SQLiteStore) GetUserByEmail(email string) (*User, error) {
	return s.queryUser("SELECT id, email, password_hash, name, gender, age, profile_picture, medical_data, created_at FROM users WHERE email = ?", email)
}

func (s *SQLiteStore) queryUser(query string, arg any) (*User, error) {
	var user User
	var gender, age, picture, medicalJSON sql.NullString
	err := s.db.QueryRow(query, arg).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &gender, &age, &picture, &medicalJSON, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	user.Gender = gender.String
	user.Age = age.String
	user.ProfilePicture = picture.String
	if medicalJSON.Valid && medicalJSON.String != "" {
		if err := json.Unmarshal([]byte(medicalJSON.String), &user.MedicalData); err != nil {
			return nil, fmt.Errorf("failed to unmarshal medical data for user %s: %w", user.ID, err)
		}
	}
	return &user, nil
}

func (s *SQLiteStore) CreateUser(user *User) (*User, error) {
	medicalJSON, err := marshalMedicalData(user.MedicalData)
	if err != nil {
		return nil, err
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	_, err = s.db.Exec(
		"INSERT INTO users (id, email, password_hash, name, gender, age, profile_picture, medical_data, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Email, user.PasswordHash, user.Name, user.Gender, user.Age, user.ProfilePicture, medicalJSON, user.CreatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

func (s *SQLiteStore) UpdateUser(user *User) error {
	medicalJSON, err := marshalMedicalData(user.MedicalData)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(
		"UPDATE users SET email = ?, password_hash = ?, name = ?, gender = ?, age = ?, profile_picture = ?, medical_data = ? WHERE id = ?",
		user.Email, user.PasswordHash, user.Name, user.Gender, user.Age, user.ProfilePicture, medicalJSON, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func marshalMedicalData(md *MedicalData) (sql.NullString, error) {
	if md == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(md)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal medical data: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// Session methods

func (s *SQLiteStore) CreateSession(userID string) (*ChatSession, error) {
	now := time.Now().UTC()
	session := ChatSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Messages:  []ChatMessage{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.Exec(
		"INSERT INTO sessions (id, user_id, created_at, updated_at) VALUES (?, ?, ?, ?)",
		session.ID, session.UserID, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}
	return &session, nil
}

func (s *SQLiteStore) GetSessionByID(id string) (*ChatSession, error) {
	var session ChatSession
	err := s.db.QueryRow("SELECT id, user_id, created_at, updated_at FROM sessions WHERE id = ?", id).
		Scan(&session.ID, &session.UserID, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	session.Messages, err = s.getMessagesBySessionID(session.ID)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SQLiteStore) GetSessionsByUserID(userID string) ([]ChatSession, error) {
	rows, err := s.db.Query("SELECT id, user_id, created_at, updated_at FROM sessions WHERE user_id = ? ORDER BY updated_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []ChatSession
	for rows.Next() {
		var session ChatSession
		if err := rows.Scan(&session.ID, &session.UserID, &session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}
	for i := range sessions {
		sessions[i].Messages, err = s.getMessagesBySessionID(sessions[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

func (s *SQLiteStore) getMessagesBySessionID(sessionID string) ([]ChatMessage, error) {
	rows, err := s.db.Query("SELECT id, session_id, user_id, role, content, image, timestamp FROM messages WHERE session_id = ? ORDER BY timestamp ASC", sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []ChatMessage{}
	for rows.Next() {
		var msg ChatMessage
		var sid string
		var image sql.NullString
		if err := rows.Scan(&msg.ID, &sid, &msg.UserID, &msg.Role, &msg.Content, &image, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		msg.Image = image.String
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (s *SQLiteStore) AppendMessage(sessionID string, msg *ChatMessage) (*ChatSession, error) {
	session, err := s.GetSessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	msg.ID = uuid.NewString()
	msg.Timestamp = time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO messages (id, session_id, user_id, role, content, image, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)",
		msg.ID, sessionID, msg.UserID, msg.Role, msg.Content, msg.Image, msg.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	if _, err = tx.Exec("UPDATE sessions SET updated_at = ? WHERE id = ?", msg.Timestamp, sessionID); err != nil {
		return nil, fmt.Errorf("failed to bump session updated_at: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit message append: %w", err)
	}

	session.Messages = append(session.Messages, *msg)
	session.UpdatedAt = msg.Timestamp
	return session, nil
}

func (s *SQLiteStore) DeleteSession(sessionID, requesterID string) error {
	var ownerID string
	err := s.db.QueryRow("SELECT user_id FROM sessions WHERE id = ?", sessionID).Scan(&ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to look up session: %w", err)
	}
	if ownerID != requesterID {
		return ErrForbidden
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM sessions WHERE id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return tx.Commit()
}
