package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreUserLifecycle(t *testing.T) {
	s := newTestSQLiteStore(t)

	created, err := s.CreateUser(&User{
		Email:        "a@x.com",
		PasswordHash: "hashed",
		Name:         "A",
		MedicalData:  &MedicalData{Conditions: []string{"asthma"}},
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := s.GetUserByEmail("a@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatalf("expected created user, got %+v", got)
	}
	if got.MedicalData == nil || len(got.MedicalData.Conditions) != 1 {
		t.Fatalf("expected medical data round trip, got %+v", got.MedicalData)
	}

	if _, err := s.CreateUser(&User{Email: "a@x.com", PasswordHash: "h", Name: "B"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken from UNIQUE constraint, got %v", err)
	}

	got.Name = "Renamed"
	if err := s.UpdateUser(got); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	again, _ := s.GetUserByID(got.ID)
	if again.Name != "Renamed" {
		t.Fatalf("expected updated name, got %q", again.Name)
	}

	if err := s.UpdateUser(&User{ID: "ghost"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSQLiteStoreSessionLifecycle(t *testing.T) {
	s := newTestSQLiteStore(t)

	session, err := s.CreateSession("user-1")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	for i := 0; i < 4; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		if _, err := s.AppendMessage(session.ID, &ChatMessage{UserID: "user-1", Role: role, Content: "m"}); err != nil {
			t.Fatalf("AppendMessage failed: %v", err)
		}
	}

	got, err := s.GetSessionByID(session.ID)
	if err != nil {
		t.Fatalf("GetSessionByID failed: %v", err)
	}
	if len(got.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(got.Messages))
	}
	for i := 1; i < len(got.Messages); i++ {
		if got.Messages[i].Timestamp.Before(got.Messages[i-1].Timestamp) {
			t.Fatalf("messages out of timestamp order at index %d", i)
		}
	}

	if _, err := s.AppendMessage("ghost", &ChatMessage{Role: "user", Content: "m"}); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	sessions, err := s.GetSessionsByUserID("user-1")
	if err != nil {
		t.Fatalf("GetSessionsByUserID failed: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != session.ID {
		t.Fatalf("expected one owned session, got %+v", sessions)
	}

	if err := s.DeleteSession(session.ID, "intruder"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := s.DeleteSession(session.ID, "user-1"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	gone, err := s.GetSessionByID(session.ID)
	if err != nil || gone != nil {
		t.Fatalf("expected session to be gone, got (%+v, %v)", gone, err)
	}
}
