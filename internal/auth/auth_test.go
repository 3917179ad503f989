package auth

import (
	"errors"
	"testing"

	"github.com/rishindra2005/techno-vidya/internal/store"
)

const testSecret = "test-secret"

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := store.NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatalf("store init: %v", err)
	}
	return NewService(s, testSecret)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPasswordHash("secret1", hash) {
		t.Fatal("expected password to match")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Fatal("expected password mismatch")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	user := &store.User{ID: "u1", Email: "a@x.com", Name: "A"}

	token, err := GenerateToken(user, testSecret)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := VerifyToken(token, testSecret)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.ID != "u1" || claims.Email != "a@x.com" || claims.Name != "A" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := VerifyToken(token, "other-secret"); err == nil {
		t.Fatal("expected verification to fail with the wrong secret")
	}
	if _, err := VerifyToken("not.a.token", testSecret); err == nil {
		t.Fatal("expected verification to fail for garbage input")
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)

	creds, err := svc.Register(RegisterRequest{Email: "a@x.com", Password: "secret1", Name: "A"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if creds.Token == "" {
		t.Fatal("expected a token")
	}
	if creds.User.PasswordHash == "secret1" {
		t.Fatal("stored password must never equal the plaintext")
	}
	if creds.User.MedicalData == nil || creds.User.MedicalData.Lifestyle == nil {
		t.Fatal("expected the empty medical profile skeleton")
	}

	if _, err := svc.Register(RegisterRequest{Email: "a@x.com", Password: "other", Name: "B"}); !errors.Is(err, store.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	if _, err := svc.Login("a@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Login("ghost@x.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	logged, err := svc.Login("a@x.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.User.ID != creds.User.ID {
		t.Fatal("login returned a different user")
	}

	claims, err := svc.Verify(logged.Token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if claims.ID != creds.User.ID {
		t.Fatalf("token claims do not match the user: %+v", claims)
	}
}

func TestRegisterKeepsSubmittedMedicalData(t *testing.T) {
	svc := newTestService(t)

	creds, err := svc.Register(RegisterRequest{
		Email:    "m@x.com",
		Password: "secret1",
		Name:     "M",
		MedicalData: &store.MedicalData{
			Conditions: []string{"diabetes"},
		},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(creds.User.MedicalData.Conditions) != 1 || creds.User.MedicalData.Conditions[0] != "diabetes" {
		t.Fatalf("expected submitted medical data, got %+v", creds.User.MedicalData)
	}
}
