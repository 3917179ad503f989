package auth

import (
	"errors"
	"fmt"

	"github.com/rishindra2005/techno-vidya/internal/store"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service owns credential verification and token issuance on top of the
// record store.
type Service struct {
	store  store.Store
	secret string
}

func NewService(s store.Store, secret string) *Service {
	return &Service{store: s, secret: secret}
}

type RegisterRequest struct {
	Email          string             `json:"email"`
	Password       string             `json:"password"`
	Name           string             `json:"name"`
	Gender         string             `json:"gender,omitempty"`
	Age            string             `json:"age,omitempty"`
	ProfilePicture string             `json:"profilePicture,omitempty"`
	MedicalData    *store.MedicalData `json:"medicalData,omitempty"`
}

type Credentials struct {
	User  *store.User `json:"user"`
	Token string      `json:"token"`
}

// Register creates a new account. Returns store.ErrEmailTaken when the email
// is already registered. The returned user never carries the password hash.
func (s *Service) Register(req RegisterRequest) (*Credentials, error) {
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	medicalData := req.MedicalData
	if medicalData == nil {
		medicalData = emptyMedicalData()
	}

	user, err := s.store.CreateUser(&store.User{
		Email:          req.Email,
		PasswordHash:   hash,
		Name:           req.Name,
		Gender:         req.Gender,
		Age:            req.Age,
		ProfilePicture: req.ProfilePicture,
		MedicalData:    medicalData,
	})
	if err != nil {
		return nil, err
	}

	token, err := GenerateToken(user, s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &Credentials{User: user, Token: token}, nil
}

// Login verifies the credentials. Unknown email and wrong password both
// collapse to ErrInvalidCredentials so callers cannot tell which one failed.
func (s *Service) Login(email, password string) (*Credentials, error) {
	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil || !CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := GenerateToken(user, s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &Credentials{User: user, Token: token}, nil
}

func (s *Service) Verify(token string) (*Claims, error) {
	return VerifyToken(token, s.secret)
}

// New accounts start with an empty medical profile skeleton so the profile
// editor always has the nested objects to merge into.
func emptyMedicalData() *store.MedicalData {
	no := false
	return &store.MedicalData{
		Conditions:  []string{},
		Medications: []string{},
		Allergies:   []string{},
		Lifestyle:   &store.Lifestyle{Smoking: &no, Alcohol: &no},
		VitalSigns:  &store.VitalSigns{},
	}
}
