package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rishindra2005/techno-vidya/internal/auth"
	"github.com/rishindra2005/techno-vidya/internal/core"
	"github.com/rishindra2005/techno-vidya/internal/store"
)

type ctxKey string

const userContextKey ctxKey = "user"

type APIHandler struct {
	authService *auth.Service
	chatService *core.ChatService
	store       store.Store
}

func NewAPIHandler(as *auth.Service, cs *core.ChatService, st store.Store) *APIHandler {
	return &APIHandler{authService: as, chatService: cs, store: st}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// AuthMiddleware verifies the bearer token and loads the caller's user record
// into the request context. A valid token whose user no longer exists is a
// 404, matching what the profile and chat routes promise.
func (h *APIHandler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		claims, err := h.authService.Verify(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, err := h.store.GetUserByID(claims.ID)
		if err != nil {
			log.Printf("Error loading user %s: %v", claims.ID, err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if user == nil {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}

		ctx := withUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		respondError(w, http.StatusBadRequest, "Email, password, and name are required")
		return
	}

	creds, err := h.authService.Register(req)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			respondError(w, http.StatusConflict, "User with this email already exists")
			return
		}
		log.Printf("Error registering user %s: %v", req.Email, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusCreated, creds)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	creds, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Printf("Error logging in %s: %v", req.Email, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, creds)
}

type ChatRequest struct {
	Message   string          `json:"message"`
	SessionID string          `json:"sessionId,omitempty"`
	Image     *core.ImageData `json:"image,omitempty"`
}

type ChatResponse struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Message == "" && req.Image == nil {
		respondError(w, http.StatusBadRequest, "Message or image is required")
		return
	}

	sessionID, reply, err := h.chatService.SendMessage(r.Context(), user, req.SessionID, req.Message, req.Image)
	if err != nil {
		log.Printf("Error handling chat turn for user %s: %v", user.ID, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, ChatResponse{SessionID: sessionID, Message: reply})
}

func (h *APIHandler) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	sessions, err := h.chatService.ListSessions(user.ID)
	if err != nil {
		log.Printf("Error listing sessions for user %s: %v", user.ID, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if sessions == nil {
		sessions = []store.ChatSession{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (h *APIHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.chatService.GetSessionDetails(sessionID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrSessionNotFound):
			respondError(w, http.StatusNotFound, "Chat session not found")
		case errors.Is(err, store.ErrForbidden):
			respondError(w, http.StatusForbidden, "Unauthorized access to this chat session")
		default:
			log.Printf("Error getting session %s for user %s: %v", sessionID, user.ID, err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"session": session})
}

func (h *APIHandler) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.chatService.DeleteSession(sessionID, user.ID); err != nil {
		switch {
		case errors.Is(err, store.ErrSessionNotFound):
			respondError(w, http.StatusNotFound, "Chat session not found")
		case errors.Is(err, store.ErrForbidden):
			respondError(w, http.StatusForbidden, "Unauthorized access to this chat session")
		default:
			log.Printf("Error deleting session %s for user %s: %v", sessionID, user.ID, err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Chat session deleted successfully",
		"sessionId": sessionID,
	})
}

type UpdateMedicalDataRequest struct {
	MedicalData *store.MedicalData `json:"medicalData"`
}

func (h *APIHandler) UpdateMedicalDataHandler(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req UpdateMedicalDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.MedicalData == nil {
		respondError(w, http.StatusBadRequest, "Medical data is required")
		return
	}

	user.MedicalData = store.MergeMedicalData(user.MedicalData, req.MedicalData)
	if err := h.store.UpdateUser(user); err != nil {
		log.Printf("Error updating medical data for user %s: %v", user.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to update medical data")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Medical data updated successfully",
		"user":    user,
	})
}

type UpdateProfilePictureRequest struct {
	ProfilePicture string `json:"profilePicture"`
}

func (h *APIHandler) UpdateProfilePictureHandler(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req UpdateProfilePictureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.ProfilePicture == "" {
		respondError(w, http.StatusBadRequest, "Profile picture is required")
		return
	}

	user.ProfilePicture = req.ProfilePicture
	if err := h.store.UpdateUser(user); err != nil {
		log.Printf("Error updating profile picture for user %s: %v", user.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to update profile picture")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Profile picture updated successfully",
		"user":    user,
	})
}

type UpdateProfileRequest struct {
	Name   string `json:"name,omitempty"`
	Gender string `json:"gender,omitempty"`
	Age    string `json:"age,omitempty"`
}

func (h *APIHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Gender != "" {
		user.Gender = req.Gender
	}
	if req.Age != "" {
		user.Age = req.Age
	}
	if err := h.store.UpdateUser(user); err != nil {
		log.Printf("Error updating profile for user %s: %v", user.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user":    user,
	})
}
