package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/rishindra2005/techno-vidya/internal/store"
)

const (
	chatModelName = "gemini-2.0-flash"

	// The provider cannot take the raw pixels on this path, so the upload is
	// acknowledged in text instead. The data URI is still stored on the user
	// message for display.
	imageLimitationNote = "Note: The user has uploaded an image. Please note that image analysis is currently limited."
)

// ImageData is a user-supplied image attachment, base64 encoded.
type ImageData struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
	FileName string `json:"fileName"`
}

// DataURI renders the attachment as a data URI for persistence alongside the
// chat message.
func (img *ImageData) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", img.MimeType, img.Data)
}

// ReplyGenerator produces an assistant reply for a user turn. Implemented by
// LLMService; stubbed in tests.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, message string, history []store.ChatMessage, user *store.User, image *ImageData) (string, error)
}

type LLMService struct {
	client *genai.Client
}

func NewLLMService(ctx context.Context, apiKey string) (*LLMService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &LLMService{client: client}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		}
	}
}

// GenerateReply sends the personalized system prompt, the prior turns and the
// new message to Gemini and returns the reply text. A single attempt, no
// retry; any provider failure surfaces as an error for the caller to convert
// into the fallback reply.
func (s *LLMService) GenerateReply(ctx context.Context, message string, history []store.ChatMessage, user *store.User, image *ImageData) (string, error) {
	model := s.client.GenerativeModel(chatModelName)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(BuildSystemPrompt(user))},
	}

	temp := float32(1.2)
	topP := float32(0.8)
	topK := int32(40)
	maxTokens := int32(2048)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:     &temp,
		TopP:            &topP,
		TopK:            &topK,
		MaxOutputTokens: &maxTokens,
	}

	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockOnlyHigh},
	}

	chatSession := model.StartChat()
	chatSession.History = formatHistory(history)

	if image != nil {
		if message != "" {
			message = message + "\n\n" + imageLimitationNote
		} else {
			message = imageLimitationNote
		}
	}

	resp, err := chatSession.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("gemini chat SendMessage failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response was empty or had no valid candidates")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}

	if responseText.Len() == 0 {
		return "", fmt.Errorf("gemini response contained no text parts")
	}

	return responseText.String(), nil
}

// formatHistory converts stored turns to the wire format; the store's
// "assistant" role is "model" on the Gemini side.
func formatHistory(history []store.ChatMessage) []*genai.Content {
	var contents []*genai.Content
	for _, msg := range history {
		role := "user"
		if msg.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return contents
}
