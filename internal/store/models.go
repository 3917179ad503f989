package store

import "time"

type User struct {
	ID             string       `json:"id"`
	Email          string       `json:"email"`
	PasswordHash   string       `json:"-"` // Do not expose this in JSON responses
	Name           string       `json:"name"`
	Gender         string       `json:"gender,omitempty"` // "male", "female" or "other"
	Age            string       `json:"age,omitempty"`
	ProfilePicture string       `json:"profilePicture,omitempty"` // data URI or URL
	MedicalData    *MedicalData `json:"medicalData,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
}

type MedicalData struct {
	MedicalHistory string      `json:"medicalHistory,omitempty"`
	Conditions     []string    `json:"conditions,omitempty"`
	Medications    []string    `json:"medications,omitempty"`
	Allergies      []string    `json:"allergies,omitempty"`
	FamilyHistory  string      `json:"familyHistory,omitempty"`
	Lifestyle      *Lifestyle  `json:"lifestyle,omitempty"`
	VitalSigns     *VitalSigns `json:"vitalSigns,omitempty"`
}

type Lifestyle struct {
	Smoking     *bool  `json:"smoking,omitempty"`
	Alcohol     *bool  `json:"alcohol,omitempty"`
	Exercise    string `json:"exercise,omitempty"`
	Diet        string `json:"diet,omitempty"`
	SleepHours  string `json:"sleepHours,omitempty"`
	StressLevel string `json:"stressLevel,omitempty"`
}

type VitalSigns struct {
	Height        string `json:"height,omitempty"`
	Weight        string `json:"weight,omitempty"`
	BloodPressure string `json:"bloodPressure,omitempty"`
	HeartRate     string `json:"heartRate,omitempty"`
	Temperature   string `json:"temperature,omitempty"`
	BloodSugar    string `json:"bloodSugar,omitempty"`
}

type ChatSession struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Image     string    `json:"image,omitempty"` // data URI
}
