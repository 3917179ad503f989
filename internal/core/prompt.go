package core

import (
	"fmt"
	"strings"

	"github.com/rishindra2005/techno-vidya/internal/store"
)

const baseSystemPrompt = `You are Techno Vaidhya, a virtual medical assistant.
You provide helpful, accurate, and friendly medical information to patients.  Focus on providing general health
information, preventive care tips, and guidance on when to seek professional help.


- Use > blockquotes for important warnings or disclaimers

Always respond in a clean, well-formatted markdown style that improves readability.`

// BuildSystemPrompt personalizes the assistant instruction with the user's
// profile and medical data. Only fields that are present are rendered; a user
// without any of them gets just the base prompt.
func BuildSystemPrompt(user *store.User) string {
	if user == nil {
		return baseSystemPrompt
	}

	var b strings.Builder
	b.WriteString("\n\nUSER CONTEXT:\n")
	if user.Name != "" {
		fmt.Fprintf(&b, "- Name: %s\n", user.Name)
	}
	if user.Gender != "" {
		fmt.Fprintf(&b, "- Gender: %s\n", user.Gender)
	}
	if user.Age != "" {
		fmt.Fprintf(&b, "- Age: %s\n", user.Age)
	}

	if md := user.MedicalData; md != nil {
		if len(md.Conditions) > 0 {
			fmt.Fprintf(&b, "- Medical conditions: %s\n", strings.Join(md.Conditions, ", "))
		}
		if len(md.Medications) > 0 {
			fmt.Fprintf(&b, "- Current medications: %s\n", strings.Join(md.Medications, ", "))
		}
		if len(md.Allergies) > 0 {
			fmt.Fprintf(&b, "- Allergies: %s\n", strings.Join(md.Allergies, ", "))
		}
		if md.MedicalHistory != "" {
			fmt.Fprintf(&b, "- Medical history: %s\n", md.MedicalHistory)
		}
		if md.FamilyHistory != "" {
			fmt.Fprintf(&b, "- Family history: %s\n", md.FamilyHistory)
		}
		if ls := md.Lifestyle; ls != nil {
			var lifestyle []string
			if ls.Smoking != nil {
				lifestyle = append(lifestyle, "Smoking: "+yesNo(*ls.Smoking))
			}
			if ls.Alcohol != nil {
				lifestyle = append(lifestyle, "Alcohol: "+yesNo(*ls.Alcohol))
			}
			if ls.Exercise != "" {
				lifestyle = append(lifestyle, "Exercise: "+ls.Exercise)
			}
			if ls.Diet != "" {
				lifestyle = append(lifestyle, "Diet: "+ls.Diet)
			}
			if len(lifestyle) > 0 {
				fmt.Fprintf(&b, "- Lifestyle: %s\n", strings.Join(lifestyle, ", "))
			}
		}
		if vs := md.VitalSigns; vs != nil {
			var vitals []string
			if vs.Height != "" {
				vitals = append(vitals, "Height: "+vs.Height)
			}
			if vs.Weight != "" {
				vitals = append(vitals, "Weight: "+vs.Weight)
			}
			if vs.BloodPressure != "" {
				vitals = append(vitals, "Blood Pressure: "+vs.BloodPressure)
			}
			if vs.HeartRate != "" {
				vitals = append(vitals, "Heart Rate: "+vs.HeartRate)
			}
			if vs.BloodSugar != "" {
				vitals = append(vitals, "Blood Sugar: "+vs.BloodSugar)
			}
			if vs.Temperature != "" {
				vitals = append(vitals, "Temperature: "+vs.Temperature)
			}
			if len(vitals) > 0 {
				fmt.Fprintf(&b, "- Vital signs: %s\n", strings.Join(vitals, ", "))
			}
		}
	}

	return baseSystemPrompt + b.String()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
