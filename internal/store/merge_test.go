package store

import "testing"

func TestMergeMedicalDataPartialVitals(t *testing.T) {
	old := &MedicalData{
		VitalSigns: &VitalSigns{Height: "180cm"},
	}
	patch := &MedicalData{
		VitalSigns: &VitalSigns{HeartRate: "80"},
	}

	merged := MergeMedicalData(old, patch)
	if merged.VitalSigns.Height != "180cm" {
		t.Fatalf("expected height to be preserved, got %q", merged.VitalSigns.Height)
	}
	if merged.VitalSigns.HeartRate != "80" {
		t.Fatalf("expected heart rate to be set, got %q", merged.VitalSigns.HeartRate)
	}
}

func TestMergeMedicalDataTopLevel(t *testing.T) {
	old := &MedicalData{
		MedicalHistory: "asthma as a child",
		Conditions:     []string{"asthma"},
		FamilyHistory:  "none",
	}
	patch := &MedicalData{
		Conditions: []string{"asthma", "hypertension"},
	}

	merged := MergeMedicalData(old, patch)
	if len(merged.Conditions) != 2 {
		t.Fatalf("expected patched conditions, got %v", merged.Conditions)
	}
	if merged.MedicalHistory != "asthma as a child" {
		t.Fatalf("expected untouched history, got %q", merged.MedicalHistory)
	}
	if merged.FamilyHistory != "none" {
		t.Fatalf("expected untouched family history, got %q", merged.FamilyHistory)
	}
}

func TestMergeMedicalDataLifestyleBooleans(t *testing.T) {
	no := false
	yes := true
	old := &MedicalData{
		Lifestyle: &Lifestyle{Smoking: &no, Exercise: "daily walk"},
	}
	patch := &MedicalData{
		Lifestyle: &Lifestyle{Smoking: &yes, Diet: "vegetarian"},
	}

	merged := MergeMedicalData(old, patch)
	if merged.Lifestyle.Smoking == nil || !*merged.Lifestyle.Smoking {
		t.Fatal("expected smoking flag to be updated to true")
	}
	if merged.Lifestyle.Exercise != "daily walk" {
		t.Fatalf("expected exercise preserved, got %q", merged.Lifestyle.Exercise)
	}
	if merged.Lifestyle.Diet != "vegetarian" {
		t.Fatalf("expected diet set, got %q", merged.Lifestyle.Diet)
	}
}

func TestMergeMedicalDataNilOld(t *testing.T) {
	patch := &MedicalData{VitalSigns: &VitalSigns{Weight: "70kg"}}
	merged := MergeMedicalData(nil, patch)
	if merged.VitalSigns.Weight != "70kg" {
		t.Fatalf("expected weight from patch, got %q", merged.VitalSigns.Weight)
	}
}

func TestMergeMedicalDataNilPatch(t *testing.T) {
	old := &MedicalData{MedicalHistory: "kept"}
	if merged := MergeMedicalData(old, nil); merged != old {
		t.Fatal("nil patch should return the old record unchanged")
	}
}
