package store

// MergeMedicalData merges a partial medical-data update into the existing
// record. Top-level fields submitted in the patch replace the old values;
// the nested Lifestyle and VitalSigns objects merge field-wise, so fields
// absent from the patch keep their previous values.
func MergeMedicalData(old, patch *MedicalData) *MedicalData {
	if patch == nil {
		return old
	}
	merged := &MedicalData{}
	if old != nil {
		*merged = *old
	}

	if patch.MedicalHistory != "" {
		merged.MedicalHistory = patch.MedicalHistory
	}
	if patch.Conditions != nil {
		merged.Conditions = patch.Conditions
	}
	if patch.Medications != nil {
		merged.Medications = patch.Medications
	}
	if patch.Allergies != nil {
		merged.Allergies = patch.Allergies
	}
	if patch.FamilyHistory != "" {
		merged.FamilyHistory = patch.FamilyHistory
	}

	if patch.Lifestyle != nil {
		merged.Lifestyle = mergeLifestyle(merged.Lifestyle, patch.Lifestyle)
	}
	if patch.VitalSigns != nil {
		merged.VitalSigns = mergeVitalSigns(merged.VitalSigns, patch.VitalSigns)
	}
	return merged
}

func mergeLifestyle(old, patch *Lifestyle) *Lifestyle {
	merged := &Lifestyle{}
	if old != nil {
		*merged = *old
	}
	if patch.Smoking != nil {
		merged.Smoking = patch.Smoking
	}
	if patch.Alcohol != nil {
		merged.Alcohol = patch.Alcohol
	}
	if patch.Exercise != "" {
		merged.Exercise = patch.Exercise
	}
	if patch.Diet != "" {
		merged.Diet = patch.Diet
	}
	if patch.SleepHours != "" {
		merged.SleepHours = patch.SleepHours
	}
	if patch.StressLevel != "" {
		merged.StressLevel = patch.StressLevel
	}
	return merged
}

func mergeVitalSigns(old, patch *VitalSigns) *VitalSigns {
	merged := &VitalSigns{}
	if old != nil {
		*merged = *old
	}
	if patch.Height != "" {
		merged.Height = patch.Height
	}
	if patch.Weight != "" {
		merged.Weight = patch.Weight
	}
	if patch.BloodPressure != "" {
		merged.BloodPressure = patch.BloodPressure
	}
	if patch.HeartRate != "" {
		merged.HeartRate = patch.HeartRate
	}
	if patch.Temperature != "" {
		merged.Temperature = patch.Temperature
	}
	if patch.BloodSugar != "" {
		merged.BloodSugar = patch.BloodSugar
	}
	return merged
}
