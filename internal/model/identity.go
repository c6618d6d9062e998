package model

// PatientIdentity links one (name, date of birth) pair to its stable Prompt
// account identifier. Records are immutable once committed to the master list.
type PatientIdentity struct {
	PromptID    string `json:"prompt_id"`
	PatientName string `json:"patient_name"`
	DateOfBirth string `json:"date_of_birth"`
}

// RawKey is the raw-string dedup key used by the roster maintenance path.
// It intentionally does NOT normalize: two spellings of the same patient in
// one extract are kept as separate entries and only surface later during
// identity resolution.
func (p PatientIdentity) RawKey() string {
	return p.PatientName + "|" + p.DateOfBirth
}

// MasterList is the on-disk identity store document.
type MasterList struct {
	LastUpdated   string            `json:"last_updated"`
	TotalPatients int               `json:"total_patients"`
	Patients      []PatientIdentity `json:"patients"`
}
