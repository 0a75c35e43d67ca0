package records

import "time"

// MedicalRecord es la entrada de historial de una visita.
// OwnerID es el médico que la escribió; PatientID el sujeto.
type MedicalRecord struct {
	ID        string
	PatientID string
	OwnerID   string

	Diagnosis    string
	Prescription string
	Notes        string
	VisitDate    time.Time

	CreatedAt time.Time
}
