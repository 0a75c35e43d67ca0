package patients

import "time"

// Gender define los valores soportados.
// @Enum M, F, Other
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "Other"
)

// Patient es un recurso con dueño único: OwnerID referencia al médico que lo
// creó y se estampa siempre desde la identidad autenticada, nunca del payload.
type Patient struct {
	ID      string
	OwnerID string

	FirstName   string
	LastName    string
	DateOfBirth time.Time // solo fecha, medianoche local
	Gender      Gender

	Address          string
	Phone            string
	BloodType        string
	Allergies        string
	EmergencyContact string

	CreatedAt time.Time
	UpdatedAt time.Time
}
