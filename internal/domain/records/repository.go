package records

import "context"

type Repository interface {
	Create(ctx context.Context, rec MedicalRecord) error
	ListByOwner(ctx context.Context, ownerID string) ([]MedicalRecord, error) // visit_date DESC
	ListByPatient(ctx context.Context, patientID string) ([]MedicalRecord, error)
	DeleteByPatient(ctx context.Context, patientID string) error
}
