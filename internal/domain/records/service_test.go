package records

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testRepo struct {
	byID map[string]MedicalRecord
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]MedicalRecord{}}
}

func (r *testRepo) Create(ctx context.Context, rec MedicalRecord) error {
	r.byID[rec.ID] = rec
	return nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerID string) ([]MedicalRecord, error) {
	out := make([]MedicalRecord, 0)
	for _, rec := range r.byID {
		if rec.OwnerID == ownerID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *testRepo) ListByPatient(ctx context.Context, patientID string) ([]MedicalRecord, error) {
	out := make([]MedicalRecord, 0)
	for _, rec := range r.byID {
		if rec.PatientID == patientID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *testRepo) DeleteByPatient(ctx context.Context, patientID string) error {
	for id, rec := range r.byID {
		if rec.PatientID == patientID {
			delete(r.byID, id)
		}
	}
	return nil
}

func TestService_Create_DefaultsVisitDateToNow(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	rec, err := svc.Create(context.Background(), "doc-1", CreateInput{
		PatientID: "pat-1",
		Diagnosis: "angine",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.VisitDate != now {
		t.Fatalf("visit date = %v, want injected now", rec.VisitDate)
	}
	if rec.OwnerID != "doc-1" {
		t.Fatalf("owner not stamped: %q", rec.OwnerID)
	}
}

func TestService_Create_KeepsExplicitVisitDate(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	visit := time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)
	rec, err := svc.Create(context.Background(), "doc-1", CreateInput{
		PatientID: "pat-1",
		Diagnosis: "angine",
		VisitDate: &visit,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.VisitDate != visit {
		t.Fatalf("visit date = %v, want %v", rec.VisitDate, visit)
	}
}

func TestService_Create_RequiresPatientAndDiagnosis(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), "doc-1", CreateInput{Diagnosis: "angine"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing patient: %v", err)
	}

	_, err = svc.Create(context.Background(), "doc-1", CreateInput{PatientID: "pat-1"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing diagnosis: %v", err)
	}
}
