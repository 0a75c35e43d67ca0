package patients

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Patient
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Patient{}}
}

func (r *testRepo) Create(ctx context.Context, p Patient) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetOwned(ctx context.Context, id, ownerID string) (Patient, error) {
	p, ok := r.byID[id]
	if !ok || p.OwnerID != ownerID {
		return Patient{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerID string) ([]Patient, error) {
	out := make([]Patient, 0)
	for _, p := range r.byID {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, p Patient) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id, ownerID string) error {
	p, ok := r.byID[id]
	if !ok || p.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) { return 0, nil }
func (r *testRepo) CountCreatedBetween(ctx context.Context, ownerID string, from, to time.Time) (int, error) {
	return 0, nil
}

// childLog registra las cascadas recibidas.
type childLog struct {
	deleted []string
}

func (c *childLog) DeleteByPatient(ctx context.Context, patientID string) error {
	c.deleted = append(c.deleted, patientID)
	return nil
}

// -------------------------
// Tests
// -------------------------

func validInput() CreateInput {
	return CreateInput{
		FirstName:   "Marie",
		LastName:    "Curie",
		DateOfBirth: "1980-11-07",
		Gender:      "F",
		Phone:       "0600000000",
	}
}

func TestService_Create_StampsOwnerAndParsesDOB(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p, err := svc.Create(context.Background(), "doc-1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" {
		t.Fatal("no id assigned")
	}
	if p.OwnerID != "doc-1" {
		t.Fatalf("owner = %q, want doc-1", p.OwnerID)
	}
	if p.DateOfBirth != time.Date(1980, 11, 7, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("dob = %v", p.DateOfBirth)
	}
	if p.CreatedAt != now || p.UpdatedAt != now {
		t.Fatal("timestamps not from injected clock")
	}
}

func TestService_Create_ListsAllMissingFields(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), "doc-1", CreateInput{
		FirstName: "Marie",
		Gender:    "F",
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	// Todos los ausentes en una sola pasada, en orden de declaración.
	if len(verr.Fields) != 2 || verr.Fields[0] != "lastName" || verr.Fields[1] != "dateOfBirth" {
		t.Fatalf("fields = %v", verr.Fields)
	}
	if verr.Error() != "Les champs lastName, dateOfBirth sont obligatoires" {
		t.Fatalf("message = %q", verr.Error())
	}
}

func TestService_Create_RejectsBadDateFormat(t *testing.T) {
	svc := NewService(newTestRepo())

	in := validInput()
	in.DateOfBirth = "07/11/1980"
	if _, err := svc.Create(context.Background(), "doc-1", in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_GetOwned_ForeignOwnerIsNotFound(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), "doc-1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.GetOwned(context.Background(), p.ID, "doc-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign owner should read as not found, got %v", err)
	}
	if _, err := svc.GetOwned(context.Background(), p.ID, "doc-1"); err != nil {
		t.Fatalf("owner read: %v", err)
	}
}

func TestService_Update_PartialKeepsOtherFields(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), "doc-1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	phone := "0700000000"
	updated, err := svc.Update(context.Background(), p.ID, "doc-1", UpdateInput{Phone: &phone})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Phone != phone {
		t.Fatalf("phone = %q", updated.Phone)
	}
	if updated.FirstName != "Marie" || updated.LastName != "Curie" {
		t.Fatalf("untouched fields mutated: %+v", updated)
	}
}

func TestService_Update_EmptyRequiredFieldRejected(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), "doc-1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	empty := "  "
	_, err = svc.Update(context.Background(), p.ID, "doc-1", UpdateInput{FirstName: &empty})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestService_Delete_CascadesChildren(t *testing.T) {
	repo := newTestRepo()
	appts := &childLog{}
	records := &childLog{}
	svc := NewService(repo, appts, records)

	p, err := svc.Create(context.Background(), "doc-1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), p.ID, "doc-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if len(appts.deleted) != 1 || appts.deleted[0] != p.ID {
		t.Fatalf("appointments cascade = %v", appts.deleted)
	}
	if len(records.deleted) != 1 || records.deleted[0] != p.ID {
		t.Fatalf("records cascade = %v", records.deleted)
	}
	if _, err := svc.GetOwned(context.Background(), p.ID, "doc-1"); !errors.Is(err, ErrNotFound) {
		t.Fatal("patient still readable after delete")
	}
}

func TestService_Delete_ForeignOwnerTouchesNothing(t *testing.T) {
	repo := newTestRepo()
	appts := &childLog{}
	svc := NewService(repo, appts)

	p, err := svc.Create(context.Background(), "doc-1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), p.ID, "doc-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(appts.deleted) != 0 {
		t.Fatal("cascade ran for a foreign owner")
	}
	if _, err := svc.GetOwned(context.Background(), p.ID, "doc-1"); err != nil {
		t.Fatal("patient lost on rejected delete")
	}
}
