package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"medical-office/internal/domain/patients"
)

type PatientsRepo struct {
	db *sql.DB
}

func NewPatientsRepo(db *sql.DB) *PatientsRepo {
	return &PatientsRepo{db: db}
}

const patientColumns = `
	id, owner_id,
	first_name, last_name, date_of_birth, gender,
	address, phone, blood_type, allergies, emergency_contact,
	created_at, updated_at`

func (r *PatientsRepo) Create(ctx context.Context, p patients.Patient) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patients (
			id, owner_id,
			first_name, last_name, date_of_birth, gender,
			address, phone, blood_type, allergies, emergency_contact,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		p.ID,
		p.OwnerID,
		p.FirstName,
		p.LastName,
		p.DateOfBirth,
		string(p.Gender),
		p.Address,
		p.Phone,
		p.BloodType,
		p.Allergies,
		p.EmergencyContact,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

// GetOwned filtra por id + owner en el WHERE: ajeno e inexistente devuelven
// el mismo ErrNotFound.
func (r *PatientsRepo) GetOwned(ctx context.Context, id, ownerID string) (patients.Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return patients.Patient{}, patients.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID)

	p, err := scanPatient(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return patients.Patient{}, patients.ErrNotFound
		}
		return patients.Patient{}, err
	}
	return p, nil
}

func (r *PatientsRepo) ListByOwner(ctx context.Context, ownerID string) ([]patients.Patient, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]patients.Patient, 0)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func (r *PatientsRepo) Update(ctx context.Context, p patients.Patient) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE patients
		SET
			first_name = $3,
			last_name = $4,
			date_of_birth = $5,
			gender = $6,
			address = $7,
			phone = $8,
			blood_type = $9,
			allergies = $10,
			emergency_contact = $11,
			updated_at = $12
		WHERE id = $1 AND owner_id = $2
	`,
		p.ID,
		p.OwnerID,
		p.FirstName,
		p.LastName,
		p.DateOfBirth,
		string(p.Gender),
		p.Address,
		p.Phone,
		p.BloodType,
		p.Allergies,
		p.EmergencyContact,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return patients.ErrNotFound
	}
	return nil
}

// Delete borra solo la fila del paciente; citas e historiales caen por
// ON DELETE CASCADE del schema.
func (r *PatientsRepo) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM patients WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return patients.ErrNotFound
	}
	return nil
}

func (r *PatientsRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM patients WHERE owner_id = $1
	`, ownerID).Scan(&n)
	return n, err
}

func (r *PatientsRepo) CountCreatedBetween(ctx context.Context, ownerID string, from, to time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM patients
		WHERE owner_id = $1 AND created_at >= $2 AND created_at <= $3
	`, ownerID, from, to).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (patients.Patient, error) {
	var p patients.Patient
	var gender string
	if err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.FirstName,
		&p.LastName,
		&p.DateOfBirth,
		&gender,
		&p.Address,
		&p.Phone,
		&p.BloodType,
		&p.Allergies,
		&p.EmergencyContact,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return patients.Patient{}, err
	}
	p.Gender = patients.Gender(gender)
	return p, nil
}
