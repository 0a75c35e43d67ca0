package postgres

import (
	"context"
	"database/sql"

	"medical-office/internal/domain/records"
)

type RecordsRepo struct {
	db *sql.DB
}

func NewRecordsRepo(db *sql.DB) *RecordsRepo {
	return &RecordsRepo{db: db}
}

func (r *RecordsRepo) Create(ctx context.Context, rec records.MedicalRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medical_records (
			id, patient_id, owner_id, diagnosis, prescription, notes, visit_date, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		rec.ID,
		rec.PatientID,
		rec.OwnerID,
		rec.Diagnosis,
		rec.Prescription,
		rec.Notes,
		rec.VisitDate,
		rec.CreatedAt,
	)
	return err
}

func (r *RecordsRepo) ListByOwner(ctx context.Context, ownerID string) ([]records.MedicalRecord, error) {
	return r.list(ctx, `
		SELECT id, patient_id, owner_id, diagnosis, prescription, notes, visit_date, created_at
		FROM medical_records
		WHERE owner_id = $1
		ORDER BY visit_date DESC
	`, ownerID)
}

func (r *RecordsRepo) ListByPatient(ctx context.Context, patientID string) ([]records.MedicalRecord, error) {
	return r.list(ctx, `
		SELECT id, patient_id, owner_id, diagnosis, prescription, notes, visit_date, created_at
		FROM medical_records
		WHERE patient_id = $1
		ORDER BY visit_date DESC
	`, patientID)
}

func (r *RecordsRepo) DeleteByPatient(ctx context.Context, patientID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM medical_records WHERE patient_id = $1
	`, patientID)
	return err
}

func (r *RecordsRepo) list(ctx context.Context, query, arg string) ([]records.MedicalRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]records.MedicalRecord, 0)
	for rows.Next() {
		var rec records.MedicalRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.PatientID,
			&rec.OwnerID,
			&rec.Diagnosis,
			&rec.Prescription,
			&rec.Notes,
			&rec.VisitDate,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	return out, rows.Err()
}
