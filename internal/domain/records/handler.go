package records

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"medical-office/internal/domain/patients"
	"medical-office/internal/middleware"

	"github.com/go-chi/chi/v5"
)

const msgPatientNotFound = "Patient non trouvé ou vous n'avez pas accès à ce patient"

func RegisterRoutes(r chi.Router, svc *Service, patientsSvc *patients.Service) {
	r.Route("/medical-records", func(mr chi.Router) {
		mr.Post("/", createRecordHandler(svc, patientsSvc))
		mr.Get("/", listRecordsHandler(svc, patientsSvc))
		mr.Get("/patient/{patientID}", patientHistoryHandler(svc, patientsSvc))
	})
}

type createRecordRequest struct {
	PatientID    string `json:"patientId"`
	Diagnosis    string `json:"diagnosis"`
	Prescription string `json:"prescription"`
	Notes        string `json:"notes"`
	VisitDate    string `json:"visitDate"` // ISO 8601, opcional
}

type patientSummary struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type recordResponse struct {
	ID           string          `json:"id"`
	PatientID    string          `json:"patientId"`
	OwnerID      string          `json:"doctorId"`
	Diagnosis    string          `json:"diagnosis"`
	Prescription string          `json:"prescription,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	VisitDate    time.Time       `json:"visitDate"`
	CreatedAt    time.Time       `json:"createdAt"`
	Patient      *patientSummary `json:"patient,omitempty"`
}

func createRecordHandler(svc *Service, patientsSvc *patients.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token d'authentification manquant"})
			return
		}

		var req createRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}

		var visit *time.Time
		if strings.TrimSpace(req.VisitDate) != "" {
			t, err := time.Parse(time.RFC3339, strings.TrimSpace(req.VisitDate))
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "visitDate must be ISO 8601"})
				return
			}
			visit = &t
		}

		// El sujeto debe ser un paciente del médico autenticado.
		if _, err := patientsSvc.GetOwned(r.Context(), req.PatientID, claims.UserID); err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": msgPatientNotFound})
			return
		}

		rec, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			PatientID:    req.PatientID,
			Diagnosis:    req.Diagnosis,
			Prescription: req.Prescription,
			Notes:        req.Notes,
			VisitDate:    visit,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		writeJSON(w, http.StatusCreated, toRecordResponse(rec))
	}
}

func listRecordsHandler(svc *Service, patientsSvc *patients.Service) http.HandlerFunc {
	// Todos los historiales del médico, visita más reciente primero.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token d'authentification manquant"})
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		names := map[string]patientSummary{}
		if pts, err := patientsSvc.ListByOwner(r.Context(), claims.UserID); err == nil {
			for _, p := range pts {
				names[p.ID] = patientSummary{FirstName: p.FirstName, LastName: p.LastName}
			}
		}

		out := make([]recordResponse, 0, len(items))
		for _, rec := range items {
			resp := toRecordResponse(rec)
			if ps, ok := names[rec.PatientID]; ok {
				ps := ps
				resp.Patient = &ps
			}
			out = append(out, resp)
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func patientHistoryHandler(svc *Service, patientsSvc *patients.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token d'authentification manquant"})
			return
		}

		patientID := chi.URLParam(r, "patientID")

		// Gate de dueño primero; el historial de un paciente ajeno es 404.
		if _, err := patientsSvc.GetOwned(r.Context(), patientID, claims.UserID); err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": msgPatientNotFound})
			return
		}

		items, err := svc.ListByPatient(r.Context(), patientID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		out := make([]recordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toRecordResponse(rec))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toRecordResponse(rec MedicalRecord) recordResponse {
	return recordResponse{
		ID:           rec.ID,
		PatientID:    rec.PatientID,
		OwnerID:      rec.OwnerID,
		Diagnosis:    rec.Diagnosis,
		Prescription: rec.Prescription,
		Notes:        rec.Notes,
		VisitDate:    rec.VisitDate,
		CreatedAt:    rec.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
