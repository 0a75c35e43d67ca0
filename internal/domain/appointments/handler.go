package appointments

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

const (
	msgAppointmentNotFound = "Rendez-vous non trouvé"
	msgPatientNotFound     = "Patient non trouvé ou vous n'avez pas accès à ce patient"
)

func RegisterRoutes(r chi.Router, svc *Service, patientsSvc *patients.Service) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Get("/", listAppointmentsHandler(svc, patientsSvc))
		ar.Post("/", createAppointmentHandler(svc, patientsSvc))
		ar.Put("/{appointmentID}/status", setStatusHandler(svc))
	})
}

type createAppointmentRequest struct {
	PatientID string `json:"patientId"`
	Date      string `json:"date"` // ISO 8601
	Reason    string `json:"reason"`
	Notes     string `json:"notes"`
}

type setStatusRequest struct {
	Status string `json:"status"`
}

type patientSummary struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type appointmentResponse struct {
	ID        string          `json:"id"`
	PatientID string          `json:"patientId"`
	OwnerID   string          `json:"doctorId"`
	Date      time.Time       `json:"date"`
	Status    string          `json:"status"`
	Reason    string          `json:"reason,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	Patient   *patientSummary `json:"patient,omitempty"`
}

func createAppointmentHandler(svc *Service, patientsSvc *patients.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token d'authentification manquant"})
			return
		}

		var req createAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}

		date, err := time.Parse(time.RFC3339, strings.TrimSpace(req.Date))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be ISO 8601"})
			return
		}

		// Gate de dueño sobre el paciente referenciado: ajeno == inexistente.
		p, err := patientsSvc.GetOwned(r.Context(), req.PatientID, claims.UserID)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": msgPatientNotFound})
			return
		}

		a, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			PatientID: p.ID,
			Date:      date,
			Reason:    req.Reason,
			Notes:     req.Notes,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		resp := toAppointmentResponse(a)
		resp.Patient = &patientSummary{FirstName: p.FirstName, LastName: p.LastName}
		writeJSON(w, http.StatusCreated, resp)
	}
}

func listAppointmentsHandler(svc *Service, patientsSvc *patients.Service) http.HandlerFunc {
	// Scoped al médico, orden por fecha ascendente.
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

		// Resolución de nombres en una pasada, sin N+1 contra el repo.
		names := map[string]patientSummary{}
		if pts, err := patientsSvc.ListByOwner(r.Context(), claims.UserID); err == nil {
			for _, p := range pts {
				names[p.ID] = patientSummary{FirstName: p.FirstName, LastName: p.LastName}
			}
		}

		out := make([]appointmentResponse, 0, len(items))
		for _, a := range items {
			resp := toAppointmentResponse(a)
			if ps, ok := names[a.PatientID]; ok {
				ps := ps
				resp.Patient = &ps
			}
			out = append(out, resp)
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func setStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token d'authentification manquant"})
			return
		}

		var req setStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}

		status, ok := ParseStatus(strings.TrimSpace(req.Status))
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Statut invalide"})
			return
		}

		a, err := svc.SetStatus(r.Context(), chi.URLParam(r, "appointmentID"), claims.UserID, status)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				writeJSON(w, http.StatusNotFound, map[string]string{"error": msgAppointmentNotFound})
			case errors.Is(err, ErrTerminalStatus), errors.Is(err, ErrInvalidTransition):
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Transition de statut non autorisée"})
			default:
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			}
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	return appointmentResponse{
		ID:        a.ID,
		PatientID: a.PatientID,
		OwnerID:   a.OwnerID,
		Date:      a.Date,
		Status:    string(a.Status),
		Reason:    a.Reason,
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
