package patients

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"medical-office/internal/middleware"

	"github.com/go-chi/chi/v5"
)

const msgPatientNotFound = "Patient non trouvé ou vous n'avez pas accès à ce patient"

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/patients", func(pr chi.Router) {
		pr.Get("/", listPatientsHandler(svc))
		pr.Post("/", createPatientHandler(svc))
		pr.Get("/{patientID}", getPatientHandler(svc))
		pr.Put("/{patientID}", updatePatientHandler(svc))
		pr.Delete("/{patientID}", deletePatientHandler(svc))
	})
}

type createPatientRequest struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	DateOfBirth      string `json:"dateOfBirth"` // YYYY-MM-DD
	Gender           string `json:"gender"`
	Address          string `json:"address"`
	Phone            string `json:"phone"`
	BloodType        string `json:"bloodType"`
	Allergies        string `json:"allergies"`
	EmergencyContact string `json:"emergencyContact"`
}

type updatePatientRequest struct {
	FirstName        *string `json:"firstName"`
	LastName         *string `json:"lastName"`
	DateOfBirth      *string `json:"dateOfBirth"`
	Gender           *string `json:"gender"`
	Address          *string `json:"address"`
	Phone            *string `json:"phone"`
	BloodType        *string `json:"bloodType"`
	Allergies        *string `json:"allergies"`
	EmergencyContact *string `json:"emergencyContact"`
}

type patientResponse struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"doctorId"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	DateOfBirth      string    `json:"dateOfBirth"`
	Gender           string    `json:"gender"`
	Address          string    `json:"address,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	BloodType        string    `json:"bloodType,omitempty"`
	Allergies        string    `json:"allergies,omitempty"`
	EmergencyContact string    `json:"emergencyContact,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func createPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token d'authentification manquant"})
			return
		}

		var req createPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			FirstName:        req.FirstName,
			LastName:         req.LastName,
			DateOfBirth:      req.DateOfBirth,
			Gender:           req.Gender,
			Address:          req.Address,
			Phone:            req.Phone,
			BloodType:        req.BloodType,
			Allergies:        req.Allergies,
			EmergencyContact: req.EmergencyContact,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPatientResponse(p))
	}
}

func listPatientsHandler(svc *Service) http.HandlerFunc {
	// Cada médico ve únicamente SUS pacientes.
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

		out := make([]patientResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPatientResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token d'authentification manquant"})
			return
		}

		p, err := svc.GetOwned(r.Context(), chi.URLParam(r, "patientID"), claims.UserID)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": msgPatientNotFound})
			return
		}

		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

func updatePatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token d'authentification manquant"})
			return
		}

		var req updatePatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "patientID"), claims.UserID, UpdateInput{
			FirstName:        req.FirstName,
			LastName:         req.LastName,
			DateOfBirth:      req.DateOfBirth,
			Gender:           req.Gender,
			Address:          req.Address,
			Phone:            req.Phone,
			BloodType:        req.BloodType,
			Allergies:        req.Allergies,
			EmergencyContact: req.EmergencyContact,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

func deletePatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token d'authentification manquant"})
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "patientID"), claims.UserID); err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Patient deleted"})
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error()})
	case errors.Is(err, ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": msgPatientNotFound})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func toPatientResponse(p Patient) patientResponse {
	return patientResponse{
		ID:               p.ID,
		OwnerID:          p.OwnerID,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		DateOfBirth:      p.DateOfBirth.Format("2006-01-02"),
		Gender:           string(p.Gender),
		Address:          p.Address,
		Phone:            p.Phone,
		BloodType:        p.BloodType,
		Allergies:        p.Allergies,
		EmergencyContact: p.EmergencyContact,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
