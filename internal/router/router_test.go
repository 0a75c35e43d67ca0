package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medical-office/internal/adapters/auth/jwtauth"

	"github.com/rs/zerolog"
)

// -------------------------
// Arnés de prueba: router completo sobre repos in-memory.
// -------------------------

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	key := []byte("router-test-key")
	issuer, err := jwtauth.NewIssuer(key, time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	verifier, err := jwtauth.NewVerifier(key)
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}

	srv := httptest.NewServer(NewRouter(Options{
		Issuer:   issuer,
		Verifier: verifier,
		Logger:   zerolog.Nop(),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func doJSONList(t *testing.T, url, token string) (*http.Response, []map[string]any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	var out []map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

// registerAndLogin crea la cuenta y devuelve el token de sesión.
func registerAndLogin(t *testing.T, srv *httptest.Server, email, role string) string {
	t.Helper()

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]string{
		"username": email,
		"email":    email,
		"password": "secret123",
		"fullName": "Dr " + email,
		"role":     role,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d", email, resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", email, resp.StatusCode)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("login %s: no token in %v", email, body)
	}
	return token
}

func createPatient(t *testing.T, srv *httptest.Server, token, firstName string) string {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/patients", token, map[string]string{
		"firstName":   firstName,
		"lastName":    "Martin",
		"dateOfBirth": "1985-03-15",
		"gender":      "F",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create patient: status %d body %v", resp.StatusCode, body)
	}
	id, _ := body["id"].(string)
	if id == "" {
		t.Fatalf("create patient: no id in %v", body)
	}
	return id
}

// -------------------------
// Tests
// -------------------------

func TestRouter_HealthAndBanner(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("banner: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("banner status %d", resp.StatusCode)
	}
}

func TestRouter_TokenGate(t *testing.T) {
	srv := newTestServer(t)

	// Sin token: 401 con el mensaje esperado por el front.
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/patients", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: status %d", resp.StatusCode)
	}
	if body["error"] != "Token d'authentification manquant" {
		t.Fatalf("no token message: %v", body["error"])
	}

	// Token basura: 403.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/patients", "not-a-jwt", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("bad token: status %d", resp.StatusCode)
	}
	if body["error"] != "Token invalide ou expiré" {
		t.Fatalf("bad token message: %v", body["error"])
	}
}

func TestRouter_RoleGate(t *testing.T) {
	srv := newTestServer(t)

	// Cuenta con rol patient: autenticada pero sin acceso al área clínica.
	token := registerAndLogin(t, srv, "patient@example.com", "patient")

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/patients", token, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("patient role: status %d", resp.StatusCode)
	}
	if body["error"] != "Accès refusé. Rôles autorisés : admin, doctor" {
		t.Fatalf("role gate message: %v", body["error"])
	}
	if body["userRole"] != "patient" {
		t.Fatalf("userRole = %v", body["userRole"])
	}
}

func TestRouter_PatientsScopedByDoctor(t *testing.T) {
	srv := newTestServer(t)

	tokenA := registerAndLogin(t, srv, "doca@example.com", "doctor")
	tokenB := registerAndLogin(t, srv, "docb@example.com", "doctor")

	patientID := createPatient(t, srv, tokenA, "Claire")

	// El dueño lo lee.
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/patients/"+patientID, tokenA, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner read: status %d", resp.StatusCode)
	}
	if body["firstName"] != "Claire" {
		t.Fatalf("owner read body: %v", body)
	}

	// Otro médico ve 404, nunca 403: el id no debe filtrar existencia.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/patients/"+patientID, tokenB, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign read: status %d", resp.StatusCode)
	}
	if body["error"] != "Patient non trouvé ou vous n'avez pas accès à ce patient" {
		t.Fatalf("foreign read message: %v", body["error"])
	}

	// Tampoco aparece en su listado.
	resp, list := doJSONList(t, srv.URL+"/patients", tokenB)
	if resp.StatusCode != http.StatusOK || len(list) != 0 {
		t.Fatalf("foreign list: status %d, %d items", resp.StatusCode, len(list))
	}

	// Ni puede borrarlo.
	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/patients/"+patientID, tokenB, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign delete: status %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/patients/"+patientID, tokenA, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatal("patient lost after rejected foreign delete")
	}
}

func TestRouter_PatientValidationMessage(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "doc@example.com", "doctor")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/patients", token, map[string]string{
		"firstName": "Claire",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if body["error"] != "Les champs lastName, dateOfBirth, gender sont obligatoires" {
		t.Fatalf("validation message: %v", body["error"])
	}
}

func TestRouter_AppointmentLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "doc@example.com", "doctor")
	patientID := createPatient(t, srv, token, "Claire")

	date := time.Now().Add(2 * time.Hour).Format(time.RFC3339)
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/appointments", token, map[string]string{
		"patientId": patientID,
		"date":      date,
		"reason":    "consultation",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create appointment: status %d body %v", resp.StatusCode, body)
	}
	// Las citas nacen confirmadas.
	if body["status"] != "confirmed" {
		t.Fatalf("status on creation = %v", body["status"])
	}
	apptID, _ := body["id"].(string)
	statusURL := fmt.Sprintf("%s/appointments/%s/status", srv.URL, apptID)

	// confirmed -> completed.
	resp, body = doJSON(t, http.MethodPut, statusURL, token, map[string]string{"status": "completed"})
	if resp.StatusCode != http.StatusOK || body["status"] != "completed" {
		t.Fatalf("complete: status %d body %v", resp.StatusCode, body)
	}

	// Repetir el mismo estado es un no-op exitoso.
	resp, body = doJSON(t, http.MethodPut, statusURL, token, map[string]string{"status": "completed"})
	if resp.StatusCode != http.StatusOK || body["status"] != "completed" {
		t.Fatalf("idempotent complete: status %d body %v", resp.StatusCode, body)
	}

	// completed es terminal: cancelarlo se rechaza.
	resp, body = doJSON(t, http.MethodPut, statusURL, token, map[string]string{"status": "cancelled"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("terminal exit: status %d", resp.StatusCode)
	}
	if body["error"] != "Transition de statut non autorisée" {
		t.Fatalf("terminal exit message: %v", body["error"])
	}

	// Estado fuera del enum.
	resp, body = doJSON(t, http.MethodPut, statusURL, token, map[string]string{"status": "archived"})
	if resp.StatusCode != http.StatusBadRequest || body["error"] != "Statut invalide" {
		t.Fatalf("bad status: %d %v", resp.StatusCode, body)
	}

	// Cita inexistente.
	resp, body = doJSON(t, http.MethodPut, srv.URL+"/appointments/nope/status", token, map[string]string{"status": "cancelled"})
	if resp.StatusCode != http.StatusNotFound || body["error"] != "Rendez-vous non trouvé" {
		t.Fatalf("missing appointment: %d %v", resp.StatusCode, body)
	}
}

func TestRouter_AppointmentRequiresOwnedPatient(t *testing.T) {
	srv := newTestServer(t)
	tokenA := registerAndLogin(t, srv, "doca@example.com", "doctor")
	tokenB := registerAndLogin(t, srv, "docb@example.com", "doctor")

	patientID := createPatient(t, srv, tokenA, "Claire")

	// B no puede agendar sobre el paciente de A.
	date := time.Now().Add(2 * time.Hour).Format(time.RFC3339)
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/appointments", tokenB, map[string]string{
		"patientId": patientID,
		"date":      date,
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign patient: status %d", resp.StatusCode)
	}
	if body["error"] != "Patient non trouvé ou vous n'avez pas accès à ce patient" {
		t.Fatalf("foreign patient message: %v", body["error"])
	}
}

func TestRouter_DashboardStatsIsolatedPerDoctor(t *testing.T) {
	srv := newTestServer(t)
	tokenA := registerAndLogin(t, srv, "doca@example.com", "doctor")
	tokenB := registerAndLogin(t, srv, "docb@example.com", "doctor")

	patientID := createPatient(t, srv, tokenA, "Claire")

	date := time.Now().Add(1 * time.Hour).Format(time.RFC3339)
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/appointments", tokenA, map[string]string{
		"patientId": patientID,
		"date":      date,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create appointment: status %d", resp.StatusCode)
	}

	resp, statsA := doJSON(t, http.MethodGet, srv.URL+"/dashboard/stats", tokenA, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats A: status %d", resp.StatusCode)
	}
	if statsA["patients"] != float64(1) || statsA["todayAppointments"] != float64(1) {
		t.Fatalf("stats A: %v", statsA)
	}
	// doctors es el conteo global de cuentas clínicas, no por dueño.
	if statsA["doctors"] != float64(2) {
		t.Fatalf("doctors = %v, want 2", statsA["doctors"])
	}

	resp, statsB := doJSON(t, http.MethodGet, srv.URL+"/dashboard/stats", tokenB, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats B: status %d", resp.StatusCode)
	}
	if statsB["patients"] != float64(0) || statsB["todayAppointments"] != float64(0) {
		t.Fatalf("stats B sees foreign data: %v", statsB)
	}
}

func TestRouter_CascadeDeleteRemovesChildren(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "doc@example.com", "doctor")
	patientID := createPatient(t, srv, token, "Claire")

	date := time.Now().Add(1 * time.Hour).Format(time.RFC3339)
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/appointments", token, map[string]string{
		"patientId": patientID,
		"date":      date,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create appointment: status %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/medical-records", token, map[string]string{
		"patientId": patientID,
		"diagnosis": "angine",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create record: status %d", resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodDelete, srv.URL+"/patients/"+patientID, token, nil)
	if resp.StatusCode != http.StatusOK || body["message"] != "Patient deleted" {
		t.Fatalf("delete: %d %v", resp.StatusCode, body)
	}

	resp, appts := doJSONList(t, srv.URL+"/appointments", token)
	if resp.StatusCode != http.StatusOK || len(appts) != 0 {
		t.Fatalf("appointments survived cascade: %d items", len(appts))
	}
	resp, recs := doJSONList(t, srv.URL+"/medical-records", token)
	if resp.StatusCode != http.StatusOK || len(recs) != 0 {
		t.Fatalf("records survived cascade: %d items", len(recs))
	}
}
