package reminder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medora/medora/internal/platform/auth"
)

func newTestRouter(svc *Service) *echo.Echo {
	e := echo.New()
	api := e.Group("/api", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := auth.WithPrincipal(c.Request().Context(), auth.Principal{UserID: "u1", Role: "patient"})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})
	NewHandler(svc).RegisterRoutes(api)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCreate(t *testing.T) {
	svc := newTestService(newMockRepo(), nil)
	e := newTestRouter(svc)
	patientID := uuid.New()

	rec := doJSON(t, e, http.MethodPost, "/api/reminders",
		`{"patient_id":"`+patientID.String()+`","label":"Metformin","scheduled_times":["08:00","20:00"],"frequency":"twice daily"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var r Reminder
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatal(err)
	}
	if r.PatientID != patientID || !r.Active || !r.Source.IsCustom() {
		t.Errorf("created = %+v", r)
	}
}

func TestHandlerCreateValidationIs400(t *testing.T) {
	svc := newTestService(newMockRepo(), nil)
	e := newTestRouter(svc)

	rec := doJSON(t, e, http.MethodPost, "/api/reminders",
		`{"patient_id":"`+uuid.NewString()+`","label":"","scheduled_times":["08:00"],"frequency":"once daily"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerCreateUnknownPrescriptionIs404(t *testing.T) {
	dir := &mockDirectory{owners: map[uuid.UUID]uuid.UUID{}}
	svc := newTestService(newMockRepo(), dir)
	e := newTestRouter(svc)

	rec := doJSON(t, e, http.MethodPost, "/api/reminders",
		`{"patient_id":"`+uuid.NewString()+`","prescription_id":"`+uuid.NewString()+`","label":"Lisinopril","scheduled_times":["09:00"],"frequency":"once daily"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerCreateForeignPrescriptionIs403(t *testing.T) {
	rx := uuid.New()
	dir := &mockDirectory{owners: map[uuid.UUID]uuid.UUID{rx: uuid.New()}}
	svc := newTestService(newMockRepo(), dir)
	e := newTestRouter(svc)

	rec := doJSON(t, e, http.MethodPost, "/api/reminders",
		`{"patient_id":"`+uuid.NewString()+`","prescription_id":"`+rx.String()+`","label":"Lisinopril","scheduled_times":["09:00"],"frequency":"once daily"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestHandlerCreateCustomSentinel(t *testing.T) {
	// The portal sends prescription_id "custom" for free-form reminders.
	svc := newTestService(newMockRepo(), nil)
	e := newTestRouter(svc)

	rec := doJSON(t, e, http.MethodPost, "/api/reminders",
		`{"patient_id":"`+uuid.NewString()+`","prescription_id":"custom","label":"Walk","scheduled_times":["18:00"],"frequency":"once daily","category":"exercise"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var r Reminder
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatal(err)
	}
	if !r.Source.IsCustom() {
		t.Errorf("source = %+v, want custom", r.Source)
	}
}

func TestHandlerListByPatient(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, nil)
	e := newTestRouter(svc)
	patientID := uuid.New()

	r, err := svc.Create(context.Background(), validDraft(patientID))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ToggleActive(context.Background(), r.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(context.Background(), validDraft(patientID)); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, e, http.MethodGet, "/api/reminders/patient/"+patientID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var all []*Reminder
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("unfiltered list has %d items, want 2", len(all))
	}

	rec = doJSON(t, e, http.MethodGet, "/api/reminders/patient/"+patientID.String()+"?active=true", "")
	var active []*Reminder
	if err := json.Unmarshal(rec.Body.Bytes(), &active); err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 {
		t.Errorf("active list has %d items, want 1", len(active))
	}
}

func TestHandlerToday(t *testing.T) {
	svc := newTestService(newMockRepo(), nil)
	e := newTestRouter(svc)
	patientID := uuid.New()

	if _, err := svc.Create(context.Background(), validDraft(patientID)); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, e, http.MethodGet, "/api/reminders/today/"+patientID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var sched DaySchedule
	if err := json.Unmarshal(rec.Body.Bytes(), &sched); err != nil {
		t.Fatal(err)
	}
	if sched.Date != "2026-03-10" {
		t.Errorf("date = %q", sched.Date)
	}
	if len(sched.Due) != 1 || len(sched.Upcoming) != 1 {
		t.Errorf("due=%d upcoming=%d, want 1 and 1", len(sched.Due), len(sched.Upcoming))
	}
}

func TestHandlerMarkDone(t *testing.T) {
	svc := newTestService(newMockRepo(), nil)
	e := newTestRouter(svc)

	r, err := svc.Create(context.Background(), validDraft(uuid.New()))
	if err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, e, http.MethodPatch, "/api/reminders/"+r.ID.String()+"/done", `{"time":"08:00"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got Reminder
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if !got.CompletionFor("2026-03-10").Has("08:00") {
		t.Errorf("completion log = %+v", got.CompletionLog)
	}

	rec = doJSON(t, e, http.MethodPatch, "/api/reminders/"+r.ID.String()+"/done", `{"time":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty time: status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, e, http.MethodPatch, "/api/reminders/"+uuid.NewString()+"/done", `{"time":"08:00"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown reminder: status = %d, want 404", rec.Code)
	}
}

func TestHandlerToggleAndDelete(t *testing.T) {
	svc := newTestService(newMockRepo(), nil)
	e := newTestRouter(svc)

	r, err := svc.Create(context.Background(), validDraft(uuid.New()))
	if err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, e, http.MethodPatch, "/api/reminders/"+r.ID.String()+"/toggle", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", rec.Code)
	}
	var got Reminder
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Active {
		t.Error("toggle should have deactivated")
	}

	rec = doJSON(t, e, http.MethodDelete, "/api/reminders/"+r.ID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, e, http.MethodDelete, "/api/reminders/"+r.ID.String(), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestHandlerRejectsMalformedIDs(t *testing.T) {
	svc := newTestService(newMockRepo(), nil)
	e := newTestRouter(svc)

	for _, path := range []string{
		"/api/reminders/patient/not-a-uuid",
		"/api/reminders/today/not-a-uuid",
	} {
		if rec := doJSON(t, e, http.MethodGet, path, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s: status = %d, want 400", path, rec.Code)
		}
	}
	if rec := doJSON(t, e, http.MethodPatch, "/api/reminders/not-a-uuid/toggle", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("toggle: status = %d, want 400", rec.Code)
	}
}
