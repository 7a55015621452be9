package handler

import (
	"net/http"
	"testing"
	"time"

	"telecare/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func bookAppointment(t *testing.T, r *gin.Engine, patient, doctor *models.User) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/appointments", map[string]interface{}{
		"doctor_id":    doctor.ID,
		"scheduled_at": time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
		"reason":       "follow-up",
	}, sessionCookie(t, patient))
	require.Equal(t, http.StatusCreated, w.Code)

	ref := decodeBody(t, w)["appointment"].(map[string]interface{})["ref"].(string)
	require.NotEmpty(t, ref)
	return ref
}

func TestAppointment_Book(t *testing.T) {
	db := newTestDB(t)
	r := newTestAPI(t, db, "")
	patient := seedUser(t, db, "p1@example.com", models.RolePatient)
	doctor := seedUser(t, db, "d1@example.com", models.RoleDoctor)

	ref := bookAppointment(t, r, patient, doctor)

	w := doJSON(t, r, http.MethodGet, "/api/appointments", nil, sessionCookie(t, patient))
	require.Equal(t, http.StatusOK, w.Code)
	items := decodeBody(t, w)["items"].([]interface{})
	require.Len(t, items, 1)
	got := items[0].(map[string]interface{})
	require.Equal(t, ref, got["ref"])
	require.Equal(t, models.AppointmentScheduled, got["status"])

	// the assigned doctor sees it too
	w = doJSON(t, r, http.MethodGet, "/api/appointments", nil, sessionCookie(t, doctor))
	require.Len(t, decodeBody(t, w)["items"].([]interface{}), 1)
}

func TestAppointment_DoctorMustBeDoctor(t *testing.T) {
	db := newTestDB(t)
	r := newTestAPI(t, db, "")
	patient := seedUser(t, db, "p2@example.com", models.RolePatient)
	notADoctor := seedUser(t, db, "p3@example.com", models.RolePatient)

	w := doJSON(t, r, http.MethodPost, "/api/appointments", map[string]interface{}{
		"doctor_id":    notADoctor.ID,
		"scheduled_at": time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
	}, sessionCookie(t, patient))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "doctor not found", decodeBody(t, w)["message"])
}

func TestAppointment_PastTimeRejected(t *testing.T) {
	db := newTestDB(t)
	r := newTestAPI(t, db, "")
	patient := seedUser(t, db, "p4@example.com", models.RolePatient)
	doctor := seedUser(t, db, "d4@example.com", models.RoleDoctor)

	w := doJSON(t, r, http.MethodPost, "/api/appointments", map[string]interface{}{
		"doctor_id":    doctor.ID,
		"scheduled_at": time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
	}, sessionCookie(t, patient))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAppointment_CancelIdempotent(t *testing.T) {
	db := newTestDB(t)
	r := newTestAPI(t, db, "")
	patient := seedUser(t, db, "p5@example.com", models.RolePatient)
	doctor := seedUser(t, db, "d5@example.com", models.RoleDoctor)
	ref := bookAppointment(t, r, patient, doctor)

	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodPost, "/api/appointments/"+ref+"/cancel", nil, sessionCookie(t, patient))
		require.Equal(t, http.StatusOK, w.Code)
		appt := decodeBody(t, w)["appointment"].(map[string]interface{})
		require.Equal(t, models.AppointmentCancelled, appt["status"])
	}
}

func TestAppointment_CompleteOnlyDoctor(t *testing.T) {
	db := newTestDB(t)
	r := newTestAPI(t, db, "")
	patient := seedUser(t, db, "p6@example.com", models.RolePatient)
	doctor := seedUser(t, db, "d6@example.com", models.RoleDoctor)
	ref := bookAppointment(t, r, patient, doctor)

	w := doJSON(t, r, http.MethodPost, "/api/appointments/"+ref+"/complete", nil, sessionCookie(t, patient))
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/appointments/"+ref+"/complete", map[string]string{
		"notes": "stable, review in 6 months",
	}, sessionCookie(t, doctor))
	require.Equal(t, http.StatusOK, w.Code)
	appt := decodeBody(t, w)["appointment"].(map[string]interface{})
	require.Equal(t, models.AppointmentCompleted, appt["status"])
}

func TestAppointment_OutsiderSeesNothing(t *testing.T) {
	db := newTestDB(t)
	r := newTestAPI(t, db, "")
	patient := seedUser(t, db, "p7@example.com", models.RolePatient)
	doctor := seedUser(t, db, "d7@example.com", models.RoleDoctor)
	outsider := seedUser(t, db, "p8@example.com", models.RolePatient)
	ref := bookAppointment(t, r, patient, doctor)

	w := doJSON(t, r, http.MethodPost, "/api/appointments/"+ref+"/cancel", nil, sessionCookie(t, outsider))
	require.Equal(t, http.StatusNotFound, w.Code)
}
