package handler

import (
	"errors"
	"net/http"
	"time"

	"telecare/internal/middleware"
	"telecare/internal/models"
	"telecare/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentHandler implements booking between patients and doctors.
type AppointmentHandler struct {
	DB *gorm.DB
}

func NewAppointmentHandler(db *gorm.DB) *AppointmentHandler {
	return &AppointmentHandler{DB: db}
}

type appointmentResp struct {
	Ref         string    `json:"ref"`
	PatientID   uint      `json:"patient_id"`
	DoctorID    uint      `json:"doctor_id"`
	DoctorName  string    `json:"doctor_name,omitempty"`
	PatientName string    `json:"patient_name,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toAppointmentResp(a *models.Appointment) appointmentResp {
	return appointmentResp{
		Ref:         a.Ref,
		PatientID:   a.PatientID,
		DoctorID:    a.DoctorID,
		DoctorName:  a.Doctor.Name,
		PatientName: a.Patient.Name,
		ScheduledAt: a.ScheduledAt,
		Status:      a.Status,
		Reason:      a.Reason,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
	}
}

type createAppointmentReq struct {
	DoctorID    uint   `json:"doctor_id" binding:"required"`
	ScheduledAt string `json:"scheduled_at" binding:"required"`
	Reason      string `json:"reason" binding:"max=255"`
}

// Create books an appointment for the current user with a doctor.
func (h *AppointmentHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Unauthorized(c)
		return
	}

	var req createAppointmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		util.Error(c, http.StatusBadRequest, "scheduled_at must be RFC 3339")
		return
	}
	if !scheduledAt.After(time.Now()) {
		util.Error(c, http.StatusBadRequest, "scheduled_at must be in the future")
		return
	}

	var doctor models.User
	if err := h.DB.Where("id = ? AND role = ?", req.DoctorID, models.RoleDoctor).
		First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusBadRequest, "doctor not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "failed to query doctor")
		}
		return
	}

	appt := models.Appointment{
		Ref:         uuid.New().String(),
		PatientID:   user.ID,
		DoctorID:    doctor.ID,
		ScheduledAt: scheduledAt,
		Status:      models.AppointmentScheduled,
		Reason:      req.Reason,
	}
	if err := h.DB.Create(&appt).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to create appointment")
		return
	}
	appt.Doctor = doctor
	appt.Patient = *user

	util.Success(c, http.StatusCreated, util.Response{
		"appointment": toAppointmentResp(&appt),
	})
}

// List returns the current user's appointments, newest first. Doctors
// see the appointments assigned to them, everyone else what they booked.
func (h *AppointmentHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Unauthorized(c)
		return
	}

	page, size := pagination(c)

	q := h.DB.Preload("Patient").Preload("Doctor")
	if user.Role == models.RoleDoctor {
		q = q.Where("doctor_id = ?", user.ID)
	} else {
		q = q.Where("patient_id = ?", user.ID)
	}

	var appts []models.Appointment
	if err := q.Order("scheduled_at DESC, id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&appts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to query appointments")
		return
	}

	items := make([]appointmentResp, 0, len(appts))
	for i := range appts {
		items = append(items, toAppointmentResp(&appts[i]))
	}

	util.Success(c, http.StatusOK, util.Response{
		"items": items,
		"page":  page,
	})
}

// findByRef loads an appointment the current user participates in.
func (h *AppointmentHandler) findByRef(c *gin.Context, user *models.User) (*models.Appointment, bool) {
	var appt models.Appointment
	err := h.DB.Preload("Patient").Preload("Doctor").
		Where("ref = ?", c.Param("ref")).
		First(&appt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "appointment not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "failed to query appointment")
		}
		return nil, false
	}
	if appt.PatientID != user.ID && appt.DoctorID != user.ID {
		// participants only; reveal nothing more than "not found"
		util.Error(c, http.StatusNotFound, "appointment not found")
		return nil, false
	}
	return &appt, true
}

// Cancel sets the appointment to cancelled. Cancelling twice is a no-op.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Unauthorized(c)
		return
	}

	appt, ok := h.findByRef(c, user)
	if !ok {
		return
	}

	if appt.Status != models.AppointmentCancelled {
		if appt.Status == models.AppointmentCompleted {
			util.Error(c, http.StatusBadRequest, "appointment already completed")
			return
		}
		appt.Status = models.AppointmentCancelled
		if err := h.DB.Model(appt).Update("status", appt.Status).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, "failed to update appointment")
			return
		}
	}

	util.Success(c, http.StatusOK, util.Response{
		"appointment": toAppointmentResp(appt),
	})
}

type completeAppointmentReq struct {
	Notes string `json:"notes" binding:"max=2000"`
}

// Complete marks the appointment done; only the assigned doctor may.
func (h *AppointmentHandler) Complete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Unauthorized(c)
		return
	}

	appt, ok := h.findByRef(c, user)
	if !ok {
		return
	}

	if user.ID != appt.DoctorID {
		util.Error(c, http.StatusForbidden, "only the assigned doctor can complete an appointment")
		return
	}
	if appt.Status == models.AppointmentCancelled {
		util.Error(c, http.StatusBadRequest, "appointment was cancelled")
		return
	}

	var req completeAppointmentReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	appt.Status = models.AppointmentCompleted
	appt.Notes = req.Notes
	if err := h.DB.Model(appt).
		Updates(map[string]interface{}{"status": appt.Status, "notes": appt.Notes}).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to update appointment")
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"appointment": toAppointmentResp(appt),
	})
}
