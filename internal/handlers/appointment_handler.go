package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/caresync-app/caresync-api/internal/apperr"
	"github.com/caresync-app/caresync-api/internal/domain/account"
	domain "github.com/caresync-app/caresync-api/internal/domain/booking"
	"github.com/caresync-app/caresync-api/internal/httpresp"
	"github.com/caresync-app/caresync-api/internal/middleware"
	"github.com/caresync-app/caresync-api/internal/policy"
	ucBooking "github.com/caresync-app/caresync-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC *ucBooking.CreateAppointment
	updateUC *ucBooking.UpdateAppointment
	deleteUC *ucBooking.DeleteAppointment
	listUC   *ucBooking.ListAppointments
	slotsUC  *ucBooking.ListBookedSlots
}

func NewAppointmentHandler(
	createUC *ucBooking.CreateAppointment,
	updateUC *ucBooking.UpdateAppointment,
	deleteUC *ucBooking.DeleteAppointment,
	listUC *ucBooking.ListAppointments,
	slotsUC *ucBooking.ListBookedSlots,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC: createUC,
		updateUC: updateUC,
		deleteUC: deleteUC,
		listUC:   listUC,
		slotsUC:  slotsUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	DoctorID  uint   `json:"doctor_id" binding:"required"`
	PatientID uint   `json:"patient_id"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
	Reason    string `json:"reason" binding:"max=500"`
}

type UpdateAppointmentRequest struct {
	Status *string `json:"status"`
	Paid   *bool   `json:"paid"`
	Reason *string `json:"reason" binding:"omitempty,max=500"`
}

func (r UpdateAppointmentRequest) toPatch() domain.Patch {
	var p domain.Patch
	if r.Status != nil {
		s := domain.Status(*r.Status)
		p.Status = &s
	}
	p.Paid = r.Paid
	p.Reason = r.Reason
	return p
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	callerID, callerRole := middleware.Caller(c)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	// Patients book for themselves; admins must name the patient.
	patientID := req.PatientID
	if callerRole == account.RolePatient {
		patientID = callerID
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateAppointmentInput{
		CallerRole: callerRole,
		CallerID:   callerID,
		PatientID:  patientID,
		DoctorID:   req.DoctorID,
		Date:       req.Date,
		Time:       req.Time,
		Reason:     req.Reason,
	})
	if err != nil {
		apperr.WriteError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	callerID, callerRole := middleware.Caller(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		apperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	// Single-record reads go through the list use case's store with the
	// same ownership policy applied afterwards.
	ap, err := h.listUC.GetByID(c.Request.Context(), id)
	if err != nil {
		apperr.WriteError(c, err)
		return
	}

	if err := policy.CanReadAppointment(callerRole, callerID, ap); err != nil {
		apperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	callerID, callerRole := middleware.Caller(c)

	var requested domain.Filter
	if raw := c.Query("patient_id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			apperr.BadRequest(c, "invalid_filter", "Invalid patient filter.")
			return
		}
		requested.PatientID = id
	}
	if raw := c.Query("doctor_id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			apperr.BadRequest(c, "invalid_filter", "Invalid doctor filter.")
			return
		}
		requested.DoctorID = id
	}

	aps, err := h.listUC.Execute(c.Request.Context(), callerRole, callerID, requested)
	if err != nil {
		apperr.WriteError(c, err)
		return
	}

	httpresp.List(c, aps)
}

func (h *AppointmentHandler) BookedSlots(c *gin.Context) {
	doctorID, err := parseID(c.Param("id"))
	if err != nil {
		apperr.BadRequest(c, "invalid_id", "Invalid doctor id.")
		return
	}

	fromDate := c.Query("from")
	if fromDate == "" {
		apperr.BadRequest(c, "missing_from", "The from date is required.")
		return
	}

	slots, err := h.slotsUC.Execute(c.Request.Context(), doctorID, fromDate)
	if err != nil {
		apperr.WriteError(c, err)
		return
	}

	httpresp.List(c, slots)
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	callerID, callerRole := middleware.Caller(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		apperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.updateUC.Execute(c.Request.Context(), ucBooking.UpdateAppointmentInput{
		CallerRole:    callerRole,
		CallerID:      callerID,
		AppointmentID: id,
		Patch:         req.toPatch(),
	})
	if err != nil {
		apperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	callerID, callerRole := middleware.Caller(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		apperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), callerRole, callerID, id); err != nil {
		apperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"message": "Appointment deleted successfully."})
}
