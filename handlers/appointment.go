package handlers

import (
	"errors"
	"net/http"
	"strings"

	"careline/database/repository/hospital"
	"careline/models"
	"careline/services/agents"
	"careline/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvailabilityHandler lists available appointment slots, optionally
// filtered by query parameters.
func AvailabilityHandler(repo hospital.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()

		filter := models.SlotFilter{
			Department:     c.Query("department"),
			DoctorName:     c.Query("doctor"),
			Date:           c.Query("date"),
			TimePreference: strings.ToLower(c.Query("timePreference")),
		}
		if filter.TimePreference != "" && filter.TimePreference != "morning" && filter.TimePreference != "afternoon" {
			utils.JSONError(c, http.StatusBadRequest, "Invalid timePreference", "must be morning or afternoon")
			return
		}

		slots, err := repo.QueryAvailability(c.Request.Context(), filter)
		if err != nil {
			logger.Error("availability query failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Failed to query availability", "")
			return
		}
		c.JSON(http.StatusOK, gin.H{"slots": slots, "count": len(slots)})
	}
}

// BookRequest books a specific slot directly, outside the conversational
// flow. SessionID optionally ties the booking back to a conversation.
type BookRequest struct {
	SlotID    string             `json:"slotId"`
	Patient   models.PatientInfo `json:"patient"`
	SessionID string             `json:"sessionId,omitempty"`
}

// BookAppointmentHandler claims a slot for a patient.
func BookAppointmentHandler(repo hospital.Repo, reminders agents.ReminderScheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()

		var req BookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
		if req.SlotID == "" || strings.TrimSpace(req.Patient.Name) == "" {
			utils.JSONError(c, http.StatusBadRequest, "slotId and patient.name are required", "")
			return
		}

		result, err := repo.BookSlot(c.Request.Context(), req.SlotID, req.Patient)
		switch {
		case errors.Is(err, hospital.ErrSlotNotFound):
			utils.JSONError(c, http.StatusNotFound, "Slot not found", "")
			return
		case errors.Is(err, hospital.ErrSlotTaken):
			c.JSON(http.StatusConflict, models.BookingResult{
				Success: false,
				Reason:  "slot no longer available",
			})
			return
		case err != nil:
			logger.Error("booking failed", zap.Error(err), zap.String("slot", req.SlotID))
			utils.JSONError(c, http.StatusInternalServerError, "Failed to book appointment", "")
			return
		}

		if reminders != nil && result.Slot != nil {
			payload := models.ReminderPayload{
				ConfirmationCode: result.ConfirmationCode,
				PatientName:      req.Patient.Name,
				DoctorName:       result.Slot.DoctorName,
				Date:             result.Slot.Date,
				Time:             result.Slot.Time,
			}
			if err := reminders.ScheduleReminder(c.Request.Context(), payload); err != nil {
				// The booking stands; only the reminder is lost.
				logger.Warn("reminder scheduling failed", zap.Error(err),
					zap.String("confirmation", result.ConfirmationCode))
			}
		}

		c.JSON(http.StatusOK, result)
	}
}

// DoctorsHandler lists the hospital's doctors and departments.
func DoctorsHandler(repo hospital.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()

		doctors, err := repo.Doctors(c.Request.Context())
		if err != nil {
			logger.Error("doctors query failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Failed to list doctors", "")
			return
		}
		departments, err := repo.Departments(c.Request.Context())
		if err != nil {
			logger.Error("departments query failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Failed to list departments", "")
			return
		}
		c.JSON(http.StatusOK, gin.H{"doctors": doctors, "departments": departments})
	}
}
