package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Conversation endpoint
	ChatHandler gin.HandlerFunc

	// Appointment endpoints
	AvailabilityHandler    gin.HandlerFunc
	BookAppointmentHandler gin.HandlerFunc
	DoctorsHandler         gin.HandlerFunc

	// HR / company endpoints
	HRPoliciesHandler  gin.HandlerFunc
	CompanyInfoHandler gin.HandlerFunc

	// Session endpoints
	GetSessionHandler    gin.HandlerFunc
	DeleteSessionHandler gin.HandlerFunc
}
