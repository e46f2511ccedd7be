package hospital

import (
	"context"
	"errors"

	"careline/models"
)

// Booking failure modes surfaced to the conversation layer. ErrSlotTaken
// covers both a stale reference and a lost booking race; the caller turns it
// into "that slot is no longer available".
var (
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrSlotNotFound   = errors.New("slot not found")
	ErrSlotTaken      = errors.New("slot no longer available")
)

// Repo is the hospital directory: doctors, appointment slots and the HR
// knowledge base.
type Repo interface {
	// QueryAvailability returns only currently-available slots matching the
	// filter, ordered date-ascending (ties broken by time).
	QueryAvailability(ctx context.Context, filter models.SlotFilter) ([]models.AppointmentSlot, error)

	// BookSlot atomically claims a slot for a patient. When two callers race
	// for the same slot exactly one succeeds; the loser gets ErrSlotTaken.
	BookSlot(ctx context.Context, slotID string, patient models.PatientInfo) (models.BookingResult, error)

	Doctors(ctx context.Context) ([]models.Doctor, error)
	Departments(ctx context.Context) ([]string, error)
	HRPolicies(ctx context.Context) ([]models.HRPolicy, error)
	CompanyInfo(ctx context.Context) (models.CompanyInfo, error)
}
