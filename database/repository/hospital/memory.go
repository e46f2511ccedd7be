package hospital

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"careline/models"

	"github.com/google/uuid"
)

// MemoryRepo is an in-process Repo seeded with the demo hospital data. It
// backs tests and deployments running without MongoDB.
type MemoryRepo struct {
	mu       sync.Mutex
	doctors  []models.Doctor
	slots    []models.AppointmentSlot
	policies []models.HRPolicy
	company  models.CompanyInfo
}

// NewMemoryRepo returns a MemoryRepo seeded with one week of slots.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		doctors:  append([]models.Doctor(nil), SeedDoctors...),
		slots:    SeedSlots(time.Now()),
		policies: append([]models.HRPolicy(nil), SeedHRPolicies...),
		company:  SeedCompanyInfo(),
	}
}

func (r *MemoryRepo) QueryAvailability(ctx context.Context, filter models.SlotFilter) ([]models.AppointmentSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.AppointmentSlot
	for _, s := range r.slots {
		if s.Available && matchesFilter(s, filter) {
			out = append(out, s)
		}
	}
	sortSlots(out)
	return out, nil
}

func (r *MemoryRepo) BookSlot(ctx context.Context, slotID string, patient models.PatientInfo) (models.BookingResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.slots {
		if r.slots[i].ID != slotID {
			continue
		}
		if !r.slots[i].Available {
			return models.BookingResult{Success: false, Reason: "slot no longer available"}, ErrSlotTaken
		}
		r.slots[i].Available = false
		booked := r.slots[i]
		return models.BookingResult{
			Success:          true,
			Slot:             &booked,
			ConfirmationCode: uuid.New().String(),
		}, nil
	}
	return models.BookingResult{Success: false, Reason: "slot not found"}, ErrSlotNotFound
}

func (r *MemoryRepo) Doctors(ctx context.Context) ([]models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Doctor(nil), r.doctors...), nil
}

func (r *MemoryRepo) Departments(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, d := range r.doctors {
		if !seen[d.Department] {
			seen[d.Department] = true
			out = append(out, d.Department)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *MemoryRepo) HRPolicies(ctx context.Context) ([]models.HRPolicy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.HRPolicy(nil), r.policies...), nil
}

func (r *MemoryRepo) CompanyInfo(ctx context.Context) (models.CompanyInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.company, nil
}

func matchesFilter(s models.AppointmentSlot, f models.SlotFilter) bool {
	if f.Department != "" && !strings.EqualFold(s.Department, f.Department) {
		return false
	}
	if f.DoctorName != "" && !strings.EqualFold(s.DoctorName, f.DoctorName) {
		return false
	}
	if f.Date != "" && s.Date != f.Date {
		return false
	}
	switch strings.ToLower(f.TimePreference) {
	case "morning":
		if s.Time >= "12:00" {
			return false
		}
	case "afternoon":
		if s.Time < "12:00" {
			return false
		}
	}
	return true
}

func sortSlots(slots []models.AppointmentSlot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		if slots[i].Time != slots[j].Time {
			return slots[i].Time < slots[j].Time
		}
		return slots[i].ID < slots[j].ID
	})
}
