package models

// Doctor is an entry in the hospital directory.
type Doctor struct {
	ID         string `json:"id" bson:"id"`
	Name       string `json:"name" bson:"name"`
	Department string `json:"department" bson:"department"`
}

// AppointmentSlot is a bookable appointment time with a specific doctor.
// Only slots with Available=true are ever surfaced to callers.
type AppointmentSlot struct {
	ID         string `json:"id" bson:"id"`
	DoctorName string `json:"doctorName" bson:"doctorName"`
	Department string `json:"department" bson:"department"`
	Date       string `json:"date" bson:"date"` // YYYY-MM-DD
	Time       string `json:"time" bson:"time"` // HH:MM, 24h
	Available  bool   `json:"available" bson:"available"`
}

// SlotFilter narrows an availability query. Zero-value fields are ignored.
type SlotFilter struct {
	Department     string `json:"department,omitempty"`
	DoctorName     string `json:"doctorName,omitempty"`
	Date           string `json:"date,omitempty"`
	TimePreference string `json:"timePreference,omitempty"` // "morning" or "afternoon"
}

// PatientInfo identifies the patient a slot is booked for.
type PatientInfo struct {
	Name  string `json:"name" bson:"name"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
	Email string `json:"email,omitempty" bson:"email,omitempty"`
}

// BookingResult reports the outcome of a booking attempt. Reason is set
// when Success is false.
type BookingResult struct {
	Success          bool             `json:"success"`
	Slot             *AppointmentSlot `json:"slot,omitempty"`
	ConfirmationCode string           `json:"confirmationCode,omitempty"`
	Reason           string           `json:"reason,omitempty"`
}

// HRPolicy is one entry of the HR knowledge base.
type HRPolicy struct {
	Category string `json:"category" bson:"category"` // leave, benefits, timesheet, policies
	Topic    string `json:"topic" bson:"topic"`
	Text     string `json:"text" bson:"text"`
}

// CompanyInfo holds the contact details quoted to callers.
type CompanyInfo struct {
	Name        string `json:"name" bson:"name"`
	Phone       string `json:"phone" bson:"phone"`
	Email       string `json:"email" bson:"email"`
	HREmail     string `json:"hrEmail" bson:"hrEmail"`
	HRExtension string `json:"hrExtension" bson:"hrExtension"`
	OfficeHours string `json:"officeHours" bson:"officeHours"`
}

// ReminderPayload is the asynq task body for appointment reminders.
type ReminderPayload struct {
	ConfirmationCode string `json:"confirmationCode"`
	PatientName      string `json:"patientName"`
	DoctorName       string `json:"doctorName"`
	Date             string `json:"date"`
	Time             string `json:"time"`
}
