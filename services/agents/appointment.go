package agents

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"careline/config"
	"careline/database/repository/hospital"
	"careline/models"
	"careline/services/llm"

	"go.uber.org/zap"
)

// ReminderScheduler enqueues an appointment reminder after a confirmed
// booking. A nil scheduler disables reminders.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, p models.ReminderPayload) error
}

// AppointmentAgent manages doctor appointment scheduling: availability
// checks, bookings, cancellations and reschedules.
type AppointmentAgent struct {
	llm       llm.Client
	repo      hospital.Repo
	reminders ReminderScheduler
	logger    *zap.Logger
}

func NewAppointmentAgent(client llm.Client, repo hospital.Repo, reminders ReminderScheduler, logger *zap.Logger) *AppointmentAgent {
	return &AppointmentAgent{llm: client, repo: repo, reminders: reminders, logger: logger}
}

func (a *AppointmentAgent) Label() models.AgentLabel { return models.AgentAppointment }

var appointmentSubIntents = []subIntentRule{
	{label: "check_availability", keywords: []string{"available", "slots", "free", "open"}},
	{label: "book_appointment", keywords: []string{"book", "schedule", "make appointment", "reserve"}},
	{label: "cancel_appointment", keywords: []string{"cancel", "delete"}},
	{label: "reschedule_appointment", keywords: []string{"reschedule", "change", "move"}},
}

// Keywords that count as a direct booking request for the slot-surfacing gate.
var directRequestWords = []string{"book", "schedule", "appointment", "see a doctor"}

// Specialty vocabulary mapped onto department names.
var departmentKeywords = map[string]string{
	"cardiolog":        "Cardiology",
	"heart":            "Cardiology",
	"neurolog":         "Neurology",
	"pediatric":        "Pediatrics",
	"paediatric":       "Pediatrics",
	"dermatolog":       "Dermatology",
	"skin":             "Dermatology",
	"orthopedic":       "Orthopedics",
	"orthopaedic":      "Orthopedics",
	"general practice": "General Practice",
	"general medicine": "General Practice",
}

func (a *AppointmentAgent) Handle(ctx context.Context, message string, sess *models.Session) models.AgentResponse {
	subIntent := matchSubIntent(appointmentSubIntents, message, "general_query")

	switch subIntent {
	case "book_appointment":
		if resp, handled := a.tryBooking(ctx, message, sess); handled {
			return resp
		}
	case "cancel_appointment":
		return a.handleCancellation(ctx, message, sess)
	case "reschedule_appointment":
		return a.handleReschedule(ctx, message, sess)
	}

	dept := a.departmentFrom(message, sess)
	if a.shouldSurfaceSlots(message, sess, dept) {
		return a.surfaceSlots(ctx, message, sess, dept)
	}
	return a.handleGeneralQuery(ctx, message, sess, dept, subIntent)
}

// shouldSurfaceSlots gates the slot list: the caller must have indicated a
// department, and either the conversation has enough context already or the
// message is a direct booking request. Keeps a bare "hi, cardiology?" from
// dumping a schedule while staying responsive to explicit asks.
func (a *AppointmentAgent) shouldSurfaceSlots(message string, sess *models.Session, dept string) bool {
	if dept == "" {
		return false
	}
	if len(sess.History) >= 2 {
		return true
	}
	return containsAny(strings.ToLower(message), directRequestWords)
}

// departmentFrom resolves the department under discussion, preferring an
// explicit mention in the message over the remembered session preference.
func (a *AppointmentAgent) departmentFrom(message string, sess *models.Session) string {
	lower := strings.ToLower(message)
	for kw, dept := range departmentKeywords {
		if strings.Contains(lower, kw) {
			return dept
		}
	}
	if dept, ok := sess.ContextString("preferredDepartment"); ok {
		return dept
	}
	return ""
}

func (a *AppointmentAgent) surfaceSlots(ctx context.Context, message string, sess *models.Session, dept string) models.AgentResponse {
	slots, err := a.repo.QueryAvailability(ctx, models.SlotFilter{Department: dept})
	if err != nil {
		a.logger.Error("availability query failed", zap.Error(err), zap.String("department", dept))
		return a.cannedFallback(sess)
	}
	if len(slots) > 6 {
		slots = slots[:6]
	}
	if len(slots) == 0 {
		return models.AgentResponse{
			Message: fmt.Sprintf("I'm sorry, there are currently no open %s appointments. Would you like me to check another department, or you can call %s to join the waiting list.",
				dept, config.AppConfig.HospitalPhone),
			Agent:        models.AgentAppointment,
			ContextPatch: map[string]any{"preferredDepartment": dept, "no_slots_available": true},
		}
	}

	prompt := fmt.Sprintf(`You are a hospital appointment scheduling assistant. The user said: %q

Available %s appointments:
%s

Present these options conversationally and ask which one they would like to book. Be specific about doctors, dates, and times.`,
		message, dept, formatSlots(slots))

	reply, err := a.llm.GenerateText(ctx, prompt, llm.Options{Temperature: 0.7, MaxTokens: 300}, sess.History)
	if err != nil {
		a.logger.Warn("appointment agent LLM failure, using slot listing", zap.Error(err))
		reply = fmt.Sprintf("Here are the next available %s appointments:\n%s\nPlease tell me the doctor and time you would like to book.",
			dept, formatSlots(slots))
	}

	return models.AgentResponse{
		Message: reply,
		Agent:   models.AgentAppointment,
		ContextPatch: map[string]any{
			"appointment_slots_provided": true,
			"preferredDepartment":        dept,
		},
		Slots: slots,
	}
}

// tryBooking attempts to complete a booking from the message. It reports
// handled=false when the message names no doctor and no time, in which case
// the caller falls through to slot surfacing or a general reply.
func (a *AppointmentAgent) tryBooking(ctx context.Context, message string, sess *models.Session) (models.AgentResponse, bool) {
	doctor, slotTime := a.extractBookingDetails(ctx, message)
	if doctor == "" && slotTime == "" {
		return models.AgentResponse{}, false
	}

	if doctor == "" {
		return models.AgentResponse{
			Message:      "I can book that for you, but I need to know which doctor you'd like to see. Could you give me the doctor's name?",
			Agent:        models.AgentAppointment,
			ContextPatch: map[string]any{"booking_in_progress": true},
		}, true
	}

	slots, err := a.repo.QueryAvailability(ctx, models.SlotFilter{DoctorName: doctor})
	if err != nil {
		a.logger.Error("availability query failed during booking", zap.Error(err))
		return a.cannedFallback(sess), true
	}
	if len(slots) == 0 {
		return models.AgentResponse{
			Message: fmt.Sprintf("I'm sorry, %s has no open appointments at the moment. Would you like to see availability for another doctor in the same department?",
				doctor),
			Agent:        models.AgentAppointment,
			ContextPatch: map[string]any{"booking_in_progress": true, "requested_doctor": doctor},
		}, true
	}

	if slotTime == "" {
		return models.AgentResponse{
			Message: fmt.Sprintf("%s has these openings:\n%s\nWhich time works for you?",
				doctor, formatSlots(slots)),
			Agent:        models.AgentAppointment,
			ContextPatch: map[string]any{"booking_in_progress": true, "requested_doctor": doctor},
			Slots:        slots,
		}, true
	}

	var target *models.AppointmentSlot
	for i := range slots {
		if slots[i].Time == slotTime {
			target = &slots[i]
			break
		}
	}
	if target == nil {
		return models.AgentResponse{
			Message: fmt.Sprintf("I'm sorry, %s doesn't have an opening at %s. Available times are:\n%s",
				doctor, slotTime, formatSlots(slots)),
			Agent:        models.AgentAppointment,
			ContextPatch: map[string]any{"booking_in_progress": true, "requested_doctor": doctor},
			Slots:        slots,
		}, true
	}

	patient := models.PatientInfo{Name: "Caller"}
	if name, ok := sess.ContextString("patientName"); ok {
		patient.Name = name
	}

	result, err := a.repo.BookSlot(ctx, target.ID, patient)
	if err == hospital.ErrSlotTaken {
		return models.AgentResponse{
			Message:      "I'm sorry, that slot was just taken and is no longer available. Please choose another time.",
			Agent:        models.AgentAppointment,
			ContextPatch: map[string]any{"booking_in_progress": true, "slot_conflict": true},
		}, true
	}
	if err != nil || !result.Success {
		a.logger.Error("booking failed", zap.Error(err), zap.String("slot", target.ID))
		return a.cannedFallback(sess), true
	}

	a.scheduleReminder(ctx, result, patient)

	return models.AgentResponse{
		Message: fmt.Sprintf("Your appointment is confirmed: %s (%s) on %s at %s. Your confirmation code is %s. Appointments can be cancelled with 24 hours notice.",
			target.DoctorName, target.Department, target.Date, target.Time, result.ConfirmationCode),
		Agent: models.AgentAppointment,
		ContextPatch: map[string]any{
			"booking_confirmed": true,
			"lastBooking": map[string]any{
				"doctor":           target.DoctorName,
				"date":             target.Date,
				"time":             target.Time,
				"confirmationCode": result.ConfirmationCode,
			},
		},
	}, true
}

func (a *AppointmentAgent) scheduleReminder(ctx context.Context, result models.BookingResult, patient models.PatientInfo) {
	if a.reminders == nil || result.Slot == nil {
		return
	}
	err := a.reminders.ScheduleReminder(ctx, models.ReminderPayload{
		ConfirmationCode: result.ConfirmationCode,
		PatientName:      patient.Name,
		DoctorName:       result.Slot.DoctorName,
		Date:             result.Slot.Date,
		Time:             result.Slot.Time,
	})
	if err != nil {
		// Reminders are best-effort; the booking already succeeded.
		a.logger.Warn("failed to schedule reminder", zap.Error(err))
	}
}

var timePattern = regexp.MustCompile(`\b(\d{1,2}:\d{2})\b`)

// extractBookingDetails pulls a doctor name and a time out of free text by
// matching against the directory. Deliberately simple keyword matching; the
// surrounding flow asks for whatever is missing.
func (a *AppointmentAgent) extractBookingDetails(ctx context.Context, message string) (doctor, slotTime string) {
	lower := strings.ToLower(message)

	doctors, err := a.repo.Doctors(ctx)
	if err != nil {
		a.logger.Warn("doctor lookup failed", zap.Error(err))
	}
	for _, d := range doctors {
		surname := strings.TrimPrefix(strings.ToLower(d.Name), "dr. ")
		if strings.Contains(lower, "dr. "+surname) || strings.Contains(lower, "dr "+surname) || strings.Contains(lower, "doctor "+surname) {
			doctor = d.Name
			break
		}
	}

	if m := timePattern.FindStringSubmatch(message); m != nil {
		slotTime = m[1]
		if len(slotTime) == 4 { // normalize 9:00 -> 09:00
			slotTime = "0" + slotTime
		}
	}
	return doctor, slotTime
}

func (a *AppointmentAgent) handleCancellation(ctx context.Context, message string, sess *models.Session) models.AgentResponse {
	prompt := fmt.Sprintf(`The user wants to cancel an appointment: %q

Respond helpfully asking for their name and appointment details (confirmation code if they have it) so you can help them cancel. Mention the 24 hours cancellation notice policy.`, message)

	reply, err := a.llm.GenerateText(ctx, prompt, llm.Options{Temperature: 0.6, MaxTokens: 200}, sess.History)
	if err != nil {
		a.logger.Warn("appointment agent LLM failure", zap.Error(err))
		reply = fmt.Sprintf("I can help you cancel an appointment. Please share your name and the appointment details, or call %s. Note that we ask for 24 hours cancellation notice.",
			config.AppConfig.HospitalPhone)
	}

	return models.AgentResponse{
		Message:      reply,
		Agent:        models.AgentAppointment,
		ContextPatch: map[string]any{"cancellation_requested": true},
	}
}

func (a *AppointmentAgent) handleReschedule(ctx context.Context, message string, sess *models.Session) models.AgentResponse {
	prompt := fmt.Sprintf(`The user wants to reschedule an appointment: %q

Ask for their current appointment details and offer to find a new time. Mention that you can list availability by doctor or department.`, message)

	reply, err := a.llm.GenerateText(ctx, prompt, llm.Options{Temperature: 0.7, MaxTokens: 250}, sess.History)
	if err != nil {
		a.logger.Warn("appointment agent LLM failure", zap.Error(err))
		reply = fmt.Sprintf("I can help you reschedule. Please tell me your current appointment details and a preferred new time, or call %s for immediate assistance.",
			config.AppConfig.HospitalPhone)
	}

	return models.AgentResponse{
		Message:      reply,
		Agent:        models.AgentAppointment,
		ContextPatch: map[string]any{"reschedule_requested": true},
	}
}

func (a *AppointmentAgent) handleGeneralQuery(ctx context.Context, message string, sess *models.Session, dept, subIntent string) models.AgentResponse {
	doctors, err := a.repo.Doctors(ctx)
	if err != nil {
		a.logger.Error("doctor lookup failed", zap.Error(err))
		return a.cannedFallback(sess)
	}
	names := make([]string, 0, len(doctors))
	for _, d := range doctors {
		names = append(names, fmt.Sprintf("%s (%s)", d.Name, d.Department))
	}

	prompt := fmt.Sprintf(`You are a hospital appointment scheduling assistant. The user said: %q

Available services: checking appointment availability, booking, cancelling, and rescheduling appointments.
Our doctors: %s

Respond helpfully. If the user hasn't said which department or doctor they need, ask.`,
		message, strings.Join(names, ", "))

	reply, err := a.llm.GenerateText(ctx, prompt, llm.Options{Temperature: 0.7, MaxTokens: 200}, sess.History)
	if err != nil {
		a.logger.Warn("appointment agent LLM failure", zap.Error(err))
		return a.cannedFallback(sess)
	}

	patch := map[string]any{"appointment_query_handled": true, "query_type": subIntent}
	if dept != "" {
		patch["preferredDepartment"] = dept
	}
	return models.AgentResponse{Message: reply, Agent: models.AgentAppointment, ContextPatch: patch}
}

// cannedFallback is the deterministic reply when the appointment system or
// the LLM is unreachable. Reads as a normal assistant message.
func (a *AppointmentAgent) cannedFallback(sess *models.Session) models.AgentResponse {
	return models.AgentResponse{
		Message: fmt.Sprintf("I apologize, but I'm having trouble accessing the appointment system right now. Please try again in a moment, or call our scheduling desk directly at %s.",
			config.AppConfig.HospitalPhone),
		Agent:        models.AgentAppointment,
		ContextPatch: map[string]any{"error": true},
	}
}

func formatSlots(slots []models.AppointmentSlot) string {
	var b strings.Builder
	for _, s := range slots {
		fmt.Fprintf(&b, "- %s (%s): %s at %s\n", s.DoctorName, s.Department, s.Date, s.Time)
	}
	return b.String()
}
