package hospital

import (
	"fmt"
	"time"

	"careline/config"
	"careline/models"
)

// SeedDoctors is the demo hospital directory.
var SeedDoctors = []models.Doctor{
	{ID: "dr-smith", Name: "Dr. Smith", Department: "General Practice"},
	{ID: "dr-khan", Name: "Dr. Khan", Department: "Cardiology"},
	{ID: "dr-johnson", Name: "Dr. Johnson", Department: "Neurology"},
	{ID: "dr-williams", Name: "Dr. Williams", Department: "Pediatrics"},
	{ID: "dr-garcia", Name: "Dr. Garcia", Department: "Dermatology"},
	{ID: "dr-chen", Name: "Dr. Chen", Department: "Orthopedics"},
}

var seedTimes = []string{"09:00", "10:30", "13:00", "14:30", "16:00"}

// SeedSlots generates one week of open slots for every doctor starting the
// day after now.
func SeedSlots(now time.Time) []models.AppointmentSlot {
	var slots []models.AppointmentSlot
	for day := 1; day <= 7; day++ {
		date := now.AddDate(0, 0, day).Format("2006-01-02")
		for _, doc := range SeedDoctors {
			for i, t := range seedTimes {
				// Stagger start times so not every doctor shares a schedule.
				if (day+i)%2 == 0 {
					continue
				}
				slots = append(slots, models.AppointmentSlot{
					ID:         fmt.Sprintf("%s-%s-%s", doc.ID, date, t),
					DoctorName: doc.Name,
					Department: doc.Department,
					Date:       date,
					Time:       t,
					Available:  true,
				})
			}
		}
	}
	return slots
}

// SeedHRPolicies is the HR knowledge base served to the HR agent.
var SeedHRPolicies = []models.HRPolicy{
	{Category: "leave", Topic: "vacation", Text: "Employees receive 20 days of paid vacation per year. Vacation time accrues monthly and can be carried over up to 5 days to the next year."},
	{Category: "leave", Topic: "sick", Text: "10 sick days per year are provided. Sick leave can be used for personal illness or caring for immediate family members."},
	{Category: "leave", Topic: "personal", Text: "3 personal days per year for personal matters that cannot be scheduled outside work hours."},
	{Category: "leave", Topic: "parental", Text: "12 weeks of paid parental leave for new parents, both biological and adoptive."},
	{Category: "benefits", Topic: "health", Text: "Comprehensive health insurance including medical, dental, and vision. Company covers 80% of premiums."},
	{Category: "benefits", Topic: "retirement", Text: "401(k) plan with 4% company match. Vesting occurs immediately."},
	{Category: "benefits", Topic: "life", Text: "Basic life insurance equal to 2x annual salary provided at no cost."},
	{Category: "benefits", Topic: "disability", Text: "Short-term and long-term disability insurance available."},
	{Category: "timesheet", Topic: "submission", Text: "Timesheets must be submitted weekly by Friday 5 PM through the employee portal."},
	{Category: "timesheet", Topic: "overtime", Text: "Overtime must be pre-approved by your manager. Time and a half pay for hours over 40 per week."},
	{Category: "timesheet", Topic: "remote", Text: "Remote work hours should be logged the same as office hours."},
	{Category: "policies", Topic: "dress_code", Text: "Business casual attire. Remote workers should dress appropriately for video calls."},
	{Category: "policies", Topic: "remote_work", Text: "Hybrid work policy allows up to 3 days remote per week with manager approval."},
	{Category: "policies", Topic: "harassment", Text: "Zero tolerance policy for harassment. Report incidents to HR immediately."},
	{Category: "policies", Topic: "training", Text: "Annual mandatory training includes harassment prevention, security awareness, and safety."},
}

// SeedCompanyInfo builds the contact card from configuration.
func SeedCompanyInfo() models.CompanyInfo {
	return models.CompanyInfo{
		Name:        "Careline Medical Center",
		Phone:       config.AppConfig.HospitalPhone,
		Email:       config.AppConfig.SupportEmail,
		HREmail:     config.AppConfig.HREmail,
		HRExtension: config.AppConfig.HRExtension,
		OfficeHours: "Monday-Friday, 9:00 AM - 5:00 PM",
	}
}
