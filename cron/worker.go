// Package cron runs the background reminder queue for booked appointments.
package cron

import (
	"context"
	"encoding/json"
	"time"

	"careline/config"
	"careline/models"
	"careline/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeAppointmentReminder = "appointment:reminder"

// How long before the appointment the reminder fires.
const reminderLead = 24 * time.Hour

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
	}
}

// ReminderClient enqueues appointment reminders. It satisfies the
// scheduler contract the appointment agent expects.
type ReminderClient struct {
	client *asynq.Client
}

func NewReminderClient() *ReminderClient {
	return &ReminderClient{client: asynq.NewClient(redisOpts())}
}

func (c *ReminderClient) ScheduleReminder(_ context.Context, p models.ReminderPayload) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}

	fireAt, err := time.Parse("2006-01-02 15:04", p.Date+" "+p.Time)
	if err != nil {
		return err
	}
	delay := time.Until(fireAt.Add(-reminderLead))
	if delay < 0 {
		// Appointment is within the lead window; remind right away.
		delay = 0
	}

	task := asynq.NewTask(TypeAppointmentReminder, payload)
	_, err = c.client.Enqueue(task, asynq.ProcessIn(delay), asynq.MaxRetry(3))
	return err
}

func (c *ReminderClient) Close() error { return c.client.Close() }

// InitReminderWorker starts the asynq worker in the background, retrying
// startup a few times before giving up.
func InitReminderWorker() {
	logger := utils.GetLogger()

	srv := asynq.NewServer(redisOpts(), asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeAppointmentReminder, handleReminderTask)

	go func() {
		logger.Info("starting reminder worker")
		const maxAttempts = 5

		for attempt := 1; attempt <= maxAttempts; attempt++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("reminder worker failed to start",
				zap.Int("attempt", attempt), zap.Error(err))
			if attempt == maxAttempts {
				logger.Error("reminder worker giving up after max attempts")
				return
			}
			time.Sleep(time.Duration(attempt*2) * time.Second)
		}
	}()
}

func handleReminderTask(_ context.Context, task *asynq.Task) error {
	logger := utils.GetLogger()

	var p models.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		logger.Error("invalid reminder payload", zap.Error(err))
		return err
	}

	// Delivery channel (SMS, push) is out of scope here; the reminder is
	// surfaced via the log and the task is marked done.
	logger.Info("appointment reminder due",
		zap.String("confirmation", p.ConfirmationCode),
		zap.String("patient", p.PatientName),
		zap.String("doctor", p.DoctorName),
		zap.String("date", p.Date),
		zap.String("time", p.Time))
	return nil
}
