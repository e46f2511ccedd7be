package hospital

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"careline/config"
	"careline/database"
	"careline/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo is the MongoDB-backed hospital directory.
type MongoRepo struct {
	doctors  *mongo.Collection
	slots    *mongo.Collection
	policies *mongo.Collection
}

// NewMongoRepo returns a Repo bound to the configured database.
func NewMongoRepo() *MongoRepo {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &MongoRepo{
		doctors:  db.Collection("doctors"),
		slots:    db.Collection("appointment_slots"),
		policies: db.Collection("hr_policies"),
	}
}

// EnsureSeed populates empty collections with the demo data so a fresh
// deployment answers availability queries immediately.
func (r *MongoRepo) EnsureSeed(ctx context.Context) error {
	n, err := r.doctors.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count doctors: %w", err)
	}
	if n > 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(SeedDoctors))
	for _, d := range SeedDoctors {
		docs = append(docs, d)
	}
	if _, err := r.doctors.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("seed doctors: %w", err)
	}

	slots := SeedSlots(time.Now())
	slotDocs := make([]interface{}, 0, len(slots))
	for _, s := range slots {
		slotDocs = append(slotDocs, s)
	}
	if _, err := r.slots.InsertMany(ctx, slotDocs); err != nil {
		return fmt.Errorf("seed slots: %w", err)
	}

	polDocs := make([]interface{}, 0, len(SeedHRPolicies))
	for _, p := range SeedHRPolicies {
		polDocs = append(polDocs, p)
	}
	if _, err := r.policies.InsertMany(ctx, polDocs); err != nil {
		return fmt.Errorf("seed hr policies: %w", err)
	}
	return nil
}

func (r *MongoRepo) QueryAvailability(ctx context.Context, filter models.SlotFilter) ([]models.AppointmentSlot, error) {
	query := bson.M{"available": true}
	if filter.Department != "" {
		query["department"] = caseInsensitive(filter.Department)
	}
	if filter.DoctorName != "" {
		query["doctorName"] = caseInsensitive(filter.DoctorName)
	}
	if filter.Date != "" {
		query["date"] = filter.Date
	}
	switch strings.ToLower(filter.TimePreference) {
	case "morning":
		query["time"] = bson.M{"$lt": "12:00"}
	case "afternoon":
		query["time"] = bson.M{"$gte": "12:00"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cur, err := r.slots.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("query availability: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.AppointmentSlot
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode slots: %w", err)
	}
	return out, nil
}

func (r *MongoRepo) BookSlot(ctx context.Context, slotID string, patient models.PatientInfo) (models.BookingResult, error) {
	// The available:true guard makes the claim atomic: of two racing
	// bookings only one matches the document.
	filter := bson.M{"id": slotID, "available": true}
	update := bson.M{"$set": bson.M{
		"available": false,
		"patient":   patient,
		"bookedAt":  time.Now(),
	}}

	var booked models.AppointmentSlot
	err := r.slots.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&booked)
	if err == mongo.ErrNoDocuments {
		n, countErr := r.slots.CountDocuments(ctx, bson.M{"id": slotID})
		if countErr != nil {
			return models.BookingResult{Success: false, Reason: "booking failed"}, countErr
		}
		if n == 0 {
			return models.BookingResult{Success: false, Reason: "slot not found"}, ErrSlotNotFound
		}
		return models.BookingResult{Success: false, Reason: "slot no longer available"}, ErrSlotTaken
	}
	if err != nil {
		return models.BookingResult{Success: false, Reason: "booking failed"}, fmt.Errorf("book slot: %w", err)
	}

	return models.BookingResult{
		Success:          true,
		Slot:             &booked,
		ConfirmationCode: uuid.New().String(),
	}, nil
}

func (r *MongoRepo) Doctors(ctx context.Context) ([]models.Doctor, error) {
	cur, err := r.doctors.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("query doctors: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.Doctor
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode doctors: %w", err)
	}
	return out, nil
}

func (r *MongoRepo) Departments(ctx context.Context) ([]string, error) {
	vals, err := r.doctors.Distinct(ctx, "department", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct departments: %w", err)
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *MongoRepo) HRPolicies(ctx context.Context) ([]models.HRPolicy, error) {
	cur, err := r.policies.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("query hr policies: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.HRPolicy
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode hr policies: %w", err)
	}
	return out, nil
}

func (r *MongoRepo) CompanyInfo(ctx context.Context) (models.CompanyInfo, error) {
	return SeedCompanyInfo(), nil
}

func caseInsensitive(v string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(v) + "$", Options: "i"}
}
