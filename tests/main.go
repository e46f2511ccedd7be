// Reseed tool: wipes and repopulates the hospital directory collections so
// a development database always has a fresh week of open slots.
package main

import (
	"context"
	"log"
	"time"

	"careline/config"
	"careline/database"
	"careline/database/repository/hospital"
	"careline/models"

	"go.mongodb.org/mongo-driver/bson"
)

func main() {
	config.LoadConfig()
	if config.AppConfig.DatabaseURL == "" {
		log.Fatal("DATABASE_URL must be set to reseed")
	}
	database.InitDB()

	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	for _, name := range []string{"doctors", "appointment_slots", "hr_policies"} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("failed to clear %s: %v", name, err)
		}
	}

	repo := hospital.NewMongoRepo()
	if err := repo.EnsureSeed(ctx); err != nil {
		log.Fatalf("failed to seed hospital directory: %v", err)
	}

	slots, err := repo.QueryAvailability(ctx, models.SlotFilter{})
	if err != nil {
		log.Fatalf("verification query failed: %v", err)
	}
	log.Printf("reseeded: %d open slots", len(slots))
}
