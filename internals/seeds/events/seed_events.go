package event

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"gorm.io/gorm"

	"iteamhub_backend/internals/features/events/event/model"
	userModel "iteamhub_backend/internals/features/users/user/model"
)

type EventSeed struct {
	Title                string  `json:"title"`
	Description          string  `json:"description"`
	EventDate            string  `json:"event_date"` // RFC3339
	EventTime            string  `json:"event_time,omitempty"`
	Location             string  `json:"location"`
	LocationType         string  `json:"location_type,omitempty"`
	MaxParticipants      *int    `json:"max_participants,omitempty"`
	RegistrationDeadline *string `json:"registration_deadline,omitempty"`
	CreatedByEmail       string  `json:"created_by_email"`
}

// SeedEventsFromJSON inserts the events listed in the file. CreatedBy is
// resolved by email, so the user seed must run first. Existing titles are
// skipped.
func SeedEventsFromJSON(db *gorm.DB, filePath string) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("❌ failed to read seed file %s: %v", filePath, err)
	}

	var inputs []EventSeed
	if err := json.Unmarshal(raw, &inputs); err != nil {
		log.Fatalf("❌ failed to decode %s: %v", filePath, err)
	}

	for _, data := range inputs {
		var existing model.EventModel
		if err := db.Where("title = ?", data.Title).First(&existing).Error; err == nil {
			log.Printf("ℹ️ event '%s' already exists, skipped", data.Title)
			continue
		}

		var creator userModel.UserModel
		if err := db.Where("email = ?", data.CreatedByEmail).First(&creator).Error; err != nil {
			log.Printf("❌ event '%s': creator '%s' not found", data.Title, data.CreatedByEmail)
			continue
		}

		date, err := time.Parse(time.RFC3339, data.EventDate)
		if err != nil {
			log.Printf("❌ event '%s': bad event_date: %v", data.Title, err)
			continue
		}

		ev := model.EventModel{
			Title:     data.Title,
			EventDate: date,
			Location:  data.Location,
			CreatedBy: creator.ID,
		}
		if data.Description != "" {
			ev.Description = &data.Description
		}
		if data.EventTime != "" {
			ev.EventTime = &data.EventTime
		}
		if data.LocationType != "" {
			ev.LocationType = &data.LocationType
		}
		ev.MaxParticipants = data.MaxParticipants
		if data.RegistrationDeadline != nil {
			if d, err := time.Parse(time.RFC3339, *data.RegistrationDeadline); err == nil {
				ev.RegistrationDeadline = &d
			}
		}

		if err := db.Create(&ev).Error; err != nil {
			log.Printf("❌ failed to insert event '%s': %v", data.Title, err)
		} else {
			log.Printf("✅ seeded event '%s'", data.Title)
		}
	}
}
