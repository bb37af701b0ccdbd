package seeds

import (
	"gorm.io/gorm"

	events "iteamhub_backend/internals/seeds/events"
	users "iteamhub_backend/internals/seeds/users"
)

// RunAllSeeds loads the development fixtures. Order matters: events resolve
// their creator by email.
func RunAllSeeds(db *gorm.DB) {
	users.SeedUsersFromJSON(db, "internals/seeds/users/data_users.json")
	events.SeedEventsFromJSON(db, "internals/seeds/events/data_events.json")
}
