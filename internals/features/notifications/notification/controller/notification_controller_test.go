package controller

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"iteamhub_backend/internals/features/notifications/notification/model"
)

// SQLite cannot parse the Postgres defaults in the model tags, so the test
// schema is created by hand.
func setupTestApp(t *testing.T, userID uuid.UUID) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, db.Exec(`CREATE TABLE notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'general',
		is_read INTEGER NOT NULL DEFAULT 0,
		metadata TEXT,
		created_at DATETIME
	)`).Error)

	ctrl := NewNotificationController(db)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID.String())
		return c.Next()
	})
	app.Put("/notifications/read-all", ctrl.MarkAllRead)
	app.Put("/notifications/:id/read", ctrl.MarkRead)
	return app, db
}

func createNotification(t *testing.T, db *gorm.DB, userID *uuid.UUID) *model.NotificationModel {
	t.Helper()
	n := model.NotificationModel{
		UserID:  userID,
		Title:   "Heads up",
		Message: "Something happened.",
		Type:    model.NotificationTypeGeneral,
	}
	require.NoError(t, db.Create(&n).Error)
	return &n
}

func TestMarkRead(t *testing.T) {
	userID := uuid.New()
	app, db := setupTestApp(t, userID)
	own := createNotification(t, db, &userID)

	resp, err := app.Test(httptest.NewRequest("PUT", "/notifications/"+own.ID.String()+"/read", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded model.NotificationModel
	require.NoError(t, db.Take(&reloaded, "id = ?", own.ID).Error)
	assert.True(t, reloaded.IsRead)
}

func TestMarkRead_BroadcastStaysShared(t *testing.T) {
	userID := uuid.New()
	app, db := setupTestApp(t, userID)
	broadcast := createNotification(t, db, nil)

	// A broadcast row is visible to everyone; one reader must not flip it
	// for the rest.
	resp, err := app.Test(httptest.NewRequest("PUT", "/notifications/"+broadcast.ID.String()+"/read", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var reloaded model.NotificationModel
	require.NoError(t, db.Take(&reloaded, "id = ?", broadcast.ID).Error)
	assert.False(t, reloaded.IsRead)
}

func TestMarkRead_OtherUsersRow(t *testing.T) {
	userID := uuid.New()
	app, db := setupTestApp(t, userID)
	other := uuid.New()
	foreign := createNotification(t, db, &other)

	resp, err := app.Test(httptest.NewRequest("PUT", "/notifications/"+foreign.ID.String()+"/read", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestMarkAllRead(t *testing.T) {
	userID := uuid.New()
	app, db := setupTestApp(t, userID)
	createNotification(t, db, &userID)
	createNotification(t, db, &userID)
	broadcast := createNotification(t, db, nil)

	resp, err := app.Test(httptest.NewRequest("PUT", "/notifications/read-all", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var unreadOwn int64
	require.NoError(t, db.Model(&model.NotificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unreadOwn).Error)
	assert.EqualValues(t, 0, unreadOwn)

	var reloaded model.NotificationModel
	require.NoError(t, db.Take(&reloaded, "id = ?", broadcast.ID).Error)
	assert.False(t, reloaded.IsRead, "read-all must not touch shared broadcast rows")
}
