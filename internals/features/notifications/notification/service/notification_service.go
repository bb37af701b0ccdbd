package service

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"iteamhub_backend/internals/features/notifications/notification/model"
)

// Notify writes a notification row. Workflow call sites treat this as best
// effort: a failed insert is logged, never propagated.
func Notify(db *gorm.DB, userID *uuid.UUID, notifType, title, message string, metadata map[string]any) {
	n := model.NotificationModel{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notifType,
	}
	if len(metadata) > 0 {
		if raw, err := json.Marshal(metadata); err == nil {
			n.Metadata = datatypes.JSON(raw)
		}
	}
	if err := db.Create(&n).Error; err != nil {
		log.Printf("[WARN] notification insert failed: %v", err)
	}
}

// Broadcast writes a notification visible to every user.
func Broadcast(db *gorm.DB, notifType, title, message string) {
	Notify(db, nil, notifType, title, message, nil)
}
