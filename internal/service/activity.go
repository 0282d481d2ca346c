package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/roomly/booking-core/internal/events"
	"github.com/roomly/booking-core/internal/model"
)

// ActivityLog пишет события аудита в БД и публикует их в брокер.
// Оба канала fire-and-forget: сбой логирования никогда не валит
// породившую операцию, ошибки уходят в warn.
type ActivityLog struct {
	db  *gorm.DB
	pub *events.Publisher
	log *logrus.Logger
}

func NewActivityLog(db *gorm.DB, pub *events.Publisher, log *logrus.Logger) *ActivityLog {
	if log == nil {
		log = logrus.New()
	}
	return &ActivityLog{db: db, pub: pub, log: log}
}

func (a *ActivityLog) Record(
	ctx context.Context,
	userID *uuid.UUID,
	eventType model.EventType,
	entityID *uuid.UUID,
	details string,
) {
	if a == nil {
		return
	}

	ev := model.Event{
		ID:        uuid.New(),
		EventType: eventType,
		UserID:    userID,
		EntityID:  entityID,
		Details:   details,
	}
	if err := a.db.WithContext(ctx).Create(&ev).Error; err != nil {
		a.log.WithError(err).WithField("event_type", eventType).Warn("activity: record failed")
	}

	payload := map[string]any{
		"event_type": string(eventType),
		"details":    details,
	}
	if userID != nil {
		payload["user_id"] = userID.String()
	}
	if entityID != nil {
		payload["entity_id"] = entityID.String()
	}
	if err := a.pub.PublishJSON(ctx, string(eventType), payload); err != nil {
		a.log.WithError(err).WithField("event_type", eventType).Warn("activity: publish failed")
	}
}
