package kvstore

import (
	"context"
	"errors"
	"time"

	"github.com/lcorp/storefront/pkg/db"
	"github.com/lcorp/storefront/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQL stores items as rows of storefront_session_entries.
type SQL struct {
	client *db.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewSQL(client *db.Client, ttl time.Duration) *SQL {
	return &SQL{client: client, ttl: ttl, now: time.Now}
}

func (s *SQL) GetItem(ctx context.Context, sessionID, key string) (string, bool, error) {
	var entry models.SessionEntry
	err := s.client.DB().WithContext(ctx).
		Where("session_id = ? AND item_key = ?", sessionID, key).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if entry.Expired(s.now()) {
		return "", false, nil
	}
	return entry.Value, true, nil
}

func (s *SQL) SetItem(ctx context.Context, sessionID, key, value string) error {
	now := s.now().UTC()
	entry := models.SessionEntry{
		SessionID: sessionID,
		ItemKey:   key,
		Value:     value,
		ExpiresAt: expiryFrom(now, s.ttl),
		UpdatedAt: now,
	}
	return s.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "item_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
		}).
		Create(&entry).Error
}

func (s *SQL) RemoveItem(ctx context.Context, sessionID, key string) error {
	return s.client.DB().WithContext(ctx).
		Where("session_id = ? AND item_key = ?", sessionID, key).
		Delete(&models.SessionEntry{}).Error
}

// PurgeExpired deletes rows whose expiry has passed and returns how many went.
func (s *SQL) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.client.DB().WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", s.now().UTC()).
		Delete(&models.SessionEntry{})
	return res.RowsAffected, res.Error
}

func (s *SQL) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
