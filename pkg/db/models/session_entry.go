package models

import "time"

// SessionEntry is one persisted key of a browser session.
type SessionEntry struct {
	SessionID string     `gorm:"column:session_id;primaryKey;type:varchar(64)"`
	ItemKey   string     `gorm:"column:item_key;primaryKey;type:varchar(64)"`
	Value     string     `gorm:"column:value;type:text;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;not null"`
}

func (SessionEntry) TableName() string {
	return "storefront_session_entries"
}

// Expired reports whether the entry is past its expiry at now.
func (e SessionEntry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && !now.Before(*e.ExpiresAt)
}
