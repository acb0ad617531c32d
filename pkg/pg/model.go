package pg

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model is embedded by entities that are keyed by a store-assigned UUID.
// The key is generated client side so it works on both drivers.
type Model struct {
	UID       uuid.UUID `gorm:"primaryKey;type:uuid;column:uid"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (m *Model) BeforeCreate(*gorm.DB) error {
	if m.UID == uuid.Nil {
		m.UID = uuid.New()
	}
	return nil
}
