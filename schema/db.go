package schema

import (
	"time"

	"gorm.io/datatypes"
)

// EventRecord is the sql history row of an emitted ledger event.
type EventRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	EventId string         `gorm:"uniqueIndex;size:64" json:"eventId"`
	Kind    string         `gorm:"index:idx_kind;size:64" json:"kind"`
	Epoch   uint64         `gorm:"index:idx_epoch" json:"epoch"`
	Domain  string         `gorm:"index:idx_domain;size:255" json:"domain"`
	AssetId string         `gorm:"index:idx_asset;size:255" json:"assetId"`
	Payload datatypes.JSON `json:"payload"`
}
