package models

import "time"

// Retailer is a shop the platform sells through. Catalog administration lives
// in another service; this row exists so ledger writes can check referential
// ownership.
type Retailer struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Pid       string    `gorm:"column:pid;size:32;not null;uniqueIndex"`
	Name      string    `gorm:"column:name;size:64;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Sections []Section `gorm:"foreignKey:RetailerPid;references:Pid;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
