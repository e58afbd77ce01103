package gorm

import "time"

// Airline represents an operating carrier. Only name and logo are read by the journey index.
type Airline struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Code      string    `gorm:"column:code;type:varchar(3);not null;uniqueIndex"`
	Name      string    `gorm:"column:name;type:varchar(100);not null"`
	LogoURL   string    `gorm:"column:logo_url;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Airline) TableName() string {
	return "airlines"
}
