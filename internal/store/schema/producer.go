package schema

import "time"

// Producer represents the producers table. The sync only reads it.
type Producer struct {
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// BusinessName is the name dishes refer to their producer by
	BusinessName string    `gorm:"column:business_name;not null;type:text;index:idx_producers_business_name"`
	Name         *string   `gorm:"column:name;type:text"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

// TableName specifies the table name for the Producer model
func (Producer) TableName() string {
	return "producers"
}
