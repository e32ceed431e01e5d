package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Dish represents the dishes table - one row per source record, keyed by the source identifier
type Dish struct {
	// ID is the source record identifier and the upsert conflict key
	ID string `gorm:"column:id;primaryKey;type:text"`

	// Listing
	Name        string  `gorm:"column:name;not null;type:text"`
	Description *string `gorm:"column:description;type:text"`
	Category    *string `gorm:"column:category;type:text"`
	// ImageURL is the durable storage URL, never the transient source URL
	ImageURL    *string `gorm:"column:image_url;type:text"`
	IsAvailable bool    `gorm:"column:is_available;not null"`
	Status      string  `gorm:"column:status;not null;type:text"`
	PriceCents  int64   `gorm:"column:price_cents;not null"`
	Rating      float64 `gorm:"column:rating;not null"`
	Featured    bool    `gorm:"column:featured;not null"`

	// ProducerID references producers.id
	ProducerID *string `gorm:"column:producer_id;type:uuid;index:idx_dishes_producer_id"`

	// Extended attributes
	PreparationTimeMinutes *int                        `gorm:"column:preparation_time_minutes"`
	Tags                   datatypes.JSONSlice[string] `gorm:"column:tags;not null"`
	ChefName               *string                     `gorm:"column:chef_name;type:text"`
	ChefBio                *string                     `gorm:"column:chef_bio;type:text"`
	Ingredients            *string                     `gorm:"column:ingredients;type:text"`
	Story                  *string                     `gorm:"column:story;type:text"`
	ServingSize            *string                     `gorm:"column:serving_size;type:text"`
	SpiceLevel             *string                     `gorm:"column:spice_level;type:text"`
	Calories               int                         `gorm:"column:calories;not null"`
	Difficulty             *string                     `gorm:"column:difficulty;type:text"`

	// SourceLastEditedAt is the last edit time reported by the source
	SourceLastEditedAt *time.Time `gorm:"column:source_last_edited_at"`
	// CreatedAt is set on first insert and never updated
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
}

// TableName specifies the table name for the Dish model
func (Dish) TableName() string {
	return "dishes"
}
