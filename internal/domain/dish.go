package domain

import "time"

const (
	// DefaultDishName is used when the source record has no title
	DefaultDishName = "Sin nombre"

	// DefaultStatus is used when the source record has no status label
	DefaultStatus = "inactivo"

	// AvailableStatusLabel is the status label (after case folding) that marks a dish as available
	AvailableStatusLabel = "activo"

	// DefaultAssetFilename is used when a file reference has no declared name
	DefaultAssetFilename = "cover.jpg"
)

// Dish is the normalized, destination-shaped record produced from one source record.
// ID is the source record identifier and the only conflict key for upserts.
type Dish struct {
	ID                     string
	Name                   string
	Description            *string
	Category               *string
	ImageURL               *string
	IsAvailable            bool
	Status                 string
	PriceCents             int64
	PreparationTimeMinutes *int
	Rating                 float64
	ProducerID             *string
	Featured               bool
	Tags                   []string
	ChefName               *string
	ChefBio                *string
	Ingredients            *string
	Story                  *string
	ServingSize            *string
	SpiceLevel             *string
	Calories               int
	Difficulty             *string
	SourceLastEditedAt     *time.Time
}

// FileRef is a file attached to a source record: a transient URL plus the declared filename
type FileRef struct {
	URL  string
	Name string
}
