package rest

import (
	"context"
	"time"

	"github.com/olla-del-barrio/dish-sync/internal/domain"
)

// DishReader reads synced rows back for operators
//
//go:generate mockgen -source=dishes.go -destination=../../mocks/dish_reader.go -package=mocks -mock_names=DishReader=MockDishReader
type DishReader interface {
	// GetDishesByIDs retrieves dishes by id
	GetDishesByIDs(ctx context.Context, ids []string) ([]domain.Dish, error)

	// CountDishes returns the number of synced dishes
	CountDishes(ctx context.Context) (int64, error)

	// Ping checks the database connection
	Ping(ctx context.Context) error
}

// dishResponse is the JSON shape of one synced dish
type dishResponse struct {
	ID                     string     `json:"id"`
	Name                   string     `json:"name"`
	Description            *string    `json:"description"`
	Category               *string    `json:"category"`
	ImageURL               *string    `json:"image_url"`
	IsAvailable            bool       `json:"is_available"`
	Status                 string     `json:"status"`
	PriceCents             int64      `json:"price_cents"`
	PreparationTimeMinutes *int       `json:"preparation_time_minutes"`
	Rating                 float64    `json:"rating"`
	ProducerID             *string    `json:"producer_id"`
	Featured               bool       `json:"featured"`
	Tags                   []string   `json:"tags"`
	ChefName               *string    `json:"chef_name"`
	ChefBio                *string    `json:"chef_bio"`
	Ingredients            *string    `json:"ingredients"`
	Story                  *string    `json:"story"`
	ServingSize            *string    `json:"serving_size"`
	SpiceLevel             *string    `json:"spice_level"`
	Calories               int        `json:"calories"`
	Difficulty             *string    `json:"difficulty"`
	SourceLastEditedAt     *time.Time `json:"source_last_edited_at"`
}

func toDishResponse(d domain.Dish) dishResponse {
	return dishResponse{
		ID:                     d.ID,
		Name:                   d.Name,
		Description:            d.Description,
		Category:               d.Category,
		ImageURL:               d.ImageURL,
		IsAvailable:            d.IsAvailable,
		Status:                 d.Status,
		PriceCents:             d.PriceCents,
		PreparationTimeMinutes: d.PreparationTimeMinutes,
		Rating:                 d.Rating,
		ProducerID:             d.ProducerID,
		Featured:               d.Featured,
		Tags:                   d.Tags,
		ChefName:               d.ChefName,
		ChefBio:                d.ChefBio,
		Ingredients:            d.Ingredients,
		Story:                  d.Story,
		ServingSize:            d.ServingSize,
		SpiceLevel:             d.SpiceLevel,
		Calories:               d.Calories,
		Difficulty:             d.Difficulty,
		SourceLastEditedAt:     d.SourceLastEditedAt,
	}
}
