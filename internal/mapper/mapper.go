package mapper

import (
	"math"
	"path"
	"sort"
	"strings"

	"github.com/olla-del-barrio/dish-sync/internal/domain"
	"github.com/olla-del-barrio/dish-sync/internal/notion"
)

const (
	// featuredRating is given to featured dishes without an explicit rating
	featuredRating = 5

	TagVegan      = "Vegano"
	TagVegetarian = "Vegetariano"
)

// Config holds the mapping defaults
type Config struct {
	// PlaceholderPriceCents is used when the source has no usable price
	PlaceholderPriceCents int64
}

// Result is the outcome of mapping one source page
type Result struct {
	Dish domain.Dish

	// ProducerName is the trimmed producer name, empty when the page has none
	ProducerName string

	// Image is the page's file reference, nil when the page has none.
	// Dish.ImageURL is always nil here; only the asset migrator sets it.
	Image *domain.FileRef
}

// Mapper converts source pages into normalized dishes
type Mapper interface {
	// Map never fails: absent or malformed fields take their defaults
	Map(page notion.Page) Result
}

type mapper struct {
	config Config
}

// New creates a new mapper
func New(cfg Config) Mapper {
	return &mapper{config: cfg}
}

func (m *mapper) Map(page notion.Page) Result {
	props := indexProperties(page.Properties)

	dish := domain.Dish{
		ID:                     page.ID,
		Name:                   mapName(props),
		Description:            optionalText(props, FieldDescription),
		Category:               optionalText(props, FieldCategory),
		PriceCents:             m.mapPrice(props),
		PreparationTimeMinutes: optionalNonNegativeInt(props, FieldPreparationTime),
		Featured:               flag(props, FieldFeatured),
		ChefBio:                optionalText(props, FieldChefBio),
		Ingredients:            optionalText(props, FieldIngredients),
		Story:                  optionalText(props, FieldStory),
		SpiceLevel:             optionalText(props, FieldSpiceLevel),
		ServingSize:            optionalText(props, FieldServingSize),
		Difficulty:             optionalText(props, FieldDifficulty),
		Tags:                   mapTags(props),
	}

	dish.Status, dish.IsAvailable = mapStatus(props)
	dish.Rating = mapRating(props, dish.Featured)

	if calories := optionalNonNegativeInt(props, FieldCalories); calories != nil {
		dish.Calories = *calories
	}

	if page.LastEditedTime != nil {
		edited := page.LastEditedTime.UTC()
		dish.SourceLastEditedAt = &edited
	}

	producerName := ""
	if prop, ok := props.get(FieldProducerName); ok {
		producerName = strings.TrimSpace(prop.Text())
	}
	if producerName != "" {
		chef := producerName
		dish.ChefName = &chef
	}

	return Result{
		Dish:         dish,
		ProducerName: producerName,
		Image:        mapImage(props),
	}
}

// mapName takes the first run of the name field, then of any title property, then the sentinel
func mapName(props properties) string {
	if prop, ok := props.get(FieldName); ok {
		if name := strings.TrimSpace(prop.FirstRun()); name != "" {
			return name
		}
	}
	for _, prop := range props.titles {
		if name := strings.TrimSpace(prop.FirstRun()); name != "" {
			return name
		}
	}
	return domain.DefaultDishName
}

// mapStatus keeps the label as written and compares it ignoring case
func mapStatus(props properties) (string, bool) {
	prop, ok := props.get(FieldStatus)
	if !ok {
		return domain.DefaultStatus, false
	}

	label := strings.TrimSpace(prop.Text())
	if label == "" {
		return domain.DefaultStatus, false
	}

	return label, EqualFold(label, domain.AvailableStatusLabel)
}

func (m *mapper) mapPrice(props properties) int64 {
	if prop, ok := props.get(FieldPrice); ok {
		if price, ok := prop.Float(); ok && price > 0 {
			if cents := int64(math.Round(price * 100)); cents > 0 {
				return cents
			}
		}
	}
	return m.config.PlaceholderPriceCents
}

func mapRating(props properties, featured bool) float64 {
	if prop, ok := props.get(FieldRating); ok {
		if rating, ok := prop.Float(); ok && rating >= 0 && !math.IsInf(rating, 0) {
			return rating
		}
	}
	if featured {
		return featuredRating
	}
	return 0
}

// mapTags builds the sorted tag set from labels, the season tag and diet flags
func mapTags(props properties) []string {
	set := make(map[string]struct{})

	if prop, ok := props.get(FieldTags); ok {
		for _, label := range prop.Labels() {
			set[label] = struct{}{}
		}
	}
	if prop, ok := props.get(FieldSeasonTag); ok {
		if season := strings.TrimSpace(prop.Text()); season != "" {
			set[season] = struct{}{}
		}
	}
	if flag(props, FieldVegan) {
		set[TagVegan] = struct{}{}
	}
	if flag(props, FieldVegetarian) {
		set[TagVegetarian] = struct{}{}
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// mapImage returns the first file of the image field, named after its declared filename
func mapImage(props properties) *domain.FileRef {
	prop, ok := props.get(FieldImage)
	if !ok {
		return nil
	}

	file, ok := prop.FirstFile()
	if !ok {
		return nil
	}

	url := strings.TrimSpace(file.Location())
	if url == "" {
		return nil
	}

	return &domain.FileRef{
		URL:  url,
		Name: SanitizeFilename(file.Name),
	}
}

// SanitizeFilename reduces a declared filename to a safe base name, empty when nothing usable remains
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return ""
	}

	base := path.Base(name)
	if base == "." || base == ".." || base == "/" {
		return ""
	}
	return base
}

func optionalText(props properties, field Field) *string {
	prop, ok := props.get(field)
	if !ok {
		return nil
	}

	text := strings.TrimSpace(prop.Text())
	if text == "" {
		return nil
	}
	return &text
}

func optionalNonNegativeInt(props properties, field Field) *int {
	prop, ok := props.get(field)
	if !ok {
		return nil
	}

	f, ok := prop.Float()
	if !ok || f < 0 || math.IsNaN(f) || f > math.MaxInt32 {
		return nil
	}

	n := int(math.Round(f))
	return &n
}

func flag(props properties, field Field) bool {
	prop, ok := props.get(field)
	return ok && prop.Bool()
}
