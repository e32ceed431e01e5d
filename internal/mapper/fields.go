package mapper

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/olla-del-barrio/dish-sync/internal/notion"
)

// Field is a canonical destination attribute read from the source
type Field string

const (
	FieldName            Field = "name"
	FieldDescription     Field = "description"
	FieldCategory        Field = "category"
	FieldStatus          Field = "status"
	FieldPrice           Field = "price"
	FieldPreparationTime Field = "preparation_time"
	FieldRating          Field = "rating"
	FieldFeatured        Field = "featured"
	FieldProducerName    Field = "producer_name"
	FieldChefBio         Field = "chef_bio"
	FieldIngredients     Field = "ingredients"
	FieldStory           Field = "story"
	FieldSpiceLevel      Field = "spice_level"
	FieldServingSize     Field = "serving_size"
	FieldCalories        Field = "calories"
	FieldDifficulty      Field = "difficulty"
	FieldTags            Field = "tags"
	FieldSeasonTag       Field = "season_tag"
	FieldVegan           Field = "vegan"
	FieldVegetarian      Field = "vegetarian"
	FieldImage           Field = "image"
)

// fieldAliases lists the source property names of each field, most common first.
// Names are compared after folding, so accent and casing variants need no entry of their own.
var fieldAliases = map[Field][]string{
	FieldName:            {"nombre", "name", "titulo"},
	FieldDescription:     {"descripción", "description"},
	FieldCategory:        {"categoría", "category"},
	FieldStatus:          {"estado", "status"},
	FieldPrice:           {"precio", "price"},
	FieldPreparationTime: {"tiempo_preparación", "tiempo_de_preparación", "preparation_time"},
	FieldRating:          {"calificación", "rating"},
	FieldFeatured:        {"destacado", "featured"},
	FieldProducerName:    {"nombre_cocinero", "cocinero", "productor", "producer"},
	FieldChefBio:         {"biografía_cocinero", "chef_bio"},
	FieldIngredients:     {"ingredientes", "ingredients"},
	FieldStory:           {"historia", "story"},
	FieldSpiceLevel:      {"nivel_picante", "spice_level"},
	FieldServingSize:     {"raciones", "porciones", "serving_size"},
	FieldCalories:        {"calorías", "calories"},
	FieldDifficulty:      {"dificultad", "difficulty"},
	FieldTags:            {"etiquetas", "tags"},
	FieldSeasonTag:       {"etiqueta_temporada", "season_tag"},
	FieldVegan:           {"vegano", "vegan"},
	FieldVegetarian:      {"vegetariano", "vegetarian"},
	FieldImage:           {"archivo_imagen", "imagen", "image"},
}

// FoldName reduces a property name to its comparison key:
// accents stripped, case folded, surrounding space trimmed, inner spaces and hyphens as underscores.
func FoldName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}

	folded := cases.Fold().String(strings.TrimSpace(stripped))
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return '_'
		}
		return r
	}, folded)
}

// EqualFold compares two labels ignoring case and surrounding space
func EqualFold(a, b string) bool {
	// Casers keep state, so each call gets its own
	return cases.Fold().String(strings.TrimSpace(a)) == cases.Fold().String(strings.TrimSpace(b))
}

// properties indexes a page's properties by folded name
type properties struct {
	byKey map[string]notion.Property
	// titles holds title-typed properties in property name order
	titles []notion.Property
}

func indexProperties(props map[string]notion.Property) properties {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	idx := properties{byKey: make(map[string]notion.Property, len(props))}
	for _, name := range names {
		prop := props[name]
		key := FoldName(name)
		// Two spellings of the same field: the first in name order wins
		if _, exists := idx.byKey[key]; !exists {
			idx.byKey[key] = prop
		}
		if prop.Type == notion.TypeTitle {
			idx.titles = append(idx.titles, prop)
		}
	}

	return idx
}

// get returns the property of a field under any of its aliases
func (p properties) get(field Field) (notion.Property, bool) {
	for _, alias := range fieldAliases[field] {
		if prop, ok := p.byKey[FoldName(alias)]; ok {
			return prop, true
		}
	}
	return notion.Property{}, false
}
