package view

import (
	"fmt"
	"math"
	"strings"
)

// Badge is the rendered form of a diet/allergen tag.
type Badge struct {
	Label string `json:"label"`
	Class string `json:"class"`
}

// Stars is a 0-5 rating broken down into renderable segments.
type Stars struct {
	Full  int     `json:"full"`
	Half  bool    `json:"half"`
	Empty int     `json:"empty"`
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// BadgeClass maps a tag to its CSS badge class; unknown tags get no class.
func BadgeClass(tag string) string {
	switch tag {
	case "vegan":
		return "b-vegan"
	case "vegetarian":
		return "b-veg"
	case "gluten_free":
		return "b-gf"
	case "plant_forward":
		return "b-pf"
	case "eat_well":
		return "b-ew"
	default:
		return ""
	}
}

// Badges converts a tag list into display badges, underscores become spaces.
func Badges(tags []string) []Badge {
	badges := make([]Badge, 0, len(tags))
	for _, tag := range tags {
		badges = append(badges, Badge{
			Label: strings.Replace(tag, "_", " ", 1),
			Class: BadgeClass(tag),
		})
	}
	return badges
}

// StarsFor clamps a rating to 0-5 and splits it into full/half/empty stars.
// A fractional part of at least .5 renders as a half star.
func StarsFor(rating float64) Stars {
	clamped := math.Max(0, math.Min(5, rating))
	full := int(math.Floor(clamped))
	half := clamped-float64(full) >= 0.5

	empty := 5 - full
	if half {
		empty--
	}

	return Stars{
		Full:  full,
		Half:  half,
		Empty: empty,
		Value: clamped,
		Label: fmt.Sprintf("%.1f out of 5 stars", clamped),
	}
}

// ImageURL falls back to the placeholder when the item has no usable image.
func ImageURL(img, placeholder string) string {
	if trimmed := strings.TrimSpace(img); trimmed != "" {
		return trimmed
	}
	return placeholder
}
