package services

import (
	"fmt"

	"bike-deal-monitor/models"
)

// Signature derives a stable identity string for a listing from the fields
// that rarely collide across genuinely different used bikes. The feed exposes
// no canonical listing ID, so this heuristic identity is what the seen store
// dedupes on; two bikes matching on all five fields are treated as the same
// listing.
//
// Example: Yamaha_Tracer 900_2019_15000_8500
func Signature(bike *models.BikeRecord, price int) string {
	return fmt.Sprintf("%s_%s_%d_%d_%d",
		bike.Brand, bike.Model, bike.Year, bike.Kilometers, price)
}
