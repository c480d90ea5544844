package models

import "time"

// BikeRecord holds the structured attributes extracted from one raw listing
// text block. Numeric zero values mean "not found in the text", not a genuine
// zero; Brand is "Unknown" when no usable title line was resolved.
type BikeRecord struct {
	Year       int
	Kilometers int
	CC         int
	HP         int
	Brand      string
	Model      string
	Price      int
}

// Usable reports whether the record carries enough signal to be worth
// evaluating: a resolved title and an asking price.
func (b *BikeRecord) Usable() bool {
	return b.Brand != "Unknown" && b.Price > 0
}

// Deal is a confirmed below-market listing, kept for notification and the
// optional deal-history sink.
type Deal struct {
	Signature      string
	Brand          string
	Model          string
	Year           int
	Kilometers     int
	Price          int
	PredictedPrice int
	Profit         int
	FoundAt        time.Time
}
