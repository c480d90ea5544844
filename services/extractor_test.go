package services

import (
	"testing"

	"bike-deal-monitor/models"
	"bike-deal-monitor/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func TestExtractFullListing(t *testing.T) {
	e := NewExtractor(newTestLogger())

	raw := "2019 \nYamaha Tracer 900\n15.000 Km\n8.500 €\n900 cc\n113 hp"
	got := e.Extract(raw)
	if got == nil {
		t.Fatal("Extract returned nil for a complete listing")
	}

	want := models.BikeRecord{
		Year:       2019,
		Kilometers: 15000,
		CC:         900,
		HP:         113,
		Brand:      "Yamaha",
		Model:      "Tracer 900",
		Price:      8500,
	}
	if *got != want {
		t.Errorf("Extract = %+v; want %+v", *got, want)
	}
}

func TestExtractTitleWithInlineYear(t *testing.T) {
	e := NewExtractor(newTestLogger())

	raw := "3 / 12\nΠροωθημένη Honda CB650R 2021 \n9.800 €\n4.200 Km\n649 cc\n95 hp"
	got := e.Extract(raw)
	if got == nil {
		t.Fatal("Extract returned nil")
	}
	if got.Brand != "Honda" || got.Model != "CB650R" {
		t.Errorf("title: got %q %q; want Honda CB650R", got.Brand, got.Model)
	}
	if got.Year != 2021 || got.Price != 9800 || got.Kilometers != 4200 {
		t.Errorf("fields: got %+v", *got)
	}
}

func TestExtractRemovesNoiseMarkers(t *testing.T) {
	e := NewExtractor(newTestLogger())

	tests := []struct {
		name      string
		raw       string
		wantBrand string
		wantModel string
	}{
		{"pagination counter", "1 / 14 Suzuki SV650 2018 \n4.500 €", "Suzuki", "SV650"},
		{"promoted tag", "Προωθημένη Kawasaki Z900 2020 \n7.900 €", "Kawasaki", "Z900"},
		{"damaged tag", "Ducati Monster 821 Με ζημιά 2017 \n5.200 €", "Ducati", "Monster 821"},
	}

	for _, tt := range tests {
		got := e.Extract(tt.raw)
		if got == nil {
			t.Errorf("%s: Extract returned nil", tt.name)
			continue
		}
		if got.Brand != tt.wantBrand || got.Model != tt.wantModel {
			t.Errorf("%s: got %q %q; want %q %q",
				tt.name, got.Brand, got.Model, tt.wantBrand, tt.wantModel)
		}
	}
}

func TestExtractRejects(t *testing.T) {
	e := NewExtractor(newTestLogger())

	tests := []struct {
		name string
		raw  string
	}{
		{"empty block", ""},
		{"no year at all", "Yamaha MT-07\n6.500 €\n20.000 Km"},
		{"year not line-terminated", "Yamaha MT-07 2019 edition 6.500 €"},
		{"no price", "2019 \nYamaha MT-07\n20.000 Km\n689 cc"},
		{"navigation fragment", "Αρχική\nΜοτοσυκλέτες\nΑναζήτηση"},
	}

	for _, tt := range tests {
		if got := e.Extract(tt.raw); got != nil {
			t.Errorf("%s: expected reject, got %+v", tt.name, *got)
		}
	}
}

func TestExtractSentinelDefaults(t *testing.T) {
	e := NewExtractor(newTestLogger())

	// Price and title present, everything else missing.
	raw := "2015 \nBMW\n3.000 €"
	got := e.Extract(raw)
	if got == nil {
		t.Fatal("Extract returned nil")
	}
	if got.Kilometers != 0 || got.CC != 0 || got.HP != 0 {
		t.Errorf("missing fields should default to 0, got %+v", *got)
	}
	if got.Brand != "BMW" || got.Model != "Unknown" {
		t.Errorf("single-token title: got %q %q; want BMW Unknown", got.Brand, got.Model)
	}
}

func TestExtractGroupSeparators(t *testing.T) {
	e := NewExtractor(newTestLogger())

	raw := "2016 \nHarley Davidson Iron 883\n12.345 €\n1.234 Km"
	got := e.Extract(raw)
	if got == nil {
		t.Fatal("Extract returned nil")
	}
	if got.Price != 12345 {
		t.Errorf("price: got %d, want 12345", got.Price)
	}
	if got.Kilometers != 1234 {
		t.Errorf("kilometers: got %d, want 1234", got.Kilometers)
	}
}
