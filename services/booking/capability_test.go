package booking

import (
	"testing"

	"fixly/models"
)

func catalogueProvider() *models.Provider {
	return &models.Provider{
		ID: "prov-1",
		Services: []models.ServiceOffering{
			{CategoryID: "plumbing", Subcategories: []string{"leak-repair", "pipe-install"}, HourlyRate: 40},
			{CategoryID: "cleaning", HourlyRate: 25}, // no subcategories: covers the whole category
		},
	}
}

func TestCanFulfillExactSubcategory(t *testing.T) {
	p := catalogueProvider()
	if !CanFulfill(p, "plumbing", "leak-repair") {
		t.Fatalf("expected provider to cover plumbing/leak-repair")
	}
	if CanFulfill(p, "plumbing", "drain-cleaning") {
		t.Fatalf("expected plumbing/drain-cleaning to be outside the catalogue")
	}
}

func TestCanFulfillCategoryOnly(t *testing.T) {
	p := catalogueProvider()
	if !CanFulfill(p, "plumbing", "") {
		t.Fatalf("a category-only request must match any offering in that category")
	}
	if CanFulfill(p, "electrical", "") {
		t.Fatalf("expected electrical to be outside the catalogue")
	}
}

func TestCanFulfillEmptySubcategoryListCoversCategory(t *testing.T) {
	p := catalogueProvider()
	// The cleaning offering lists no subcategories, so every cleaning
	// subcategory is covered.
	if !CanFulfill(p, "cleaning", "deep-clean") {
		t.Fatalf("an offering without subcategories must cover the whole category")
	}
	if !CanFulfill(p, "cleaning", "window-wash") {
		t.Fatalf("an offering without subcategories must cover the whole category")
	}
}

func TestCanFulfillEmptyCatalogue(t *testing.T) {
	p := &models.Provider{ID: "prov-2"}
	if CanFulfill(p, "plumbing", "") {
		t.Fatalf("a provider with no services fulfills nothing")
	}
}

func TestMatchOfferingReturnsRate(t *testing.T) {
	p := catalogueProvider()
	offering, ok := matchOffering(p, "cleaning", "deep-clean")
	if !ok {
		t.Fatalf("expected a match")
	}
	if offering.HourlyRate != 25 {
		t.Fatalf("expected the cleaning rate, got %v", offering.HourlyRate)
	}
}
