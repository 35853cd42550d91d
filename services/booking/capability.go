package booking

import (
	"fmt"

	"fixly/models"
)

// CanFulfill reports whether the provider's catalogue covers the requested
// category, and subcategory when one is given. It is a pure predicate over
// already-loaded data; callers resolve the provider (and fail not-found)
// before calling it. Results must not be cached across requests.
func CanFulfill(provider *models.Provider, categoryID, subcategoryID string) bool {
	_, ok := matchOffering(provider, categoryID, subcategoryID)
	return ok
}

// matchOffering returns the first catalogue entry satisfying the request.
// An entry with no subcategory list covers the whole category.
func matchOffering(provider *models.Provider, categoryID, subcategoryID string) (*models.ServiceOffering, bool) {
	for i := range provider.Services {
		offering := &provider.Services[i]
		if offering.CategoryID != categoryID {
			continue
		}
		if subcategoryID == "" || len(offering.Subcategories) == 0 {
			return offering, true
		}
		for _, sub := range offering.Subcategories {
			if sub == subcategoryID {
				return offering, true
			}
		}
	}
	return nil, false
}

func capabilityError(categoryID, subcategoryID string) error {
	if subcategoryID != "" {
		return NewCapabilityMismatchError(
			fmt.Sprintf("provider does not offer category %q with subcategory %q", categoryID, subcategoryID))
	}
	return NewCapabilityMismatchError(fmt.Sprintf("provider does not offer category %q", categoryID))
}
