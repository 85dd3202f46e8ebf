package types

// FilterSpec holds optional structured constraints applied to scored
// candidates before ranking. Every bound is independently optional; a spec
// with no bounds set is the identity filter. Numeric bounds are inclusive
// on both ends. String bounds are case-sensitive exact matches on the
// normalized field; callers normalize case before filtering.
type FilterSpec struct {
	PriceMin     *float64 `json:"price_min,omitempty"`
	PriceMax     *float64 `json:"price_max,omitempty"`
	BedroomMin   *int     `json:"bedroom_min,omitempty"`
	BathroomMin  *float64 `json:"bathroom_min,omitempty"`
	AreaSqftMin  *float64 `json:"area_sqft_min,omitempty"`
	AreaSqftMax  *float64 `json:"area_sqft_max,omitempty"`
	City         *string  `json:"city,omitempty"`
	Neighborhood *string  `json:"neighborhood,omitempty"`
}

// IsIdentity reports whether no bound is set.
func (f *FilterSpec) IsIdentity() bool {
	if f == nil {
		return true
	}
	return f.PriceMin == nil && f.PriceMax == nil &&
		f.BedroomMin == nil && f.BathroomMin == nil &&
		f.AreaSqftMin == nil && f.AreaSqftMax == nil &&
		f.City == nil && f.Neighborhood == nil
}

// Validate rejects malformed bounds. Called once per query during INIT,
// before any external call.
func (f *FilterSpec) Validate() error {
	if f == nil {
		return nil
	}
	if f.PriceMin != nil && *f.PriceMin < 0 {
		return NewValidationError("price_min cannot be negative")
	}
	if f.PriceMax != nil && *f.PriceMax < 0 {
		return NewValidationError("price_max cannot be negative")
	}
	if f.PriceMin != nil && f.PriceMax != nil && *f.PriceMin > *f.PriceMax {
		return NewValidationError("price_min %g exceeds price_max %g", *f.PriceMin, *f.PriceMax)
	}
	if f.BedroomMin != nil && *f.BedroomMin < 0 {
		return NewValidationError("bedroom_min cannot be negative")
	}
	if f.BathroomMin != nil && *f.BathroomMin < 0 {
		return NewValidationError("bathroom_min cannot be negative")
	}
	if f.AreaSqftMin != nil && *f.AreaSqftMin < 0 {
		return NewValidationError("area_sqft_min cannot be negative")
	}
	if f.AreaSqftMax != nil && *f.AreaSqftMax < 0 {
		return NewValidationError("area_sqft_max cannot be negative")
	}
	if f.AreaSqftMin != nil && f.AreaSqftMax != nil && *f.AreaSqftMin > *f.AreaSqftMax {
		return NewValidationError("area_sqft_min %g exceeds area_sqft_max %g", *f.AreaSqftMin, *f.AreaSqftMax)
	}
	return nil
}

// Matches reports whether the listing satisfies every set bound.
func (f *FilterSpec) Matches(attrs *ListingAttributes) bool {
	if f == nil {
		return true
	}
	if f.PriceMin != nil && attrs.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && attrs.Price > *f.PriceMax {
		return false
	}
	if f.BedroomMin != nil && attrs.Bedrooms < *f.BedroomMin {
		return false
	}
	if f.BathroomMin != nil && attrs.Bathrooms < *f.BathroomMin {
		return false
	}
	if f.AreaSqftMin != nil && attrs.AreaSqft < *f.AreaSqftMin {
		return false
	}
	if f.AreaSqftMax != nil && attrs.AreaSqft > *f.AreaSqftMax {
		return false
	}
	if f.City != nil && attrs.City != *f.City {
		return false
	}
	if f.Neighborhood != nil && attrs.Neighborhood != *f.Neighborhood {
		return false
	}
	return true
}
