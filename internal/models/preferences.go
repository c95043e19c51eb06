package models

// Default preference values used before the user answers the onboarding wizard.
const (
	DefaultBudget          = 1000000
	DefaultPropertyType    = PropertyTypeHotel
	DefaultTravelFrequency = 0.5
)

// BudgetPresets are the nightly budget ceilings offered by the onboarding wizard.
var BudgetPresets = []float64{500000, 1500000, 3000000}

// Amenity identifiers offered by the onboarding wizard.
var AmenityIDs = []string{"wifi", "pool", "ac", "kitchen", "washer", "parking", "tv", "workspace", "beach", "gym"}

// UserPreferences are the onboarding answers fed to new-user recommendations.
//
// Field names match the recommendation API's feature names and the stored JSON payload.
type UserPreferences struct {
	Location        string   `json:"location_pref_str"`
	Budget          float64  `json:"budget_pref" validate:"gte=0"`
	Amenities       []string `json:"amenities_pref"`
	PropertyType    string   `json:"property_type_pref_str" validate:"omitempty,oneof=HOTEL APARTMENT HOSTEL RESORT VILLA HOMESTAY"`
	TravelFrequency float64  `json:"travel_frequency_score" validate:"gte=0,lte=1"`
}

// DefaultPreferences returns a fresh record with default values.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		Location:        "",
		Budget:          DefaultBudget,
		Amenities:       []string{},
		PropertyType:    DefaultPropertyType,
		TravelFrequency: DefaultTravelFrequency,
	}
}

// Clone returns a deep copy.
func (p UserPreferences) Clone() UserPreferences {
	c := p
	c.Amenities = append([]string{}, p.Amenities...)
	return c
}

// HasAmenity reports whether id is selected.
func (p UserPreferences) HasAmenity(id string) bool {
	for _, a := range p.Amenities {
		if a == id {
			return true
		}
	}
	return false
}
