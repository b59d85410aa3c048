package domain

// Segment is a market segment a vehicle belongs to (K-CAR, EV, ...).
// ID 0 is the sentinel for "no record / new record" across all entities.
type Segment struct {
	ID          int    `json:"id"`
	SegmentName string `json:"segment_name"`
}

// Brand is a vehicle manufacturer.
type Brand struct {
	ID        int    `json:"id"`
	BrandName string `json:"brand_name"`
}

// Vehicle references a segment and a brand by id. SegmentName and BrandName
// are denormalized join output computed by the server; the client never
// derives them locally and always trusts the server response.
type Vehicle struct {
	ID          int     `json:"id"`
	VehicleName string  `json:"vehicle_name"`
	ReleaseYear int     `json:"release_year"`
	Price       float64 `json:"price"`
	Segment     int     `json:"segment"`
	Brand       int     `json:"brand"`
	SegmentName string  `json:"segment_name"`
	BrandName   string  `json:"brand_name"`
}

// Profile is the authenticated user's identity.
type Profile struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// Credentials is the login/registration payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// EmptySegmentDraft returns the sentinel draft value for a segment form.
func EmptySegmentDraft() Segment {
	return Segment{}
}

// EmptyBrandDraft returns the sentinel draft value for a brand form.
func EmptyBrandDraft() Brand {
	return Brand{}
}

// EmptyVehicleDraft returns the sentinel draft value for a vehicle form.
// A fresh vehicle draft defaults to release year 2020.
func EmptyVehicleDraft() Vehicle {
	return Vehicle{ReleaseYear: 2020}
}

// PlaceholderSegments is the pre-fetch collection state: a single zero-id
// placeholder record, replaced wholesale by the first successful fetch.
func PlaceholderSegments() []Segment {
	return []Segment{{}}
}

func PlaceholderBrands() []Brand {
	return []Brand{{}}
}

func PlaceholderVehicles() []Vehicle {
	return []Vehicle{{ReleaseYear: 2020}}
}
