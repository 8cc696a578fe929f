package domain

// Amenity is a named facility (parking, stage, projector) that can be
// attached to any number of halls. Names are unique ignoring case.
type Amenity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
