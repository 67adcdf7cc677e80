package model

import (
	"strconv"
	"time"
)

// LocationHistory is a place a mobile app user has looked up
type LocationHistory struct {
	ID             string    `json:"id"`
	FirebaseUserID string    `json:"firebase_user_id"`
	PlaceID        string    `json:"place_id"`
	Name           string    `json:"name"`
	Location       string    `json:"location"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	ReferenceSite  string    `json:"reference_site,omitempty"`
	DateTime       time.Time `json:"date_time"`
	CreatedOn      time.Time `json:"created_on"`
	UpdatedOn      time.Time `json:"updated_on"`
}

// Key identifies an entry for synchronisation
func (l *LocationHistory) Key() LocationKey {
	return LocationKey{FirebaseUserID: l.FirebaseUserID, PlaceID: l.PlaceID}
}

// Summary returns the projection returned after removal
func (l *LocationHistory) Summary() *LocationHistorySummary {
	return &LocationHistorySummary{
		ID:             l.ID,
		FirebaseUserID: l.FirebaseUserID,
		PlaceID:        l.PlaceID,
		Name:           l.Name,
	}
}

// LocationKey is the natural key of a location history entry
type LocationKey struct {
	FirebaseUserID string
	PlaceID        string
}

// LocationHistorySummary is the safe projection of a location history entry
type LocationHistorySummary struct {
	ID             string `json:"id"`
	FirebaseUserID string `json:"firebase_user_id"`
	PlaceID        string `json:"place_id"`
	Name           string `json:"name"`
}

// CreateLocationHistoryRequest represents one location history entry
type CreateLocationHistoryRequest struct {
	FirebaseUserID string     `json:"firebase_user_id"`
	PlaceID        string     `json:"place_id"`
	Name           string     `json:"name"`
	Location       string     `json:"location"`
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	ReferenceSite  string     `json:"reference_site,omitempty"`
	DateTime       *time.Time `json:"date_time,omitempty"`
}

// Key identifies the requested entry for synchronisation
func (r *CreateLocationHistoryRequest) Key() LocationKey {
	return LocationKey{FirebaseUserID: r.FirebaseUserID, PlaceID: r.PlaceID}
}

// Validate validates the location history request
func (r *CreateLocationHistoryRequest) Validate() []FieldError {
	var errs []FieldError
	errs = append(errs, required("firebase_user_id", r.FirebaseUserID)...)
	errs = append(errs, required("place_id", r.PlaceID)...)
	errs = append(errs, required("name", r.Name)...)
	errs = append(errs, required("location", r.Location)...)
	if r.Latitude == nil {
		errs = append(errs, FieldError{Field: "latitude", Message: "latitude is required"})
	} else if *r.Latitude < -90 || *r.Latitude > 90 {
		errs = append(errs, FieldError{Field: "latitude", Message: "latitude must be between -90 and 90"})
	}
	if r.Longitude == nil {
		errs = append(errs, FieldError{Field: "longitude", Message: "longitude is required"})
	} else if *r.Longitude < -180 || *r.Longitude > 180 {
		errs = append(errs, FieldError{Field: "longitude", Message: "longitude must be between -180 and 180"})
	}
	return errs
}

// SyncLocationHistoryRequest carries the client's current entries
type SyncLocationHistoryRequest struct {
	LocationHistories []CreateLocationHistoryRequest `json:"location_histories"`
}

// Validate validates every candidate entry. Field keys are indexed.
func (r *SyncLocationHistoryRequest) Validate(firebaseUserID string) []FieldError {
	var errs []FieldError
	for i := range r.LocationHistories {
		c := r.LocationHistories[i]
		c.FirebaseUserID = firebaseUserID
		for _, e := range c.Validate() {
			errs = append(errs, FieldError{
				Field:   "location_histories[" + strconv.Itoa(i) + "]." + e.Field,
				Message: e.Message,
			})
		}
	}
	return errs
}

// UpdateLocationHistoryRequest represents a partial update
type UpdateLocationHistoryRequest struct {
	Name          *string    `json:"name,omitempty"`
	Location      *string    `json:"location,omitempty"`
	Latitude      *float64   `json:"latitude,omitempty"`
	Longitude     *float64   `json:"longitude,omitempty"`
	ReferenceSite *string    `json:"reference_site,omitempty"`
	DateTime      *time.Time `json:"date_time,omitempty"`
}

// Validate validates the update request
func (r *UpdateLocationHistoryRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		errs = append(errs, FieldError{Field: "latitude", Message: "latitude must be between -90 and 90"})
	}
	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		errs = append(errs, FieldError{Field: "longitude", Message: "longitude must be between -180 and 180"})
	}
	return errs
}

// Update translates the request into field assignments
func (r *UpdateLocationHistoryRequest) Update() Update {
	s := setter{}
	s.str("name", r.Name)
	s.str("location", r.Location)
	s.float("latitude", r.Latitude)
	s.float("longitude", r.Longitude)
	s.str("reference_site", r.ReferenceSite)
	if r.DateTime != nil {
		s["date_time"] = *r.DateTime
	}
	return Update{Set: s}
}
