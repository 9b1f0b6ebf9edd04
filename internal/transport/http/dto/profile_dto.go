package dto

import "time"

type ProfileRequest struct {
	DisplayName string   `json:"display_name"`
	Bio         string   `json:"bio,omitempty"`
	Birthdate   string   `json:"birthdate"`
	Gender      string   `json:"gender,omitempty"`
	LookingFor  string   `json:"looking_for,omitempty"`
	Interests   []string `json:"interests,omitempty"`
	HomeCity    string   `json:"home_city,omitempty"`
	AgeMin      int      `json:"age_min,omitempty"`
	AgeMax      int      `json:"age_max,omitempty"`
	RadiusKM    int      `json:"radius_km,omitempty"`
}

type ProfileResponse struct {
	UserID      int64           `json:"user_id"`
	DisplayName string          `json:"display_name"`
	Bio         string          `json:"bio,omitempty"`
	Age         int             `json:"age,omitempty"`
	Gender      string          `json:"gender,omitempty"`
	LookingFor  string          `json:"looking_for,omitempty"`
	Interests   []string        `json:"interests,omitempty"`
	HomeCity    string          `json:"home_city,omitempty"`
	AgeMin      int             `json:"age_min"`
	AgeMax      int             `json:"age_max"`
	RadiusKM    int             `json:"radius_km"`
	LastLat     *float64        `json:"last_lat,omitempty"`
	LastLon     *float64        `json:"last_lon,omitempty"`
	LastGeoAt   *time.Time      `json:"last_geo_at,omitempty"`
	PhotoURL    *NullableString `json:"photo_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
