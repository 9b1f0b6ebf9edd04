package dto

import "time"

type MatchItemResponse struct {
	ID                int64     `json:"id"`
	CounterpartUserID int64     `json:"counterpart_user_id"`
	DisplayName       string    `json:"display_name"`
	Age               int       `json:"age,omitempty"`
	HomeCity          string    `json:"home_city,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type MatchesResponse struct {
	Items []MatchItemResponse `json:"items"`
}

type UnmatchRequest struct {
	TargetID int64 `json:"target_id"`
}
