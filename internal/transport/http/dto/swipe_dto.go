package dto

import "time"

type SwipeRequest struct {
	TargetID int64  `json:"target_id"`
	Action   string `json:"action"`
}

type SwipeMatchResponse struct {
	MatchID           int64     `json:"match_id"`
	CounterpartUserID int64     `json:"counterpart_user_id"`
	DisplayName       string    `json:"display_name,omitempty"`
	Age               int       `json:"age,omitempty"`
	HomeCity          string    `json:"home_city,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	Created           bool      `json:"created"`
}

type SwipeResponse struct {
	OK      bool                `json:"ok"`
	SwipeID int64               `json:"swipe_id"`
	Action  string              `json:"action"`
	Match   *SwipeMatchResponse `json:"match,omitempty"`
}
