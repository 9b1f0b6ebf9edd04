package dto

import "encoding/json"

type DiscoverCandidateResponse struct {
	UserID      int64           `json:"user_id"`
	DisplayName string          `json:"display_name"`
	Bio         string          `json:"bio,omitempty"`
	Age         int             `json:"age,omitempty"`
	HomeCity    string          `json:"home_city,omitempty"`
	Interests   []string        `json:"interests,omitempty"`
	DistanceKM  *float64        `json:"distance_km,omitempty"`
	PhotoURL    *NullableString `json:"photo_url,omitempty"`
}

type DiscoverResponse struct {
	Candidates []DiscoverCandidateResponse `json:"candidates"`
	NextCursor string                      `json:"next_cursor,omitempty"`
}

type NullableString struct {
	Value *string
}

func (n NullableString) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	if n == nil {
		return nil
	}
	if string(data) == "null" {
		n.Value = nil
		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	n.Value = &value
	return nil
}
