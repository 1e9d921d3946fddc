package domain

import (
	"encoding/json"
	"strconv"
)

// Haircut is a service offered by the shop. The remote API sometimes
// serializes price as a string, so it is normalized on decode.
type Haircut struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Status bool    `json:"status"`
	UserID string  `json:"user_id,omitempty"`
}

// UnmarshalJSON accepts price either as a JSON number or a numeric string.
func (h *Haircut) UnmarshalJSON(data []byte) error {
	type alias Haircut
	aux := struct {
		Price json.RawMessage `json:"price"`
		*alias
	}{alias: (*alias)(h)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Price) == 0 || string(aux.Price) == "null" {
		return nil
	}

	var num float64
	if err := json.Unmarshal(aux.Price, &num); err == nil {
		h.Price = num
		return nil
	}

	var str string
	if err := json.Unmarshal(aux.Price, &str); err != nil {
		return err
	}
	if str == "" {
		return nil
	}
	num, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return err
	}
	h.Price = num
	return nil
}
