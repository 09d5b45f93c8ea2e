package api

import (
	"encoding/json"

	"velora/internal/domain"
)

// normalizeCartItems maps every envelope shape the commerce API is known to
// produce for cart reads into one canonical slice:
//
//	{"data": {"items": [...]}}
//	{"data": [...]}
//	[...]
//
// This is the only place that tolerance lives.
func normalizeCartItems(raw []byte) ([]domain.CartItem, error) {
	var bare []domain.CartItem
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, nil
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return []domain.CartItem{}, nil
	}

	var arr []domain.CartItem
	if err := json.Unmarshal(env.Data, &arr); err == nil {
		return arr, nil
	}

	var obj struct {
		Items []domain.CartItem `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &obj); err != nil {
		return nil, err
	}
	if obj.Items == nil {
		obj.Items = []domain.CartItem{}
	}
	return obj.Items, nil
}
