package transport

import "github.com/Skotchmaster/food_delivery/internal/models"

type ChangeStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type ModifiedResponse struct {
	Modified int64 `json:"modified"`
}

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

func NewList[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Data: items, Count: len(items)}
}
