package service

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/productapi/pkg/messaging"
)

type EventType string

const (
	ProductCreated EventType = "created"
	ProductUpdated EventType = "updated"
	ProductDeleted EventType = "deleted"
)

// ProductEvent is published on products.<type> after a successful change.
type ProductEvent struct {
	Type       EventType  `json:"type"`
	Product    ProductDto `json:"product"`
	OccurredAt time.Time  `json:"occurredAt"`
}

func NewProductEvent(eventType EventType, product ProductDto) ProductEvent {
	return ProductEvent{
		Type:       eventType,
		Product:    product,
		OccurredAt: time.Now().UTC(),
	}
}

func (e ProductEvent) Subject() string {
	return messaging.ProductsSubjectPrefix + string(e.Type)
}

func (e ProductEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
