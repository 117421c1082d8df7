package entity

import "time"

// Category representa una categoría de ítems. Los ítems la referencian por nombre.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DateAdded   time.Time `json:"dateAdded"`
}
