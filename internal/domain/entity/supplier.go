package entity

import "time"

// Supplier representa un proveedor de la bodega.
type Supplier struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contactPerson"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	IsActive      bool      `json:"isActive"`
	DateAdded     time.Time `json:"dateAdded"`
}
