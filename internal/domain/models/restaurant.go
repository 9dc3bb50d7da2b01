package models

import (
	"strings"

	"restaurantapi/internal/query"
)

// Address is stored in its own table and referenced by restaurants.AddressID.
type Address struct {
	ID         int64  `json:"-"`
	City       string `json:"city"`
	Street     string `json:"street"`
	PostalCode string `json:"postalCode"`
}

type Restaurant struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	HasDelivery   bool    `json:"hasDelivery"`
	ContactEmail  string  `json:"contactEmail,omitempty"`
	ContactNumber string  `json:"contactNumber,omitempty"`
	CreatedByID   int64   `json:"-"`
	AddressID     int64   `json:"-"`
	Address       Address `json:"address"`
	Dishes        []Dish  `json:"dishes"`
}

// OwnerID reports the user that created the restaurant.
func (r Restaurant) OwnerID() int64 { return r.CreatedByID }

// SearchText lists the attributes matched by a search phrase.
func (r Restaurant) SearchText() []string {
	return []string{r.Name, r.Description}
}

// SortKey returns the lowercase value of a sortable column.
func (r Restaurant) SortKey(c query.Column) string {
	switch c {
	case query.ColumnName:
		return strings.ToLower(r.Name)
	case query.ColumnDescription:
		return strings.ToLower(r.Description)
	case query.ColumnCategory:
		return strings.ToLower(r.Category)
	}
	return ""
}

// CreateRestaurantDto is the create payload, flattened like the legacy API.
type CreateRestaurantDto struct {
	Name          string `json:"name" binding:"required,max=25"`
	Description   string `json:"description"`
	Category      string `json:"category" binding:"required"`
	HasDelivery   bool   `json:"hasDelivery"`
	ContactEmail  string `json:"contactEmail" binding:"omitempty,email"`
	ContactNumber string `json:"contactNumber"`
	City          string `json:"city" binding:"required,max=50"`
	Street        string `json:"street" binding:"required,max=50"`
	PostalCode    string `json:"postalCode"`
}

type UpdateRestaurantDto struct {
	Name        string `json:"name" binding:"required,max=25"`
	Description string `json:"description"`
	HasDelivery bool   `json:"hasDelivery"`
}
