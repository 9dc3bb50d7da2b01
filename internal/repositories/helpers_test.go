package repositories

import "restaurantapi/internal/domain/models"

func sampleRestaurant() models.Restaurant {
	return models.Restaurant{
		Name:        "KFC",
		Category:    "Fast Food",
		HasDelivery: true,
		CreatedByID: 3,
		Address:     models.Address{City: "Kraków", Street: "Długa 5"},
	}
}

func dishFixture() models.Dish {
	return models.Dish{Name: "Wings", Price: 7.0, RestaurantID: 1}
}
