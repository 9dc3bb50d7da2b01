package handlers

import (
	"net/http"
	"strconv"

	"restaurantapi/internal/domain/models"
	"restaurantapi/internal/services"

	"github.com/gin-gonic/gin"
)

type DishHandler struct {
	Service services.DishService
}

func (h DishHandler) Create(c *gin.Context) {
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto models.CreateDishDto
	if !BindJSONOrError(c, &dto) {
		return
	}
	id, err := h.Service.Create(c.Request.Context(), restaurantID, dto)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Location", "/api/restaurant/"+strconv.FormatInt(restaurantID, 10)+"/dish/"+strconv.FormatInt(id, 10))
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h DishHandler) List(c *gin.Context) {
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return
	}
	dishes, err := h.Service.GetAll(c.Request.Context(), restaurantID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dishes)
}

func (h DishHandler) Get(c *gin.Context) {
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return
	}
	dishID, ok := pathID(c, "dishId")
	if !ok {
		return
	}
	dish, err := h.Service.GetByID(c.Request.Context(), restaurantID, dishID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dish)
}

func (h DishHandler) DeleteAll(c *gin.Context) {
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Service.RemoveAll(c.Request.Context(), restaurantID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h DishHandler) Delete(c *gin.Context) {
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return
	}
	dishID, ok := pathID(c, "dishId")
	if !ok {
		return
	}
	if err := h.Service.RemoveDish(c.Request.Context(), restaurantID, dishID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
