package handlers

import (
	"net/http"
	"strconv"

	"restaurantapi/internal/domain/models"
	"restaurantapi/internal/http/middleware"
	"restaurantapi/internal/query"
	"restaurantapi/internal/services"

	"github.com/gin-gonic/gin"
)

type RestaurantHandler struct {
	Service services.RestaurantService
	Menu    services.MenuService
}

// List answers GET /api/restaurant?searchPhrase=&sortBy=&sortDirection=&pageNumber=&pageSize=
func (h RestaurantHandler) List(c *gin.Context) {
	d, err := query.FromParams(c.Query)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	page, err := h.Service.GetAll(c.Request.Context(), d)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h RestaurantHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rest, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rest)
}

func (h RestaurantHandler) Create(c *gin.Context) {
	var dto models.CreateRestaurantDto
	if !BindJSONOrError(c, &dto) {
		return
	}
	id, err := h.Service.Create(c.Request.Context(), middleware.GetIdentity(c), dto)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Location", "/api/restaurant/"+strconv.FormatInt(id, 10))
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h RestaurantHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto models.UpdateRestaurantDto
	if !BindJSONOrError(c, &dto) {
		return
	}
	if err := h.Service.Update(c.Request.Context(), middleware.GetIdentity(c), id, dto); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h RestaurantHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), middleware.GetIdentity(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MenuPDF returns the restaurant's menu card (inline).
func (h RestaurantHandler) MenuPDF(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	pdfBytes, filename, err := h.Menu.RenderMenu(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
