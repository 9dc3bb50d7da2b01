package handlers

import (
	"net/http"

	"restaurantapi/internal/domain/models"
	"restaurantapi/internal/services"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	Service services.AccountService
}

func (h AccountHandler) Register(c *gin.Context) {
	var dto models.RegisterUserDto
	if !BindJSONOrError(c, &dto) {
		return
	}
	id, err := h.Service.Register(c.Request.Context(), dto)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// Login answers with the raw token as plain text.
func (h AccountHandler) Login(c *gin.Context) {
	var dto models.LoginDto
	if !BindJSONOrError(c, &dto) {
		return
	}
	token, err := h.Service.Login(c.Request.Context(), dto)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.String(http.StatusOK, token)
}
