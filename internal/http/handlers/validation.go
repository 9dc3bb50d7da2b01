package handlers

import (
	"fmt"
	"slices"

	"restaurantapi/internal/db"
	"restaurantapi/internal/domain/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding rules used by request DTOs.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("role_id", validRoleID)
}

// validRoleID accepts the ids of the fixed roles.
func validRoleID(fl validator.FieldLevel) bool {
	id := fl.Field().Int()
	return slices.ContainsFunc(db.SeedRoles(), func(r models.Role) bool { return r.ID == id })
}
