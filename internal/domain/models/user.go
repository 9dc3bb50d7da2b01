package models

import "time"

const (
	RoleUser    = "User"
	RoleManager = "Manager"
	RoleAdmin   = "Admin"

	DefaultRoleID int64 = 1
)

type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty"`
	Nationality  string     `json:"nationality,omitempty"`
	PasswordHash string     `json:"-"`
	RoleID       int64      `json:"roleId"`
	Role         Role       `json:"role"`
}

// FullName joins first and last name, skipping empty parts.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type RegisterUserDto struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Nationality     string `json:"nationality"`
	DateOfBirth     string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	RoleID          int64  `json:"roleId" binding:"omitempty,role_id"`
}

type LoginDto struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
