package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"restaurantapi/internal/auth"
	"restaurantapi/internal/domain"
	"restaurantapi/internal/domain/models"
	"restaurantapi/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type AccountService struct {
	Users  UserStore
	Tokens *auth.Tokens
}

// Register creates an account with a bcrypt password hash. Without a role
// the account gets the default User role.
func (s AccountService) Register(ctx context.Context, dto models.RegisterUserDto) (int64, error) {
	email := strings.TrimSpace(dto.Email)
	if email == "" {
		return 0, domain.ValidationError{Field: "email", Msg: "is required"}
	}
	if len(dto.Password) < minPasswordLength {
		return 0, domain.ValidationError{Field: "password", Msg: fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	}
	if dto.Password != dto.ConfirmPassword {
		return 0, domain.ValidationError{Field: "confirmPassword", Msg: "must equal password"}
	}

	taken, err := s.Users.EmailExists(ctx, email)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, domain.ValidationError{Field: "email", Msg: "that email is taken"}
	}

	roleID := dto.RoleID
	if roleID == 0 {
		roleID = models.DefaultRoleID
	}
	ok, err := s.Users.RoleExists(ctx, roleID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, domain.ValidationError{Field: "roleId", Msg: "unknown role"}
	}

	user := models.User{
		Email:       email,
		FirstName:   strings.TrimSpace(dto.FirstName),
		LastName:    strings.TrimSpace(dto.LastName),
		Nationality: strings.TrimSpace(dto.Nationality),
		RoleID:      roleID,
	}
	if strings.TrimSpace(dto.DateOfBirth) != "" {
		dob, err := utils.ParseDate(dto.DateOfBirth)
		if err != nil {
			return 0, domain.ValidationError{Field: "dateOfBirth", Msg: "must be YYYY-MM-DD", Err: err}
		}
		user.DateOfBirth = &dob
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	id, err := s.Users.Create(ctx, user)
	if err != nil {
		return 0, err
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "account", "register", "user_id="+strconv.FormatInt(id, 10))
	return id, nil
}

// Login checks the credentials and returns a signed access token. Unknown
// emails and wrong passwords produce the same error.
func (s AccountService) Login(ctx context.Context, dto models.LoginDto) (string, error) {
	invalid := domain.BadRequestError{Msg: "invalid username or password"}

	user, err := s.Users.GetByEmail(ctx, dto.Email)
	if err != nil {
		if domain.IsNotFound(err) {
			return "", invalid
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		return "", invalid
	}

	if s.Tokens == nil {
		return "", domain.InternalError{Msg: "token issuer not configured"}
	}
	token, err := s.Tokens.Issue(user)
	if err != nil {
		return "", domain.InternalError{Msg: "failed to issue token", Err: err}
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "account", "login", "user_id="+strconv.FormatInt(user.ID, 10))
	return token, nil
}
