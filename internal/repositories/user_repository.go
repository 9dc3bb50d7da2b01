package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	intconfig "restaurantapi/internal/config"
	intdb "restaurantapi/internal/db"
	"restaurantapi/internal/domain"
	"restaurantapi/internal/domain/models"
	"restaurantapi/internal/utils"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, strings.TrimSpace(email)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return n > 0, nil
}

func (r UserRepository) RoleExists(ctx context.Context, roleID int64) (bool, error) {
	var n int
	if err := r.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM roles WHERE id = ?`, roleID).Scan(&n); err != nil {
		return false, fmt.Errorf("check role: %w", err)
	}
	return n > 0, nil
}

// Create inserts a user; a duplicate email becomes a ConflictError.
func (r UserRepository) Create(ctx context.Context, u models.User) (int64, error) {
	var dob any
	if u.DateOfBirth != nil {
		dob = utils.FormatDate(*u.DateOfBirth)
	}
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO users (email, first_name, last_name, date_of_birth, nationality, password_hash, role_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, strings.TrimSpace(u.Email), utils.NullIfEmpty(u.FirstName), utils.NullIfEmpty(u.LastName), dob,
		utils.NullIfEmpty(u.Nationality), u.PasswordHash, u.RoleID)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return 0, domain.ConflictError{Resource: "user", Msg: "email is already taken", Err: err}
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user id: %w", err)
	}
	return id, nil
}

// GetByEmail loads a user together with its role.
func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var (
		u   models.User
		dob sql.NullTime
	)
	err := r.db().QueryRowContext(ctx, `
		SELECT u.id, u.email, COALESCE(u.first_name, ''), COALESCE(u.last_name, ''), u.date_of_birth,
		       COALESCE(u.nationality, ''), u.password_hash, u.role_id, ro.name
		FROM users u
		JOIN roles ro ON ro.id = u.role_id
		WHERE u.email = ?
	`, strings.TrimSpace(email)).Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &dob,
		&u.Nationality, &u.PasswordHash, &u.RoleID, &u.Role.Name,
	)
	if err != nil {
		if isNoRows(err) {
			return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
		}
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	u.Role.ID = u.RoleID
	if dob.Valid {
		t := time.Date(dob.Time.Year(), dob.Time.Month(), dob.Time.Day(), 0, 0, 0, 0, time.UTC)
		u.DateOfBirth = &t
	}
	return u, nil
}
