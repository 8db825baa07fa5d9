package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/avelasquez/stridemart-backend/pkg/db/models"
)

// CreateUserDTO carries the fields needed to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         string
}

// ToModel maps the DTO onto a fresh user model.
func (d CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Name:         d.Name,
	}
}

// UserDTO is the public view of a user.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// FromModel maps a persisted user to its public view.
func FromModel(u *models.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}
