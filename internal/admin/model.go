package admin

import (
	"net/http"
	"time"

	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "admin not found")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
)

// Admin is a dashboard operator account. Accounts are provisioned
// directly in the database; there is no self-registration.
type Admin struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	DisplayName  string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}
