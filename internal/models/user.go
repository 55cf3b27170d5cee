package models

import (
	"strings"
	"time"

	"greenbag_back_end/internal/apperrors"
)

// Rôles possibles d'un compte. L'email sert de clé primaire partout —
// les autres tables référencent les comptes par email, jamais par id.
const (
	RoleUser  = "user"
	RoleStore = "store"
	RoleAdmin = "admin"
)

type User struct {
	Email       string    `json:"email" db:"email"`
	Password    string    `json:"-" db:"password"` // hash argon2id, jamais le mot de passe en clair
	Name        string    `json:"name" db:"name"`
	PhoneNumber string    `json:"phoneNumber" db:"phone_number"`
	Role        string    `json:"role" db:"role"`
	CreatedAt   time.Time `json:"timestamp" db:"created_at"`
}

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleStore || role == RoleAdmin
}

// Validate vérifie les champs requis avant toute E/S.
func (u User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return apperrors.Validationf("email")
	}
	if u.Password == "" {
		return apperrors.Validationf("password")
	}
	if strings.TrimSpace(u.Name) == "" {
		return apperrors.Validationf("name")
	}
	if strings.TrimSpace(u.PhoneNumber) == "" {
		return apperrors.Validationf("phoneNumber")
	}
	if !ValidRole(u.Role) {
		return apperrors.Validationf("role %q", u.Role)
	}
	return nil
}

// Unchanged compare champ à champ les valeurs modifiables — utilisé pour
// court-circuiter une mise à jour sans changement avant toute E/S.
func (u User) Unchanged(name, phoneNumber, password string) bool {
	return u.Name == name && u.PhoneNumber == phoneNumber && u.Password == password
}
