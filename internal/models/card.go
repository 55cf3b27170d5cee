package models

import (
	"time"

	"github.com/gocql/gocql"

	"greenbag_back_end/internal/apperrors"
)

// StoredCard : au plus une carte par utilisateur en pratique — l'écran de
// paiement se pré-remplit avec la première correspondance trouvée.
type StoredCard struct {
	CardID     gocql.UUID `json:"cardId" db:"card_id"`
	UserEmail  string     `json:"userEmail" db:"user_email"`
	CardNumber string     `json:"cardNumber" db:"card_number"`
	ExpiryDate string     `json:"expiryDate" db:"expiry_date"`
	CreatedAt  time.Time  `json:"timestamp" db:"created_at"`
}

func (c StoredCard) Validate() error {
	if c.CardNumber == "" {
		return apperrors.Validationf("cardNumber")
	}
	if c.ExpiryDate == "" {
		return apperrors.Validationf("expiryDate")
	}
	if c.UserEmail == "" {
		return apperrors.Validationf("userEmail")
	}
	return nil
}
