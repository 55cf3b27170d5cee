package models

import (
	"time"

	"github.com/gocql/gocql"
)

// CartLine est une ligne de panier côté cloud : une entrée par ajout,
// identifiée par son document et rattachée à l'utilisateur par email.
type CartLine struct {
	DocID     gocql.UUID `json:"documentId" db:"doc_id"`
	UserEmail string     `json:"userEmail" db:"user_email"`
	ProductID gocql.UUID `json:"productId" db:"product_id"`
	Quantity  int        `json:"quantity" db:"quantity"`
	CreatedAt time.Time  `json:"timestamp" db:"created_at"`
}
