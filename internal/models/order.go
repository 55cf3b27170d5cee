package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts de commande posés par la boutique. Le champ reste du texte libre
// en base, ces constantes couvrent les valeurs connues.
const (
	StatusPending        = "pending"
	StatusInProgress     = "in progress"
	StatusOutForDelivery = "out for delivery"
	StatusCompleted      = "completed"
)

func ValidOrderStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusOutForDelivery, StatusCompleted:
		return true
	}
	return false
}

// Moyens de paiement acceptés au checkout (ensemble fermé).
const (
	PaymentCashOnDelivery = "cashOnDelivery"
	PaymentCard           = "card"
)

func ValidPaymentMethod(m string) bool {
	return m == PaymentCashOnDelivery || m == PaymentCard
}

// OrderLine est un modèle plat et dénormalisé : une ligne par article
// commandé. OrderID regroupe les lignes d'une même transaction et
// TotalOrderAmount (total panier entier) est répété sur chaque ligne.
type OrderLine struct {
	LineID           gocql.UUID `json:"lineId" db:"line_id"`
	OrderID          string     `json:"orderID" db:"order_id"`
	UserEmail        string     `json:"userEmail" db:"user_email"`
	ProductID        gocql.UUID `json:"productId" db:"product_id"`
	ProductName      string     `json:"productName" db:"product_name"`
	Quantity         int        `json:"quantity" db:"quantity"`
	Price            float64    `json:"price" db:"price"`
	Category         string     `json:"category" db:"category"`
	Status           string     `json:"status" db:"status"`
	Timestamp        time.Time  `json:"timestamp" db:"created_at"`
	PaymentMethod    string     `json:"paymentMethod" db:"payment_method"`
	TotalOrderAmount float64    `json:"totalOrderAmount" db:"total_order_amount"`
	OrderNotes       string     `json:"orderNotes" db:"order_notes"`
}
