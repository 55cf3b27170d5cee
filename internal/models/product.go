package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gocql/gocql"

	"greenbag_back_end/internal/apperrors"
)

// Product : prix et stock sont persistés en TEXTE (les clients mobiles
// historiques envoient et lisent ces champs en chaîne), convertis à la demande.
type Product struct {
	ID          gocql.UUID `json:"id" db:"product_id"`
	Name        string     `json:"name" db:"name"`
	Category    string     `json:"category" db:"category"`
	Price       string     `json:"price" db:"price"`
	Quantity    string     `json:"quantity" db:"quantity"`
	StoreEmail  string     `json:"storeEmail" db:"store_email"`
	Material    string     `json:"material" db:"material"`
	Description string     `json:"description" db:"description"`
	IsFairTrade bool       `json:"isFairTrade" db:"is_fair_trade"`
	IsRecycled  bool       `json:"isRecycled" db:"is_recycled"`
	IsOrganic   bool       `json:"isOrganic" db:"is_organic"`
	ImageKey    string     `json:"imageKey,omitempty" db:"image_key"`
	CreatedAt   time.Time  `json:"timestamp" db:"created_at"`
}

// PriceValue convertit le prix texte en décimal. "0" si vide.
func (p Product) PriceValue() float64 {
	v, err := strconv.ParseFloat(p.Price, 64)
	if err != nil {
		return 0
	}
	return v
}

// QuantityValue convertit le stock texte en entier. 0 si vide ou invalide.
func (p Product) QuantityValue() int {
	v, err := strconv.Atoi(p.Quantity)
	if err != nil {
		return 0
	}
	return v
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperrors.Validationf("name")
	}
	if strings.TrimSpace(p.Category) == "" {
		return apperrors.Validationf("category")
	}
	if strings.TrimSpace(p.Price) == "" {
		return apperrors.Validationf("price")
	}
	if _, err := strconv.ParseFloat(p.Price, 64); err != nil {
		return apperrors.Validationf("price %q", p.Price)
	}
	if strings.TrimSpace(p.Quantity) == "" {
		return apperrors.Validationf("quantity")
	}
	if _, err := strconv.Atoi(p.Quantity); err != nil {
		return apperrors.Validationf("quantity %q", p.Quantity)
	}
	if strings.TrimSpace(p.StoreEmail) == "" {
		return apperrors.Validationf("storeEmail")
	}
	return nil
}

// Unchanged détecte une mise à jour sans changement (nom, catégorie, prix, stock).
func (p Product) Unchanged(name, category, price, quantity string) bool {
	return p.Name == name && p.Category == category && p.Price == price && p.Quantity == quantity
}

// DecodeProduct désérialise un produit du miroir local en validant le schéma :
// un champ requis manquant produit une erreur de désérialisation au lieu d'une
// valeur par défaut silencieuse.
func DecodeProduct(data []byte) (*Product, error) {
	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDeserialization, err)
	}
	var zero gocql.UUID
	if p.ID == zero {
		return nil, fmt.Errorf("%w: id", apperrors.ErrDeserialization)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("%w: name", apperrors.ErrDeserialization)
	}
	if p.Price == "" {
		return nil, fmt.Errorf("%w: price", apperrors.ErrDeserialization)
	}
	if p.StoreEmail == "" {
		return nil, fmt.Errorf("%w: storeEmail", apperrors.ErrDeserialization)
	}
	return &p, nil
}

// EncodeProduct sérialise un produit pour le miroir local.
func EncodeProduct(p Product) ([]byte, error) {
	return json.Marshal(p)
}

// DecodeUser désérialise un utilisateur du miroir local avec validation de schéma.
func DecodeUser(data []byte) (*User, error) {
	var u struct {
		User
		Password string `json:"password"`
	}
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDeserialization, err)
	}
	u.User.Password = u.Password
	if u.Email == "" {
		return nil, fmt.Errorf("%w: email", apperrors.ErrDeserialization)
	}
	if !ValidRole(u.Role) {
		return nil, fmt.Errorf("%w: role", apperrors.ErrDeserialization)
	}
	return &u.User, nil
}

// EncodeUser sérialise un utilisateur pour le miroir local (le hash du mot de
// passe doit survivre au round-trip, contrairement au JSON exposé par l'API).
func EncodeUser(u User) ([]byte, error) {
	return json.Marshal(struct {
		User
		Password string `json:"password"`
	}{User: u, Password: u.Password})
}
