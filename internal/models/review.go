package models

import (
	"time"

	"github.com/gocql/gocql"

	"greenbag_back_end/internal/apperrors"
)

// Review est immuable une fois créée. Trois dimensions de note mais seule
// la note globale alimente le tri de la page d'accueil.
type Review struct {
	ReviewID     gocql.UUID `json:"reviewId" db:"review_id"`
	ProductID    gocql.UUID `json:"productId" db:"product_id"`
	UserEmail    string     `json:"userEmail" db:"user_email"`
	UserName     string     `json:"userName" db:"user_name"`
	Rating       int        `json:"rating" db:"rating"`
	CarbonRating int        `json:"carbonRating" db:"carbon_rating"`
	EcoRating    int        `json:"ecoRating" db:"eco_rating"`
	ReviewText   string     `json:"reviewText" db:"review_text"`
	Timestamp    time.Time  `json:"timestamp" db:"created_at"`
}

func (r Review) Validate() error {
	if r.ReviewText == "" {
		return apperrors.Validationf("reviewText")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return apperrors.Validationf("rating %d", r.Rating)
	}
	if r.UserEmail == "" {
		return apperrors.Validationf("userEmail")
	}
	return nil
}
