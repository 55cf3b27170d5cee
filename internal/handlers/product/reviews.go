package product

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/models"
	"greenbag_back_end/internal/ratings"
)

// AddReview enregistre un avis (note globale 1–5, notes carbone/éco
// affichées mais hors moyenne) et invalide le cache de la page d'accueil.
func AddReview(c *gin.Context) {
	email := c.GetString("email")
	name := c.GetString("name")

	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var input struct {
		Rating       int    `json:"rating" binding:"required"`
		CarbonRating int    `json:"carbonRating"`
		EcoRating    int    `json:"ecoRating"`
		ReviewText   string `json:"reviewText" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review := models.Review{
		ReviewID:     gocql.TimeUUID(),
		ProductID:    productID,
		UserEmail:    email,
		UserName:     name,
		Rating:       input.Rating,
		CarbonRating: input.CarbonRating,
		EcoRating:    input.EcoRating,
		ReviewText:   input.ReviewText,
		Timestamp:    time.Now(),
	}
	if err := review.Validate(); err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	if err := Reviews.Insert(c.Request.Context(), review); err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	// La moyenne du produit vient de changer.
	Ratings.Invalidate(c.Request.Context())

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// GetReviews liste les avis d'un produit, les plus récents en premier, avec
// sa note moyenne. Sans avis, la moyenne est la sentinelle (0, 0).
func GetReviews(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	reviews, err := Reviews.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	summary := ratings.SummarizeOne(reviews)
	c.JSON(http.StatusOK, gin.H{
		"reviews":       reviews,
		"count":         len(reviews),
		"averageRating": summary.Average,
		"reviewCount":   summary.Count,
	})
}
