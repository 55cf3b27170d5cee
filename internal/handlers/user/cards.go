package user

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/database"
	"greenbag_back_end/internal/models"
)

var Cards database.CardStore

// GetSavedCard pré-remplit l'écran de paiement avec la première carte
// enregistrée. 404 si l'utilisateur n'en a pas — ce n'est pas une erreur
// côté application.
func GetSavedCard(c *gin.Context) {
	email := c.GetString("email")

	card, err := Cards.FirstByUser(c.Request.Context(), email)
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Aucune carte enregistrée"})
		return
	}
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": card})
}

// SaveCard enregistre une carte hors checkout.
func SaveCard(c *gin.Context) {
	email := c.GetString("email")

	var input struct {
		CardNumber string `json:"cardNumber" binding:"required"`
		ExpiryDate string `json:"expiryDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card := models.StoredCard{
		CardID:     gocql.TimeUUID(),
		UserEmail:  email,
		CardNumber: input.CardNumber,
		ExpiryDate: input.ExpiryDate,
		CreatedAt:  time.Now(),
	}
	if err := card.Validate(); err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	if err := Cards.Save(c.Request.Context(), card); err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"card": card})
}
