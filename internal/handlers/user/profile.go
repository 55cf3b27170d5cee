package user

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/cache"
	"greenbag_back_end/internal/utils"
)

// GetProfile retourne le compte du porteur du token (servi via le cache Redis).
func GetProfile(c *gin.Context) {
	email := c.GetString("email")

	u, err := cache.GetUserFromCache(c.Request.Context(), email)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// UpdateProfile met à jour nom / téléphone / mot de passe : cloud d'abord,
// miroir local ensuite. Une requête sans changement ne touche aucune base.
func UpdateProfile(c *gin.Context) {
	email := c.GetString("email")

	var input struct {
		Name        string `json:"name"`
		PhoneNumber string `json:"phoneNumber"`
		Password    string `json:"password"` // vide = inchangé
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current, err := Users.GetByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	updated := *current
	updated.Name = input.Name
	updated.PhoneNumber = input.PhoneNumber
	if input.Password != "" {
		hashed, err := utils.HashPassword(input.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour"})
			return
		}
		updated.Password = hashed
	}

	err = Sync.UpdateUser(c.Request.Context(), *current, updated)
	cache.InvalidateUserCache(c.Request.Context(), email)

	var partial *apperrors.PartialSyncError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"user": updated})
	case errors.As(err, &partial):
		c.JSON(apperrors.HTTPStatus(err), gin.H{"user": updated, "warning": err.Error()})
	default:
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
	}
}

// DeleteAccount supprime le compte des deux bases (cloud d'abord).
func DeleteAccount(c *gin.Context) {
	email := c.GetString("email")

	err := Sync.DeleteUser(c.Request.Context(), email)
	cache.InvalidateUserCache(c.Request.Context(), email)

	var partial *apperrors.PartialSyncError
	switch {
	case err == nil:
		log.Printf("🗑️ Compte supprimé: %s", email)
		c.JSON(http.StatusOK, gin.H{"message": "Compte supprimé"})
	case errors.As(err, &partial):
		c.JSON(apperrors.HTTPStatus(err), gin.H{"warning": err.Error()})
	default:
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
	}
}
