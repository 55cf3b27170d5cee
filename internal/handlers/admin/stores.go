package admin

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/database"
	"greenbag_back_end/internal/models"
	"greenbag_back_end/internal/orders"
	"greenbag_back_end/internal/syncstore"
	"greenbag_back_end/internal/utils"
)

// Dépendances câblées au démarrage (cmd/server).
var (
	Sync    *syncstore.Synchronizer
	Users   database.UserStore
	Orders  *orders.Service
	Journal database.JournalStore
)

// CreateStore crée un compte boutique — seul l'admin peut en ouvrir.
func CreateStore(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		Email       string `json:"email" binding:"required"`
		Password    string `json:"password" binding:"required"`
		PhoneNumber string `json:"phoneNumber" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := Users.GetByEmail(c.Request.Context(), input.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création boutique"})
		return
	}

	store := models.User{
		Email:       input.Email,
		Password:    hashed,
		Name:        input.Name,
		PhoneNumber: input.PhoneNumber,
		Role:        models.RoleStore,
		CreatedAt:   time.Now(),
	}

	err = Sync.CreateUser(c.Request.Context(), store)

	var partial *apperrors.PartialSyncError
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"store": store})
	case errors.As(err, &partial):
		c.JSON(apperrors.HTTPStatus(err), gin.H{"store": store, "warning": err.Error()})
	default:
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
	}
}

// ListStores liste tous les comptes boutique.
func ListStores(c *gin.Context) {
	stores, err := Users.ListByRole(c.Request.Context(), models.RoleStore)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stores": stores, "count": len(stores)})
}

// UpdateStore modifie les coordonnées d'une boutique (cloud d'abord, miroir
// local ensuite ; aucune écriture si rien ne change).
func UpdateStore(c *gin.Context) {
	email := c.Param("email")

	var input struct {
		Name        string `json:"name" binding:"required"`
		PhoneNumber string `json:"phoneNumber" binding:"required"`
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
	if current.Role != models.RoleStore {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ce compte n'est pas une boutique"})
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

	var partial *apperrors.PartialSyncError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"store": updated})
	case errors.As(err, &partial):
		c.JSON(apperrors.HTTPStatus(err), gin.H{"store": updated, "warning": err.Error()})
	default:
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
	}
}

// DeleteStore ferme un compte boutique (cloud d'abord, local ensuite).
func DeleteStore(c *gin.Context) {
	email := c.Param("email")

	store, err := Users.GetByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	if store.Role != models.RoleStore {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ce compte n'est pas une boutique"})
		return
	}

	err = Sync.DeleteUser(c.Request.Context(), email)

	var partial *apperrors.PartialSyncError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Boutique supprimée"})
	case errors.As(err, &partial):
		c.JSON(apperrors.HTTPStatus(err), gin.H{"warning": err.Error()})
	default:
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
	}
}

// AllOrders : vue d'ensemble de toutes les commandes, toutes boutiques.
func AllOrders(c *gin.Context) {
	groups, err := Orders.AllOrders(c.Request.Context())
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": groups, "count": len(groups)})
}

// SyncJournal expose le journal des écritures partielles à réconcilier.
func SyncJournal(c *gin.Context) {
	entries, err := Journal.ListPending(c.Request.Context(), 200)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}
