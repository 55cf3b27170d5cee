package store

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/cache"
	"greenbag_back_end/internal/database"
	"greenbag_back_end/internal/models"
	"greenbag_back_end/internal/services"
	"greenbag_back_end/internal/syncstore"
)

// Dépendances câblées au démarrage (cmd/server).
var (
	Sync     *syncstore.Synchronizer
	Products database.ProductStore
)

// AddProduct crée un produit (étape 1 : infos de base). La fiche éco arrive
// à l'étape 2 via SetEcoDetails. Écriture locale d'abord, cloud ensuite.
func AddProduct(c *gin.Context) {
	storeEmail := c.GetString("email")

	var input struct {
		Name     string `json:"name" binding:"required"`
		Category string `json:"category" binding:"required"`
		Price    string `json:"price" binding:"required"`
		Quantity string `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := models.Product{
		ID:         gocql.TimeUUID(),
		Name:       input.Name,
		Category:   input.Category,
		Price:      input.Price,
		Quantity:   input.Quantity,
		StoreEmail: storeEmail,
		CreatedAt:  time.Now(),
	}

	err := Sync.CreateProduct(c.Request.Context(), p)

	var partial *apperrors.PartialSyncError
	switch {
	case err == nil:
		services.IndexProduct(p)
		c.JSON(http.StatusCreated, gin.H{"product": p})
	case errors.As(err, &partial):
		c.JSON(apperrors.HTTPStatus(err), gin.H{"product": p, "warning": err.Error()})
	default:
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
	}
}

// SetEcoDetails complète la fiche éco du produit (étape 2).
func SetEcoDetails(c *gin.Context) {
	storeEmail := c.GetString("email")

	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var input struct {
		Material    string `json:"material"`
		Description string `json:"description"`
		IsFairTrade bool   `json:"isFairTrade"`
		IsRecycled  bool   `json:"isRecycled"`
		IsOrganic   bool   `json:"isOrganic"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current, err := loadOwnProduct(c, id, storeEmail)
	if err != nil {
		return
	}

	updated := *current
	updated.Material = input.Material
	updated.Description = input.Description
	updated.IsFairTrade = input.IsFairTrade
	updated.IsRecycled = input.IsRecycled
	updated.IsOrganic = input.IsOrganic

	applyProductUpdate(c, *current, updated)
}

// UpdateProduct modifie nom / catégorie / prix / stock. Cloud d'abord,
// miroir local ensuite ; sans changement, aucune écriture.
func UpdateProduct(c *gin.Context) {
	storeEmail := c.GetString("email")

	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var input struct {
		Name     string `json:"name" binding:"required"`
		Category string `json:"category" binding:"required"`
		Price    string `json:"price" binding:"required"`
		Quantity string `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current, err := loadOwnProduct(c, id, storeEmail)
	if err != nil {
		return
	}

	updated := *current
	updated.Name = input.Name
	updated.Category = input.Category
	updated.Price = input.Price
	updated.Quantity = input.Quantity

	applyProductUpdate(c, *current, updated)
}

// UploadImage attache une image au produit (MinIO) et met la clé à jour.
func UploadImage(c *gin.Context) {
	storeEmail := c.GetString("email")

	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fichier image manquant"})
		return
	}

	current, err := loadOwnProduct(c, id, storeEmail)
	if err != nil {
		return
	}

	key, err := services.UploadProductImage(c.Request.Context(), id, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image"})
		return
	}

	updated := *current
	updated.ImageKey = key
	applyProductUpdate(c, *current, updated)
}

// DeleteProduct retire le produit du cloud puis du miroir local, de l'index
// de recherche et du bucket d'images.
func DeleteProduct(c *gin.Context) {
	storeEmail := c.GetString("email")

	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	current, err := loadOwnProduct(c, id, storeEmail)
	if err != nil {
		return
	}

	err = Sync.DeleteProduct(c.Request.Context(), id, storeEmail)
	cache.InvalidateProductCache(c.Request.Context(), id)
	services.RemoveProductIndex(id.String())
	if current.ImageKey != "" {
		services.RemoveProductImage(c.Request.Context(), current.ImageKey)
	}

	var partial *apperrors.PartialSyncError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé"})
	case errors.As(err, &partial):
		c.JSON(apperrors.HTTPStatus(err), gin.H{"warning": err.Error()})
	default:
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
	}
}

// MyProducts liste le catalogue de la boutique connectée.
func MyProducts(c *gin.Context) {
	storeEmail := c.GetString("email")

	products, err := Products.ListByStore(c.Request.Context(), storeEmail)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// loadOwnProduct charge un produit et vérifie qu'il appartient bien à la
// boutique connectée. Répond sur c en cas d'échec.
func loadOwnProduct(c *gin.Context, id gocql.UUID, storeEmail string) (*models.Product, error) {
	p, err := Products.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return nil, err
	}
	if p.StoreEmail != storeEmail {
		err := errors.New("produit d'une autre boutique")
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return nil, err
	}
	return p, nil
}

func applyProductUpdate(c *gin.Context, current, updated models.Product) {
	err := Sync.UpdateProduct(c.Request.Context(), current, updated)
	cache.InvalidateProductCache(c.Request.Context(), updated.ID)

	var partial *apperrors.PartialSyncError
	switch {
	case err == nil:
		services.IndexProduct(updated)
		c.JSON(http.StatusOK, gin.H{"product": updated})
	case errors.As(err, &partial):
		c.JSON(apperrors.HTTPStatus(err), gin.H{"product": updated, "warning": err.Error()})
	default:
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
	}
}
