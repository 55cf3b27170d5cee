package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/cache"
	"greenbag_back_end/internal/database"
	"greenbag_back_end/internal/models"
)

var Carts database.CartStore

// AddToCart ajoute une ligne au panier du porteur du token.
func AddToCart(c *gin.Context) {
	email := c.GetString("email")

	var input struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantité invalide"})
		return
	}

	productID, err := gocql.ParseUUID(input.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	// Le produit doit exister et avoir du stock.
	product, err := cache.GetProductFromCache(c.Request.Context(), productID)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	if product.QuantityValue() == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Produit en rupture de stock",
			"product": product.Name,
		})
		return
	}
	// Quantité bornée au stock courant à l'ajout (pas de réservation).
	quantity := input.Quantity
	if quantity > product.QuantityValue() {
		quantity = product.QuantityValue()
	}

	line := models.CartLine{
		DocID:     gocql.TimeUUID(),
		UserEmail: email,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: time.Now(),
	}
	if err := Carts.Add(c.Request.Context(), line); err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"line": line})
}

type cartItem struct {
	models.CartLine
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
}

// buildCartView joint les lignes du panier au catalogue courant. Une ligne
// dont le produit n'existe plus (supprimé depuis l'ajout) est écartée et
// loggée — jamais servie sans nom ni prix.
func buildCartView(ctx context.Context, lines []models.CartLine,
	lookup func(context.Context, gocql.UUID) (*models.Product, error)) ([]cartItem, float64) {
	items := make([]cartItem, 0, len(lines))
	total := 0.0
	for _, l := range lines {
		p, err := lookup(ctx, l.ProductID)
		if err != nil {
			log.Printf("⚠️ Ligne de panier ignorée, produit %s introuvable: %v", l.ProductID, err)
			continue
		}
		items = append(items, cartItem{
			CartLine:    l,
			ProductName: p.Name,
			Price:       p.PriceValue(),
		})
		total += p.PriceValue() * float64(l.Quantity)
	}
	return items, total
}

// GetCart liste le panier enrichi des infos produit courantes (nom, prix).
func GetCart(c *gin.Context) {
	email := c.GetString("email")

	lines, err := Carts.ListByUser(c.Request.Context(), email)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	items, total := buildCartView(c.Request.Context(), lines, cache.GetProductFromCache)

	c.JSON(http.StatusOK, gin.H{"items": items, "total": total, "count": len(items)})
}

// UpdateCartLine change la quantité d'une ligne.
func UpdateCartLine(c *gin.Context) {
	email := c.GetString("email")

	docID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID ligne invalide"})
		return
	}

	var input struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantité invalide"})
		return
	}

	if err := Carts.UpdateQuantity(c.Request.Context(), email, docID, input.Quantity); err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quantité mise à jour"})
}

// RemoveCartLine retire une ligne du panier.
func RemoveCartLine(c *gin.Context) {
	email := c.GetString("email")

	docID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID ligne invalide"})
		return
	}

	if err := Carts.Delete(c.Request.Context(), email, docID); err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ligne supprimée"})
}
