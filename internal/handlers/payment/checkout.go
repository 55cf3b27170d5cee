package payment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/checkout"
	"greenbag_back_end/internal/models"
)

var Checkout *checkout.Service

// PlaceOrder transforme le panier du porteur du token en commande.
// Paiement par carte : la réponse contient le client_secret Stripe à
// confirmer côté mobile. Paiement à la livraison : commande directe.
func PlaceOrder(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var input struct {
		PaymentMethod string             `json:"paymentMethod" binding:"required"`
		OrderNotes    string             `json:"orderNotes"`
		SaveCard      *models.StoredCard `json:"saveCard"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	receipt, err := Checkout.PlaceOrder(c.Request.Context(), checkout.Request{
		UserEmail:     email,
		PaymentMethod: input.PaymentMethod,
		OrderNotes:    input.OrderNotes,
		SaveCard:      input.SaveCard,
	})
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":      receipt.OrderID,
		"amount":        receipt.TotalOrderAmount,
		"currency":      "eur",
		"items_count":   receipt.LineCount,
		"client_secret": receipt.ClientSecret,
	})
}
