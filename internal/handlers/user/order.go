package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/orders"
	"greenbag_back_end/internal/utils"
)

var Orders *orders.Service

// GetMyOrders retourne l'historique du client, une commande par groupe,
// les plus récentes en premier.
func GetMyOrders(c *gin.Context) {
	email := c.GetString("email")

	groups, err := Orders.UserOrders(c.Request.Context(), email)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": groups, "count": len(groups)})
}

// GetOrderQR retourne le QR de retrait d'une commande, scanné en boutique.
func GetOrderQR(c *gin.Context) {
	orderID := c.Param("orderId")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderId manquant"})
		return
	}

	qr, err := utils.GenerateOrderQR(orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération QR"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderId": orderID, "qr": qr})
}
