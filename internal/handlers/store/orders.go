package store

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/orders"
)

var Orders *orders.Service

// GetOrders : le suivi de commandes de la boutique. Chaque commande ne
// contient que les lignes de cette boutique, avec le total recalculé sur
// ces lignes ; le total panier complet du client reste disponible à côté.
func GetOrders(c *gin.Context) {
	storeEmail := c.GetString("email")

	groups, err := Orders.StoreOrders(c.Request.Context(), storeEmail)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": groups, "count": len(groups)})
}

// UpdateOrderStatus fait avancer une commande dans le tunnel de livraison.
// Toutes les lignes changent de statut d'un bloc, puis l'événement part sur
// le canal temps réel.
func UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("orderId")

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := Orders.UpdateStatus(c.Request.Context(), orderID, input.Status); err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderId": orderID, "status": input.Status})
}
