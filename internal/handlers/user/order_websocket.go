package user

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"greenbag_back_end/internal/database"
	"greenbag_back_end/internal/orders"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// OrderStatusWebSocket pousse en temps réel les changements de statut d'une
// commande. Le client s'abonne avec ?orderId=... ; les événements des autres
// commandes sont filtrés côté serveur.
func OrderStatusWebSocket(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(401, gin.H{"error": "Non authentifié"})
		return
	}

	orderID := c.Query("orderId")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderId manquant"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := context.Background()

	pubsub := database.Redis.Subscribe(ctx, orders.StatusChannel)
	defer pubsub.Close()
	ch := pubsub.Channel()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Suivi de commande activé",
		"orderId": orderID,
	})

	// Détecter la fermeture côté client.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event orders.StatusEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			if event.OrderID != orderID {
				continue
			}
			if err := conn.WriteJSON(map[string]interface{}{
				"type":    "status_updated",
				"orderId": event.OrderID,
				"status":  event.Status,
			}); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
