package orders

import (
	"context"
	"encoding/json"
	"log"
	"sort"

	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/models"
)

// StatusChannel : canal Redis pub/sub où chaque changement de statut est
// publié, consommé par le flux websocket de suivi de commande.
const StatusChannel = "orders:status"

type OrderLines interface {
	ListAll(ctx context.Context) ([]models.OrderLine, error)
	ListByUser(ctx context.Context, email string) ([]models.OrderLine, error)
	UpdateStatus(ctx context.Context, orderID, newStatus string) error
}

type ProductCatalog interface {
	ListAll(ctx context.Context) ([]models.Product, error)
}

type Service struct {
	Orders   OrderLines
	Products ProductCatalog
	Redis    *redis.Client
}

// StatusEvent : payload publié sur StatusChannel.
type StatusEvent struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// StoreOrders retourne les commandes visibles par une boutique : seules les
// lignes dont le produit lui appartient, total recalculé sur ces lignes.
func (s *Service) StoreOrders(ctx context.Context, storeEmail string) ([]Group, error) {
	lines, err := s.Orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sortLinesByTimestampDesc(lines)

	owners, err := s.productOwners(ctx)
	if err != nil {
		return nil, err
	}
	return Aggregate(lines, owners, storeEmail), nil
}

// AllOrders : vue admin, toutes boutiques confondues.
func (s *Service) AllOrders(ctx context.Context) ([]Group, error) {
	lines, err := s.Orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sortLinesByTimestampDesc(lines)
	return Aggregate(lines, nil, ""), nil
}

// UserOrders : historique d'un client.
func (s *Service) UserOrders(ctx context.Context, email string) ([]Group, error) {
	lines, err := s.Orders.ListByUser(ctx, email)
	if err != nil {
		return nil, err
	}
	sortLinesByTimestampDesc(lines)
	return Aggregate(lines, nil, ""), nil
}

// UpdateStatus passe toutes les lignes de la commande au nouveau statut (batch
// atomique côté base) puis publie l'événement pour les clients websocket.
func (s *Service) UpdateStatus(ctx context.Context, orderID, newStatus string) error {
	if !models.ValidOrderStatus(newStatus) {
		return apperrors.Validationf("status %q", newStatus)
	}
	if err := s.Orders.UpdateStatus(ctx, orderID, newStatus); err != nil {
		return err
	}

	if s.Redis != nil {
		payload, _ := json.Marshal(StatusEvent{OrderID: orderID, Status: newStatus})
		if err := s.Redis.Publish(ctx, StatusChannel, payload).Err(); err != nil {
			log.Printf("⚠️ Publication statut commande %s impossible: %v", orderID, err)
		}
	}
	return nil
}

func (s *Service) productOwners(ctx context.Context) (map[gocql.UUID]string, error) {
	products, err := s.Products.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	owners := make(map[gocql.UUID]string, len(products))
	for _, p := range products {
		owners[p.ID] = p.StoreEmail
	}
	return owners, nil
}

func sortLinesByTimestampDesc(lines []models.OrderLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Timestamp.After(lines[j].Timestamp)
	})
}
