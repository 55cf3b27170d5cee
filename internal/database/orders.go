package database

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/models"
)

const orderColumns = `order_id, line_id, user_email, product_id, product_name, quantity,
	price, category, status, created_at, payment_method, total_order_amount, order_notes`

// OrderStore : lignes de commande, keyspace orders. Deux tables dupliquées :
// order_lines_by_order (suivi boutique / statut) et order_lines_by_user
// (historique client). Toute écriture couvre les deux en batch loggé.
type OrderStore struct{}

// PlaceBatch insère toutes les lignes d'une commande et vide les lignes de
// panier correspondantes en un seul batch loggé : soit la commande existe et
// le panier est vide, soit rien n'a changé.
func (OrderStore) PlaceBatch(ctx context.Context, lines []models.OrderLine, cart []models.CartLine) error {
	session, err := GetOrdersSession()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	for _, l := range lines {
		args := []interface{}{l.OrderID, l.LineID, l.UserEmail, l.ProductID, l.ProductName,
			l.Quantity, l.Price, l.Category, l.Status, l.Timestamp, l.PaymentMethod,
			l.TotalOrderAmount, l.OrderNotes}
		batch.Query(`INSERT INTO order_lines_by_order (`+orderColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
		batch.Query(`INSERT INTO order_lines_by_user (`+orderColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	}
	for _, c := range cart {
		batch.Query(`DELETE FROM cart_lines_by_user WHERE user_email = ? AND doc_id = ?`,
			c.UserEmail, c.DocID)
	}

	if err := session.ExecuteBatch(batch); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}
	return nil
}

func (OrderStore) ListByOrderID(ctx context.Context, orderID string) ([]models.OrderLine, error) {
	session, err := GetOrdersSession()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	iter := session.Query(`SELECT `+orderColumns+` FROM order_lines_by_order WHERE order_id = ?`,
		orderID).WithContext(ctx).Iter()
	return collectOrderLines(iter)
}

func (OrderStore) ListByUser(ctx context.Context, email string) ([]models.OrderLine, error) {
	session, err := GetOrdersSession()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	iter := session.Query(`SELECT `+orderColumns+` FROM order_lines_by_user WHERE user_email = ?`,
		email).WithContext(ctx).Iter()
	return collectOrderLines(iter)
}

// ListAll parcourt toutes les lignes de commande. Le suivi boutique filtre
// ensuite par produit — le filtre par boutique passe par le catalogue, pas
// par la table des commandes.
func (OrderStore) ListAll(ctx context.Context) ([]models.OrderLine, error) {
	session, err := GetOrdersSession()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	iter := session.Query(`SELECT ` + orderColumns + ` FROM order_lines_by_order`).
		WithContext(ctx).Iter()
	return collectOrderLines(iter)
}

// UpdateStatus passe toutes les lignes d'une commande au nouveau statut, dans
// les deux tables, en un seul batch loggé — jamais de commande à moitié mise
// à jour.
func (o OrderStore) UpdateStatus(ctx context.Context, orderID, newStatus string) error {
	lines, err := o.ListByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return apperrors.ErrNotFound
	}

	session, err := GetOrdersSession()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	for _, l := range lines {
		batch.Query(`UPDATE order_lines_by_order SET status = ? WHERE order_id = ? AND line_id = ?`,
			newStatus, l.OrderID, l.LineID)
		batch.Query(`UPDATE order_lines_by_user SET status = ? WHERE user_email = ? AND line_id = ?`,
			newStatus, l.UserEmail, l.LineID)
	}

	if err := session.ExecuteBatch(batch); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}
	return nil
}

func collectOrderLines(iter *gocql.Iter) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	var l models.OrderLine
	for iter.Scan(&l.OrderID, &l.LineID, &l.UserEmail, &l.ProductID, &l.ProductName,
		&l.Quantity, &l.Price, &l.Category, &l.Status, &l.Timestamp, &l.PaymentMethod,
		&l.TotalOrderAmount, &l.OrderNotes) {
		lines = append(lines, l)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}
	return lines, nil
}
