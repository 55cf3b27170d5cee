package database

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/models"
)

// CartStore : lignes de panier, keyspace orders (même keyspace que les
// commandes pour que le batch de checkout couvre insertion + vidage).
type CartStore struct{}

func (CartStore) Add(ctx context.Context, line models.CartLine) error {
	session, err := GetOrdersSession()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	err = session.Query(`INSERT INTO cart_lines_by_user (user_email, doc_id, product_id, quantity, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		line.UserEmail, line.DocID, line.ProductID, line.Quantity, line.CreatedAt).
		WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}
	return nil
}

func (CartStore) ListByUser(ctx context.Context, email string) ([]models.CartLine, error) {
	session, err := GetOrdersSession()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	iter := session.Query(`SELECT user_email, doc_id, product_id, quantity, created_at
		FROM cart_lines_by_user WHERE user_email = ?`, email).WithContext(ctx).Iter()

	var lines []models.CartLine
	var l models.CartLine
	for iter.Scan(&l.UserEmail, &l.DocID, &l.ProductID, &l.Quantity, &l.CreatedAt) {
		lines = append(lines, l)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}
	return lines, nil
}

func (CartStore) UpdateQuantity(ctx context.Context, email string, docID gocql.UUID, quantity int) error {
	session, err := GetOrdersSession()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	err = session.Query(`UPDATE cart_lines_by_user SET quantity = ? WHERE user_email = ? AND doc_id = ?`,
		quantity, email, docID).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}
	return nil
}

func (CartStore) Delete(ctx context.Context, email string, docID gocql.UUID) error {
	session, err := GetOrdersSession()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	err = session.Query(`DELETE FROM cart_lines_by_user WHERE user_email = ? AND doc_id = ?`,
		email, docID).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}
	return nil
}
