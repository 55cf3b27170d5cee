package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocql/gocql"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/models"
)

// CardStore : cartes enregistrées, keyspace orders.
type CardStore struct{}

func (CardStore) Save(ctx context.Context, c models.StoredCard) error {
	session, err := GetOrdersSession()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	err = session.Query(`INSERT INTO user_cards_by_user (user_email, card_id, card_number, expiry_date, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.UserEmail, c.CardID, c.CardNumber, c.ExpiryDate, c.CreatedAt).
		WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}
	return nil
}

// FirstByUser retourne la première carte de l'utilisateur, comme l'écran de
// paiement qui pré-remplit avec la première correspondance trouvée.
func (CardStore) FirstByUser(ctx context.Context, email string) (*models.StoredCard, error) {
	session, err := GetOrdersSession()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	var c models.StoredCard
	err = session.Query(`SELECT user_email, card_id, card_number, expiry_date, created_at
		FROM user_cards_by_user WHERE user_email = ? LIMIT 1`, email).WithContext(ctx).
		Scan(&c.UserEmail, &c.CardID, &c.CardNumber, &c.ExpiryDate, &c.CreatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}
	return &c, nil
}
