package database

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/models"
)

// ReviewStore : avis produits, keyspace products. Cluster par review_id
// (timeuuid) décroissant — les avis récents sortent en premier sans tri.
type ReviewStore struct{}

func (ReviewStore) Insert(ctx context.Context, r models.Review) error {
	session, err := GetProductsSession()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	err = session.Query(`INSERT INTO reviews_by_product
		(product_id, review_id, user_email, user_name, rating, carbon_rating, eco_rating, review_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ProductID, r.ReviewID, r.UserEmail, r.UserName, r.Rating, r.CarbonRating,
		r.EcoRating, r.ReviewText, r.Timestamp).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}
	return nil
}

func (ReviewStore) ListByProduct(ctx context.Context, productID gocql.UUID) ([]models.Review, error) {
	session, err := GetProductsSession()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	iter := session.Query(`SELECT product_id, review_id, user_email, user_name, rating,
		carbon_rating, eco_rating, review_text, created_at
		FROM reviews_by_product WHERE product_id = ?`, productID).WithContext(ctx).Iter()

	var reviews []models.Review
	var r models.Review
	for iter.Scan(&r.ProductID, &r.ReviewID, &r.UserEmail, &r.UserName, &r.Rating,
		&r.CarbonRating, &r.EcoRating, &r.ReviewText, &r.Timestamp) {
		reviews = append(reviews, r)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}
	return reviews, nil
}

// ListAll parcourt toute la table des avis — utilisé par l'agrégateur de
// notes de la page d'accueil, derrière le cache Redis.
func (ReviewStore) ListAll(ctx context.Context) ([]models.Review, error) {
	session, err := GetProductsSession()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	iter := session.Query(`SELECT product_id, review_id, user_email, user_name, rating,
		carbon_rating, eco_rating, review_text, created_at
		FROM reviews_by_product`).WithContext(ctx).Iter()

	var reviews []models.Review
	var r models.Review
	for iter.Scan(&r.ProductID, &r.ReviewID, &r.UserEmail, &r.UserName, &r.Rating,
		&r.CarbonRating, &r.EcoRating, &r.ReviewText, &r.Timestamp) {
		reviews = append(reviews, r)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}
	return reviews, nil
}
