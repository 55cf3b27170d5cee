package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/gocql/gocql"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/models"
)

const productColumns = `product_id, name, category, price, quantity, store_email,
	material, description, is_fair_trade, is_recycled, is_organic, image_key, created_at`

// ProductStore : accès gocql au catalogue (keyspace products). Chaque produit
// est écrit dans deux tables — products (par id) et products_by_store (par
// boutique) — duplication classique Cassandra pour servir les deux lectures.
type ProductStore struct{}

func scanProduct(scan func(...interface{}) error) (models.Product, error) {
	var p models.Product
	err := scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Quantity, &p.StoreEmail,
		&p.Material, &p.Description, &p.IsFairTrade, &p.IsRecycled, &p.IsOrganic,
		&p.ImageKey, &p.CreatedAt)
	return p, err
}

func (ProductStore) Get(ctx context.Context, id gocql.UUID) (*models.Product, error) {
	session, err := GetProductsSession()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	q := session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, id).
		WithContext(ctx)
	p, err := scanProduct(q.Scan)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}
	return &p, nil
}

// Upsert écrit le produit complet dans les deux tables, en batch loggé pour
// qu'une boutique ne voie jamais un produit absent de son propre listing.
func (ProductStore) Upsert(ctx context.Context, p models.Product) error {
	session, err := GetProductsSession()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	args := []interface{}{p.ID, p.Name, p.Category, p.Price, p.Quantity, p.StoreEmail,
		p.Material, p.Description, p.IsFairTrade, p.IsRecycled, p.IsOrganic,
		p.ImageKey, p.CreatedAt}
	batch.Query(`INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	batch.Query(`INSERT INTO products_by_store (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)

	if err := session.ExecuteBatch(batch); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}
	return nil
}

func (ProductStore) Delete(ctx context.Context, id gocql.UUID, storeEmail string) error {
	session, err := GetProductsSession()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`DELETE FROM products WHERE product_id = ?`, id)
	batch.Query(`DELETE FROM products_by_store WHERE store_email = ? AND product_id = ?`, storeEmail, id)

	if err := session.ExecuteBatch(batch); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}
	return nil
}

func (ProductStore) ListByStore(ctx context.Context, storeEmail string) ([]models.Product, error) {
	session, err := GetProductsSession()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	iter := session.Query(`SELECT `+productColumns+` FROM products_by_store WHERE store_email = ?`,
		storeEmail).WithContext(ctx).Iter()
	return collectProducts(iter)
}

func (ProductStore) ListAll(ctx context.Context) ([]models.Product, error) {
	session, err := GetProductsSession()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	iter := session.Query(`SELECT ` + productColumns + ` FROM products`).WithContext(ctx).Iter()
	return collectProducts(iter)
}

func collectProducts(iter *gocql.Iter) ([]models.Product, error) {
	var products []models.Product
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Quantity, &p.StoreEmail,
		&p.Material, &p.Description, &p.IsFairTrade, &p.IsRecycled, &p.IsOrganic,
		&p.ImageKey, &p.CreatedAt) {
		products = append(products, p)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}
	return products, nil
}

// remainingStock calcule le stock restant après retrait de n unités, plancher
// à zéro. Un stock illisible est une erreur : la ligne doit être réparée, pas
// écrasée en silence par un zéro.
func remainingStock(current string, n int) (int, error) {
	qty, err := strconv.Atoi(current)
	if err != nil {
		return 0, fmt.Errorf("stock illisible %q: %v", current, err)
	}
	next := qty - n
	if next < 0 {
		next = 0
	}
	return next, nil
}

// DecrementStock retire n unités du stock avec un plancher à zéro, via CAS
// (LWT) : relire-calculer-écrire sous condition, réessayé tant qu'un autre
// checkout concurrent a modifié la quantité entre temps.
func (ProductStore) DecrementStock(ctx context.Context, id gocql.UUID, storeEmail string, n int) (int, error) {
	session, err := GetProductsSession()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	const maxAttempts = 5
	for attempt := 0; attempt < maxAttempts; attempt++ {
		var current string
		err := session.Query(`SELECT quantity FROM products WHERE product_id = ?`, id).
			WithContext(ctx).Scan(&current)
		if errors.Is(err, gocql.ErrNotFound) {
			return 0, apperrors.ErrNotFound
		}
		if err != nil {
			return 0, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
		}

		next, err := remainingStock(current, n)
		if err != nil {
			log.Printf("⚠️ Stock corrompu pour le produit %s: %v", id, err)
			return 0, fmt.Errorf("%w: produit %s: %v", apperrors.ErrRemoteWrite, id, err)
		}
		nextStr := strconv.Itoa(next)

		var previous string
		applied, err := session.Query(`UPDATE products SET quantity = ? WHERE product_id = ? IF quantity = ?`,
			nextStr, id, current).WithContext(ctx).ScanCAS(&previous)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
		}
		if applied {
			// Miroir best-effort dans la table par boutique : pas de CAS
			// possible sur deux partitions, la vérité reste products.
			_ = session.Query(`UPDATE products_by_store SET quantity = ? WHERE store_email = ? AND product_id = ?`,
				nextStr, storeEmail, id).WithContext(ctx).Exec()
			return next, nil
		}
	}
	return 0, fmt.Errorf("%w: stock contesté pour le produit %s", apperrors.ErrRemoteWrite, id)
}
