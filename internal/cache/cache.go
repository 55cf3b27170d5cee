package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gocql/gocql"

	"greenbag_back_end/internal/database"
	"greenbag_back_end/internal/models"
)

const (
	UserCacheTTL    = 5 * time.Minute
	ProductCacheTTL = 10 * time.Minute
)

// GetUserFromCache récupère un utilisateur depuis Redis ou ScyllaDB
func GetUserFromCache(ctx context.Context, email string) (*models.User, error) {
	key := "user:" + email

	// 1. Essayer le cache Redis
	if data, err := database.Redis.Get(ctx, key).Result(); err == nil {
		var user models.User
		if json.Unmarshal([]byte(data), &user) == nil {
			return &user, nil
		}
	}

	// 2. Récupérer de ScyllaDB
	user, err := database.UserStore{}.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	// 3. Mettre en cache (sans le hash du mot de passe — le tag json:"-"
	// l'exclut de la sérialisation)
	if jsonData, err := json.Marshal(user); err == nil {
		database.Redis.Set(ctx, key, jsonData, UserCacheTTL)
	}

	return user, nil
}

// InvalidateUserCache invalide le cache d'un utilisateur
func InvalidateUserCache(ctx context.Context, email string) {
	database.Redis.Del(ctx, "user:"+email)
}

// GetProductFromCache récupère un produit depuis Redis ou ScyllaDB
func GetProductFromCache(ctx context.Context, id gocql.UUID) (*models.Product, error) {
	key := "product:" + id.String()

	if data, err := database.Redis.Get(ctx, key).Result(); err == nil {
		if p, err := models.DecodeProduct([]byte(data)); err == nil {
			return p, nil
		}
	}

	product, err := database.ProductStore{}.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if jsonData, err := models.EncodeProduct(*product); err == nil {
		database.Redis.Set(ctx, key, jsonData, ProductCacheTTL)
	}

	return product, nil
}

// InvalidateProductCache invalide le cache d'un produit
func InvalidateProductCache(ctx context.Context, id gocql.UUID) {
	database.Redis.Del(ctx, "product:"+id.String())
}

// ProductInvalidator expose l'invalidation produit aux services qui
// travaillent par interface (le checkout après un décrément de stock).
type ProductInvalidator struct{}

func (ProductInvalidator) InvalidateProduct(ctx context.Context, id gocql.UUID) {
	InvalidateProductCache(ctx, id)
}
