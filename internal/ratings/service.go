package ratings

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"

	"greenbag_back_end/internal/models"
)

const (
	cacheKey = "ratings:home"
	cacheTTL = 10 * time.Minute
)

type Reviews interface {
	ListAll(ctx context.Context) ([]models.Review, error)
	ListByProduct(ctx context.Context, productID gocql.UUID) ([]models.Review, error)
}

type Products interface {
	ListAll(ctx context.Context) ([]models.Product, error)
}

type Service struct {
	Reviews  Reviews
	Products Products
	Redis    *redis.Client
}

// HomePage retourne le catalogue trié par note moyenne décroissante, servi
// depuis Redis quand le cache est chaud. Un cache indisponible dégrade en
// recalcul direct, jamais en erreur.
func (s *Service) HomePage(ctx context.Context) ([]Rated, error) {
	if s.Redis != nil {
		if raw, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []Rated
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	rated, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(rated); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, payload, cacheTTL).Err(); err != nil {
				log.Printf("⚠️ Cache des notes non écrit: %v", err)
			}
		}
	}
	return rated, nil
}

// Average retourne la note moyenne et le nombre d'avis d'un produit.
// Un produit sans avis donne la sentinelle (0, 0), jamais une erreur.
func (s *Service) Average(ctx context.Context, productID gocql.UUID) (Summary, error) {
	reviews, err := s.Reviews.ListByProduct(ctx, productID)
	if err != nil {
		return Summary{}, err
	}
	return SummarizeOne(reviews), nil
}

// Invalidate purge le cache — appelé après chaque nouvel avis.
func (s *Service) Invalidate(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, cacheKey).Err(); err != nil {
		log.Printf("⚠️ Invalidation du cache des notes impossible: %v", err)
	}
}

func (s *Service) compute(ctx context.Context) ([]Rated, error) {
	products, err := s.Products.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	reviews, err := s.Reviews.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return Rank(products, Summarize(reviews)), nil
}
