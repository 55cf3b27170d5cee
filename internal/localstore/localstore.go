package localstore

import (
	"fmt"
	"log"
	"os"

	bolt "go.etcd.io/bbolt"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/models"
)

// Miroir local embarqué des comptes et du catalogue. Les écritures passent
// d'abord ici pour les créations (local-first), et en second pour les mises
// à jour (remote-first) — c'est le synchroniseur qui orchestre l'ordre.
var (
	bucketUsers    = []byte("users")
	bucketProducts = []byte("products")
)

type Store struct {
	db *bolt.DB
}

// Open ouvre (ou crée) le fichier bbolt et garantit l'existence des buckets.
func Open(path string) (*Store, error) {
	if path == "" {
		path = os.Getenv("LOCAL_DB_PATH")
	}
	if path == "" {
		path = "greenbag.db"
	}

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrLocalWrite, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketUsers); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketProducts)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", apperrors.ErrLocalWrite, err)
	}

	log.Println("✅ Base locale ouverte :", path)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// --- Utilisateurs (clé = email) ---

func (s *Store) PutUser(u models.User) error {
	data, err := models.EncodeUser(u)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrLocalWrite, err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketUsers).Put([]byte(u.Email), data)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrLocalWrite, err)
	}
	return nil
}

func (s *Store) GetUser(email string) (*models.User, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketUsers).Get([]byte(email)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrLocalWrite, err)
	}
	if raw == nil {
		return nil, apperrors.ErrNotFound
	}
	return models.DecodeUser(raw)
}

func (s *Store) DeleteUser(email string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketUsers).Delete([]byte(email))
	})
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrLocalWrite, err)
	}
	return nil
}

// --- Produits (clé = product_id) ---

func (s *Store) PutProduct(p models.Product) error {
	data, err := models.EncodeProduct(p)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrLocalWrite, err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProducts).Put([]byte(p.ID.String()), data)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrLocalWrite, err)
	}
	return nil
}

func (s *Store) GetProduct(id string) (*models.Product, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketProducts).Get([]byte(id)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrLocalWrite, err)
	}
	if raw == nil {
		return nil, apperrors.ErrNotFound
	}
	return models.DecodeProduct(raw)
}

func (s *Store) DeleteProduct(id string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProducts).Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrLocalWrite, err)
	}
	return nil
}
