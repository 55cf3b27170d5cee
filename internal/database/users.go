package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocql/gocql"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/models"
)

// UserStore : accès gocql à la table users (keyspace users). L'email est la
// clé primaire — toutes les autres tables référencent les comptes par email.
type UserStore struct{}

func (UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	session, err := GetUsersSession()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	var u models.User
	err = session.Query(`SELECT email, password, name, phone_number, role, created_at
		FROM users WHERE email = ?`, email).WithContext(ctx).
		Scan(&u.Email, &u.Password, &u.Name, &u.PhoneNumber, &u.Role, &u.CreatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}
	return &u, nil
}

func (UserStore) Insert(ctx context.Context, u models.User) error {
	session, err := GetUsersSession()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	err = session.Query(`INSERT INTO users (email, password, name, phone_number, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.Email, u.Password, u.Name, u.PhoneNumber, u.Role, u.CreatedAt).
		WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}
	return nil
}

// Update réécrit les champs modifiables d'un compte (nom, téléphone, hash).
func (UserStore) Update(ctx context.Context, u models.User) error {
	session, err := GetUsersSession()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	err = session.Query(`UPDATE users SET name = ?, phone_number = ?, password = ? WHERE email = ?`,
		u.Name, u.PhoneNumber, u.Password, u.Email).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}
	return nil
}

func (UserStore) Delete(ctx context.Context, email string) error {
	session, err := GetUsersSession()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	err = session.Query(`DELETE FROM users WHERE email = ?`, email).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}
	return nil
}

// ListByRole retourne tous les comptes d'un rôle donné (liste des boutiques
// côté admin). role est indexé — voir scripts/scylladb_init.cql.
func (UserStore) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	session, err := GetUsersSession()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}

	iter := session.Query(`SELECT email, password, name, phone_number, role, created_at
		FROM users WHERE role = ?`, role).WithContext(ctx).Iter()

	var users []models.User
	var u models.User
	for iter.Scan(&u.Email, &u.Password, &u.Name, &u.PhoneNumber, &u.Role, &u.CreatedAt) {
		users = append(users, u)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRemoteWrite, err)
	}
	return users, nil
}
