package syncstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gocql/gocql"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/database"
	"greenbag_back_end/internal/models"
)

// Le synchroniseur applique chaque écriture aux deux bases avec un ordre
// fixe par opération :
//   - création  : local d'abord, puis cloud (l'utilisateur voit sa donnée
//     immédiatement, la sync cloud peut échouer sans perdre la saisie)
//   - mise à jour / suppression : cloud d'abord, puis local (le cloud fait
//     foi, le miroir local suit)
//
// Une écriture qui ne réussit que d'un côté retourne une PartialSyncError
// et laisse une trace dans le journal de réconciliation. Pas de rollback :
// la donnée déjà écrite reste en place.

// LocalUsers et LocalProducts couvrent le miroir bbolt.
type LocalUsers interface {
	PutUser(models.User) error
	DeleteUser(email string) error
}

type LocalProducts interface {
	PutProduct(models.Product) error
	DeleteProduct(id string) error
}

// RemoteUsers et RemoteProducts couvrent les stores gocql.
type RemoteUsers interface {
	Insert(ctx context.Context, u models.User) error
	Update(ctx context.Context, u models.User) error
	Delete(ctx context.Context, email string) error
}

type RemoteProducts interface {
	Upsert(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, id gocql.UUID, storeEmail string) error
}

type Journal interface {
	Record(ctx context.Context, e database.JournalEntry)
}

type Synchronizer struct {
	LocalUsers     LocalUsers
	LocalProducts  LocalProducts
	RemoteUsers    RemoteUsers
	RemoteProducts RemoteProducts
	Journal        Journal

	// RemoteTimeout borne chaque tentative vers le cloud.
	RemoteTimeout time.Duration
	// RemoteRetries : nombre de nouvelles tentatives après un timeout.
	// Toutes les écritures synchronisées sont idempotentes (upserts et
	// deletes à clé fixe), rejouer est sans danger.
	RemoteRetries int
}

func New(local LocalUsers, localP LocalProducts, remote RemoteUsers, remoteP RemoteProducts,
	journal Journal, timeout time.Duration) *Synchronizer {
	return &Synchronizer{
		LocalUsers:     local,
		LocalProducts:  localP,
		RemoteUsers:    remote,
		RemoteProducts: remoteP,
		Journal:        journal,
		RemoteTimeout:  timeout,
		RemoteRetries:  2,
	}
}

// remote exécute fn avec un délai borné, rejouée après timeout avec un
// backoff court. Une erreur non-timeout n'est jamais rejouée.
func (s *Synchronizer) remote(ctx context.Context, fn func(context.Context) error) error {
	backoff := 200 * time.Millisecond
	for attempt := 0; ; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, s.RemoteTimeout)
		err := fn(attemptCtx)
		cancel()

		if err == nil {
			return nil
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if attempt >= s.RemoteRetries || ctx.Err() != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrRemoteTimeout, err)
		}
		log.Printf("⚠️ Timeout cloud (tentative %d), nouvel essai dans %v", attempt+1, backoff)
		time.Sleep(backoff)
		backoff *= 2
	}
}

// =============================================
// UTILISATEURS
// =============================================

// CreateUser : local d'abord, cloud ensuite.
func (s *Synchronizer) CreateUser(ctx context.Context, u models.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	if err := s.LocalUsers.PutUser(u); err != nil {
		return err
	}

	if err := s.remote(ctx, func(c context.Context) error {
		return s.RemoteUsers.Insert(c, u)
	}); err != nil {
		s.Journal.Record(ctx, database.JournalEntry{
			Side: string(apperrors.SideRemote), Entity: "user", Key: u.Email,
			Operation: "create", Reason: err.Error(),
		})
		return &apperrors.PartialSyncError{Side: apperrors.SideRemote, Err: err}
	}
	return nil
}

// UpdateUser : cloud d'abord, local ensuite. L'appelant fournit l'état
// courant (qu'il vient de charger) : si aucun champ ne change, la comparaison
// court-circuite avant toute E/S.
func (s *Synchronizer) UpdateUser(ctx context.Context, current, u models.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if current.Unchanged(u.Name, u.PhoneNumber, u.Password) {
		return nil
	}

	if err := s.remote(ctx, func(c context.Context) error {
		return s.RemoteUsers.Update(c, u)
	}); err != nil {
		return err
	}

	// On repart de l'état courant pour ne pas écraser les champs non modifiés
	// du miroir local.
	merged := current
	merged.Name = u.Name
	merged.PhoneNumber = u.PhoneNumber
	merged.Password = u.Password
	if err := s.LocalUsers.PutUser(merged); err != nil {
		s.Journal.Record(ctx, database.JournalEntry{
			Side: string(apperrors.SideLocal), Entity: "user", Key: u.Email,
			Operation: "update", Reason: err.Error(),
		})
		return &apperrors.PartialSyncError{Side: apperrors.SideLocal, Err: err}
	}
	return nil
}

// DeleteUser : cloud d'abord, local ensuite.
func (s *Synchronizer) DeleteUser(ctx context.Context, email string) error {
	if err := s.remote(ctx, func(c context.Context) error {
		return s.RemoteUsers.Delete(c, email)
	}); err != nil {
		return err
	}

	if err := s.LocalUsers.DeleteUser(email); err != nil {
		s.Journal.Record(ctx, database.JournalEntry{
			Side: string(apperrors.SideLocal), Entity: "user", Key: email,
			Operation: "delete", Reason: err.Error(),
		})
		return &apperrors.PartialSyncError{Side: apperrors.SideLocal, Err: err}
	}
	return nil
}

// =============================================
// PRODUITS
// =============================================

// CreateProduct : local d'abord, cloud ensuite.
func (s *Synchronizer) CreateProduct(ctx context.Context, p models.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if err := s.LocalProducts.PutProduct(p); err != nil {
		return err
	}

	if err := s.remote(ctx, func(c context.Context) error {
		return s.RemoteProducts.Upsert(c, p)
	}); err != nil {
		s.Journal.Record(ctx, database.JournalEntry{
			Side: string(apperrors.SideRemote), Entity: "product", Key: p.ID.String(),
			Operation: "create", Reason: err.Error(),
		})
		return &apperrors.PartialSyncError{Side: apperrors.SideRemote, Err: err}
	}
	return nil
}

// UpdateProduct : cloud d'abord, local ensuite. L'appelant fournit l'état
// courant : si les champs éditables sont identiques, court-circuit avant
// toute E/S.
func (s *Synchronizer) UpdateProduct(ctx context.Context, current, p models.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if current.Unchanged(p.Name, p.Category, p.Price, p.Quantity) &&
		current.Material == p.Material && current.Description == p.Description &&
		current.IsFairTrade == p.IsFairTrade && current.IsRecycled == p.IsRecycled &&
		current.IsOrganic == p.IsOrganic && current.ImageKey == p.ImageKey {
		return nil
	}

	// CreatedAt et StoreEmail ne sont jamais modifiables.
	merged := p
	merged.CreatedAt = current.CreatedAt
	merged.StoreEmail = current.StoreEmail
	if merged.ImageKey == "" {
		merged.ImageKey = current.ImageKey
	}

	if err := s.remote(ctx, func(c context.Context) error {
		return s.RemoteProducts.Upsert(c, merged)
	}); err != nil {
		return err
	}

	if err := s.LocalProducts.PutProduct(merged); err != nil {
		s.Journal.Record(ctx, database.JournalEntry{
			Side: string(apperrors.SideLocal), Entity: "product", Key: p.ID.String(),
			Operation: "update", Reason: err.Error(),
		})
		return &apperrors.PartialSyncError{Side: apperrors.SideLocal, Err: err}
	}
	return nil
}

// DeleteProduct : cloud d'abord, local ensuite.
func (s *Synchronizer) DeleteProduct(ctx context.Context, id gocql.UUID, storeEmail string) error {
	if err := s.remote(ctx, func(c context.Context) error {
		return s.RemoteProducts.Delete(c, id, storeEmail)
	}); err != nil {
		return err
	}

	if err := s.LocalProducts.DeleteProduct(id.String()); err != nil {
		s.Journal.Record(ctx, database.JournalEntry{
			Side: string(apperrors.SideLocal), Entity: "product", Key: id.String(),
			Operation: "delete", Reason: err.Error(),
		})
		return &apperrors.PartialSyncError{Side: apperrors.SideLocal, Err: err}
	}
	return nil
}
