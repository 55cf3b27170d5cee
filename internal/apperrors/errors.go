package apperrors

import (
	"errors"
	"fmt"
)

// Catégories d'erreurs remontées telles quelles à la couche UI.
var (
	ErrValidation      = errors.New("champ requis manquant ou invalide")
	ErrLocalWrite      = errors.New("échec écriture base locale")
	ErrRemoteWrite     = errors.New("échec écriture base cloud")
	ErrRemoteTimeout   = errors.New("délai dépassé sur la base cloud")
	ErrNotFound        = errors.New("ressource introuvable")
	ErrAuth            = errors.New("identifiants ou rôle invalides")
	ErrDeserialization = errors.New("document illisible: champ requis manquant")
)

type Side string

const (
	SideLocal  Side = "local"
	SideRemote Side = "remote"
)

// PartialSyncError signale qu'une seule moitié d'une double écriture a abouti.
// Side désigne le côté qui a ÉCHOUÉ.
type PartialSyncError struct {
	Side Side
	Err  error
}

func (e *PartialSyncError) Error() string {
	if e.Side == SideRemote {
		return fmt.Sprintf("enregistré localement mais échec de synchronisation cloud: %v", e.Err)
	}
	return fmt.Sprintf("mis à jour dans le cloud mais échec de mise à jour locale: %v", e.Err)
}

func (e *PartialSyncError) Unwrap() error { return e.Err }

// Validationf enveloppe ErrValidation avec le nom du champ fautif.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// HTTPStatus traduit une catégorie d'erreur en code HTTP. Une écriture
// partielle répond 207 : la requête a partiellement abouti et le client doit
// afficher l'avertissement, pas rejouer aveuglément.
func HTTPStatus(err error) int {
	var partial *PartialSyncError
	switch {
	case errors.As(err, &partial):
		return 207
	case errors.Is(err, ErrValidation), errors.Is(err, ErrDeserialization):
		return 400
	case errors.Is(err, ErrAuth):
		return 401
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrRemoteTimeout):
		return 504
	default:
		return 500
	}
}
