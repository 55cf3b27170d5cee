package syncstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenbag_back_end/internal/apperrors"
	"greenbag_back_end/internal/database"
	"greenbag_back_end/internal/models"
)

// --- Fakes ---

type fakeLocal struct {
	users    map[string]models.User
	products map[string]models.Product
	failPut  bool
}

func newFakeLocal() *fakeLocal {
	return &fakeLocal{users: map[string]models.User{}, products: map[string]models.Product{}}
}

func (f *fakeLocal) PutUser(u models.User) error {
	if f.failPut {
		return apperrors.ErrLocalWrite
	}
	f.users[u.Email] = u
	return nil
}

func (f *fakeLocal) DeleteUser(email string) error {
	if f.failPut {
		return apperrors.ErrLocalWrite
	}
	delete(f.users, email)
	return nil
}

func (f *fakeLocal) PutProduct(p models.Product) error {
	if f.failPut {
		return apperrors.ErrLocalWrite
	}
	f.products[p.ID.String()] = p
	return nil
}

func (f *fakeLocal) DeleteProduct(id string) error {
	delete(f.products, id)
	return nil
}

type fakeRemote struct {
	users       map[string]models.User
	products    map[string]models.Product
	failWrites  bool
	timeoutN    int // les N premières écritures expirent
	writeCalls  int
	updateCalls int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{users: map[string]models.User{}, products: map[string]models.Product{}}
}

func (f *fakeRemote) write() error {
	f.writeCalls++
	if f.timeoutN > 0 {
		f.timeoutN--
		return context.DeadlineExceeded
	}
	if f.failWrites {
		return apperrors.ErrRemoteWrite
	}
	return nil
}

func (f *fakeRemote) Insert(_ context.Context, u models.User) error {
	if err := f.write(); err != nil {
		return err
	}
	f.users[u.Email] = u
	return nil
}

func (f *fakeRemote) Update(_ context.Context, u models.User) error {
	f.updateCalls++
	if err := f.write(); err != nil {
		return err
	}
	cur := f.users[u.Email]
	cur.Name, cur.PhoneNumber, cur.Password = u.Name, u.PhoneNumber, u.Password
	f.users[u.Email] = cur
	return nil
}

func (f *fakeRemote) Delete(_ context.Context, email string) error {
	if err := f.write(); err != nil {
		return err
	}
	delete(f.users, email)
	return nil
}

func (f *fakeRemote) Upsert(_ context.Context, p models.Product) error {
	if err := f.write(); err != nil {
		return err
	}
	f.products[p.ID.String()] = p
	return nil
}

func (f *fakeRemote) DeleteProduct(_ context.Context, id gocql.UUID, _ string) error {
	if err := f.write(); err != nil {
		return err
	}
	delete(f.products, id.String())
	return nil
}

// remoteProducts adapte fakeRemote à l'interface RemoteProducts (le Delete
// des produits a une signature différente de celui des utilisateurs).
type remoteProducts struct{ *fakeRemote }

func (r remoteProducts) Delete(ctx context.Context, id gocql.UUID, storeEmail string) error {
	return r.fakeRemote.DeleteProduct(ctx, id, storeEmail)
}

type fakeJournal struct {
	entries []database.JournalEntry
}

func (f *fakeJournal) Record(_ context.Context, e database.JournalEntry) {
	f.entries = append(f.entries, e)
}

func newSync(local *fakeLocal, remote *fakeRemote, journal *fakeJournal) *Synchronizer {
	s := New(local, local, remote, remoteProducts{remote}, journal, 50*time.Millisecond)
	s.RemoteRetries = 2
	return s
}

func testUser() models.User {
	return models.User{
		Email:       "alice@example.com",
		Password:    "hash",
		Name:        "Alice",
		PhoneNumber: "0470000000",
		Role:        models.RoleUser,
		CreatedAt:   time.Now(),
	}
}

func testProduct() models.Product {
	return models.Product{
		ID:         gocql.TimeUUID(),
		Name:       "Sac en toile",
		Category:   "Accessoires",
		Price:      "12.50",
		Quantity:   "8",
		StoreEmail: "store@example.com",
		CreatedAt:  time.Now(),
	}
}

// --- Créations : local d'abord ---

func TestCreateUserWritesBothSides(t *testing.T) {
	local, remote, journal := newFakeLocal(), newFakeRemote(), &fakeJournal{}
	s := newSync(local, remote, journal)

	u := testUser()
	require.NoError(t, s.CreateUser(context.Background(), u))

	assert.Contains(t, local.users, u.Email)
	assert.Contains(t, remote.users, u.Email)
	assert.Empty(t, journal.entries)
}

func TestCreateUserRemoteFailureKeepsLocalAndJournals(t *testing.T) {
	local, remote, journal := newFakeLocal(), newFakeRemote(), &fakeJournal{}
	remote.failWrites = true
	s := newSync(local, remote, journal)

	u := testUser()
	err := s.CreateUser(context.Background(), u)

	var partial *apperrors.PartialSyncError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, apperrors.SideRemote, partial.Side)
	// Pas de rollback : la donnée locale reste en place.
	assert.Contains(t, local.users, u.Email)
	assert.NotContains(t, remote.users, u.Email)
	require.Len(t, journal.entries, 1)
	assert.Equal(t, "create", journal.entries[0].Operation)
}

func TestCreateUserLocalFailureNeverTouchesRemote(t *testing.T) {
	local, remote, journal := newFakeLocal(), newFakeRemote(), &fakeJournal{}
	local.failPut = true
	s := newSync(local, remote, journal)

	err := s.CreateUser(context.Background(), testUser())
	require.ErrorIs(t, err, apperrors.ErrLocalWrite)
	assert.Zero(t, remote.writeCalls)
}

func TestCreateUserValidation(t *testing.T) {
	s := newSync(newFakeLocal(), newFakeRemote(), &fakeJournal{})

	u := testUser()
	u.Email = ""
	require.ErrorIs(t, s.CreateUser(context.Background(), u), apperrors.ErrValidation)
}

// --- Mises à jour : cloud d'abord ---

func TestUpdateUserRemoteFirstThenLocal(t *testing.T) {
	local, remote, journal := newFakeLocal(), newFakeRemote(), &fakeJournal{}
	u := testUser()
	local.users[u.Email] = u
	remote.users[u.Email] = u
	s := newSync(local, remote, journal)

	current := u
	u.Name = "Alice B"
	require.NoError(t, s.UpdateUser(context.Background(), current, u))

	assert.Equal(t, "Alice B", remote.users[u.Email].Name)
	assert.Equal(t, "Alice B", local.users[u.Email].Name)
}

func TestUpdateUserNoopShortCircuits(t *testing.T) {
	local, remote, journal := newFakeLocal(), newFakeRemote(), &fakeJournal{}
	u := testUser()
	local.users[u.Email] = u
	remote.users[u.Email] = u
	s := newSync(local, remote, journal)

	require.NoError(t, s.UpdateUser(context.Background(), u, u))
	// Ni lecture ni écriture émise d'aucun côté : la comparaison se fait
	// sur l'état fourni par l'appelant, avant toute E/S.
	assert.Zero(t, remote.updateCalls)
	assert.Zero(t, remote.writeCalls)
}

func TestUpdateUserLocalFailureIsPartial(t *testing.T) {
	local, remote, journal := newFakeLocal(), newFakeRemote(), &fakeJournal{}
	u := testUser()
	local.users[u.Email] = u
	remote.users[u.Email] = u
	s := newSync(local, remote, journal)

	local.failPut = true
	current := u
	u.Name = "Alice B"
	err := s.UpdateUser(context.Background(), current, u)

	var partial *apperrors.PartialSyncError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, apperrors.SideLocal, partial.Side)
	// Le cloud a bien été mis à jour.
	assert.Equal(t, "Alice B", remote.users[u.Email].Name)
	require.Len(t, journal.entries, 1)
}

func TestUpdateUserRemoteFailureLeavesLocalUntouched(t *testing.T) {
	local, remote, journal := newFakeLocal(), newFakeRemote(), &fakeJournal{}
	u := testUser()
	local.users[u.Email] = u
	remote.users[u.Email] = u
	s := newSync(local, remote, journal)

	remote.failWrites = true
	current := u
	u.Name = "Alice B"
	err := s.UpdateUser(context.Background(), current, u)

	require.ErrorIs(t, err, apperrors.ErrRemoteWrite)
	var partial *apperrors.PartialSyncError
	assert.False(t, errors.As(err, &partial))
	assert.Equal(t, "Alice", local.users[u.Email].Name)
}

// --- Timeout et retry ---

func TestRemoteTimeoutRetriesIdempotentWrite(t *testing.T) {
	local, remote, journal := newFakeLocal(), newFakeRemote(), &fakeJournal{}
	remote.timeoutN = 2 // les deux premières tentatives expirent
	s := newSync(local, remote, journal)

	require.NoError(t, s.CreateUser(context.Background(), testUser()))
	assert.Equal(t, 3, remote.writeCalls)
}

func TestRemoteTimeoutExhaustedIsPartialOnCreate(t *testing.T) {
	local, remote, journal := newFakeLocal(), newFakeRemote(), &fakeJournal{}
	remote.timeoutN = 10
	s := newSync(local, remote, journal)

	err := s.CreateUser(context.Background(), testUser())

	var partial *apperrors.PartialSyncError
	require.ErrorAs(t, err, &partial)
	assert.ErrorIs(t, err, apperrors.ErrRemoteTimeout)
	assert.Equal(t, 3, remote.writeCalls) // 1 + 2 retries
}

// --- Produits ---

func TestCreateProductWritesBothSides(t *testing.T) {
	local, remote, journal := newFakeLocal(), newFakeRemote(), &fakeJournal{}
	s := newSync(local, remote, journal)

	p := testProduct()
	require.NoError(t, s.CreateProduct(context.Background(), p))
	assert.Contains(t, local.products, p.ID.String())
	assert.Contains(t, remote.products, p.ID.String())
}

func TestUpdateProductNoopShortCircuits(t *testing.T) {
	local, remote, journal := newFakeLocal(), newFakeRemote(), &fakeJournal{}
	p := testProduct()
	local.products[p.ID.String()] = p
	remote.products[p.ID.String()] = p
	s := newSync(local, remote, journal)

	require.NoError(t, s.UpdateProduct(context.Background(), p, p))
	assert.Zero(t, remote.writeCalls)
}

func TestUpdateProductPreservesImmutableFields(t *testing.T) {
	local, remote, journal := newFakeLocal(), newFakeRemote(), &fakeJournal{}
	p := testProduct()
	local.products[p.ID.String()] = p
	remote.products[p.ID.String()] = p
	s := newSync(local, remote, journal)

	edited := p
	edited.Price = "14.00"
	edited.StoreEmail = "autre@example.com" // doit être ignoré
	require.NoError(t, s.UpdateProduct(context.Background(), p, edited))

	got := remote.products[p.ID.String()]
	assert.Equal(t, "14.00", got.Price)
	assert.Equal(t, p.StoreEmail, got.StoreEmail)
	assert.Equal(t, p.CreatedAt.Unix(), got.CreatedAt.Unix())
}

func TestDeleteProductRemoteFirst(t *testing.T) {
	local, remote, journal := newFakeLocal(), newFakeRemote(), &fakeJournal{}
	p := testProduct()
	local.products[p.ID.String()] = p
	remote.products[p.ID.String()] = p
	s := newSync(local, remote, journal)

	require.NoError(t, s.DeleteProduct(context.Background(), p.ID, p.StoreEmail))
	assert.NotContains(t, remote.products, p.ID.String())
	assert.NotContains(t, local.products, p.ID.String())
}
