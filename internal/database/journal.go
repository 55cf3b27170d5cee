package database

import (
	"context"
	"log"
	"time"

	"github.com/gocql/gocql"
)

// JournalEntry trace une écriture qui n'a réussi que d'un seul côté
// (local ou cloud), pour réconciliation ultérieure.
type JournalEntry struct {
	ID        gocql.UUID
	Side      string // "local" ou "remote"
	Entity    string // "user", "product", ...
	Key       string // clé de l'entité concernée
	Operation string // "create", "update", "delete"
	Reason    string
	CreatedAt time.Time
}

// JournalStore : journal de synchronisation, keyspace users (même keyspace
// que les comptes — la réconciliation concerne d'abord les profils).
type JournalStore struct{}

// Record est best-effort : un échec d'écriture du journal est loggé mais ne
// remonte jamais à l'appelant, l'erreur d'origine prime.
func (JournalStore) Record(ctx context.Context, e JournalEntry) {
	session, err := GetUsersSession()
	if err != nil {
		log.Printf("⚠️ Journal de sync indisponible: %v", err)
		return
	}

	if e.ID == (gocql.UUID{}) {
		e.ID = gocql.TimeUUID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	err = session.Query(`INSERT INTO sync_journal (id, side, entity, key, operation, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Side, e.Entity, e.Key, e.Operation, e.Reason, e.CreatedAt).
		WithContext(ctx).Exec()
	if err != nil {
		log.Printf("⚠️ Échec écriture journal de sync (%s/%s %s): %v", e.Entity, e.Key, e.Operation, err)
	}
}

// ListPending retourne les entrées du journal (vue admin de réconciliation).
func (JournalStore) ListPending(ctx context.Context, limit int) ([]JournalEntry, error) {
	session, err := GetUsersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT id, side, entity, key, operation, reason, created_at
		FROM sync_journal LIMIT ?`, limit).WithContext(ctx).Iter()

	var entries []JournalEntry
	var e JournalEntry
	for iter.Scan(&e.ID, &e.Side, &e.Entity, &e.Key, &e.Operation, &e.Reason, &e.CreatedAt) {
		entries = append(entries, e)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return entries, nil
}
