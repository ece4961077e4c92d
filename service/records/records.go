// Package records reads wallet rows from the relational wallet directory.
// Key material is classified as plaintext or encrypted exactly once here, at
// the storage boundary; the signing core downstream only ever sees plaintext
// keys.
package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agfarms/flow-custodian/models/custody"
)

// Decryptor represents the at-rest encryption capability. The store never
// knows the master key; it hands encrypted blobs to the decryptor and
// receives hex-encoded plaintext back.
type Decryptor interface {
	Decrypt(blob string) (string, error)
}

// Store reads wallet records from a relational database, keyed by the
// opaque identifier of the wallet owner. It expects a Postgres database
// reachable through database/sql with the lib/pq driver registered.
type Store struct {
	log     zerolog.Logger
	db      *sql.DB
	decrypt Decryptor
}

// New creates a new wallet record store on top of the given database handle.
// The decryptor may be nil when the database is known to hold plaintext
// keys only.
func New(log zerolog.Logger, db *sql.DB, decrypt Decryptor) *Store {

	s := Store{
		log:     log.With().Str("component", "records").Logger(),
		db:      db,
		decrypt: decrypt,
	}

	return &s
}

// Wallet returns the wallet record for the given opaque identifier, with
// its key material already resolved to plaintext.
func (s *Store) Wallet(ctx context.Context, authID string) (custody.WalletRecord, error) {

	row := s.db.QueryRowContext(ctx,
		`SELECT flow_address, flow_private_key, flow_public_key FROM wallet WHERE auth_id = $1`,
		authID,
	)

	var address, rawKey, publicKey string
	err := row.Scan(&address, &rawKey, &publicKey)
	if errors.Is(err, sql.ErrNoRows) {
		return custody.WalletRecord{}, fmt.Errorf("no wallet record found (auth_id: %s)", authID)
	}
	if err != nil {
		return custody.WalletRecord{}, fmt.Errorf("could not read wallet record: %w", err)
	}

	privateKey, err := s.resolveKey(rawKey)
	if err != nil {
		return custody.WalletRecord{}, fmt.Errorf("could not resolve wallet key (auth_id: %s): %w", authID, err)
	}

	record := custody.WalletRecord{
		Address:    address,
		PrivateKey: privateKey,
		PublicKey:  publicKey,
	}

	return record, nil
}

// Wallets returns all wallet records in the directory, with key material
// already resolved to plaintext. Rows whose key material cannot be resolved
// are skipped with a warning rather than failing the whole sweep.
func (s *Store) Wallets(ctx context.Context) ([]custody.WalletRecord, error) {

	rows, err := s.db.QueryContext(ctx,
		`SELECT flow_address, flow_private_key, flow_public_key FROM wallet`,
	)
	if err != nil {
		return nil, fmt.Errorf("could not read wallet records: %w", err)
	}
	defer rows.Close()

	var records []custody.WalletRecord
	for rows.Next() {
		var address, rawKey, publicKey string
		err := rows.Scan(&address, &rawKey, &publicKey)
		if err != nil {
			return nil, fmt.Errorf("could not scan wallet record: %w", err)
		}
		privateKey, err := s.resolveKey(rawKey)
		if err != nil {
			s.log.Warn().Str("address", address).Err(err).Msg("skipping wallet with unresolvable key")
			continue
		}
		records = append(records, custody.WalletRecord{
			Address:    address,
			PrivateKey: privateKey,
			PublicKey:  publicKey,
		})
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("could not iterate wallet records: %w", err)
	}

	return records, nil
}

// resolveKey turns stored key material into plaintext, decrypting when the
// material is tagged as encrypted.
func (s *Store) resolveKey(raw string) (string, error) {
	switch material := custody.ClassifyKey(raw).(type) {
	case custody.PlaintextKey:
		return string(material), nil
	case custody.EncryptedKey:
		if s.decrypt == nil {
			return "", fmt.Errorf("key material is encrypted but no decryptor is configured")
		}
		plaintext, err := s.decrypt.Decrypt(string(material))
		if err != nil {
			return "", fmt.Errorf("could not decrypt key material: %w", err)
		}
		return plaintext, nil
	default:
		return "", fmt.Errorf("unknown key material type")
	}
}
