package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	domerrors "github.com/garyellow/askhr-go/internal/errors"
	"github.com/garyellow/askhr-go/internal/hr"
)

var _ hr.CredentialStore = (*DB)(nil)

// pinCost is the bcrypt work factor for stored PINs.
var pinCost = bcrypt.DefaultCost

// decoyHash is compared against when a code is unknown so lookups for
// missing and present codes cost the same.
var decoyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("decoy"), pinCost)
	return h
})

// hashPIN returns a salted bcrypt hash of the PIN.
func hashPIN(pin string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pin), pinCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// ReplaceCredentials swaps the credential table in one transaction. Only
// bcrypt hashes are stored.
func (db *DB) ReplaceCredentials(ctx context.Context, creds []hr.Credential) error {
	seen := make(map[string]bool, len(creds))
	for i, c := range creds {
		code := hr.NormalizeCode(c.Code)
		if code == "" || strings.TrimSpace(c.PIN) == "" {
			return fmt.Errorf("replace credentials: %w: row %d is incomplete", domerrors.ErrInvalidInput, i+1)
		}
		if seen[code] {
			return fmt.Errorf("replace credentials: %w: employee code %s", domerrors.ErrDuplicateKey, code)
		}
		seen[code] = true
	}

	err := db.withTx(ctx, "replace credentials", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO credentials (code, pin_hash) VALUES (?, ?)`)
		if err != nil {
			return err
		}
		defer func() { _ = stmt.Close() }()

		for _, c := range creds {
			code := hr.NormalizeCode(c.Code)
			hash, err := hashPIN(strings.TrimSpace(c.PIN))
			if err != nil {
				return fmt.Errorf("credential %s: %w", code, err)
			}
			if _, err := stmt.ExecContext(ctx, code, hash); err != nil {
				return fmt.Errorf("credential %s: %w", code, err)
			}
		}
		return recordImport(ctx, tx, datasetCredentials, len(creds))
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "credentials imported", "count", len(creds))
	return nil
}

// Authenticate implements hr.CredentialStore.
func (db *DB) Authenticate(ctx context.Context, code, pin string) (bool, error) {
	code = hr.NormalizeCode(code)
	if code == "" || pin == "" {
		return false, nil
	}

	var stored string
	err := db.conn.QueryRowContext(ctx, `SELECT pin_hash FROM credentials WHERE code = ?`, code).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		_ = bcrypt.CompareHashAndPassword(decoyHash(), []byte(pin))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("authenticate: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(stored), []byte(strings.TrimSpace(pin)))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("authenticate: %w", err)
	}
}

// CountCredentials returns the number of stored credentials.
func (db *DB) CountCredentials(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM credentials`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count credentials: %w", err)
	}
	return n, nil
}
