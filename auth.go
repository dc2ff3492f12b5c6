package tinyrisks

import (
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by VerifyUser for an unknown username
// or a wrong password. Callers cannot tell the two cases apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// SeedAdmin creates the admin account if it does not exist yet. Safe to
// run on every startup.
func (s *Store) SeedAdmin(username, password string) error {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM users WHERE username = ?`, username).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO users (username, password_hash) VALUES (?, ?)`, username, string(hash))
	return err
}

// VerifyUser checks a username/password pair against the users table.
// The username match is case-sensitive and exact.
func (s *Store) VerifyUser(username, password string) (Principal, error) {
	var p Principal
	var hash string
	err := s.db.QueryRow(`SELECT id, username, password_hash FROM users WHERE username = ?`, username).
		Scan(&p.ID, &p.Username, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return Principal{}, ErrInvalidCredentials
	}
	if err != nil {
		return Principal{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return Principal{}, ErrInvalidCredentials
	}
	return p, nil
}

// UserByID rehydrates the principal for an existing session. Returns
// sql.ErrNoRows when the id no longer exists.
func (s *Store) UserByID(id int64) (Principal, error) {
	var p Principal
	err := s.db.QueryRow(`SELECT id, username FROM users WHERE id = ?`, id).
		Scan(&p.ID, &p.Username)
	if err != nil {
		return Principal{}, err
	}
	return p, nil
}
