package repos

import (
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"velora/internal/domain"
)

// SessionRepo persists the bearer token and a snapshot of the signed-in user
// so the companion keeps its session across restarts.
type SessionRepo struct{ db *sqlx.DB }

func NewSessionRepo(db *sqlx.DB) *SessionRepo { return &SessionRepo{db: db} }

const (
	keyToken = "token"
	keyUser  = "user"
)

func (r *SessionRepo) set(k, v string) error {
	_, err := r.db.Exec(`
		INSERT INTO session(k, v) VALUES(?, ?)
		ON CONFLICT(k) DO UPDATE SET v = excluded.v
	`, k, v)
	return err
}

func (r *SessionRepo) get(k string) (string, error) {
	var v string
	err := r.db.Get(&v, `SELECT v FROM session WHERE k = ?`, k)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return v, err
}

func (r *SessionRepo) SaveToken(token string) error { return r.set(keyToken, token) }

func (r *SessionRepo) Token() (string, error) { return r.get(keyToken) }

func (r *SessionRepo) SaveUser(u *domain.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return r.set(keyUser, string(b))
}

func (r *SessionRepo) User() (*domain.User, error) {
	v, err := r.get(keyUser)
	if err != nil || v == "" {
		return nil, err
	}
	var u domain.User
	if err := json.Unmarshal([]byte(v), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *SessionRepo) Clear() error {
	_, err := r.db.Exec(`DELETE FROM session`)
	return err
}
