/*
Package db provides the PostgreSQL connection pool, migrations, and the Store,
the durable authority for user accounts, room metadata, and long-term
permission records. The live coordinator only caches this store's answers; it
never treats its own in-memory state as a system of record.
*/
package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"collabboard/internal/app/board"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps the connection pool with the application's queries.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps an initialized pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Account is a registered user row.
type Account struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// RoomRecord is the durable metadata of a room.
type RoomRecord struct {
	ID        string
	Name      string
	Kind      board.RoomKind
	Creator   string
	CreatedAt time.Time
}

// CreateAccount inserts a new user with an already-hashed password.
func (s *Store) CreateAccount(ctx context.Context, username, passwordHash string) (Account, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, username, password_hash, created_at
	`, username, passwordHash)

	var a Account
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt); err != nil {
		return Account{}, err
	}
	return a, nil
}

// GetAccountByUsername fetches a user row for credential verification.
func (s *Store) GetAccountByUsername(ctx context.Context, username string) (Account, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at, last_login_at
		FROM users
		WHERE username = $1
	`, username)

	var a Account
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt, &a.LastLoginAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	return a, nil
}

// UpdateLastLogin stamps the account's last successful sign-in.
func (s *Store) UpdateLastLogin(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE users SET last_login_at = now() WHERE id = $1
	`, id)
	return err
}

// CreateRoom records durable room metadata with its creator, who is thereby
// the recorded owner.
func (s *Store) CreateRoom(ctx context.Context, name string, kind board.RoomKind, creator string) (RoomRecord, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO rooms (name, kind, creator)
		VALUES ($1, $2, $3)
		RETURNING id, name, kind, creator, created_at
	`, name, string(kind), creator)

	var r RoomRecord
	var kindStr string
	if err := row.Scan(&r.ID, &r.Name, &kindStr, &r.Creator, &r.CreatedAt); err != nil {
		return RoomRecord{}, err
	}
	r.Kind = board.RoomKind(kindStr)
	return r, nil
}

// GetRoomByName fetches durable room metadata.
func (s *Store) GetRoomByName(ctx context.Context, name string) (RoomRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, kind, creator, created_at
		FROM rooms
		WHERE name = $1
	`, name)

	var r RoomRecord
	var kindStr string
	if err := row.Scan(&r.ID, &r.Name, &kindStr, &r.Creator, &r.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RoomRecord{}, ErrNotFound
		}
		return RoomRecord{}, err
	}
	r.Kind = board.RoomKind(kindStr)
	return r, nil
}

// ResolveRole implements board.MembershipStore. Precedence: recorded creator,
// then an explicit permission row, then the room kind's default. A room the
// store has never seen resolves to the collaborative default with
// KnownRoom=false, which lets the coordinator crown the first live joiner.
func (s *Store) ResolveRole(ctx context.Context, roomName, username string) (board.RoleResolution, error) {
	record, err := s.GetRoomByName(ctx, roomName)
	if errors.Is(err, ErrNotFound) {
		return board.RoleResolution{
			Kind: board.KindCollaborative,
			Role: board.KindCollaborative.DefaultRole(),
		}, nil
	}
	if err != nil {
		return board.RoleResolution{}, err
	}

	res := board.RoleResolution{Kind: record.Kind, KnownRoom: true}

	if record.Creator == username {
		res.Role = board.RoleOwner
		res.Recorded = true
		return res, nil
	}

	var roleStr string
	err = s.pool.QueryRow(ctx, `
		SELECT role FROM room_permissions
		WHERE room_name = $1 AND username = $2
	`, roomName, username).Scan(&roleStr)
	switch {
	case err == nil:
		if role, ok := board.ParseRole(roleStr); ok {
			res.Role = role
			res.Recorded = true
			return res, nil
		}
		// unparseable stored role falls through to the kind default
	case errors.Is(err, pgx.ErrNoRows):
		// no explicit record
	default:
		return board.RoleResolution{}, err
	}

	res.Role = record.Kind.DefaultRole()
	return res, nil
}

// RecordRole implements board.MembershipStore, upserting a permission row so
// the role survives reconnects.
func (s *Store) RecordRole(ctx context.Context, roomName, username string, role board.Role) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO room_permissions (room_name, username, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (room_name, username)
		DO UPDATE SET role = EXCLUDED.role, updated_at = now()
	`, roomName, username, string(role))
	return err
}
