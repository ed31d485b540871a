package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/draftboard/draftboard/internal/domain/session"
)

// DirectoryRepository implements session.Directory on Postgres.
type DirectoryRepository struct {
	pool *pgxpool.Pool
}

func NewDirectoryRepository(pool *pgxpool.Pool) *DirectoryRepository {
	return &DirectoryRepository{pool: pool}
}

func (r *DirectoryRepository) Lookup(ctx context.Context, studentID string) (*session.UserSession, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT username, student_id, ip_address
		FROM users WHERE student_id=$1
	`, studentID)
	return scanUserSession(row)
}

func (r *DirectoryRepository) Upsert(ctx context.Context, u session.UserSession) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (username, student_id, ip_address, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (student_id)
		DO UPDATE SET username=$1, ip_address=$3, updated_at=NOW()
	`, u.Username, u.StudentID, u.Addr)
	return err
}

func (r *DirectoryRepository) ListAll(ctx context.Context) ([]session.UserSession, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT username, student_id, ip_address FROM users ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []session.UserSession
	for rows.Next() {
		u, err := scanUserSession(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func scanUserSession(row pgx.Row) (*session.UserSession, error) {
	var u session.UserSession
	var addr *string
	if err := row.Scan(&u.Username, &u.StudentID, &addr); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if addr != nil {
		u.Addr = *addr
	}
	return &u, nil
}
