package sqlite

import (
	"context"
	"database/sql"

	"modelrunner/internal/auth/domain"
	"modelrunner/internal/auth/store"
)

type clientsRepo struct {
	db dbtx
}

type clientRow struct {
	ID          string
	Name        sql.NullString
	SecretHash  string
	Permissions int64
	CreatedAt   int64
	UpdatedAt   int64
	CreatedBy   sql.NullString
}

func (r *clientsRepo) GetClientByID(ctx context.Context, id string) (domain.Client, error) {
	var row clientRow
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, secret_hash, permissions, created_at, updated_at, created_by
		FROM clients WHERE id = ?`, id,
	).Scan(
		&row.ID, &row.Name, &row.SecretHash, &row.Permissions,
		&row.CreatedAt, &row.UpdatedAt, &row.CreatedBy,
	)
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	return mapClient(row)
}

func (r *clientsRepo) CreateClient(ctx context.Context, c domain.Client) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, secret_hash, permissions, created_at, updated_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		mapStringNull(c.Name),
		c.SecretHash,
		c.Permissions.Bits(),
		c.CreatedAt,
		c.UpdatedAt,
		mapStringNull(c.CreatedBy),
	)
	return err
}

func (r *clientsRepo) UpdateClient(
	ctx context.Context,
	id, name string,
	permissions domain.Permission,
	updatedAt int64,
) error {
	// Single statement: name, bitset, and updated_at change together or
	// not at all.
	res, err := r.db.ExecContext(ctx, `
		UPDATE clients SET name = ?, permissions = ?, updated_at = ? WHERE id = ?`,
		mapStringNull(name),
		permissions.Bits(),
		updatedAt,
		id,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *clientsRepo) DeleteClient(ctx context.Context, id string) error {
	// Idempotent: zero rows affected is fine.
	_, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	return err
}

func (r *clientsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func mapClient(row clientRow) (domain.Client, error) {
	// Fail closed on bits outside the defined permission range.
	permissions, err := domain.PermissionFromBits(row.Permissions)
	if err != nil {
		return domain.Client{}, err
	}

	return domain.Client{
		ID:          row.ID,
		Name:        mapNullString(row.Name),
		SecretHash:  row.SecretHash,
		Permissions: permissions,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		CreatedBy:   mapNullString(row.CreatedBy),
	}, nil
}
