package service

import (
	"context"
	"errors"
	"time"

	"modelrunner/internal/auth/domain"
	"modelrunner/internal/auth/store"
	"modelrunner/pkg/cryptox"
	"modelrunner/pkg/slogx"
)

var (
	ErrClientNotFound = errors.New("client not found")

	// ErrAuthenticationFailed deliberately covers both unknown-id and
	// wrong-secret so the wire never reveals which half was wrong.
	ErrAuthenticationFailed = errors.New("authentication failed")
)

type ClientService struct {
	Store store.Store
}

// mintClient draws a fresh credential, hashes its secret, and builds the row
// to persist. Hashing is the slow part; callers run it before opening any
// transaction so the write lock is never held across an argon2id pass.
func mintClient(
	name string,
	permissions domain.Permission,
	createdBy string,
) (domain.Client, string, error) {
	cred, err := cryptox.GenerateCredential()
	if err != nil {
		return domain.Client{}, "", err
	}

	secretHash, err := cryptox.HashSecret(cred.Secret)
	if err != nil {
		return domain.Client{}, "", err
	}

	now := time.Now().UnixMilli()
	client := domain.Client{
		ID:          cred.ID,
		Name:        name,
		SecretHash:  secretHash,
		Permissions: permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   createdBy,
	}
	return client, cred.Token(), nil
}

// CreateClient issues a fresh credential, hashes its secret, and persists a
// new client row. The returned raw token string is shown exactly once; only
// the hash survives.
func (s *ClientService) CreateClient(
	ctx context.Context,
	name string,
	permissions domain.Permission,
	createdBy string,
) (domain.Client, string, error) {
	l := slogx.FromContext(ctx)

	client, rawToken, err := mintClient(name, permissions, createdBy)
	if err != nil {
		l.Error("failed to mint client credential", "error", err)
		return domain.Client{}, "", err
	}

	// The row and its permission bits land atomically or not at all.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Clients().CreateClient(ctx, client)
	})
	if err != nil {
		l.Error("failed to create client", "error", err)
		return domain.Client{}, "", err
	}

	l.Info("client created", "client_id", client.ID, "name", name, "created_by", createdBy)
	return client, rawToken, nil
}

// GetClient loads a client by id for status lookups where revealing
// existence is acceptable.
func (s *ClientService) GetClient(ctx context.Context, id string) (domain.Client, error) {
	client, err := s.Store.Clients().GetClientByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Client{}, ErrClientNotFound
		}
		return domain.Client{}, err
	}
	return client, nil
}

// UpdateClient overwrites name and permissions and bumps updated_at. The new
// permission set fully replaces the old one.
func (s *ClientService) UpdateClient(
	ctx context.Context,
	id, name string,
	permissions domain.Permission,
) error {
	l := slogx.FromContext(ctx)

	err := s.Store.Clients().UpdateClient(ctx, id, name, permissions, time.Now().UnixMilli())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrClientNotFound
		}
		l.Error("failed to update client", "error", err, "client_id", id)
		return err
	}

	l.Info("client updated", "client_id", id)
	return nil
}

// DeleteClient removes a client. Deleting an id that does not exist is not
// an error; a second delete of the same id succeeds and changes nothing.
func (s *ClientService) DeleteClient(ctx context.Context, id string) error {
	l := slogx.FromContext(ctx)

	if err := s.Store.Clients().DeleteClient(ctx, id); err != nil {
		l.Error("failed to delete client", "error", err, "client_id", id)
		return err
	}

	l.Info("client deleted", "client_id", id)
	return nil
}

// Authenticate resolves a parsed credential to a stored client and verifies
// the presented secret against the stored hash. Every call re-reads the row
// and re-hashes; credentials are never cached, so a revoked or updated
// client takes effect on the next request.
//
// Hashing runs only when the id resolves. Unknown ids return immediately
// with the same merged error as a wrong secret.
func (s *ClientService) Authenticate(ctx context.Context, cred cryptox.Credential) (domain.Client, error) {
	l := slogx.FromContext(ctx)

	client, err := s.Store.Clients().GetClientByID(ctx, cred.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("authentication failed: unknown client id")
			return domain.Client{}, ErrAuthenticationFailed
		}
		return domain.Client{}, err
	}

	if err := cryptox.VerifySecret(cred.Secret, client.SecretHash); err != nil {
		l.Warn("authentication failed: secret verification", "client_id", client.ID)
		return domain.Client{}, ErrAuthenticationFailed
	}

	return client, nil
}
