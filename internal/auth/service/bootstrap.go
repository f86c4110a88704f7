package service

import (
	"context"
	"errors"

	"modelrunner/internal/auth/domain"
	"modelrunner/internal/auth/store"
	"modelrunner/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

// BootstrapService issues the first client. Every later client is created
// through the authenticated create endpoint, which needs an existing
// credential; this breaks the chicken-and-egg at first deploy.
type BootstrapService struct {
	Clients *ClientService

	// Token optionally guards the bootstrap endpoint. Empty means any
	// caller may bootstrap an empty database.
	Token string
}

// IsBootstrapped reports whether at least one client exists.
func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Clients.Store.Clients().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the root client with the full permission set and no
// created_by back-reference. Returns the client and its one-time raw token.
//
// The emptiness check and the insert run in one write transaction. With a
// plain check-then-create, two concurrent callers both see an empty table
// during the slow hashing step and both mint a root client; here the
// transaction takes the write lock at BEGIN, so the loser re-reads after the
// winner's commit and gets ErrBootstrapAlready.
func (s *BootstrapService) Bootstrap(
	ctx context.Context,
	token, name string,
) (domain.Client, string, error) {
	l := slogx.FromContext(ctx)

	// 1. Validate provided token, when one is configured
	if s.Token != "" && token != s.Token {
		l.Warn("unauthorized bootstrap attempt")
		return domain.Client{}, "", ErrBootstrapUnauthorized
	}

	// 2. Mint the root credential outside the transaction; hashing takes
	// tens of milliseconds and must not hold the write lock.
	client, rawToken, err := mintClient(name, domain.PermissionAll, "")
	if err != nil {
		l.Error("failed to mint root credential", "error", err)
		return domain.Client{}, "", err
	}

	// 3. Re-check emptiness and insert atomically
	err = s.Clients.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Clients().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}
		return tx.Clients().CreateClient(ctx, client)
	})
	if err != nil {
		if errors.Is(err, ErrBootstrapAlready) {
			l.Warn("attempted bootstrap on already-bootstrapped system")
		}
		return domain.Client{}, "", err
	}

	l.Info("system bootstrapped", "client_id", client.ID)
	return client, rawToken, nil
}
