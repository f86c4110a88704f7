package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Credential sizes in bytes before encoding.
const (
	// CredentialIDSize provides 128 bits of entropy for the public identifier.
	CredentialIDSize = 16
	// CredentialSecretSize provides 512 bits of entropy for the secret.
	CredentialSecretSize = 64
)

// TokenSeparator joins the id and secret halves of a bearer token. The
// standard base64 alphabet never produces this character, so splitting on
// the first occurrence is unambiguous.
const TokenSeparator = "_"

// ErrMalformedToken reports a bearer token that does not split into a
// non-empty id and a non-empty secret.
var ErrMalformedToken = errors.New("cryptox: malformed token")

// Credential is a transient id/secret pair. The raw secret exists only at
// issuance time and on the wire; it is never persisted.
type Credential struct {
	ID     string
	Secret string
}

// GenerateCredential draws a fresh id and secret from the system CSPRNG.
// Both are base64-encoded without padding using the standard alphabet.
// Failure here means the system RNG is unavailable and is not recoverable.
func GenerateCredential() (Credential, error) {
	id := make([]byte, CredentialIDSize)
	if _, err := rand.Read(id); err != nil {
		return Credential{}, fmt.Errorf("cryptox: failed to generate credential id: %w", err)
	}

	secret := make([]byte, CredentialSecretSize)
	if _, err := rand.Read(secret); err != nil {
		return Credential{}, fmt.Errorf("cryptox: failed to generate credential secret: %w", err)
	}

	return Credential{
		ID:     base64.RawStdEncoding.EncodeToString(id),
		Secret: base64.RawStdEncoding.EncodeToString(secret),
	}, nil
}

// Token serializes the credential as "id_secret". This is the only place
// the raw secret is ever formatted; call it on the issuance path and
// nowhere else.
func (c Credential) Token() string {
	return c.ID + TokenSeparator + c.Secret
}

// ParseToken splits a bearer token on the FIRST separator only. Any further
// separator characters remain part of the secret. Tokens with a missing
// separator or an empty id or secret segment are rejected.
func ParseToken(token string) (Credential, error) {
	id, secret, found := strings.Cut(token, TokenSeparator)
	if !found || id == "" || secret == "" {
		return Credential{}, ErrMalformedToken
	}
	return Credential{ID: id, Secret: secret}, nil
}
