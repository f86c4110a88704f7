package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
	}{
		{"simple secret", "secret123"},
		{"complex secret", "S3cr3t!#$%^&*()"},
		{"long secret", strings.Repeat("a", 100)},
		{"unicode secret", "Ğ¿Ğ°Ñ€Ğ¾Ğ»ÑŒğŸ”’å¯†ç "},
		{"whitespace secret", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashSecret(tt.secret)
			require.NoError(t, err)
			require.NotEmpty(t, hash)

			// Verify PHC format
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"),
				"hash should be in PHC format")

			// Verify hash contains all expected parts
			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6, "PHC hash should have 6 parts")
			require.Equal(t, "", parts[0]) // empty before first $
			require.Equal(t, "argon2id", parts[1])
			require.Equal(t, "v=19", parts[2])
			require.Contains(t, parts[3], "m=", "should contain memory parameter")
			require.Contains(t, parts[3], "t=", "should contain iterations parameter")
			require.Contains(t, parts[3], "p=", "should contain parallelism parameter")
			require.NotEmpty(t, parts[4], "salt should not be empty")
			require.NotEmpty(t, parts[5], "hash should not be empty")
		})
	}
}

func TestHashSecret_EmptySecret(t *testing.T) {
	_, err := HashSecret("")
	require.ErrorIs(t, err, ErrEmptySecret)
}

func TestHashSecret_UniqueSalts(t *testing.T) {
	secret := "samesecret"

	// Generate multiple hashes for the same secret
	hash1, err := HashSecret(secret)
	require.NoError(t, err)

	hash2, err := HashSecret(secret)
	require.NoError(t, err)

	hash3, err := HashSecret(secret)
	require.NoError(t, err)

	// Each hash should be different due to unique salts
	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")
	require.NotEqual(t, hash2, hash3, "hashes should differ due to unique salts")
	require.NotEqual(t, hash1, hash3, "hashes should differ due to unique salts")

	// But all should verify the same secret
	require.NoError(t, VerifySecret(secret, hash1))
	require.NoError(t, VerifySecret(secret, hash2))
	require.NoError(t, VerifySecret(secret, hash3))
}

func TestVerifySecret_Success(t *testing.T) {
	tests := []struct {
		name   string
		secret string
	}{
		{"simple secret", "secret123"},
		{"complex secret", "S3cr3t!#$%^&*()"},
		{"long secret", strings.Repeat("a", 100)},
		{"unicode secret", "Ğ¿Ğ°Ñ€Ğ¾Ğ»ÑŒğŸ”’å¯†ç "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashSecret(tt.secret)
			require.NoError(t, err)

			err = VerifySecret(tt.secret, hash)
			require.NoError(t, err)
		})
	}
}

func TestVerifySecret_WrongSecret(t *testing.T) {
	correctSecret := "correct-secret"
	hash, err := HashSecret(correctSecret)
	require.NoError(t, err)

	tests := []struct {
		name        string
		wrongSecret string
	}{
		{"completely wrong", "wrong-secret"},
		{"case difference", "Correct-Secret"},
		{"extra space", "correct-secret "},
		{"empty secret", ""},
		{"truncated secret", "correct-secre"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySecret(tt.wrongSecret, hash)
			require.ErrorIs(t, err, ErrSecretMismatch)
		})
	}
}

func TestVerifySecret_InvalidHashFormat(t *testing.T) {
	secret := "test-secret"

	tests := []struct {
		name        string
		invalidHash string
	}{
		{"empty hash", ""},
		{"wrong algorithm", "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!invalid!!!$aGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!invalid!!!"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing version", "$argon2id$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySecret(secret, tt.invalidHash)
			require.ErrorIs(t, err, ErrInvalidHash)
		})
	}
}

func TestVerifySecret_TimingAttackResistance(t *testing.T) {
	// This test verifies that constant-time comparison is used
	secret := "correct-secret"
	hash, err := HashSecret(secret)
	require.NoError(t, err)

	// Even with completely wrong secrets, the comparison should be constant-time
	wrongSecrets := []string{
		"a",                        // very short
		"wrong-secret12",           // same length
		strings.Repeat("x", 10000), // very long
	}

	for _, ws := range wrongSecrets {
		err := VerifySecret(ws, hash)
		require.ErrorIs(t, err, ErrSecretMismatch)
	}
}

func TestVerifySecret_PreservesPHCFormat(t *testing.T) {
	// Hashes encode their own parameters, so a future cost bump keeps old
	// hashes verifiable.
	secret := "test-secret"

	hash, err := HashSecret(secret)
	require.NoError(t, err)

	require.Contains(t, hash, "m=19456", "memory parameter should be 19456 (19*1024)")
	require.Contains(t, hash, "t=2", "iterations parameter should be 2")
	require.Contains(t, hash, "p=1", "parallelism parameter should be 1")

	err = VerifySecret(secret, hash)
	require.NoError(t, err)
}
