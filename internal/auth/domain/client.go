package domain

// Client is a registered API principal. The secret hash is write-once: secret
// rotation means issuing a new Client. Timestamps are millisecond Unix times,
// matching the storage encoding.
type Client struct {
	ID          string
	Name        string // optional display label
	SecretHash  string // PHC-format Argon2id hash; never serialized outward
	Permissions Permission
	CreatedAt   int64
	UpdatedAt   int64
	CreatedBy   string // id of the issuing client; empty for the root client
}
