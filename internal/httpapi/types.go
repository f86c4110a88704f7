package httpapi

import "modelrunner/internal/auth/domain"

// ClientView is the outward shape of a client record. The secret hash never
// appears here; the raw token exists only in CreateClientResponse.
type ClientView struct {
	ID          string            `json:"id"`
	Name        string            `json:"name,omitempty"`
	Permissions domain.Permission `json:"permissions"`
	CreatedAt   int64             `json:"created_at"`
	UpdatedAt   int64             `json:"updated_at"`
	CreatedBy   string            `json:"created_by,omitempty"`
}

func viewOf(c domain.Client) ClientView {
	return ClientView{
		ID:          c.ID,
		Name:        c.Name,
		Permissions: c.Permissions,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		CreatedBy:   c.CreatedBy,
	}
}

type StatusRequest struct {
	ID string `json:"id"`
}

type CreateClientRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type CreateClientResponse struct {
	// Token is the one-time "id_secret" credential. It is not retrievable
	// again after this response.
	Token  string     `json:"token"`
	Client ClientView `json:"client"`
}

type UpdateClientRequest struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type DeleteClientRequest struct {
	ID string `json:"id"`
}

type BootstrapRequest struct {
	Token string `json:"token,omitempty"`
	Name  string `json:"name"`
}

type RawRequest struct {
	Model     string `json:"model"`
	Input     string `json:"input"`
	MaxLength int    `json:"max_length"`
}

type InstructRequest struct {
	Model     string `json:"model"`
	Input     string `json:"input"`
	MaxLength int    `json:"max_length"`
}

type TranscribeRequest struct {
	Model    string `json:"model"`
	Language string `json:"language"`
}

type HealthChecks struct {
	Database string `json:"database"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
