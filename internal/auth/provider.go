package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ProviderClient valida tokens consultando o provedor de identidade
// (endpoint /auth/v1/user do Supabase).
type ProviderClient struct {
	httpClient *http.Client
	baseURL    string
	anonKey    string
}

// NewProviderClient cria o cliente do provedor de identidade.
func NewProviderClient(baseURL, anonKey string) (*ProviderClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("auth: url do provedor obrigatória")
	}
	if strings.TrimSpace(anonKey) == "" {
		return nil, errors.New("auth: anon key obrigatória")
	}
	return &ProviderClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
	}, nil
}

// Verify encaminha o token ao provedor e devolve o id do usuário.
func (c *ProviderClient) Verify(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", ErrUnauthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth: provedor respondeu status %d", resp.StatusCode)
	}

	var payload struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if strings.TrimSpace(payload.ID) == "" {
		return "", ErrUnauthenticated
	}
	return payload.ID, nil
}
