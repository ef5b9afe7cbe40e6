package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tarpaulin-edu/course-service/internal/config"
)

// Provider exchanges user credentials for a bearer token using the
// identity provider's password grant.
type Provider struct {
	cfg        config.AuthConfig
	httpClient *http.Client
}

func NewProvider(cfg config.AuthConfig) *Provider {
	return &Provider{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type tokenResponse struct {
	IDToken          string `json:"id_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Login performs the password grant. Provider-side rejections (bad
// credentials, disabled grant) surface as ErrUnauthenticated; the caller
// cannot distinguish which.
func (p *Provider) Login(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(tokenRequest{
		GrantType:    "password",
		Username:     username,
		Password:     password,
		ClientID:     p.cfg.ClientID,
		ClientSecret: p.cfg.ClientSecret,
	})
	if err != nil {
		return "", fmt.Errorf("marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.TokenEndpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	if tr.Error != "" || tr.IDToken == "" {
		return "", fmt.Errorf("%w: provider rejected credentials", ErrUnauthenticated)
	}
	return tr.IDToken, nil
}
