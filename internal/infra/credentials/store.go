// Package credentials keeps provider API keys in the integration_tokens table
// so operators can rotate them without redeploying.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"travelshot/internal/infra"
	"travelshot/internal/sqlinline"
)

const (
	ProviderGemini = "gemini"
)

// ErrNoCredential is returned when neither the environment nor the table
// carries a key.
var ErrNoCredential = errors.New("credential not configured")

type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// Token returns the stored token for provider, or "" when none is stored.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("credentials: read %s token: %w", provider, err)
	}
	return strings.TrimSpace(token), nil
}

// ResolveGeminiAPIKey prefers the configured key and falls back to the table.
func (s *Store) ResolveGeminiAPIKey(ctx context.Context, configured string) (string, error) {
	if key := strings.TrimSpace(configured); key != "" {
		return key, nil
	}
	if s == nil || s.sql == nil {
		return "", fmt.Errorf("%w: %s", ErrNoCredential, ProviderGemini)
	}
	key, err := s.Token(ctx, ProviderGemini)
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", fmt.Errorf("%w: %s", ErrNoCredential, ProviderGemini)
	}
	return key, nil
}

func (s *Store) SetGeminiAPIKey(ctx context.Context, key string, props map[string]any) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("gemini api key is required")
	}
	return s.upsert(ctx, ProviderGemini, key, props)
}

func (s *Store) upsert(ctx context.Context, provider, token string, props map[string]any) error {
	if props == nil {
		props = map[string]any{}
	}
	raw, err := json.Marshal(props)
	if err != nil {
		return err
	}
	if _, err := s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token, raw); err != nil {
		return fmt.Errorf("credentials: store %s token: %w", provider, err)
	}
	return nil
}
