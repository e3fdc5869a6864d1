package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelshot/internal/sqlinline"
)

type stubExecutor struct {
	token   string
	err     error
	queried int
	exec    struct {
		query string
		args  []any
	}
}

func (s *stubExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.exec.query = query
	s.exec.args = args
	return pgconn.CommandTag{}, s.err
}

func (s *stubExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	s.queried++
	return stubRow{token: s.token, err: s.err}
}

func (s *stubExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

type stubRow struct {
	token string
	err   error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	ptr, ok := dest[0].(*string)
	if !ok {
		return errors.New("invalid dest")
	}
	*ptr = r.token
	return nil
}

func TestResolveGeminiAPIKeyPrefersConfigured(t *testing.T) {
	exec := &stubExecutor{token: "from-table"}
	key, err := NewStore(exec).ResolveGeminiAPIKey(context.Background(), " from-env ")
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
	assert.Zero(t, exec.queried)
}

func TestResolveGeminiAPIKeyFallsBackToTable(t *testing.T) {
	key, err := NewStore(&stubExecutor{token: " abc123 "}).ResolveGeminiAPIKey(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "abc123", key)
}

func TestResolveGeminiAPIKeyMissing(t *testing.T) {
	_, err := NewStore(&stubExecutor{err: pgx.ErrNoRows}).ResolveGeminiAPIKey(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoCredential)

	var nilStore *Store
	_, err = nilStore.ResolveGeminiAPIKey(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestSetGeminiAPIKey(t *testing.T) {
	exec := &stubExecutor{}
	require.NoError(t, NewStore(exec).SetGeminiAPIKey(context.Background(), "secret", map[string]any{"note": "rotated"}))
	assert.Equal(t, sqlinline.QUpsertIntegrationToken, exec.exec.query)
	require.Len(t, exec.exec.args, 3)
	assert.Equal(t, ProviderGemini, exec.exec.args[0])
	assert.Equal(t, "secret", exec.exec.args[1])
	assert.JSONEq(t, `{"note":"rotated"}`, string(exec.exec.args[2].([]byte)))

	assert.Error(t, NewStore(exec).SetGeminiAPIKey(context.Background(), "  ", nil))
}
