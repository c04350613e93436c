package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeforgeio/projectx-mcp/internal/domain"
)

func TestGetAccounts_EmptyCache(t *testing.T) {
	s, counter := newTestEnv(t, nil)

	_, out, err := s.handleGetAccounts(context.Background(), nil, emptyArgs{})
	require.NoError(t, err, "an empty cache is an empty list, not an error")
	assert.Equal(t, 0, out.Count)
	assert.Equal(t, 0, counter.remoteCalls())

	// The JSON payload carries an empty array, not null.
	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"accounts": [], "count": 0}`, string(data))
}

func TestGetAccounts_ReturnsCachedAccounts(t *testing.T) {
	s, counter := newTestEnv(t, withReferenceData)
	refresh(t, s)
	searches := counter.count("/Account/search")

	_, out, err := s.handleGetAccounts(context.Background(), nil, emptyArgs{})
	require.NoError(t, err)

	require.Equal(t, 2, out.Count)
	assert.Equal(t, int64(1001), out.Accounts[0].ID)
	assert.Equal(t, "PRAC-1", out.Accounts[0].Name)
	assert.Equal(t, 50000.0, out.Accounts[0].Balance)
	assert.Equal(t, int64(2002), out.Accounts[1].ID)
	assert.Equal(t, searches, counter.count("/Account/search"), "reads come from the cache")
}

func TestGetAccountSummary_DefaultAccount(t *testing.T) {
	s, _ := newTestEnv(t, withReferenceData)
	refresh(t, s)

	_, out, err := s.handleGetAccountSummary(context.Background(), nil, accountSummaryInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(1001), out.Account.ID)
}

func TestGetAccountSummary_ExplicitAccount(t *testing.T) {
	s, _ := newTestEnv(t, withReferenceData)
	refresh(t, s)

	id := int64(2002)
	_, out, err := s.handleGetAccountSummary(context.Background(), nil, accountSummaryInput{AccountID: &id})
	require.NoError(t, err)
	assert.Equal(t, "EXPRESS-2", out.Account.Name)
}

func TestGetAccountSummary_UnknownAccount(t *testing.T) {
	s, _ := newTestEnv(t, withReferenceData)
	refresh(t, s)

	id := int64(9999)
	_, _, err := s.handleGetAccountSummary(context.Background(), nil, accountSummaryInput{AccountID: &id})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetAccountSummary_EmptyCache(t *testing.T) {
	s, _ := newTestEnv(t, nil)

	_, _, err := s.handleGetAccountSummary(context.Background(), nil, accountSummaryInput{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
