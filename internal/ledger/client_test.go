package ledger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ledger_dashboard/internal/config"
	"ledger_dashboard/internal/domain/filter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type endpointRecorder struct {
	calls []string
}

func (r *endpointRecorder) RecordCall(endpoint string) {
	r.calls = append(r.calls, endpoint)
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *endpointRecorder) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	recorder := &endpointRecorder{}
	client := NewClient(server.URL, "secret", config.TransportConfig{RequestsPerSecond: 1000, Burst: 1000}).
		WithRecorder(recorder)
	return client, recorder
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://ledger.local", "", config.TransportConfig{})

	assert.Equal(t, 30*time.Second, client.client.Timeout)
	assert.Equal(t, int64(0), client.GetAPICallCount())
	assert.Equal(t, config.APIRequestBurst, client.limiter.Burst())
}

func TestAPICallCounter(t *testing.T) {
	client := NewClient("http://ledger.local", "", config.TransportConfig{})

	client.IncrementAPICall()
	client.IncrementAPICall()
	assert.Equal(t, int64(2), client.GetAPICallCount())

	client.ResetAPICallCount()
	assert.Equal(t, int64(0), client.GetAPICallCount())
}

func TestGetTransactions(t *testing.T) {
	anchor := time.UnixMilli(1650000000000)

	client, recorder := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		q := r.URL.Query()
		assert.Equal(t, "p-1", q.Get("playerId"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "true", q.Get("ascending"))
		assert.Equal(t, "1650000000000", q.Get("timestamp"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalCount": 42, "transactions": [
			{"playerId": "p-1", "amount": -12.5, "timestamp": 1650000001000, "cause": "shop", "balance": 87.5}
		]}`))
	})

	result, err := client.GetTransactions(context.Background(), filter.Query{
		Player:     filter.Player("p-1"),
		Page:       2,
		Sort:       filter.Ascending,
		TimeAnchor: anchor,
	})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)

	assert.Equal(t, 42, result.TotalCount)
	tx := result.Transactions[0]
	assert.Equal(t, "p-1", tx.PlayerID)
	assert.Equal(t, -12.5, tx.Amount)
	assert.Equal(t, "shop", tx.Cause)
	assert.Equal(t, 87.5, tx.Balance)
	assert.True(t, tx.Time().Equal(time.UnixMilli(1650000001000)))

	assert.Equal(t, []string{"/transactions"}, recorder.calls)
	assert.Equal(t, int64(1), client.GetAPICallCount())
}

func TestGetTransactionsAllPlayersOmitsPlayerID(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, present := r.URL.Query()["playerId"]
		assert.False(t, present)
		_, _ = w.Write([]byte(`{"totalCount": 0, "transactions": []}`))
	})

	result, err := client.GetTransactions(context.Background(), filter.Query{Player: filter.AllPlayers()})
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalCount)
}

func TestGetPlayerIDs(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/player-ids", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id": "a", "name": "Alice"}, {"id": "b", "name": "Bob"}]`))
	})

	players, err := client.GetPlayerIDs(context.Background())
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "Alice", players[0].Name)
	assert.Equal(t, "b", players[1].ID)
}

func TestGetServerBalance(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/server", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("month"))
		_, _ = w.Write([]byte(`[1648771200000, 12, 1000000.5, 1648771500000, 13, 1000100]`))
	})

	raw, err := client.GetServerBalance(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{1648771200000, 12, 1000000.5, 1648771500000, 13, 1000100}, raw)
}

func TestErrorResponses(t *testing.T) {
	t.Run("NonOKStatus", func(t *testing.T) {
		client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "forbidden", http.StatusForbidden)
		})

		_, err := client.GetPlayerIDs(context.Background())
		require.Error(t, err)
		assert.True(t, IsUnauthorized(err))
		assert.Contains(t, err.Error(), "403")
	})

	t.Run("ServerError", func(t *testing.T) {
		client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.GetServerBalance(context.Background(), 1)
		require.Error(t, err)
		assert.False(t, IsUnauthorized(err))
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"totalCount": "many"`))
		})

		_, err := client.GetTransactions(context.Background(), filter.Query{Player: filter.AllPlayers()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode /transactions response")
	})

	t.Run("CancelledContext", func(t *testing.T) {
		client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := client.GetPlayerIDs(ctx)
		require.Error(t, err)
		assert.Equal(t, int64(0), client.GetAPICallCount())
	})
}
