package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"createdAt": {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore nondeterministic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		return k == "timestamp" || k == "requestId" || k == "createdAt"
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}
		if nested, ok := m[k].(map[string]any); ok {
			cleanMap(nested)
		}
	}
}

func truncateTables(t testing.TB, db *pgxpool.Pool) {
	_, err := db.Exec(context.Background(), "TRUNCATE payments, seat_allocations RESTART IDENTITY")
	require.NoError(t, err)
}

func flushCache(t testing.TB, client *redis.Client) {
	require.NoError(t, client.FlushAll(context.Background()).Err())
}

type paymentRow struct {
	AccountID int64
	Amount    string
	Currency  string
	Status    string
}

func paymentsOf(t testing.TB, db *pgxpool.Pool, accountID int64) []paymentRow {
	rows, err := db.Query(
		context.Background(),
		"SELECT account_id, amount::text, currency, status FROM payments WHERE account_id = $1 ORDER BY id",
		accountID,
	)
	require.NoError(t, err)
	defer rows.Close()

	var payments []paymentRow
	for rows.Next() {
		var p paymentRow
		require.NoError(t, rows.Scan(&p.AccountID, &p.Amount, &p.Currency, &p.Status))
		payments = append(payments, p)
	}
	require.NoError(t, rows.Err())

	return payments
}

func allocatedSeats(t testing.TB, db *pgxpool.Pool, accountID int64) int {
	var total int

	err := db.QueryRow(
		context.Background(),
		`SELECT COALESCE(SUM(seat_count), 0) FROM seat_allocations WHERE account_id = $1`,
		accountID,
	).Scan(&total)
	require.NoError(t, err)

	return total
}
