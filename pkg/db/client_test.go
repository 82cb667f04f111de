package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lineacommerce/backoffice-backend/pkg/config"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	cfg := config.DBConfig{DSN: ":memory:"}
	client, err := New(context.Background(), cfg, true, nil)
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().Exec(`CREATE TABLE things (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`).Error)
	return client
}

func countThings(t *testing.T, client *Client) int64 {
	t.Helper()

	var count int64
	require.NoError(t, client.DB().Table("things").Count(&count).Error)
	return count
}

func TestWithTxCommits(t *testing.T) {
	client := newTestClient(t)

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Exec(`INSERT INTO things (name) VALUES (?)`, "kept").Error
	})
	require.NoError(t, err)

	require.EqualValues(t, 1, countThings(t, client))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := newTestClient(t)

	boom := errors.New("boom")
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Exec(`INSERT INTO things (name) VALUES (?)`, "discarded").Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.EqualValues(t, 0, countThings(t, client))
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	client := newTestClient(t)

	require.Panics(t, func() {
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			if err := tx.Exec(`INSERT INTO things (name) VALUES (?)`, "discarded").Error; err != nil {
				return err
			}
			panic("boom")
		})
	})

	require.EqualValues(t, 0, countThings(t, client))
}

func TestPing(t *testing.T) {
	client := newTestClient(t)
	require.NoError(t, client.Ping(context.Background()))
}
