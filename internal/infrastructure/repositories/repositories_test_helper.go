package repositories

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		connected_wallet TEXT,
		created_at DATETIME
	);`)
}

func createCustodyWalletTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE custody_wallets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		address TEXT NOT NULL,
		private_key TEXT NOT NULL,
		created_at DATETIME
	);`)
}

func createTransactionTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE transactions (
		id TEXT PRIMARY KEY,
		from_address TEXT NOT NULL,
		to_address TEXT NOT NULL,
		amount TEXT NOT NULL,
		tx_hash TEXT NOT NULL,
		status TEXT NOT NULL,
		type TEXT NOT NULL,
		user_id TEXT NOT NULL,
		created_at DATETIME
	);`)
}
