package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"token-dashboard.backend/internal/domain/entities"
)

func TestUnitOfWork_DoCommitAndRollback(t *testing.T) {
	db := newTestDB(t)
	createCustodyWalletTable(t, db)
	u := NewUnitOfWork(db)
	repo := NewCustodyWalletRepository(db)

	err := u.Do(context.Background(), func(ctx context.Context) error {
		return repo.Create(ctx, &entities.CustodyWallet{ID: uuid.New(), UserID: uuid.New(), Address: "0x1", PrivateKey: "k"})
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Table("custody_wallets").Count(&count).Error)
	require.Equal(t, int64(1), count)

	err = u.Do(context.Background(), func(ctx context.Context) error {
		if err := repo.Create(ctx, &entities.CustodyWallet{ID: uuid.New(), UserID: uuid.New(), Address: "0x2", PrivateKey: "k"}); err != nil {
			return err
		}
		return errors.New("force rollback")
	})
	require.EqualError(t, err, "force rollback")

	require.NoError(t, db.Table("custody_wallets").Count(&count).Error)
	require.Equal(t, int64(1), count, "second insert must be rolled back")
}

func TestUnitOfWork_NestedDoReusesTransaction(t *testing.T) {
	db := newTestDB(t)
	createCustodyWalletTable(t, db)
	u := NewUnitOfWork(db)

	err := u.Do(context.Background(), func(outer context.Context) error {
		outerDB := GetDB(outer, db)
		return u.Do(outer, func(inner context.Context) error {
			require.Same(t, outerDB, GetDB(inner, db))
			return nil
		})
	})
	require.NoError(t, err)
}

func TestGetDB_Fallback(t *testing.T) {
	db := newTestDB(t)
	require.NotNil(t, GetDB(context.Background(), db))
}
