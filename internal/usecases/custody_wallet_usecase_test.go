package usecases_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"token-dashboard.backend/internal/domain/entities"
	domainerrors "token-dashboard.backend/internal/domain/errors"
	"token-dashboard.backend/internal/infrastructure/blockchain"
	"token-dashboard.backend/internal/usecases"
)

type custodyFixture struct {
	walletRepo *MockCustodyWalletRepository
	userRepo   *MockUserRepository
	uow        *MockUnitOfWork
	chain      *MockTokenChain
	uc         *usecases.CustodyWalletUsecase
}

func newCustodyFixture(enforce bool) *custodyFixture {
	f := &custodyFixture{
		walletRepo: new(MockCustodyWalletRepository),
		userRepo:   new(MockUserRepository),
		uow:        new(MockUnitOfWork),
		chain:      new(MockTokenChain),
	}
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.uc = usecases.NewCustodyWalletUsecase(f.walletRepo, f.userRepo, f.uow, f.chain, usecases.WalletPolicy{
		TokenDecimals:      18,
		BalanceConcurrency: 2,
		EnforceOwnership:   enforce,
	})
	return f
}

func appStatus(t *testing.T, err error) int {
	t.Helper()
	appErr, ok := domainerrors.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr.Status
}

func appMessage(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := domainerrors.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr.Message
}

func TestCustodyWalletUsecase_Generate(t *testing.T) {
	f := newCustodyFixture(true)
	ctx := context.Background()
	userID := uuid.New()

	var stored []*entities.CustodyWallet
	f.walletRepo.On("Create", ctx, mock.AnythingOfType("*entities.CustodyWallet")).
		Run(func(args mock.Arguments) {
			stored = append(stored, args.Get(1).(*entities.CustodyWallet))
		}).Return(nil).Twice()

	first, err := f.uc.Generate(ctx, userID)
	require.NoError(t, err)
	second, err := f.uc.Generate(ctx, userID)
	require.NoError(t, err)

	assert.NotEqual(t, first.Address, second.Address)
	assert.NotEqual(t, first.ID, second.ID)
	require.Len(t, stored, 2)

	for _, w := range stored {
		assert.Equal(t, userID, w.UserID)
		assert.True(t, common.IsHexAddress(w.Address))

		keyHex, err := blockchain.DecodeStoredKey(w.PrivateKey)
		require.NoError(t, err)
		derived, err := blockchain.AddressFromPrivateKeyHex(keyHex)
		require.NoError(t, err)
		assert.Equal(t, w.Address, derived)
	}
}

func TestCustodyWalletUsecase_GenerateStoreError(t *testing.T) {
	f := newCustodyFixture(true)
	ctx := context.Background()

	f.walletRepo.On("Create", ctx, mock.Anything).Return(errors.New("db down")).Once()
	_, err := f.uc.Generate(ctx, uuid.New())
	assert.EqualError(t, err, "db down")
}

func TestCustodyWalletUsecase_ListWithoutBalance(t *testing.T) {
	f := newCustodyFixture(true)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()

	wallets := []*entities.CustodyWallet{
		{ID: uuid.New(), UserID: userID, Address: walletAddress, CreatedAt: now},
		{ID: uuid.New(), UserID: userID, Address: treasuryAddress, CreatedAt: now.Add(-time.Hour)},
	}
	f.walletRepo.On("ListByUserID", ctx, userID).Return(wallets, nil).Once()

	got, err := f.uc.List(ctx, userID, false)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, wallets[0].ID, got[0].ID)
	assert.Equal(t, wallets[1].Address, got[1].Address)
	assert.Nil(t, got[0].Balance)
	f.chain.AssertNotCalled(t, "BalanceOf", mock.Anything, mock.Anything)
}

func TestCustodyWalletUsecase_ListWithBalancePartialFailure(t *testing.T) {
	f := newCustodyFixture(true)
	ctx := context.Background()
	userID := uuid.New()

	wallets := []*entities.CustodyWallet{
		{ID: uuid.New(), UserID: userID, Address: walletAddress},
		{ID: uuid.New(), UserID: userID, Address: treasuryAddress},
	}
	f.walletRepo.On("ListByUserID", ctx, userID).Return(wallets, nil).Once()
	f.chain.On("BalanceOf", ctx, common.HexToAddress(walletAddress)).Return(ether("1500000000000000000"), nil).Once()
	f.chain.On("BalanceOf", ctx, common.HexToAddress(treasuryAddress)).Return(nil, errors.New("rpc timeout")).Once()

	got, err := f.uc.List(ctx, userID, true)
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.NotNil(t, got[0].Balance)
	assert.Equal(t, "1.5", *got[0].Balance)
	assert.Empty(t, got[0].BalanceError)

	assert.Nil(t, got[1].Balance)
	assert.Equal(t, "Failed to fetch balance", got[1].BalanceError)
	f.chain.AssertExpectations(t)
}

func TestCustodyWalletUsecase_ListEmptyAndError(t *testing.T) {
	f := newCustodyFixture(true)
	ctx := context.Background()
	userID := uuid.New()

	f.walletRepo.On("ListByUserID", ctx, userID).Return([]*entities.CustodyWallet{}, nil).Once()
	got, err := f.uc.List(ctx, userID, true)
	require.NoError(t, err)
	assert.Empty(t, got)

	f.walletRepo.On("ListByUserID", ctx, userID).Return(nil, errors.New("db down")).Once()
	_, err = f.uc.List(ctx, userID, true)
	assert.EqualError(t, err, "db down")
}

func TestCustodyWalletUsecase_DeleteWithMatchingKey(t *testing.T) {
	f := newCustodyFixture(true)
	ctx := context.Background()
	userID := uuid.New()
	wallet := &entities.CustodyWallet{ID: uuid.New(), UserID: userID, Address: walletAddress}

	f.walletRepo.On("GetByID", ctx, wallet.ID).Return(wallet, nil).Once()
	f.walletRepo.On("Delete", ctx, wallet.ID).Return(nil).Once()

	err := f.uc.Delete(ctx, &userID, &entities.DeleteWalletInput{
		WalletID:   wallet.ID.String(),
		PrivateKey: walletKeyHex[2:],
	})
	require.NoError(t, err)
	f.walletRepo.AssertExpectations(t)
}

func TestCustodyWalletUsecase_DeleteWithWrongKey(t *testing.T) {
	f := newCustodyFixture(true)
	ctx := context.Background()
	userID := uuid.New()
	wallet := &entities.CustodyWallet{ID: uuid.New(), UserID: userID, Address: walletAddress}

	f.walletRepo.On("GetByID", ctx, wallet.ID).Return(wallet, nil)

	for _, key := range []string{treasuryKeyHex, "0xnothex", "short"} {
		err := f.uc.Delete(ctx, &userID, &entities.DeleteWalletInput{WalletID: wallet.ID.String(), PrivateKey: key})
		assert.Equal(t, http.StatusForbidden, appStatus(t, err))
		assert.Equal(t, "Invalid private key", appMessage(t, err))
	}
	f.walletRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCustodyWalletUsecase_DeleteValidation(t *testing.T) {
	f := newCustodyFixture(true)
	ctx := context.Background()
	userID := uuid.New()

	err := f.uc.Delete(ctx, &userID, &entities.DeleteWalletInput{WalletID: "", PrivateKey: walletKeyHex})
	assert.Equal(t, "Missing required fields", appMessage(t, err))

	err = f.uc.Delete(ctx, nil, &entities.DeleteWalletInput{WalletID: uuid.NewString(), PrivateKey: walletKeyHex})
	assert.Equal(t, http.StatusUnauthorized, appStatus(t, err))

	err = f.uc.Delete(ctx, &userID, &entities.DeleteWalletInput{WalletID: "not-a-uuid", PrivateKey: walletKeyHex})
	assert.Equal(t, http.StatusNotFound, appStatus(t, err))

	missing := uuid.New()
	f.walletRepo.On("GetByID", ctx, missing).Return(nil, domainerrors.ErrNotFound).Once()
	err = f.uc.Delete(ctx, &userID, &entities.DeleteWalletInput{WalletID: missing.String(), PrivateKey: walletKeyHex})
	assert.Equal(t, "Wallet not found", appMessage(t, err))
}

func TestCustodyWalletUsecase_DeleteOwnership(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()
	wallet := &entities.CustodyWallet{ID: uuid.New(), UserID: owner, Address: walletAddress}
	input := &entities.DeleteWalletInput{WalletID: wallet.ID.String(), PrivateKey: walletKeyHex}

	t.Run("enforced hides foreign wallet", func(t *testing.T) {
		f := newCustodyFixture(true)
		f.walletRepo.On("GetByID", ctx, wallet.ID).Return(wallet, nil).Once()

		err := f.uc.Delete(ctx, &stranger, input)
		assert.Equal(t, http.StatusNotFound, appStatus(t, err))
		f.walletRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("not enforced accepts key holder", func(t *testing.T) {
		f := newCustodyFixture(false)
		f.walletRepo.On("GetByID", ctx, wallet.ID).Return(wallet, nil).Once()
		f.walletRepo.On("Delete", ctx, wallet.ID).Return(nil).Once()

		require.NoError(t, f.uc.Delete(ctx, nil, input))
	})

	t.Run("concurrent delete reports not found", func(t *testing.T) {
		f := newCustodyFixture(true)
		f.walletRepo.On("GetByID", ctx, wallet.ID).Return(wallet, nil).Once()
		f.walletRepo.On("Delete", ctx, wallet.ID).Return(domainerrors.ErrNotFound).Once()

		err := f.uc.Delete(ctx, &owner, input)
		assert.Equal(t, http.StatusNotFound, appStatus(t, err))
	})
}

func TestCustodyWalletUsecase_LinkConnectedWallet(t *testing.T) {
	f := newCustodyFixture(true)
	ctx := context.Background()
	userID := uuid.New()
	lower := "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"

	f.userRepo.On("UpdateConnectedWallet", ctx, userID, treasuryAddress).Return(nil).Once()
	f.userRepo.On("GetByID", ctx, userID).Return(&entities.User{
		ID:              userID,
		ConnectedWallet: null.StringFrom(treasuryAddress),
	}, nil).Once()

	user, err := f.uc.LinkConnectedWallet(ctx, userID, " "+lower+" ")
	require.NoError(t, err)
	assert.Equal(t, treasuryAddress, user.ConnectedWallet.String)

	_, err = f.uc.LinkConnectedWallet(ctx, userID, "")
	assert.Equal(t, "Wallet address is required", appMessage(t, err))

	_, err = f.uc.LinkConnectedWallet(ctx, userID, "0x1234")
	assert.Equal(t, "Invalid Ethereum address", appMessage(t, err))

	f.userRepo.On("UpdateConnectedWallet", ctx, userID, walletAddress).Return(domainerrors.ErrNotFound).Once()
	_, err = f.uc.LinkConnectedWallet(ctx, userID, walletAddress)
	assert.Equal(t, http.StatusNotFound, appStatus(t, err))
}

