package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"token-dashboard.backend/internal/domain/entities"
	domainerrors "token-dashboard.backend/internal/domain/errors"
)

type custodyWalletServiceStub struct {
	generateFn func(context.Context, uuid.UUID) (*entities.CustodyWallet, error)
	listFn     func(context.Context, uuid.UUID, bool) ([]*entities.WalletSummary, error)
	deleteFn   func(context.Context, *uuid.UUID, *entities.DeleteWalletInput) error
	linkFn     func(context.Context, uuid.UUID, string) (*entities.User, error)
}

func (s custodyWalletServiceStub) Generate(ctx context.Context, userID uuid.UUID) (*entities.CustodyWallet, error) {
	return s.generateFn(ctx, userID)
}
func (s custodyWalletServiceStub) List(ctx context.Context, userID uuid.UUID, withBalance bool) ([]*entities.WalletSummary, error) {
	return s.listFn(ctx, userID, withBalance)
}
func (s custodyWalletServiceStub) Delete(ctx context.Context, caller *uuid.UUID, input *entities.DeleteWalletInput) error {
	return s.deleteFn(ctx, caller, input)
}
func (s custodyWalletServiceStub) LinkConnectedWallet(ctx context.Context, userID uuid.UUID, address string) (*entities.User, error) {
	return s.linkFn(ctx, userID, address)
}

type walletTransferServiceStub struct {
	sendFn func(context.Context, *uuid.UUID, *entities.SendFromWalletInput) (*entities.TransferResult, error)
}

func (s walletTransferServiceStub) SendFromCustodyWallet(ctx context.Context, caller *uuid.UUID, input *entities.SendFromWalletInput) (*entities.TransferResult, error) {
	return s.sendFn(ctx, caller, input)
}

func newWalletRouter(wallets custodyWalletServiceStub, transfers walletTransferServiceStub, userID *uuid.UUID) http.Handler {
	r := newTestRouter(userID)
	h := NewWalletHandler(wallets, transfers)
	r.GET("/wallet/list", h.List)
	r.POST("/wallet/generate", h.Generate)
	r.POST("/wallet/link", h.Link)
	r.DELETE("/wallet/delete", h.Delete)
	r.POST("/wallet/send", h.Send)
	return r
}

func TestWalletHandler_List(t *testing.T) {
	userID := uuid.New()
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	balance := "1.5"
	walletA := uuid.New()
	walletB := uuid.New()

	var gotWithBalance bool
	svc := custodyWalletServiceStub{
		listFn: func(_ context.Context, id uuid.UUID, withBalance bool) ([]*entities.WalletSummary, error) {
			assert.Equal(t, userID, id)
			gotWithBalance = withBalance
			return []*entities.WalletSummary{
				{ID: walletA, Address: "0xA", CreatedAt: created, Balance: &balance},
				{ID: walletB, Address: "0xB", CreatedAt: created, BalanceError: "Failed to fetch balance"},
			}, nil
		},
	}
	r := newWalletRouter(svc, walletTransferServiceStub{}, &userID)

	rec := doJSON(r, http.MethodGet, "/wallet/list?withBalance=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotWithBalance)
	assert.JSONEq(t, `{"wallets":[
		{"id":"`+walletA.String()+`","address":"0xA","createdAt":"2025-01-02T03:04:05Z","balance":"1.5"},
		{"id":"`+walletB.String()+`","address":"0xB","createdAt":"2025-01-02T03:04:05Z","balanceError":"Failed to fetch balance"}
	]}`, rec.Body.String())

	rec = doJSON(r, http.MethodGet, "/wallet/list?withBalance=nope", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, gotWithBalance)

	rec = doJSON(newWalletRouter(svc, walletTransferServiceStub{}, nil), http.MethodGet, "/wallet/list", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	failing := custodyWalletServiceStub{
		listFn: func(context.Context, uuid.UUID, bool) ([]*entities.WalletSummary, error) {
			return nil, errors.New("db down")
		},
	}
	rec = doJSON(newWalletRouter(failing, walletTransferServiceStub{}, &userID), http.MethodGet, "/wallet/list", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch wallets"}`, rec.Body.String())
}

func TestWalletHandler_Generate(t *testing.T) {
	userID := uuid.New()
	walletID := uuid.New()
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := custodyWalletServiceStub{
		generateFn: func(_ context.Context, id uuid.UUID) (*entities.CustodyWallet, error) {
			return &entities.CustodyWallet{ID: walletID, UserID: id, Address: "0xA", PrivateKey: "c2VjcmV0", CreatedAt: created}, nil
		},
	}

	rec := doJSON(newWalletRouter(svc, walletTransferServiceStub{}, &userID), http.MethodPost, "/wallet/generate", "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"Wallet created successfully","wallet":{"id":"`+walletID.String()+`","address":"0xA","createdAt":"2025-01-02T03:04:05Z"}}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "c2VjcmV0")

	failing := custodyWalletServiceStub{
		generateFn: func(context.Context, uuid.UUID) (*entities.CustodyWallet, error) { return nil, errors.New("db down") },
	}
	rec = doJSON(newWalletRouter(failing, walletTransferServiceStub{}, &userID), http.MethodPost, "/wallet/generate", "")
	assert.JSONEq(t, `{"error":"Failed to generate wallet"}`, rec.Body.String())
}

func TestWalletHandler_Link(t *testing.T) {
	userID := uuid.New()
	svc := custodyWalletServiceStub{
		linkFn: func(_ context.Context, id uuid.UUID, address string) (*entities.User, error) {
			if address == "bad" {
				return nil, domainerrors.BadRequest("Invalid Ethereum address")
			}
			u := &entities.User{ID: id, Email: "a@example.com"}
			u.ConnectedWallet.SetValid(address)
			return u, nil
		},
	}
	r := newWalletRouter(svc, walletTransferServiceStub{}, &userID)

	rec := doJSON(r, http.MethodPost, "/wallet/link", `{"walletAddress":"0xA"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"connectedWallet":"0xA"`)

	rec = doJSON(r, http.MethodPost, "/wallet/link", `{"walletAddress":"bad"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid Ethereum address"}`, rec.Body.String())

	rec = doJSON(r, http.MethodPost, "/wallet/link", `[`)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, rec.Body.String())
}

func TestWalletHandler_Delete(t *testing.T) {
	walletID := uuid.New()
	var gotCaller *uuid.UUID
	svc := custodyWalletServiceStub{
		deleteFn: func(_ context.Context, caller *uuid.UUID, input *entities.DeleteWalletInput) error {
			gotCaller = caller
			switch input.PrivateKey {
			case "wrong":
				return domainerrors.Forbidden("Invalid private key")
			case "boom":
				return errors.New("db down")
			}
			return nil
		},
	}

	t.Run("anonymous caller passes nil", func(t *testing.T) {
		rec := doJSON(newWalletRouter(svc, walletTransferServiceStub{}, nil), http.MethodDelete, "/wallet/delete", `{"walletId":"`+walletID.String()+`","privateKey":"0xkey"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
		assert.Nil(t, gotCaller)
	})

	userID := uuid.New()
	r := newWalletRouter(svc, walletTransferServiceStub{}, uuidPtr(userID))

	t.Run("session caller is forwarded", func(t *testing.T) {
		rec := doJSON(r, http.MethodDelete, "/wallet/delete", `{"walletId":"`+walletID.String()+`","privateKey":"0xkey"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotCaller)
		assert.Equal(t, userID, *gotCaller)
	})

	t.Run("wrong key", func(t *testing.T) {
		rec := doJSON(r, http.MethodDelete, "/wallet/delete", `{"walletId":"`+walletID.String()+`","privateKey":"wrong"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid private key"}`, rec.Body.String())
	})

	t.Run("unexpected error", func(t *testing.T) {
		rec := doJSON(r, http.MethodDelete, "/wallet/delete", `{"walletId":"`+walletID.String()+`","privateKey":"boom"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Delete failed"}`, rec.Body.String())
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := doJSON(r, http.MethodDelete, "/wallet/delete", `nope`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestWalletHandler_Send(t *testing.T) {
	userID := uuid.New()
	transfers := walletTransferServiceStub{
		sendFn: func(_ context.Context, caller *uuid.UUID, input *entities.SendFromWalletInput) (*entities.TransferResult, error) {
			require.NotNil(t, caller)
			switch input.Amount {
			case "99":
				return nil, domainerrors.ChainFailure("execution reverted", errors.New("execution reverted"))
			case "7":
				return nil, errors.New("db down")
			}
			return &entities.TransferResult{TxHash: "0xhash", ExplorerURL: "https://x/tx/0xhash"}, nil
		},
	}
	r := newWalletRouter(custodyWalletServiceStub{}, transfers, &userID)

	rec := doJSON(r, http.MethodPost, "/wallet/send", `{"walletId":"w","toAddress":"0xB","amount":1.5}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"txHash":"0xhash"}`, rec.Body.String())

	rec = doJSON(r, http.MethodPost, "/wallet/send", `{"walletId":"w","toAddress":"0xB","amount":"99"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"execution reverted"}`, rec.Body.String())

	rec = doJSON(r, http.MethodPost, "/wallet/send", `{"walletId":"w","toAddress":"0xB","amount":7}`)
	assert.JSONEq(t, `{"error":"Failed to send tokens"}`, rec.Body.String())

	rec = doJSON(r, http.MethodPost, "/wallet/send", `{"walletId":"w","toAddress":"0xB","amount":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
