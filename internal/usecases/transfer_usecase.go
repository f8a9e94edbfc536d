package usecases

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"token-dashboard.backend/internal/domain/entities"
	domainerrors "token-dashboard.backend/internal/domain/errors"
	"token-dashboard.backend/internal/domain/repositories"
	"token-dashboard.backend/internal/infrastructure/blockchain"
	"token-dashboard.backend/pkg/logger"
	"token-dashboard.backend/pkg/metrics"
	"token-dashboard.backend/pkg/units"
	"token-dashboard.backend/pkg/utils"
)

var nowFunc = time.Now

// TransferConfig holds the transfer settings read at start-up
type TransferConfig struct {
	TokenDecimals       int
	ConfirmationTimeout time.Duration
	ExplorerURL         string
	EnforceOwnership    bool
}

// TransferUsecase moves tokens and records every attempt in the ledger
type TransferUsecase struct {
	chain      TokenChain
	txRepo     repositories.TransactionRepository
	walletRepo repositories.CustodyWalletRepository
	userRepo   repositories.UserRepository
	treasury   *blockchain.Signer
	cfg        TransferConfig
}

// NewTransferUsecase creates a new transfer usecase. treasury may be nil when no
// admin key is configured; treasury sends then fail.
func NewTransferUsecase(
	chain TokenChain,
	txRepo repositories.TransactionRepository,
	walletRepo repositories.CustodyWalletRepository,
	userRepo repositories.UserRepository,
	treasury *blockchain.Signer,
	cfg TransferConfig,
) *TransferUsecase {
	return &TransferUsecase{
		chain:      chain,
		txRepo:     txRepo,
		walletRepo: walletRepo,
		userRepo:   userRepo,
		treasury:   treasury,
		cfg:        cfg,
	}
}

// transferRequest is one server-signed transfer attempt
type transferRequest struct {
	source        string
	txType        entities.TransactionType
	ownerID       uuid.UUID
	key           *ecdsa.PrivateKey
	from          common.Address
	to            common.Address
	amount        string
	value         *big.Int
	failurePrefix string
}

// SendFromTreasury transfers from the admin wallet on behalf of userID
func (u *TransferUsecase) SendFromTreasury(ctx context.Context, userID uuid.UUID, input *entities.SendTokenInput) (*entities.TransferResult, error) {
	to, amount, value, err := u.validateTransfer(input.ToAddress, input.Amount)
	if err != nil {
		return nil, err
	}
	if u.treasury == nil {
		return nil, domainerrors.InternalError(errors.New("treasury key not configured"))
	}

	return u.execute(ctx, &transferRequest{
		source:        metrics.SourceTreasury,
		txType:        entities.TransactionTypeAdmin,
		ownerID:       userID,
		key:           u.treasury.Key,
		from:          u.treasury.Address,
		to:            to,
		amount:        amount,
		value:         value,
		failurePrefix: "Failed to send tokens: ",
	})
}

// SendFromCustodyWallet transfers from a stored custody wallet. The ledger row
// belongs to the wallet owner. caller is nil for unauthenticated requests.
func (u *TransferUsecase) SendFromCustodyWallet(ctx context.Context, caller *uuid.UUID, input *entities.SendFromWalletInput) (*entities.TransferResult, error) {
	if strings.TrimSpace(input.WalletID) == "" {
		return nil, domainerrors.BadRequest("Missing required fields")
	}
	to, amount, value, err := u.validateTransfer(input.ToAddress, input.Amount)
	if err != nil {
		return nil, err
	}
	if u.cfg.EnforceOwnership && caller == nil {
		return nil, domainerrors.Unauthorized("Not authenticated")
	}

	walletID, err := utils.ParseID(input.WalletID)
	if err != nil {
		return nil, domainerrors.NotFound("Wallet not found")
	}
	wallet, err := loadOwnedWallet(ctx, u.walletRepo, u.cfg.EnforceOwnership, caller, walletID)
	if err != nil {
		return nil, err
	}

	keyHex, err := blockchain.DecodeStoredKey(wallet.PrivateKey)
	if err != nil {
		return nil, domainerrors.InternalError(fmt.Errorf("decode wallet %s key: %w", wallet.ID, err))
	}
	signer, err := blockchain.NewSigner(keyHex)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}

	return u.execute(ctx, &transferRequest{
		source:  metrics.SourceCustody,
		txType:  entities.TransactionTypeCustody,
		ownerID: wallet.UserID,
		key:     signer.Key,
		from:    signer.Address,
		to:      to,
		amount:  amount,
		value:   value,
	})
}

// RecordUserTransfer stores a transfer the browser wallet already signed.
// The hash is trusted as given.
func (u *TransferUsecase) RecordUserTransfer(ctx context.Context, userID uuid.UUID, input *entities.RecordUserTransferInput) (*entities.Transaction, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, err
	}
	if !user.ConnectedWallet.Valid || user.ConnectedWallet.String == "" {
		return nil, domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeInvalidInput,
			"No wallet connected. Please connect your wallet first.", domainerrors.ErrNoWalletConnected)
	}

	toAddress := strings.TrimSpace(input.ToAddress)
	amount := strings.TrimSpace(string(input.Amount))
	txHash := strings.TrimSpace(input.TxHash)
	if toAddress == "" || amount == "" || txHash == "" {
		return nil, domainerrors.BadRequest("Missing required fields")
	}

	row := &entities.Transaction{
		ID:        utils.NewID(),
		From:      user.ConnectedWallet.String,
		To:        toAddress,
		Amount:    amount,
		TxHash:    txHash,
		Status:    entities.TransactionSuccess,
		Type:      entities.TransactionTypeUser,
		UserID:    userID,
		CreatedAt: nowFunc().UTC(),
	}
	if err := u.txRepo.Create(ctx, row); err != nil {
		metrics.ObserveLedgerWriteFailure()
		return nil, err
	}

	metrics.ObserveTransfer(metrics.SourceUser, string(entities.TransactionSuccess))
	return row, nil
}

// ExplorerLink returns the block explorer page of a transaction hash
func (u *TransferUsecase) ExplorerLink(txHash string) string {
	return u.cfg.ExplorerURL + "/tx/" + txHash
}

func (u *TransferUsecase) validateTransfer(toAddress string, rawAmount entities.Amount) (common.Address, string, *big.Int, error) {
	toAddress = strings.TrimSpace(toAddress)
	amount := strings.TrimSpace(string(rawAmount))
	if toAddress == "" || amount == "" {
		return common.Address{}, "", nil, domainerrors.BadRequest("Missing required fields")
	}
	if !blockchain.IsHexAddress(toAddress) {
		return common.Address{}, "", nil, domainerrors.BadRequest("Invalid Ethereum address")
	}

	value, err := units.ParseUnits(amount, u.cfg.TokenDecimals)
	if err != nil || value.Sign() <= 0 {
		return common.Address{}, "", nil, domainerrors.BadRequest("Amount must be a positive number")
	}
	return common.HexToAddress(toAddress), amount, value, nil
}

// execute runs a validated transfer to a recorded outcome. It is detached from
// request cancellation so a client disconnect cannot strand a submitted transfer.
func (u *TransferUsecase) execute(ctx context.Context, req *transferRequest) (*entities.TransferResult, error) {
	ctx = context.WithoutCancel(ctx)

	balance, err := u.chain.BalanceOf(ctx, req.from)
	if err != nil {
		return nil, u.fail(ctx, req, err)
	}
	if balance.Cmp(req.value) < 0 {
		insufficient := domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeInvalidInput,
			"Insufficient balance", domainerrors.ErrInsufficientFunds)
		return nil, u.fail(ctx, req, insufficient)
	}

	confirmCtx := ctx
	if u.cfg.ConfirmationTimeout > 0 {
		var cancel context.CancelFunc
		confirmCtx, cancel = context.WithTimeout(ctx, u.cfg.ConfirmationTimeout)
		defer cancel()
	}

	tx, err := u.chain.Transfer(confirmCtx, req.key, req.to, req.value)
	if err != nil {
		return nil, u.fail(ctx, req, err)
	}
	logger.Info(ctx, "Transfer submitted",
		zap.String("source", req.source),
		zap.String("tx_hash", tx.Hash().Hex()),
	)

	if _, err := u.chain.WaitConfirmed(confirmCtx, tx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("transaction %s not confirmed within %s", tx.Hash().Hex(), u.cfg.ConfirmationTimeout)
		}
		return nil, u.fail(ctx, req, err)
	}

	row := u.ledgerRow(req, tx.Hash().Hex(), entities.TransactionSuccess)
	if err := u.txRepo.Create(ctx, row); err != nil {
		metrics.ObserveLedgerWriteFailure()
		logger.Error(ctx, "Ledger write failed after confirmed transfer",
			zap.String("tx_hash", row.TxHash),
			zap.Error(err),
		)
		return nil, domainerrors.InternalError(err)
	}

	metrics.ObserveTransfer(req.source, string(entities.TransactionSuccess))
	return &entities.TransferResult{
		TxHash:      row.TxHash,
		ExplorerURL: u.ExplorerLink(row.TxHash),
		Transaction: row,
	}, nil
}

// fail writes a best-effort failed row and maps cause to the caller's error.
// A failed ledger write is only logged.
func (u *TransferUsecase) fail(ctx context.Context, req *transferRequest, cause error) error {
	metrics.ObserveTransfer(req.source, string(entities.TransactionFailed))

	row := u.ledgerRow(req, fmt.Sprintf("failed-%d", nowFunc().UnixMilli()), entities.TransactionFailed)
	if err := u.txRepo.Create(ctx, row); err != nil {
		metrics.ObserveLedgerWriteFailure()
		logger.Warn(ctx, "Failed transfer could not be recorded",
			zap.String("source", req.source),
			zap.NamedError("cause", cause),
			zap.Error(err),
		)
	}

	if appErr, ok := domainerrors.As(cause); ok {
		return appErr
	}
	logger.Error(ctx, "Transfer failed", zap.String("source", req.source), zap.Error(cause))
	return domainerrors.ChainFailure(req.failurePrefix+cause.Error(), cause)
}

func (u *TransferUsecase) ledgerRow(req *transferRequest, txHash string, status entities.TransactionStatus) *entities.Transaction {
	return &entities.Transaction{
		ID:        utils.NewID(),
		From:      req.from.Hex(),
		To:        req.to.Hex(),
		Amount:    req.amount,
		TxHash:    txHash,
		Status:    status,
		Type:      req.txType,
		UserID:    req.ownerID,
		CreatedAt: nowFunc().UTC(),
	}
}
