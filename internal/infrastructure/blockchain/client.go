// Package blockchain submits reviews to the Ethos review contract on Base and
// waits for them to settle.
package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/trust-ethos/ethos-anonymous-reviews/config"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/domain/review"
	apperrors "github.com/trust-ethos/ethos-anonymous-reviews/pkg/errors"
	"github.com/trust-ethos/ethos-anonymous-reviews/pkg/logger"
)

// receiptPollInterval is how often we ask the node about a pending receipt.
const receiptPollInterval = 2 * time.Second

// attestationDetails mirrors the contract's attestation tuple.
type attestationDetails struct {
	Account string
	Service string
}

// Client signs and submits review transactions.
type Client struct {
	eth           *ethclient.Client
	contract      *bind.BoundContract
	contractAddr  common.Address
	contractABI   abi.ABI
	key           *ecdsa.PrivateKey
	chainID       *big.Int
	confirmations uint64
	confirmWait   time.Duration
	network       string
	log           logger.Logger
}

// NewClient dials the RPC endpoint and prepares the signer. The private key
// is validated here so a misconfigured signer fails at startup, not on the
// first submission.
func NewClient(cfg *config.BlockchainConfig, log logger.Logger) (*Client, error) {
	parsed, err := abi.JSON(strings.NewReader(reviewContractABI))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse review contract abi")
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPrivateKeyMissing, "invalid signer key")
	}

	eth, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to dial rpc endpoint")
	}

	addr := common.HexToAddress(cfg.ContractAddress)
	return &Client{
		eth:           eth,
		contract:      bind.NewBoundContract(addr, parsed, eth, eth, eth),
		contractAddr:  addr,
		contractABI:   parsed,
		key:           key,
		chainID:       big.NewInt(cfg.ChainID),
		confirmations: cfg.Confirmations,
		confirmWait:   cfg.ConfirmTimeout,
		network:       cfg.Network,
		log:           log,
	}, nil
}

// Close releases the RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// Health checks that the RPC endpoint answers.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.eth.BlockNumber(ctx)
	return err
}

// SignerAddress returns the address transactions are sent from.
func (c *Client) SignerAddress() common.Address {
	return crypto.PubkeyToAddress(c.key.PublicKey)
}

// ExplorerTxURL returns the block explorer link for a transaction hash.
func (c *Client) ExplorerTxURL(txHash string) string {
	if c.network == "testnet" {
		return "https://sepolia.basescan.org/tx/" + txHash
	}
	return "https://basescan.org/tx/" + txHash
}

// SubmitReview sends the addReview transaction and waits for it to reach the
// configured confirmation depth. The returned review id comes from the
// ReviewCreated log and may be absent; a settled transaction without a
// decodable id is still a success.
func (c *Client) SubmitReview(ctx context.Context, sub *review.Submission) (*review.Result, error) {
	metadata, err := sub.Metadata()
	if err != nil {
		return nil, &apperrors.BlockchainError{Err: err}
	}

	subject := common.Address{}
	attestation := attestationDetails{}
	if att := sub.Subject.Attestation(); att != nil {
		attestation = attestationDetails{Account: att.Account, Service: att.Service}
	} else {
		subject = common.HexToAddress(sub.Subject.Address())
	}

	opts, err := bind.NewKeyedTransactorWithChainID(c.key, c.chainID)
	if err != nil {
		return nil, &apperrors.BlockchainError{Err: err}
	}
	opts.Context = ctx

	tx, err := c.contract.Transact(opts, "addReview",
		sub.Sentiment.Score(),
		subject,
		common.Address{}, // native payment token
		sub.Comment,
		metadata,
		attestation,
	)
	if err != nil {
		return nil, &apperrors.BlockchainError{Err: err}
	}

	txHash := tx.Hash().Hex()
	c.log.Info("review transaction submitted", logger.TxHash(txHash))

	receipt, err := c.waitSettled(ctx, tx.Hash())
	if err != nil {
		return nil, &apperrors.BlockchainError{Err: err}
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return nil, &apperrors.BlockchainError{Err: fmt.Errorf("transaction %s reverted", txHash)}
	}

	result := &review.Result{TransactionHash: txHash}
	if id, ok := c.reviewIDFromLogs(receipt.Logs); ok {
		result.ReviewID = &id
	} else {
		c.log.Warn("review id not found in transaction logs", logger.TxHash(txHash))
	}
	return result, nil
}

// waitSettled blocks until the transaction is mined and buried under the
// configured number of confirmations, or the confirmation window runs out.
func (c *Client) waitSettled(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.confirmWait)
	defer cancel()

	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	var receipt *types.Receipt
	for receipt == nil {
		r, err := c.eth.TransactionReceipt(ctx, hash)
		if err == nil {
			receipt = r
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("timed out waiting for receipt of %s: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}

	target := receipt.BlockNumber.Uint64() + c.confirmations - 1
	for {
		head, err := c.eth.BlockNumber(ctx)
		if err == nil && head >= target {
			return receipt, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("timed out waiting for confirmations of %s: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// reviewIDFromLogs scans receipt logs for the contract's ReviewCreated event
// and extracts the review id.
func (c *Client) reviewIDFromLogs(logs []*types.Log) (int64, bool) {
	event := c.contractABI.Events["ReviewCreated"]
	for _, entry := range logs {
		if entry.Address != c.contractAddr || len(entry.Topics) == 0 || entry.Topics[0] != event.ID {
			continue
		}
		values, err := c.contractABI.Unpack("ReviewCreated", entry.Data)
		if err != nil || len(values) < 2 {
			continue
		}
		if id, ok := values[1].(*big.Int); ok {
			return id.Int64(), true
		}
	}
	return 0, false
}
