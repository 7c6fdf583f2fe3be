package ledger

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/dmitrijs2005/certledger/internal/logging"
)

// RevertError carries the decoded reason of a reverted simulation or call.
type RevertError struct {
	Reason string
	err    error
}

func (e *RevertError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("execution reverted: %s", e.Reason)
	}
	return "execution reverted"
}

func (e *RevertError) Unwrap() error { return e.err }

// ClientOptions configures the chain connection and the relayer account.
type ClientOptions struct {
	RPCURL          string
	ContractAddress string
	// RelayerKeyHex is the relayer's private key, with or without 0x prefix.
	RelayerKeyHex string
	// MaxPriorityFeeWei / MaxFeeWei are the fixed fee caps applied to every
	// submitted transaction.
	MaxPriorityFeeWei *big.Int
	MaxFeeWei         *big.Int
	// ConfirmTimeout bounds the wait for one confirmation after submission.
	ConfirmTimeout time.Duration
}

// Client implements Reader and Writer over a JSON-RPC connection. It is
// constructed once and injected into the relay components; the relayer key
// never leaves it.
type Client struct {
	eth      *ethclient.Client
	abi      abi.ABI
	contract common.Address
	chainID  *big.Int

	key     *ecdsa.PrivateKey
	relayer common.Address

	tipCap         *big.Int
	feeCap         *big.Int
	confirmTimeout time.Duration

	logger logging.Logger

	// Only one transaction may be in flight per relayer nonce; submitMu
	// serializes nonce acquisition and submission. Confirmation waits run
	// outside the lock.
	submitMu sync.Mutex
}

var _ Reader = (*Client)(nil)
var _ Writer = (*Client)(nil)

func NewClient(ctx context.Context, opts ClientOptions, logger logging.Logger) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, opts.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dialing rpc endpoint: %w", err)
	}

	parsedABI, err := parseContractABI()
	if err != nil {
		return nil, fmt.Errorf("parsing contract abi: %w", err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(opts.RelayerKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parsing relayer key: %w", err)
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching chain id: %w", err)
	}

	if !common.IsHexAddress(opts.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", opts.ContractAddress)
	}

	return &Client{
		eth:            eth,
		abi:            parsedABI,
		contract:       common.HexToAddress(opts.ContractAddress),
		chainID:        chainID,
		key:            key,
		relayer:        crypto.PubkeyToAddress(key.PublicKey),
		tipCap:         opts.MaxPriorityFeeWei,
		feeCap:         opts.MaxFeeWei,
		confirmTimeout: opts.ConfirmTimeout,
		logger:         logger.With("module", "ledger_client"),
	}, nil
}

// RelayerAddress returns the account that pays for and submits transactions.
func (c *Client) RelayerAddress() common.Address { return c.relayer }

func (c *Client) Close() { c.eth.Close() }

func (c *Client) call(ctx context.Context, method string, args ...any) ([]any, error) {
	input, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s: %w", method, err)
	}

	raw, err := c.eth.CallContract(ctx, ethereum.CallMsg{From: c.relayer, To: &c.contract, Data: input}, nil)
	if err != nil {
		return nil, asRevertError(err)
	}

	out, err := c.abi.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("unpacking %s: %w", method, err)
	}

	return out, nil
}

func (c *Client) IsIssuer(ctx context.Context, addr common.Address) (bool, error) {
	out, err := c.call(ctx, "issuers", addr)
	if err != nil {
		return false, err
	}
	return out[0].(bool), nil
}

func (c *Client) PrepaidBalance(ctx context.Context, addr common.Address) (*big.Int, error) {
	out, err := c.call(ctx, "universityBalance", addr)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

func (c *Client) CertificateGasCost(ctx context.Context) (*big.Int, error) {
	limitOut, err := c.call(ctx, "gasLimitPerCertificate")
	if err != nil {
		return nil, err
	}
	priceOut, err := c.call(ctx, "gasPriceForCertificate")
	if err != nil {
		return nil, err
	}
	return new(big.Int).Mul(limitOut[0].(*big.Int), priceOut[0].(*big.Int)), nil
}

func (c *Client) Certificate(ctx context.Context, certID string) (*Certificate, error) {
	out, err := c.call(ctx, "verifyCertificate", certID)
	if err != nil {
		return nil, err
	}

	if exists := out[0].(bool); !exists {
		return nil, nil
	}

	return &Certificate{
		CertificateID: certID,
		StudentName:   out[1].(string),
		CourseName:    out[2].(string),
		IssueDate:     out[3].(string),
		IssuerName:    out[4].(string),
		Issuer:        out[5].(common.Address),
	}, nil
}

func (c *Client) BulkAuthUses(ctx context.Context, hash common.Hash) (uint64, error) {
	out, err := c.call(ctx, "bulkUsed", [32]byte(hash))
	if err != nil {
		return 0, err
	}
	return out[0].(*big.Int).Uint64(), nil
}

// GasSpent reports the total gas a university has consumed. The contract
// does not track this, so it is an explicit unsupported zero rather than a
// locally invented number.
func (c *Client) GasSpent(ctx context.Context, addr common.Address) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (c *Client) packWithSignature(sub SingleSubmission) ([]byte, error) {
	return c.abi.Pack("addCertificateWithSignature",
		sub.Payload.CertificateID,
		sub.Payload.StudentName,
		sub.Payload.CourseName,
		sub.Payload.IssueDate,
		sub.Payload.IssuerName,
		sub.Payload.Signer,
		[32]byte(sub.Hash),
		sub.Signature,
	)
}

func (c *Client) packWithAuth(sub BulkSubmission) ([]byte, error) {
	return c.abi.Pack("addCertificateWithAuth",
		sub.Payload.CertificateID,
		sub.Payload.StudentName,
		sub.Payload.CourseName,
		sub.Payload.IssueDate,
		sub.Payload.IssuerName,
		sub.Payload.Signer,
		[32]byte(sub.Auth.Hash),
		sub.Auth.Signature,
		new(big.Int).SetUint64(sub.Auth.BatchID),
		new(big.Int).SetUint64(sub.Auth.CertificateCount),
		new(big.Int).SetUint64(sub.Auth.Expiry),
	)
}

func (c *Client) simulate(ctx context.Context, input []byte) error {
	_, err := c.eth.CallContract(ctx, ethereum.CallMsg{From: c.relayer, To: &c.contract, Data: input}, nil)
	if err != nil {
		return asRevertError(err)
	}
	return nil
}

func (c *Client) SimulateAddWithSignature(ctx context.Context, sub SingleSubmission) error {
	input, err := c.packWithSignature(sub)
	if err != nil {
		return err
	}
	return c.simulate(ctx, input)
}

func (c *Client) SimulateAddWithAuth(ctx context.Context, sub BulkSubmission) error {
	input, err := c.packWithAuth(sub)
	if err != nil {
		return err
	}
	return c.simulate(ctx, input)
}

func (c *Client) AddWithSignature(ctx context.Context, sub SingleSubmission) (*Receipt, error) {
	input, err := c.packWithSignature(sub)
	if err != nil {
		return nil, err
	}
	return c.transact(ctx, sub.Payload.CertificateID, input)
}

func (c *Client) AddWithAuth(ctx context.Context, sub BulkSubmission) (*Receipt, error) {
	input, err := c.packWithAuth(sub)
	if err != nil {
		return nil, err
	}
	return c.transact(ctx, sub.Payload.CertificateID, input)
}

func (c *Client) submitSigned(ctx context.Context, input []byte) (*types.Transaction, error) {
	c.submitMu.Lock()
	defer c.submitMu.Unlock()

	nonce, err := c.eth.PendingNonceAt(ctx, c.relayer)
	if err != nil {
		return nil, fmt.Errorf("fetching nonce: %w", err)
	}

	gas, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{From: c.relayer, To: &c.contract, Data: input})
	if err != nil {
		return nil, asRevertError(err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   c.chainID,
		Nonce:     nonce,
		GasTipCap: c.tipCap,
		GasFeeCap: c.feeCap,
		Gas:       gas,
		To:        &c.contract,
		Data:      input,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("sending transaction: %w", err)
	}

	return signed, nil
}

func (c *Client) transact(ctx context.Context, certID string, input []byte) (*Receipt, error) {
	signed, err := c.submitSigned(ctx, input)
	if err != nil {
		return nil, err
	}

	c.logger.Info(ctx, "transaction submitted", "certificate_id", certID, "tx_hash", signed.Hash().Hex())

	waitCtx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	mined, err := bind.WaitMined(waitCtx, c.eth, signed)
	if err != nil {
		return nil, fmt.Errorf("waiting for confirmation of %s: %w", signed.Hash().Hex(), err)
	}

	return &Receipt{
		TxHash:      mined.TxHash.Hex(),
		BlockNumber: mined.BlockNumber.Uint64(),
		GasUsed:     mined.GasUsed,
		Status:      mined.Status,
	}, nil
}

// asRevertError decodes the revert reason, when the node supplies one, into
// a RevertError. Other errors pass through unchanged.
func asRevertError(err error) error {
	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return err
	}

	var data []byte
	switch d := dataErr.ErrorData().(type) {
	case string:
		decoded, decErr := hexutil.Decode(d)
		if decErr != nil {
			return &RevertError{err: err}
		}
		data = decoded
	case []byte:
		data = d
	default:
		return &RevertError{err: err}
	}

	reason, unpackErr := abi.UnpackRevert(data)
	if unpackErr != nil {
		return &RevertError{err: err}
	}
	return &RevertError{Reason: reason, err: err}
}
