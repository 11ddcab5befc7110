package blockchain

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

func parsedABI(t *testing.T) abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(reviewContractABI))
	if err != nil {
		t.Fatalf("abi.JSON: %v", err)
	}
	return parsed
}

func TestABIShape(t *testing.T) {
	parsed := parsedABI(t)

	method, ok := parsed.Methods["addReview"]
	if !ok {
		t.Fatal("addReview method missing")
	}
	if len(method.Inputs) != 6 {
		t.Errorf("addReview inputs = %d, want 6", len(method.Inputs))
	}

	if _, ok := parsed.Events["ReviewCreated"]; !ok {
		t.Fatal("ReviewCreated event missing")
	}
}

func reviewCreatedLog(t *testing.T, parsed abi.ABI, contract common.Address, reviewID int64) *types.Log {
	t.Helper()
	event := parsed.Events["ReviewCreated"]
	data, err := event.Inputs.NonIndexed().Pack(uint8(2), big.NewInt(reviewID), big.NewInt(9))
	if err != nil {
		t.Fatalf("pack event data: %v", err)
	}
	return &types.Log{
		Address: contract,
		Topics: []common.Hash{
			event.ID,
			common.HexToHash("0x01"), // author
			common.HexToHash("0x02"), // attestation hash
			common.HexToHash("0x03"), // subject
		},
		Data: data,
	}
}

func TestReviewIDFromLogs(t *testing.T) {
	parsed := parsedABI(t)
	contract := common.HexToAddress("0x6D3A8Fd5cF89f9a429BFaDFd970968F646AFF325")
	c := &Client{contractABI: parsed, contractAddr: contract}

	id, ok := c.reviewIDFromLogs([]*types.Log{
		{Address: common.HexToAddress("0xdead")}, // foreign contract
		reviewCreatedLog(t, parsed, contract, 777),
	})
	if !ok {
		t.Fatal("review id not extracted")
	}
	if id != 777 {
		t.Errorf("id = %d, want 777", id)
	}
}

func TestReviewIDFromLogsMissing(t *testing.T) {
	parsed := parsedABI(t)
	contract := common.HexToAddress("0x6D3A8Fd5cF89f9a429BFaDFd970968F646AFF325")
	c := &Client{contractABI: parsed, contractAddr: contract}

	tests := []struct {
		name string
		logs []*types.Log
	}{
		{"no logs", nil},
		{"foreign contract only", []*types.Log{reviewCreatedLog(t, parsed, common.HexToAddress("0xdead"), 1)}},
		{"unrelated event", []*types.Log{{Address: contract, Topics: []common.Hash{common.HexToHash("0xff")}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := c.reviewIDFromLogs(tt.logs); ok {
				t.Error("review id extracted from missing event")
			}
		})
	}
}

func TestExplorerTxURL(t *testing.T) {
	mainnet := &Client{network: "mainnet"}
	if got := mainnet.ExplorerTxURL("0xabc"); got != "https://basescan.org/tx/0xabc" {
		t.Errorf("mainnet url = %q", got)
	}

	testnet := &Client{network: "testnet"}
	if got := testnet.ExplorerTxURL("0xabc"); got != "https://sepolia.basescan.org/tx/0xabc" {
		t.Errorf("testnet url = %q", got)
	}
}
