package chain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
}

func newRPCServer(t *testing.T, results map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if result, ok := results[req.Method]; ok {
			resp["result"] = result
		} else {
			resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found"}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDialReadsChainID(t *testing.T) {
	srv := newRPCServer(t, map[string]string{
		"eth_chainId":     "0x89",
		"eth_blockNumber": "0x10",
		"eth_call":        "0x2a",
	})

	client, err := Dial(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	if client.ChainID() != 137 {
		t.Fatalf("unexpected chain id: %d", client.ChainID())
	}

	block, err := client.PinBlock(context.Background(), 0)
	if err != nil {
		t.Fatalf("pin block: %v", err)
	}
	if block != 16 {
		t.Fatalf("unexpected head: %d", block)
	}
	block, err = client.PinBlock(context.Background(), 7)
	if err != nil || block != 7 {
		t.Fatalf("explicit block not kept: %d %v", block, err)
	}

	to := common.HexToAddress("0x1111111111111111111111111111111111111111")
	out, err := client.CallContract(context.Background(), ethereum.CallMsg{To: &to}, nil)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if len(out) != 1 || out[0] != 0x2a {
		t.Fatalf("unexpected call result: %x", out)
	}
}

func TestDialFailsWithoutChainID(t *testing.T) {
	srv := newRPCServer(t, map[string]string{})
	if _, err := Dial(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected error")
	}
}
