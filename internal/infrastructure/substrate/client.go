// Package substrate speaks the Substrate JSON-RPC protocol over WebSocket:
// enough of it to resolve System.Account storage for an address. Storage keys
// are built with the standard twox128/blake2b-128-concat hashers and results
// are SCALE-decoded.
package substrate

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultCallTimeout = 10 * time.Second

// Client is a single-connection JSON-RPC client. It is not safe for
// concurrent calls; each balance fetch owns one client for its lifetime and
// closes it before returning.
type Client struct {
	conn   *websocket.Conn
	url    string
	nextID uint64
	logger *zap.Logger
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	JSONRPC string              `json:"jsonrpc"`
	ID      uint64              `json:"id"`
	Result  jsoniter.RawMessage `json:"result"`
	Error   *rpcError           `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Dial opens a WebSocket connection to a chain endpoint. The caller bounds
// the handshake with ctx.
func Dial(ctx context.Context, url string, logger *zap.Logger) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	// Storage values for busy accounts stay tiny, but chain metadata calls
	// can exceed the 32KiB default.
	conn.SetReadLimit(1 << 22)
	return &Client{conn: conn, url: url, logger: logger.Named("SubstrateClient")}, nil
}

// URL returns the endpoint this client is connected to.
func (c *Client) URL() string { return c.url }

// Call performs one request/response round trip and unmarshals the result
// into out. A nil JSON result leaves out untouched and returns ErrNullResult.
func (c *Client) Call(ctx context.Context, method string, params []any, out any) error {
	id := atomic.AddUint64(&c.nextID, 1)
	req := rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params}
	if params == nil {
		req.Params = []any{}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", method, err)
	}
	if err := c.conn.Write(ctx, websocket.MessageText, payload); err != nil {
		return fmt.Errorf("failed to write %s request: %w", method, err)
	}

	// Read until our id comes back; the node may interleave unrelated
	// notifications.
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("failed to read %s response: %w", method, err)
		}
		var resp rpcResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return fmt.Errorf("malformed %s response: %w", method, err)
		}
		if resp.ID != id {
			c.logger.Debug("Skipping unrelated frame", zap.Uint64("wantID", id), zap.Uint64("gotID", resp.ID))
			continue
		}
		if resp.Error != nil {
			return resp.Error
		}
		if string(resp.Result) == "null" {
			return ErrNullResult
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
		return nil
	}
}

// ErrNullResult marks a successful call whose result was JSON null, e.g. a
// storage key with no value (account never used on this chain).
var ErrNullResult = fmt.Errorf("rpc result is null")

// Close releases the underlying connection. Safe to call on every exit path.
func (c *Client) Close() {
	_ = c.conn.Close(websocket.StatusNormalClosure, "done")
}
