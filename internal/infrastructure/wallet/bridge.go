package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cyrusai/agent-console/internal/domain"
)

// Bridge reaches the injected wallet provider (Keplr or compatible) through a
// local websocket signer bridge. Calls are correlated request/response frames;
// signing calls can be outstanding for as long as the user takes to answer the
// extension prompt, so responses are matched by id, never by order.
type Bridge struct {
	url    string
	dialer *websocket.Dialer
	logger *zap.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	nextID  int64
	pending map[int64]chan bridgeResponse
}

type bridgeRequest struct {
	ID     int64           `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type bridgeResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *bridgeError    `json:"error,omitempty"`
}

type bridgeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	codeRejected   = "request_rejected"
	codeNoProvider = "no_provider"
	codeNoAccounts = "no_accounts"
)

func NewBridge(url string, logger *zap.Logger) *Bridge {
	return &Bridge{
		url:     url,
		dialer:  &websocket.Dialer{HandshakeTimeout: 3 * time.Second},
		logger:  logger,
		pending: make(map[int64]chan bridgeResponse),
	}
}

// Probe dials the bridge and immediately hangs up. Used by discovery polling;
// it never holds the connection.
func (b *Bridge) Probe(ctx context.Context) bool {
	conn, _, err := b.dialer.DialContext(ctx, b.url, nil)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (b *Bridge) Enable(ctx context.Context, chainID string) error {
	var ok bool
	return b.call(ctx, "enable", map[string]string{"chain_id": chainID}, &ok)
}

func (b *Bridge) GetAccounts(ctx context.Context, chainID string) ([]domain.WalletAccount, error) {
	var accounts []domain.WalletAccount
	if err := b.call(ctx, "get_accounts", map[string]string{"chain_id": chainID}, &accounts); err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, domain.ErrNoAccounts
	}
	return accounts, nil
}

func (b *Bridge) SignArbitrary(ctx context.Context, chainID, signer, data string) (*domain.SignedChallenge, error) {
	var result struct {
		Signature string `json:"signature"`
		PubKey    string `json:"pub_key"`
	}
	params := map[string]string{"chain_id": chainID, "signer": signer, "data": data}
	if err := b.call(ctx, "sign_arbitrary", params, &result); err != nil {
		return nil, err
	}
	return &domain.SignedChallenge{
		WalletAddress: signer,
		Signature:     result.Signature,
		PubKey:        result.PubKey,
	}, nil
}

func (b *Bridge) call(ctx context.Context, method string, params interface{}, result interface{}) error {
	rawParams, err := json.Marshal(params)
	if err != nil {
		return err
	}

	b.mu.Lock()
	if b.conn == nil {
		conn, _, err := b.dialer.DialContext(ctx, b.url, nil)
		if err != nil {
			b.mu.Unlock()
			return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
		}
		b.conn = conn
		go b.readLoop(conn)
	}
	b.nextID++
	id := b.nextID
	ch := make(chan bridgeResponse, 1)
	b.pending[id] = ch

	err = b.conn.WriteJSON(bridgeRequest{ID: id, Method: method, Params: rawParams})
	b.mu.Unlock()
	if err != nil {
		b.drop(id)
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return domain.ErrProviderUnavailable
		}
		if resp.Error != nil {
			return mapBridgeError(resp.Error)
		}
		if result != nil && len(resp.Result) > 0 {
			return json.Unmarshal(resp.Result, result)
		}
		return nil
	case <-ctx.Done():
		// The bridge may still answer later; the reader will find no waiter
		// and log the frame as stale.
		b.drop(id)
		return ctx.Err()
	}
}

func (b *Bridge) drop(id int64) {
	b.mu.Lock()
	delete(b.pending, id)
	b.mu.Unlock()
}

func (b *Bridge) readLoop(conn *websocket.Conn) {
	defer func() {
		conn.Close()
		b.mu.Lock()
		if b.conn == conn {
			b.conn = nil
		}
		// Fail every waiter; the connection is gone.
		for id, ch := range b.pending {
			close(ch)
			delete(b.pending, id)
		}
		b.mu.Unlock()
	}()

	for {
		var resp bridgeResponse
		if err := conn.ReadJSON(&resp); err != nil {
			b.logger.Debug("wallet bridge closed", zap.Error(err))
			return
		}

		b.mu.Lock()
		ch, ok := b.pending[resp.ID]
		if ok {
			delete(b.pending, resp.ID)
		}
		b.mu.Unlock()

		if !ok {
			b.logger.Debug("stale wallet bridge response discarded", zap.Int64("id", resp.ID))
			continue
		}
		ch <- resp
	}
}

func mapBridgeError(e *bridgeError) error {
	switch e.Code {
	case codeRejected:
		return domain.ErrUserRejected
	case codeNoProvider:
		return domain.ErrProviderUnavailable
	case codeNoAccounts:
		return domain.ErrNoAccounts
	default:
		return fmt.Errorf("wallet bridge error %s: %s", e.Code, e.Message)
	}
}
