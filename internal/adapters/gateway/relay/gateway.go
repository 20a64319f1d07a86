package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bnema/wallet-bridge-cli/internal/domain"
	"github.com/bnema/wallet-bridge-cli/internal/ports"
)

const (
	extensionPath = "/v1/extension"
	connectPath   = "/v1/connect"
	burnPath      = "/v1/burn"

	maxRelayResponseBytes = 1 << 20
	defaultProbeTimeout   = 3 * time.Second
)

// Gateway talks to the localhost relay that fronts the wallet
// extension's native-messaging channel. The wire format beyond this
// JSON envelope is the extension's concern.
type Gateway struct {
	BaseURL      string
	HTTPClient   *http.Client
	ProbeTimeout time.Duration
}

var _ ports.WalletGateway = (*Gateway)(nil)

type accountResponse struct {
	AccountID string `json:"account_id"`
}

type burnRequest struct {
	AccountID string `json:"account_id"`
	TokenID   string `json:"token_id"`
	Amount    int64  `json:"amount"`
}

type burnResponse struct {
	TransactionID string `json:"transaction_id"`
}

type relayErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// IsAvailable probes the relay's extension endpoint. Anything but a
// 200 within the probe timeout counts as absent.
func (g *Gateway) IsAvailable(ctx context.Context) bool {
	endpoint, err := g.endpoint(extensionPath)
	if err != nil {
		return false
	}

	probeTimeout := g.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = defaultProbeTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}

	resp, err := g.httpClient().Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxRelayResponseBytes))

	return resp.StatusCode == http.StatusOK
}

// RequestConnection blocks until the relay reports user approval or
// denial.
func (g *Gateway) RequestConnection(ctx context.Context) (domain.AccountID, error) {
	var payload accountResponse
	if err := g.post(ctx, connectPath, nil, &payload); err != nil {
		return "", err
	}

	accountID, err := domain.ParseAccountID(payload.AccountID)
	if err != nil {
		return "", fmt.Errorf("connect response: %w", err)
	}

	return accountID, nil
}

func (g *Gateway) SubmitBurn(ctx context.Context, accountID domain.AccountID, tokenID domain.TokenID, amount int64) (domain.TransactionID, error) {
	body := burnRequest{
		AccountID: string(accountID),
		TokenID:   string(tokenID),
		Amount:    amount,
	}

	var payload burnResponse
	if err := g.post(ctx, burnPath, body, &payload); err != nil {
		return "", err
	}

	if payload.TransactionID == "" {
		return "", errors.New("burn response missing transaction id")
	}

	return domain.TransactionID(payload.TransactionID), nil
}

func (g *Gateway) post(ctx context.Context, path string, body any, out any) error {
	endpoint, err := g.endpoint(path)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode relay request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient().Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxRelayResponseBytes)).Decode(out); err != nil {
			return fmt.Errorf("decode relay response: %w", err)
		}
		return nil
	}

	relayErr := decodeRelayError(resp)
	switch {
	case resp.StatusCode == http.StatusForbidden || relayErr.Error == "denied":
		return fmt.Errorf("%w: %s", domain.ErrDenied, formatRelayError(resp.StatusCode, relayErr))
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", domain.ErrNetwork, formatRelayError(resp.StatusCode, relayErr))
	default:
		return fmt.Errorf("relay request: %s", formatRelayError(resp.StatusCode, relayErr))
	}
}

func (g *Gateway) httpClient() *http.Client {
	if g.HTTPClient != nil {
		return g.HTTPClient
	}
	return http.DefaultClient
}

func (g *Gateway) endpoint(path string) (string, error) {
	if g.BaseURL == "" {
		return "", errors.New("relay base url is required")
	}

	parsed, err := url.Parse(g.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse relay base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("relay base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("relay base url host is required")
	}

	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse relay path: %w", err)
	}
	return endpoint.String(), nil
}

func decodeRelayError(resp *http.Response) relayErrorResponse {
	var relayErr relayErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxRelayResponseBytes)).Decode(&relayErr); err != nil {
		return relayErrorResponse{}
	}
	return relayErr
}

func formatRelayError(statusCode int, relayErr relayErrorResponse) string {
	if relayErr.Error == "" {
		return fmt.Sprintf("status %d", statusCode)
	}
	if relayErr.ErrorDescription != "" {
		return relayErr.Error + ": " + relayErr.ErrorDescription
	}
	return relayErr.Error
}
