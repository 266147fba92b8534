// Package payment talks to the Paystack gateway and verifies its webhook
// signatures.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zertkwork/d2c-food-menu-app/internal/apperrors"
	"github.com/zertkwork/d2c-food-menu-app/pkg/logger"
)

const DefaultBaseURL = "https://api.paystack.co"

type Client struct {
	secret  string
	baseURL string
	httpc   *http.Client
	log     logger.Logger
}

func NewClient(secret string, log logger.Logger) *Client {
	return &Client{
		secret:  secret,
		baseURL: DefaultBaseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

// WithBaseURL overrides the gateway endpoint. Used in tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

type Metadata struct {
	OrderID      int64  `json:"orderId"`
	TrackingID   string `json:"trackingId"`
	CustomerName string `json:"customerName"`
	Phone        string `json:"phone"`
}

type InitializeRequest struct {
	Email       string   `json:"email"`
	AmountMinor int64    `json:"amount"`
	Reference   string   `json:"reference"`
	CallbackURL string   `json:"callback_url"`
	Metadata    Metadata `json:"metadata"`
}

type InitializeResponse struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// InitializeTransaction asks the gateway for a checkout URL. Any non-2xx
// response surfaces as an upstream error; the already-persisted order stays
// in pending_payment.
func (c *Client) InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal initialize request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build initialize request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpstream, "failed to initialize payment", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Action("payment_init_failed").Error("Gateway rejected transaction initialize",
			fmt.Errorf("status %d", resp.StatusCode), "body", string(detail))
		return nil, apperrors.Upstream("failed to initialize payment")
	}

	var parsed struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			AuthorizationURL string `json:"authorization_url"`
			AccessCode       string `json:"access_code"`
			Reference        string `json:"reference"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpstream, "failed to parse gateway response", err)
	}

	return &InitializeResponse{
		AuthorizationURL: parsed.Data.AuthorizationURL,
		AccessCode:       parsed.Data.AccessCode,
		Reference:        parsed.Data.Reference,
	}, nil
}

// Sign computes the hex HMAC-SHA512 of body under secret. Exposed so tests
// and stub clients can produce valid webhook signatures.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook body against the x-paystack-signature
// header value in constant time.
func VerifySignature(secret string, body []byte, signature string) bool {
	expected := Sign(secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
