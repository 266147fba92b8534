package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zertkwork/d2c-food-menu-app/internal/apperrors"
	"github.com/zertkwork/d2c-food-menu-app/pkg/logger"
)

func TestSignAndVerify(t *testing.T) {
	secret := "sk_test_secret"
	body := []byte(`{"event":"charge.success"}`)

	sig := Sign(secret, body)
	if len(sig) != 128 {
		t.Fatalf("SHA-512 hex digest length = %d, want 128", len(sig))
	}

	if !VerifySignature(secret, body, sig) {
		t.Error("valid signature rejected")
	}
	if VerifySignature("other-secret", body, sig) {
		t.Error("signature verified under the wrong secret")
	}
	if VerifySignature(secret, []byte(`{"event":"charge.failed"}`), sig) {
		t.Error("signature verified for a different body")
	}

	// A single flipped character must fail.
	mutated := []byte(sig)
	if mutated[10] == 'a' {
		mutated[10] = 'b'
	} else {
		mutated[10] = 'a'
	}
	if VerifySignature(secret, body, string(mutated)) {
		t.Error("mutated signature verified")
	}
}

func TestInitializeTransaction(t *testing.T) {
	var gotAuth string
	var gotReq InitializeRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/initialize" {
			t.Errorf("path = %q, want /transaction/initialize", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data": map[string]string{
				"authorization_url": "https://checkout.paystack.com/xyz",
				"access_code":       "xyz",
				"reference":         gotReq.Reference,
			},
		})
	}))
	defer srv.Close()

	client := NewClient("sk_test_secret", logger.Discard()).WithBaseURL(srv.URL)

	resp, err := client.InitializeTransaction(context.Background(), InitializeRequest{
		Email:       "customer@example.com",
		AmountMinor: 500000,
		Reference:   "ref-1",
		CallbackURL: "http://localhost:3000/track-order/ORD-X",
	})
	if err != nil {
		t.Fatalf("InitializeTransaction() error: %v", err)
	}

	if gotAuth != "Bearer sk_test_secret" {
		t.Errorf("authorization header = %q", gotAuth)
	}
	if gotReq.AmountMinor != 500000 {
		t.Errorf("amount = %d, want 500000", gotReq.AmountMinor)
	}
	if resp.AuthorizationURL != "https://checkout.paystack.com/xyz" {
		t.Errorf("authorization url = %q", resp.AuthorizationURL)
	}
	if resp.Reference != "ref-1" {
		t.Errorf("reference = %q, want ref-1", resp.Reference)
	}
}

func TestInitializeTransactionUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	}))
	defer srv.Close()

	client := NewClient("bad-key", logger.Discard()).WithBaseURL(srv.URL)

	_, err := client.InitializeTransaction(context.Background(), InitializeRequest{Reference: "ref-1"})
	if apperrors.KindOf(err) != apperrors.KindUpstream {
		t.Errorf("error kind = %v, want upstream (err: %v)", apperrors.KindOf(err), err)
	}
}
