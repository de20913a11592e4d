package payment

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appcfg "github.com/eduspace/core/internal/config"
)

const defaultGatewayEndpoint = "https://api.razorpay.com"

// gatewayClient is a thin Razorpay Orders API client. Only order creation is
// needed; capture happens on the client side and is confirmed via signature.
type gatewayClient struct {
	endpoint  string
	keyID     string
	keySecret string
	http      *http.Client
}

func newGatewayClient(opts appcfg.PaymentOptions) *gatewayClient {
	endpoint := strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/")
	if endpoint == "" {
		endpoint = defaultGatewayEndpoint
	}
	return &gatewayClient{
		endpoint:  endpoint,
		keyID:     strings.TrimSpace(opts.KeyID),
		keySecret: strings.TrimSpace(opts.KeySecret),
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

type gatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// CreateOrder creates a gateway order for amount in minor currency units.
func (g *gatewayClient) CreateOrder(amount int64, currency, receipt string) (*gatewayOrder, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	})

	req, err := http.NewRequest(http.MethodPost, g.endpoint+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var gwErr struct {
			Error struct {
				Description string `json:"description"`
			} `json:"error"`
		}
		if json.Unmarshal(respBody, &gwErr) == nil && gwErr.Error.Description != "" {
			return nil, fmt.Errorf("payment gateway: %s", gwErr.Error.Description)
		}
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var order gatewayOrder
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, err
	}
	if order.ID == "" {
		return nil, fmt.Errorf("payment gateway returned no order id")
	}
	return &order, nil
}

// VerifySignature checks the gateway callback signature: HMAC-SHA256 of
// "orderID|paymentID" keyed with the secret, hex encoded.
func VerifySignature(keySecret, orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(signature))) == 1
}
