package notifier

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bgoldmann/darkstore/internal/domain"
)

const SignatureHeader = "X-Escrow-Signature"

// WebhookNotifier posts escrow events to a notification service callback.
// Bodies are signed with HMAC-SHA256 when a secret is configured.
type WebhookNotifier struct {
	callbackURL string
	secret      []byte
	client      *http.Client
}

func NewWebhookNotifier(callbackURL, secret string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookNotifier{
		callbackURL: callbackURL,
		secret:      []byte(secret),
		client:      &http.Client{Timeout: timeout},
	}
}

func (n *WebhookNotifier) PublishEscrowEvent(event domain.EscrowEvent) error {
	body, err := json.Marshal(CallbackPayload{
		OrderRef:        event.OrderRef,
		Action:          event.Action,
		EscrowStatus:    string(event.EscrowStatus),
		PreviousStatus:  string(event.PreviousStatus),
		BuyerID:         event.BuyerID,
		PrimarySellerID: event.PrimarySellerID,
		AmountCents:     event.AmountCents,
		OccurredAt:      event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal callback: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, n.callbackURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if len(n.secret) > 0 {
		req.Header.Set(SignatureHeader, Sign(n.secret, body))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("callback failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("callback returned status %d", resp.StatusCode)
	}
	return nil
}

func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
