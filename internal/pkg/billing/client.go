// Package billing is the read-only client for the external subscription
// provider. The core never writes billing state; it reads subscription status
// and purchased seat counts, and the reconciliation job folds them back into
// the companies table.
package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/torqsight/maintenance-backend-go/internal/config"
	"github.com/torqsight/maintenance-backend-go/internal/domain/company"
)

// Status is the provider's view of one subscription.
type Status struct {
	Status       company.SubscriptionStatus `json:"status"`
	SeatsManager int                        `json:"seats_manager"`
	SeatsTech    int                        `json:"seats_tech"`
}

// StatusProvider is the hook the reconciliation job consumes.
type StatusProvider interface {
	SubscriptionStatus(ctx context.Context, subscriptionID string) (Status, error)
}

// APIError represents a billing API error
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("billing API error [%d]: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a provider client authenticated with client credentials.
func NewClient(cfg config.BillingConfig) *Client {
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}

	httpClient := cc.Client(context.Background())
	httpClient.Timeout = 15 * time.Second

	return &Client{
		baseURL: cfg.BaseURL,
		http:    httpClient,
	}
}

// SubscriptionStatus implements StatusProvider.
func (c *Client) SubscriptionStatus(ctx context.Context, subscriptionID string) (Status, error) {
	url := fmt.Sprintf("%s/v1/subscriptions/%s", c.baseURL, subscriptionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Status{}, fmt.Errorf("build subscription request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Status{}, fmt.Errorf("fetch subscription %s: %w", subscriptionID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Provider no longer knows the subscription: treat as lapsed.
		return Status{Status: company.StatusNone}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return Status{}, &APIError{StatusCode: resp.StatusCode, Message: "unexpected response"}
	}

	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return Status{}, fmt.Errorf("decode subscription %s: %w", subscriptionID, err)
	}
	return st, nil
}
