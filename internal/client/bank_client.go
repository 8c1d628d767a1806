// Package client talks to the two banking backends: the transaction gateway
// and core banking. Every method folds transport and HTTP failures into a
// typed empty or failure value, so callers never handle errors from here.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/bankpoc/banking-ui/shared/models"
	"github.com/bankpoc/banking-ui/shared/utils"
)

// ConnectFailureMessage is returned when the gateway cannot be reached or
// answers with something that is not a transaction response.
const ConnectFailureMessage = "Failed to connect to the banking system. Please try again."

// maxBodyBytes bounds how much of a backend response is read.
const maxBodyBytes = 4 << 20

type BankClient struct {
	gatewayURL string
	coreURL    string
	httpClient *http.Client
}

func NewBankClient(gatewayURL, coreURL string, timeout time.Duration) *BankClient {
	return &BankClient{
		gatewayURL: gatewayURL,
		coreURL:    coreURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *BankClient) GatewayURL() string { return c.gatewayURL }
func (c *BankClient) CoreURL() string    { return c.coreURL }

// SubmitTransaction posts req to the gateway. Gateway validation failures
// arrive as non-2xx responses whose body is still a TransactionResponse;
// that body is returned as-is.
func (c *BankClient) SubmitTransaction(ctx context.Context, req models.TransactionRequest) models.TransactionResponse {
	failure := models.TransactionResponse{Success: false, Message: ConnectFailureMessage}

	payload, err := json.Marshal(req)
	if err != nil {
		log.Printf("Failed to encode transaction request: %v", err)
		return failure
	}

	resp, err := c.do(ctx, http.MethodPost, c.gatewayURL+"/transaction", payload)
	if err != nil {
		log.Printf("Transaction for card %s failed: %v", utils.MaskCardNumber(req.CardNumber), err)
		return failure
	}
	defer resp.Body.Close()

	var out models.TransactionResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&out); err != nil {
		log.Printf("Undecodable gateway response (HTTP %d) for card %s: %v",
			resp.StatusCode, utils.MaskCardNumber(req.CardNumber), err)
		return failure
	}
	if !isSuccess(resp.StatusCode) {
		out.Success = false
		if out.Message == "" {
			out.Message = ConnectFailureMessage
		}
	}
	return out
}

// CardByUsername returns nil when the card cannot be fetched for any reason.
func (c *BankClient) CardByUsername(ctx context.Context, username string) *models.CardInfo {
	var card models.CardInfo
	if err := c.getJSON(ctx, c.coreURL+"/card/by-username/"+url.PathEscape(username), &card); err != nil {
		log.Printf("Failed to fetch card info for %s: %v", username, err)
		return nil
	}
	return &card
}

// CardByNumber returns nil when the card cannot be fetched for any reason.
func (c *BankClient) CardByNumber(ctx context.Context, cardNumber string) *models.CardInfo {
	var card models.CardInfo
	if err := c.getJSON(ctx, c.coreURL+"/card/"+url.PathEscape(cardNumber), &card); err != nil {
		log.Printf("Failed to fetch card info for %s: %v", utils.MaskCardNumber(cardNumber), err)
		return nil
	}
	return &card
}

// TransactionHistory returns an empty slice on failure.
func (c *BankClient) TransactionHistory(ctx context.Context, cardNumber string) []models.TransactionHistory {
	var history []models.TransactionHistory
	if err := c.getJSON(ctx, c.coreURL+"/transactions/"+url.PathEscape(cardNumber), &history); err != nil {
		log.Printf("Failed to fetch transaction history for %s: %v", utils.MaskCardNumber(cardNumber), err)
		return []models.TransactionHistory{}
	}
	if history == nil {
		return []models.TransactionHistory{}
	}
	return history
}

// AllTransactions returns an empty slice on failure.
func (c *BankClient) AllTransactions(ctx context.Context) []models.TransactionHistory {
	var all []models.TransactionHistory
	if err := c.getJSON(ctx, c.coreURL+"/transactions/all", &all); err != nil {
		log.Printf("Failed to fetch all transactions: %v", err)
		return []models.TransactionHistory{}
	}
	if all == nil {
		return []models.TransactionHistory{}
	}
	return all
}

func (c *BankClient) GatewayHealthy(ctx context.Context) bool {
	return c.healthy(ctx, c.gatewayURL)
}

func (c *BankClient) CoreHealthy(ctx context.Context) bool {
	return c.healthy(ctx, c.coreURL)
}

func (c *BankClient) healthy(ctx context.Context, base string) bool {
	resp, err := c.do(ctx, http.MethodGet, base+"/health", nil)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	return isSuccess(resp.StatusCode)
}

func (c *BankClient) getJSON(ctx context.Context, target string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, target)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", target, err)
	}
	return nil
}

func (c *BankClient) do(ctx context.Context, method, target string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	return resp, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
