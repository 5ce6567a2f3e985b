package integrations

import (
	"context"
	"log"
)

const productionNotImplemented = "Production integration not yet implemented"

// EPristatymasClient is the network adapter for E. pristatymas. The protocol
// requires a signed service agreement; until then only configuration is checked.
type EPristatymasClient struct {
	baseURL string
	apiKey  string
}

func NewEPristatymasClient(baseURL, apiKey string) *EPristatymasClient {
	return &EPristatymasClient{baseURL: baseURL, apiKey: apiKey}
}

func (c *EPristatymasClient) Channel() string { return ChannelEPristatymas }

func (c *EPristatymasClient) DeliverLetter(ctx context.Context, letter LetterDelivery) Result {
	if c.baseURL == "" || c.apiKey == "" {
		return Result{Success: false, Error: "E. pristatymas configuration missing"}
	}
	log.Printf("[DELIVERY] E. pristatymas delivery requested for letter %s", letter.LetterID)
	return Result{Success: false, Error: productionNotImplemented}
}

// ETeismasClient is the network adapter for the LITEKO e-filing backend.
type ETeismasClient struct {
	baseURL string
	apiKey  string
}

func NewETeismasClient(baseURL, apiKey string) *ETeismasClient {
	return &ETeismasClient{baseURL: baseURL, apiKey: apiKey}
}

func (c *ETeismasClient) Channel() string { return ChannelETeismas }

func (c *ETeismasClient) SubmitFiling(ctx context.Context, filing FilingSubmission) Result {
	if c.baseURL == "" || c.apiKey == "" {
		return Result{Success: false, Error: "e.teismas configuration missing"}
	}
	log.Printf("[DELIVERY] e.teismas submission requested for filing %s", filing.FilingID)
	return Result{Success: false, Error: productionNotImplemented}
}
