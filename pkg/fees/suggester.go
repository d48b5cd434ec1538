package fees

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/params"
)

// DefaultSuggestionEndpoint is the gas API serving EIP-1559 fee suggestions.
// The chain id is interpolated into the path.
const DefaultSuggestionEndpoint = "https://gas.api.cx.metamask.io/networks/%d/suggestedGasFees"

// HTTPSuggester fetches priority-fee suggestions from a gas API
type HTTPSuggester struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPSuggester creates a suggester against the default gas API
func NewHTTPSuggester() *HTTPSuggester {
	return &HTTPSuggester{
		endpoint: DefaultSuggestionEndpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewHTTPSuggesterWithEndpoint creates a suggester against a custom endpoint,
// used by tests
func NewHTTPSuggesterWithEndpoint(endpoint string) *HTTPSuggester {
	s := NewHTTPSuggester()
	s.endpoint = endpoint
	return s
}

// suggestionResponse mirrors the gas API response; fee values are decimal
// gwei strings
type suggestionResponse struct {
	Medium struct {
		SuggestedMaxPriorityFeePerGas string `json:"suggestedMaxPriorityFeePerGas"`
		SuggestedMaxFeePerGas         string `json:"suggestedMaxFeePerGas"`
	} `json:"medium"`
}

// Suggest fetches a medium-tier fee pair for the chain
func (s *HTTPSuggester) Suggest(ctx context.Context, chainID int) (*Quote, error) {
	url := fmt.Sprintf(s.endpoint, chainID)

	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fee suggestion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fee suggestion request failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var suggestion suggestionResponse
	if err := json.Unmarshal(body, &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	maxFee, err := gweiStringToWei(suggestion.Medium.SuggestedMaxFeePerGas)
	if err != nil {
		return nil, fmt.Errorf("invalid max fee in response: %w", err)
	}
	maxPriorityFee, err := gweiStringToWei(suggestion.Medium.SuggestedMaxPriorityFeePerGas)
	if err != nil {
		return nil, fmt.Errorf("invalid priority fee in response: %w", err)
	}

	return DynamicQuote(maxFee, maxPriorityFee), nil
}

// gweiStringToWei converts a decimal gwei string (e.g. "1.5") to wei
func gweiStringToWei(value string) (*big.Int, error) {
	gwei, ok := new(big.Float).SetString(value)
	if !ok {
		return nil, fmt.Errorf("not a number: %q", value)
	}
	if gwei.Sign() < 0 {
		return nil, fmt.Errorf("negative fee: %q", value)
	}

	wei, _ := new(big.Float).Mul(gwei, big.NewFloat(params.GWei)).Int(nil)
	return wei, nil
}
