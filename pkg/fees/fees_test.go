package fees

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scroll-fleet/deployer/pkg/logger"
)

type stubSuggester struct {
	quote *Quote
	err   error
}

func (s *stubSuggester) Suggest(_ context.Context, _ int) (*Quote, error) {
	return s.quote, s.err
}

type stubGasPriceSource struct {
	price *big.Int
	err   error
	calls int
}

func (s *stubGasPriceSource) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	s.calls++
	return s.price, s.err
}

func TestSuggestFeePrefersSuggestion(t *testing.T) {
	want := DynamicQuote(big.NewInt(2000000000), big.NewInt(100000000))
	estimator := NewEstimator(&stubSuggester{quote: want}, &logger.EmptyLogger{})
	source := &stubGasPriceSource{price: big.NewInt(1)}

	quote, err := estimator.SuggestFee(context.Background(), 534352, source)
	require.NoError(t, err)
	assert.Equal(t, want, quote)
	assert.Equal(t, 0, source.calls)
}

func TestSuggestFeeFallsBackToLegacyGasPrice(t *testing.T) {
	estimator := NewEstimator(&stubSuggester{err: errors.New("unsupported chain")}, &logger.EmptyLogger{})
	source := &stubGasPriceSource{price: big.NewInt(100000000)}

	quote, err := estimator.SuggestFee(context.Background(), 534352, source)
	require.NoError(t, err)
	assert.False(t, quote.Dynamic)
	assert.Equal(t, 0, big.NewInt(100000000).Cmp(quote.GasPrice))
}

func TestSuggestFeeFailsOnlyWhenFallbackFails(t *testing.T) {
	estimator := NewEstimator(&stubSuggester{err: errors.New("unsupported chain")}, &logger.EmptyLogger{})
	source := &stubGasPriceSource{err: errors.New("rpc down")}

	_, err := estimator.SuggestFee(context.Background(), 534352, source)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fallback gas price")
}
