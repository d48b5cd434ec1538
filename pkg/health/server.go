package health

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/scroll-fleet/deployer/pkg/chainclient"
	"github.com/scroll-fleet/deployer/pkg/circuitbreaker"
	"github.com/scroll-fleet/deployer/pkg/deployer"
)

// Server represents a health check HTTP server
type Server struct {
	port          string
	chains        map[int]*chainclient.Client
	addresses     []common.Address
	breaker       *circuitbreaker.CircuitBreaker
	tally         func() deployer.Tally
	metricsAPIKey string
}

// NewServer creates a new health check server. The tally callback reports the
// run's current deployment accounting; balances of the given addresses are
// exposed on the status endpoint.
func NewServer(port string, chains map[int]*chainclient.Client, addresses []common.Address, breaker *circuitbreaker.CircuitBreaker, tally func() deployer.Tally) *Server {
	return &Server{
		port:          port,
		chains:        chains,
		addresses:     addresses,
		breaker:       breaker,
		tally:         tally,
		metricsAPIKey: os.Getenv("METRICS_API_KEY"),
	}
}

// metricsAuthMiddleware is a middleware that checks for a valid API key
func (s *Server) metricsAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip auth if no API key is configured
		if s.metricsAPIKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
			return
		}

		if parts[1] != s.metricsAPIKey {
			http.Error(w, "Invalid API key", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Start starts the health check server
func (s *Server) Start() {
	// Health check endpoint
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Readiness check
	http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		for chainID, client := range s.chains {
			if client == nil || client.Backend == nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(fmt.Sprintf("Chain %d client not connected", chainID)))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Ready"))
	})

	// Chain and run status endpoint
	http.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		status := make(map[string]interface{})

		for chainID, client := range s.chains {
			chainStatus := map[string]interface{}{
				"rpc_url":   client.RPCURL,
				"connected": client.Backend != nil,
			}

			if client.Backend != nil {
				blockNumber, err := client.LatestBlockNumber(r.Context())
				if err == nil {
					chainStatus["latest_block"] = blockNumber
				}

				balances := make(map[string]string)
				for _, address := range s.addresses {
					if balance, err := client.Balance(r.Context(), address); err == nil {
						balances[address.Hex()] = balance.String()
					}
				}
				if len(balances) > 0 {
					chainStatus["account_balances"] = balances
				}
			}

			status[fmt.Sprintf("chain_%d", chainID)] = chainStatus
		}

		circuitStatus := "closed"
		if s.breaker != nil && s.breaker.IsOpen() {
			circuitStatus = "open"
		}
		status["circuit"] = circuitStatus

		if s.tally != nil {
			tally := s.tally()
			status["run"] = map[string]interface{}{
				"deployed": tally.Deployed,
				"failed":   tally.Failed,
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Printf("Error encoding status JSON: %v", err)
		}
	})

	// Circuit breaker admin control endpoint
	http.HandleFunc("/circuit/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		if s.breaker == nil {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("No circuit breaker configured"))
			return
		}

		s.breaker.Reset()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Circuit breaker reset"))
	})

	// Expose Prometheus metrics with API key authentication
	http.Handle("/metrics", s.metricsAuthMiddleware(promhttp.Handler()))

	log.Printf("Starting health and metrics server on port %s", s.port)
	if err := http.ListenAndServe(":"+s.port, nil); err != nil {
		log.Printf("Health server error: %v", err)
	}
}
