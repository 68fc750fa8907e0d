// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/nft-dashboard/internal/models"
)

// DashboardServiceInterface defines the wallet-scoped read operations the
// handlers invoke. The service never fails these outward; an upstream outage
// is served as an empty result set.
type DashboardServiceInterface interface {
	ListNFTs(ctx context.Context, wallet string) []models.NFT
	CountNFTs(ctx context.Context, wallet string) int
	TransactionHistory(ctx context.Context, wallet string) []models.Transaction
	CountTransactions(ctx context.Context, wallet string) int
	CountCurrentMonthTransactions(ctx context.Context, wallet string) int
	MonthlyTransactionCounts(ctx context.Context, wallet string) map[string]int
	TransferHistory(ctx context.Context, wallet string) []models.AssetTransferHistory
}

// ProfileStoreInterface defines profile persistence operations.
type ProfileStoreInterface interface {
	GetByWallet(ctx context.Context, wallet string) (*models.UserProfile, error)
	Upsert(ctx context.Context, profile *models.UserProfile) error
}

// Server represents the HTTP API server.
type Server struct {
	router       *mux.Router
	httpServer   *http.Server
	dashboard    DashboardServiceInterface
	profileStore ProfileStoreInterface
	config       *ServerConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RateLimitRPS    int // Requests per second per client
	RateLimitBurst  int
}

// NewServer creates a new API server instance.
func NewServer(config *ServerConfig, dashboard DashboardServiceInterface, profileStore ProfileStoreInterface) *Server {
	s := &Server{
		router:       mux.NewRouter(),
		dashboard:    dashboard,
		profileStore: profileStore,
		config:       config,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.RateLimitRPS, s.config.RateLimitBurst)

	// Set up middleware (order matters!)
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(CORSMiddleware)
	s.router.Use(RateLimitMiddleware(rateLimiter))
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes. The endpoint surface mirrors the
// dashboard frontend's expectations.
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// NFT endpoints
	s.router.HandleFunc("/nfts", s.handleListNFTs).Methods("GET")
	s.router.HandleFunc("/nfts/total", s.handleCountNFTs).Methods("GET")
	s.router.HandleFunc("/nfts/transactions", s.handleTransactions).Methods("GET")
	s.router.HandleFunc("/nfts/transactions/total", s.handleCountTransactions).Methods("GET")
	s.router.HandleFunc("/nfts/transactions/current-month/total", s.handleCountCurrentMonth).Methods("GET")
	s.router.HandleFunc("/nfts/transactions/monthly", s.handleMonthlyCounts).Methods("GET")
	s.router.HandleFunc("/nfts/transfers", s.handleTransferHistory).Methods("GET")

	// Profile endpoints
	s.router.HandleFunc("/nfts/profile", s.handleGetProfile).Methods("GET")
	s.router.HandleFunc("/nfts/update_profile", s.handleUpdateProfile).Methods("POST")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "nft-dashboard",
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Printf("Starting API server on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down API server...")
	return s.httpServer.Shutdown(ctx)
}
