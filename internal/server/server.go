package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hance08/teller/internal/model"
	"github.com/hance08/teller/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	headerRequestID = "X-Request-ID"
	shutdownTimeout = 5 * time.Second
	maxEntryLimit   = 500
)

// Ledger is the part of the store the HTTP handlers need.
type Ledger interface {
	CreateAccount(ctx context.Context, acc model.Account) error
	GetAccount(ctx context.Context, accountNumber int64) (*model.Account, error)
	ApplyTransaction(ctx context.Context, accountNumber int64, kind model.Kind, amount decimal.Decimal) (*model.Account, error)
	ListEntries(ctx context.Context, accountNumber int64, limit int) ([]*store.Entry, error)
}

type Server struct {
	ledger Ledger
	logger *zap.Logger
	router *gin.Engine
}

type transactionRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

type entryResponse struct {
	ID           string      `json:"id"`
	Kind         string      `json:"kind"`
	Amount       json.Number `json:"amount"`
	BalanceAfter json.Number `json:"balance_after"`
	CreatedAt    string      `json:"created_at"`
}

func New(ledger Ledger, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		ledger: ledger,
		logger: logger.Named("server"),
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.POST("/accounts", s.createAccount)
	r.GET("/accounts/:number", s.getAccount)
	r.GET("/accounts/:number/transactions", s.listEntries)
	r.PUT("/transactions/:number/:kind", s.applyTransaction)

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(headerRequestID, requestID)

		start := time.Now()
		c.Next()

		s.logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

func (s *Server) getAccount(c *gin.Context) {
	number, ok := accountNumber(c)
	if !ok {
		return
	}

	acc, err := s.ledger.GetAccount(c.Request.Context(), number)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, model.ResultFromAccount(*acc))
}

// createAccount opens an account in the dev database, in the same shape the
// other routes return.
func (s *Server) createAccount(c *gin.Context) {
	var req model.TransactionResult
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.AccountNumber <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account number"})
		return
	}

	acc := req.ToAccount()
	if err := s.ledger.CreateAccount(c.Request.Context(), acc); err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, model.ResultFromAccount(acc))
}

func (s *Server) applyTransaction(c *gin.Context) {
	number, ok := accountNumber(c)
	if !ok {
		return
	}

	kind := model.Kind(c.Param("kind"))
	if !kind.Valid() {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown transaction kind " + strconv.Quote(string(kind))})
		return
	}

	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Amount == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount is required"})
		return
	}

	acc, err := s.ledger.ApplyTransaction(c.Request.Context(), number, kind, *req.Amount)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, model.ResultFromAccount(*acc))
}

func (s *Server) listEntries(c *gin.Context) {
	number, ok := accountNumber(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxEntryLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and " + strconv.Itoa(maxEntryLimit)})
			return
		}
		limit = n
	}

	ctx := c.Request.Context()
	if _, err := s.ledger.GetAccount(ctx, number); err != nil {
		s.fail(c, err)
		return
	}

	entries, err := s.ledger.ListEntries(ctx, number, limit)
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, entryResponse{
			ID:           e.ID,
			Kind:         string(e.Kind),
			Amount:       json.Number(e.Amount.String()),
			BalanceAfter: json.Number(e.BalanceAfter.String()),
			CreatedAt:    e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, resp)
}

func accountNumber(c *gin.Context) (int64, bool) {
	number, err := strconv.ParseInt(c.Param("number"), 10, 64)
	if err != nil || number <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account number"})
		return 0, false
	}
	return number, true
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidAmount),
		errors.Is(err, model.ErrInvalidAccount):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrAccountExists),
		errors.Is(err, store.ErrInsufficientFunds),
		errors.Is(err, store.ErrCreditLimitExceeded),
		errors.Is(err, store.ErrOverpayment):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
