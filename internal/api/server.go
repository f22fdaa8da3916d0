// Package api serves and consumes the parse/bank HTTP service.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/portasim/internal/calculation"
	"github.com/rgehrsitz/portasim/internal/catalog"
	"github.com/rgehrsitz/portasim/internal/config"
	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/rgehrsitz/portasim/internal/offer"
	"github.com/rgehrsitz/portasim/internal/parser"
	"github.com/rgehrsitz/portasim/internal/session"
	"github.com/rgehrsitz/portasim/internal/store"
)

// Server exposes the bank catalog, the parser and the simulation over HTTP.
// Every request is evaluated with fresh state; only the catalog is shared.
type Server struct {
	mu       sync.RWMutex
	catalog  catalog.Catalog
	rates    *store.RateStore
	settings config.Settings
	pipeline *session.Pipeline
	logger   calculation.Logger
}

// NewServer creates a server for settings. A nil rate store keeps rates in memory.
func NewServer(settings config.Settings, rates *store.RateStore) *Server {
	if rates == nil {
		rates = store.NewRateStoreWithDefaults(store.NewMemoryKV(), settings.Rates)
	}
	pipeline := session.NewPipeline(session.LocalSource{})
	pipeline.Engine = calculation.NewCalculationEngineWithPolicy(settings.Policy)

	return &Server{
		catalog:  catalog.New(settings.Banks),
		rates:    rates,
		settings: settings,
		pipeline: pipeline,
		logger:   calculation.NopLogger{},
	}
}

// SetLogger sets the logger for the server and its pipeline
func (s *Server) SetLogger(l calculation.Logger) {
	if l == nil {
		s.logger = calculation.NopLogger{}
	} else {
		s.logger = l
	}
	s.pipeline.SetLogger(l)
}

// Catalog returns the current bank catalog
func (s *Server) Catalog() catalog.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Router builds the gin engine with every route registered
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/health", s.health)

	routes := router.Group("/api")
	{
		routes.GET("/bancos", s.listBanks)
		routes.PUT("/bancos/:codigo", s.updateBank)
		routes.POST("/parse-contratos", s.parseContracts)
		routes.POST("/simulacao", s.simulate)
		routes.GET("/taxas", s.getRates)
		routes.PUT("/taxas", s.putRates)
	}
	return router
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "portasim",
		"banks":   s.Catalog().Len(),
	})
}

func (s *Server) listBanks(c *gin.Context) {
	c.JSON(http.StatusOK, s.Catalog().Banks())
}

func (s *Server) updateBank(c *gin.Context) {
	var bank domain.Bank
	if err := c.ShouldBindJSON(&bank); err != nil {
		abort(c, http.StatusBadRequest, "invalid bank", err)
		return
	}
	bank.Code = c.Param("codigo")

	s.mu.Lock()
	updated, err := s.catalog.Upsert(bank)
	if err == nil {
		s.catalog = updated
	}
	s.mu.Unlock()
	if err != nil {
		abort(c, http.StatusBadRequest, "invalid bank", err)
		return
	}

	saved, _ := updated.Find(bank.Code)
	s.logger.Infof("bank %s updated", saved.Code)
	c.JSON(http.StatusOK, saved)
}

func (s *Server) parseContracts(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	records := parser.Parse(req.Texto)
	s.logger.Debugf("parse-contratos: %d record(s)", len(records))
	c.JSON(http.StatusOK, parser.ToRaw(records))
}

func (s *Server) simulate(c *gin.Context) {
	var req SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	state, status, err := s.simulationState(c.Request.Context(), req)
	if err != nil {
		abort(c, status, "invalid simulation", err)
		return
	}

	result, err := s.pipeline.Run(c.Request.Context(), state)
	if err != nil {
		abort(c, http.StatusBadRequest, "simulation failed", err)
		return
	}

	resp := SimulationResponse{
		Banco:       result.Summary.BankName,
		Codigo:      result.Summary.BankCode,
		Prazo:       state.TermMonths,
		Modalidade:  state.Tier,
		Precificado: result.Priced,
		Contratos:   result.Evaluated,
		Excluidos:   state.Excluded.Positions(),
		Total:       result.Summary.TotalAvailable,
		Aviso:       string(result.Notice),
	}
	if text, err := offer.Text(result.Summary); err == nil {
		resp.Texto = text
	}
	c.JSON(http.StatusOK, resp)
}

// simulationState resolves a request into pipeline state. The returned status
// applies when err is not nil.
func (s *Server) simulationState(ctx context.Context, req SimulationRequest) (session.State, int, error) {
	state := session.State{
		Text:       req.Texto,
		TermMonths: s.settings.TermMonths,
		Tier:       s.settings.Tier,
		ClientName: strings.TrimSpace(req.Cliente),
		Excluded:   domain.NewExclusionSet(req.Excluidos...),
	}

	bank, err := s.Catalog().Resolve(req.Banco)
	if err != nil {
		if errors.Is(err, catalog.ErrBankNotFound) {
			return state, http.StatusNotFound, err
		}
		return state, http.StatusBadRequest, err
	}
	state.Bank = bank
	if bank == nil {
		rates, err := s.rates.Load(ctx)
		if err != nil {
			return state, http.StatusInternalServerError, err
		}
		state.Rates = &rates
	}

	if req.Prazo != 0 {
		if !s.settings.TermAllowed(req.Prazo) {
			return state, http.StatusBadRequest, errors.New("term not allowed")
		}
		state.TermMonths = req.Prazo
	}
	if req.Modalidade != "" {
		tier, err := domain.ParseTier(req.Modalidade)
		if err != nil {
			return state, http.StatusBadRequest, err
		}
		state.Tier = tier
	}
	return state, 0, nil
}

func (s *Server) getRates(c *gin.Context) {
	rates, err := s.rates.Load(c.Request.Context())
	if err != nil {
		abort(c, http.StatusInternalServerError, "failed to load rates", err)
		return
	}
	c.JSON(http.StatusOK, rates)
}

func (s *Server) putRates(c *gin.Context) {
	var rates domain.RateConfig
	if err := c.ShouldBindJSON(&rates); err != nil {
		abort(c, http.StatusBadRequest, "invalid rates", err)
		return
	}
	if err := s.rates.Save(c.Request.Context(), rates); err != nil {
		abort(c, http.StatusBadRequest, "invalid rates", err)
		return
	}
	c.JSON(http.StatusOK, rates)
}

func abort(c *gin.Context, status int, message string, err error) {
	c.JSON(status, ErrorResponse{Error: message, Message: err.Error(), Code: status})
}
