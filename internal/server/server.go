package server

import (
	"StaffRankService/internal/config"
	"StaffRankService/internal/models/domain"
	"StaffRankService/internal/scoring"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/gorilla/mux"
)

// Pipeline is the report engine consumed by the HTTP layer.
type Pipeline interface {
	Run(ctx context.Context, req scoring.Request) (*domain.Report, error)
}

// Departments lists the department filter values.
type Departments interface {
	ListDepartments(ctx context.Context) ([]string, error)
}

// Server exposes the performance report API.
type Server struct {
	httpServer  *http.Server
	cfg         *config.Config
	pipeline    Pipeline
	departments Departments
	log         *slog.Logger
}

// New creates the HTTP server and wires up the routes.
func New(logger *slog.Logger, cfg *config.Config, pipeline Pipeline, departments Departments) *Server {
	s := &Server{
		cfg:         cfg,
		pipeline:    pipeline,
		departments: departments,
		log:         logger.With(slog.String("component", "server")),
	}

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/performance/ranking", s.handleRanking).Methods(http.MethodGet)
	api.HandleFunc("/performance/ranking/export", s.handleExportCSV).Methods(http.MethodGet)
	api.HandleFunc("/performance/staff/{id}", s.handleStaffReport).Methods(http.MethodGet)
	api.HandleFunc("/departments", s.handleDepartments).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.HttpServer.Address, cfg.HttpServer.Port),
		Handler:      router,
		ReadTimeout:  cfg.HttpServer.ReadTimeout,
		WriteTimeout: cfg.HttpServer.WriteTimeout,
	}

	return s
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	s.log.Info("http server listening", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server, draining in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
