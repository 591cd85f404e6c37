package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"loantrack/pkg/config"
	"loantrack/pkg/ledger"
	"loantrack/pkg/models"
	"loantrack/pkg/notify"
	"loantrack/pkg/store"
)

// Server holds the ledger instance and the presentation-side collaborators.
type Server struct {
	ledger  *ledger.Ledger
	storage store.Storage
	banner  *notify.Banner
	logger  *zap.Logger
}

func NewServer(s store.Storage, banner *notify.Banner, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		ledger:  ledger.NewLedger(s, logger),
		storage: s,
		banner:  banner,
		logger:  logger,
	}
}

// loanView is a loan plus display-formatted amounts. Rounding happens only
// here; the ledger and math hold raw float64 values.
type loanView struct {
	models.Loan
	Outstanding     string `json:"outstanding"`
	MonthlyDisplay  string `json:"monthly_display"`
	RemainingMonths int    `json:"remaining_months"`
	FullyPaid       bool   `json:"fully_paid"`
}

func (s *Server) viewOf(loan *models.Loan) loanView {
	return loanView{
		Loan:            *loan,
		Outstanding:     decimal.NewFromFloat(s.ledger.Outstanding(loan)).StringFixed(2),
		MonthlyDisplay:  decimal.NewFromFloat(loan.Installment).StringFixed(2),
		RemainingMonths: loan.TenureMonths - loan.PaidMonths,
		FullyPaid:       loan.Retired(),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response",
			zap.String("op", "api.writeJSON"),
			zap.Error(err),
		)
	}
}

func (s *Server) listLoansHandler(w http.ResponseWriter, r *http.Request) {
	loans, err := s.ledger.GetAllLoans()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	views := make([]loanView, 0, len(loans))
	for _, loan := range loans {
		views = append(views, s.viewOf(loan))
	}
	s.writeJSON(w, http.StatusOK, views)
}

func (s *Server) createLoanHandler(w http.ResponseWriter, r *http.Request) {
	var draft models.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	loan, err := s.ledger.AddLoan(draft)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidDraft) {
			s.banner.Show(notify.KindError, err.Error())
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Error("failed to add loan",
			zap.String("op", "api.createLoan"),
			zap.Error(err),
		)
		http.Error(w, fmt.Sprintf("Failed to add loan: %v", err), http.StatusInternalServerError)
		return
	}

	s.banner.Show(notify.KindSuccess, fmt.Sprintf("Loan %q added", loan.Name))
	s.writeJSON(w, http.StatusCreated, s.viewOf(loan))
}

func (s *Server) getLoanHandler(w http.ResponseWriter, r *http.Request) {
	loanID, ok := s.loanID(w, r)
	if !ok {
		return
	}

	loan, err := s.ledger.GetLoan(loanID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "Loan not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	s.writeJSON(w, http.StatusOK, s.viewOf(loan))
}

func (s *Server) updateLoanHandler(w http.ResponseWriter, r *http.Request) {
	loanID, ok := s.loanID(w, r)
	if !ok {
		return
	}

	var draft models.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.editLoan(w, loanID, draft)
}

// patchLoanHandler applies a partial edit: the request body maps field names
// to new values and unnamed fields keep their stored values.
func (s *Server) patchLoanHandler(w http.ResponseWriter, r *http.Request) {
	loanID, ok := s.loanID(w, r)
	if !ok {
		return
	}

	var changes map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	loan, err := s.ledger.GetLoan(loanID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "Loan not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	draft := models.DraftOf(loan)
	for name, raw := range changes {
		var value models.FieldValue
		switch v := raw.(type) {
		case string:
			value = models.String(v)
		case float64:
			value = models.Number(v)
		default:
			http.Error(w, fmt.Sprintf("field %q has an unsupported value type", name), http.StatusBadRequest)
			return
		}
		if err := draft.Set(models.Field(name), value); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	s.editLoan(w, loanID, draft)
}

func (s *Server) editLoan(w http.ResponseWriter, loanID uuid.UUID, draft models.Draft) {
	loan, err := s.ledger.EditLoan(loanID, draft)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidDraft):
			s.banner.Show(notify.KindError, err.Error())
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ledger.ErrNotFound):
			http.Error(w, "Loan not found", http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	s.banner.Show(notify.KindSuccess, fmt.Sprintf("Loan %q updated", loan.Name))
	s.writeJSON(w, http.StatusOK, s.viewOf(loan))
}

func (s *Server) deleteLoanHandler(w http.ResponseWriter, r *http.Request) {
	loanID, ok := s.loanID(w, r)
	if !ok {
		return
	}

	if err := s.ledger.DeleteLoan(loanID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.banner.Show(notify.KindSuccess, "Loan deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) recordPaymentHandler(w http.ResponseWriter, r *http.Request) {
	loanID, ok := s.loanID(w, r)
	if !ok {
		return
	}

	loan, err := s.ledger.RecordPayment(loanID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			http.Error(w, "Loan not found", http.StatusNotFound)
		case errors.Is(err, ledger.ErrLoanRetired):
			s.banner.Show(notify.KindError, err.Error())
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	s.banner.Show(notify.KindSuccess, fmt.Sprintf("Payment %d of %d recorded", loan.PaidMonths, loan.TenureMonths))
	s.writeJSON(w, http.StatusCreated, s.viewOf(loan))
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.banner.Current())
}

func (s *Server) loanID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	loanID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid loan ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return loanID, true
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/loans", s.listLoansHandler).Methods("GET")
	router.HandleFunc("/loans", s.createLoanHandler).Methods("POST")
	router.HandleFunc("/loans/{id}", s.getLoanHandler).Methods("GET")
	router.HandleFunc("/loans/{id}", s.updateLoanHandler).Methods("PUT")
	router.HandleFunc("/loans/{id}", s.patchLoanHandler).Methods("PATCH")
	router.HandleFunc("/loans/{id}", s.deleteLoanHandler).Methods("DELETE")
	router.HandleFunc("/loans/{id}/payments", s.recordPaymentHandler).Methods("POST")
	router.HandleFunc("/status", s.statusHandler).Methods("GET")
	return router
}

// initializeLogger creates a zap logger based on configuration and CLI override.
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info", "":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	var zapConfig zap.Config
	switch loggingConfig.Format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
	case "json", "":
		zapConfig = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", loggingConfig.Format)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	return zapConfig.Build()
}

func main() {
	configLocation := flag.String("config", "config.yml", "path to configuration file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	memoryStore := store.NewMemoryStore()
	defer memoryStore.Close()

	banner := notify.NewBanner(time.Duration(conf.Banner.TTLSeconds) * time.Second)
	defer banner.Stop()

	server := NewServer(memoryStore, banner, logger)

	httpServer := &http.Server{
		Addr:         conf.Server.ListenAddress,
		Handler:      server.routes(),
		ReadTimeout:  time.Duration(conf.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(conf.Server.WriteTimeoutSeconds) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("op", "main"),
			zap.String("address", conf.Server.ListenAddress),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Fatal("server failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	case <-quit:
		logger.Info("shutting down",
			zap.String("op", "main"),
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("error during server shutdown",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
