package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/junrhy/sakto-ledger/pkg/ledger"
	"github.com/junrhy/sakto-ledger/pkg/store"
)

// Server holds the ledger instance.
type Server struct {
	ledger  *ledger.Ledger
	storage store.Storage // Keep a reference to the storage to close it
	logger  *slog.Logger
}

func NewServer(s store.Storage, logger *slog.Logger) *Server {
	return &Server{
		ledger:  ledger.NewLedger(s),
		storage: s,
		logger:  logger,
	}
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/loans", s.listLoansHandler).Methods("GET")
	router.HandleFunc("/loans", s.createLoanHandler).Methods("POST")
	router.HandleFunc("/loans/{id}", s.getLoanHandler).Methods("GET")
	router.HandleFunc("/loans/{id}", s.updateLoanHandler).Methods("PUT")
	router.HandleFunc("/loans/{id}", s.deleteLoanHandler).Methods("DELETE")
	router.HandleFunc("/loans/{id}/status", s.setLoanStatusHandler).Methods("PUT")
	router.HandleFunc("/loans/{id}/payments", s.recordPaymentHandler).Methods("POST")
	router.HandleFunc("/loans/{id}/payments", s.listPaymentsHandler).Methods("GET")
	router.HandleFunc("/payments/{id}", s.deletePaymentHandler).Methods("DELETE")
	router.HandleFunc("/loans/{id}/interest", s.interestBreakdownHandler).Methods("GET")
	router.HandleFunc("/loans/{id}/installment", s.installmentHandler).Methods("GET")
	router.HandleFunc("/loans/{id}/credit-score", s.creditScoreHandler).Methods("GET")
	router.HandleFunc("/loans/{id}/bills", s.issueBillHandler).Methods("POST")
	router.HandleFunc("/loans/{id}/bills", s.listBillsHandler).Methods("GET")
	router.HandleFunc("/bills/{id}/status", s.setBillStatusHandler).Methods("PUT")
	router.HandleFunc("/bills/{id}", s.deleteBillHandler).Methods("DELETE")

	router.HandleFunc("/funds", s.listFundsHandler).Methods("GET")
	router.HandleFunc("/funds", s.createFundHandler).Methods("POST")
	router.HandleFunc("/funds/{id}", s.getFundHandler).Methods("GET")
	router.HandleFunc("/funds/{id}", s.updateFundHandler).Methods("PUT")
	router.HandleFunc("/funds/{id}", s.deleteFundHandler).Methods("DELETE")
	router.HandleFunc("/funds/{id}/contributions", s.contributeHandler).Methods("POST")
	router.HandleFunc("/funds/{id}/withdrawals", s.withdrawHandler).Methods("POST")
	router.HandleFunc("/funds/{id}/dividends", s.payDividendHandler).Methods("POST")
	router.HandleFunc("/funds/{id}/history", s.fundHistoryHandler).Methods("GET")
	router.HandleFunc("/cbu/report", s.cbuReportHandler).Methods("GET")

	return router
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Optional .env; environment variables win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("could not load .env", "error", err)
	}

	addr := envOr("ADDR", ":8080")
	dbPath := envOr("DB_PATH", "sakto.db")

	sqliteStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Error("failed to initialize SQLite store", "error", err)
		os.Exit(1)
	}
	defer sqliteStore.Close()
	logger.Info("database ready", "path", dbPath)

	server := NewServer(sqliteStore, logger)

	logger.Info("server starting", "addr", addr)
	if err := http.ListenAndServe(addr, server.routes()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
