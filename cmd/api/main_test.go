package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/junrhy/sakto-ledger/pkg/models"
	"github.com/junrhy/sakto-ledger/pkg/store"
)

func setupTestServer(t *testing.T) *Server {
	dbFile := "test_api_ledger.db"
	os.Remove(dbFile)
	t.Cleanup(func() { os.Remove(dbFile) })

	s, err := store.NewSQLiteStore(dbFile)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(s, logger)
}

func doJSON(t *testing.T, router http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Failed to marshal request: %v", err)
		}
		body = bytes.NewBuffer(b)
	}
	req := httptest.NewRequest(method, path, body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func createTestLoan(t *testing.T, router http.Handler) models.Loan {
	t.Helper()
	rr := doJSON(t, router, "POST", "/loans", map[string]interface{}{
		"borrower_key":  "member_001",
		"amount":        1000.0,
		"interest_rate": 10.0,
		"interest_type": "fixed",
		"frequency":     "annually",
		"start_date":    "2025-01-01T00:00:00Z",
		"end_date":      "2026-01-01T00:00:00Z",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d. Body: %s", rr.Code, rr.Body.String())
	}
	var loan models.Loan
	json.Unmarshal(rr.Body.Bytes(), &loan)
	return loan
}

func TestAPI_CreateAndGetLoan(t *testing.T) {
	server := setupTestServer(t)
	router := server.routes()

	created := createTestLoan(t, router)

	// 1000 at 10% annually over one year.
	if !created.TotalInterest.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected total interest 100, got %s", created.TotalInterest)
	}
	if !created.TotalBalance.Equal(decimal.NewFromInt(1100)) {
		t.Errorf("Expected total balance 1100, got %s", created.TotalBalance)
	}
	if created.Status != models.LoanStatusActive {
		t.Errorf("Expected status active, got %s", created.Status)
	}

	rr := doJSON(t, router, "GET", "/loans/"+created.ID.String(), nil)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	var fetched models.Loan
	json.Unmarshal(rr.Body.Bytes(), &fetched)
	if fetched.ID != created.ID {
		t.Errorf("Expected ID %s, got %s", created.ID, fetched.ID)
	}
}

func TestAPI_GetLoan_NotFound(t *testing.T) {
	server := setupTestServer(t)
	router := server.routes()

	rr := doJSON(t, router, "GET", "/loans/11111111-2222-3333-4444-555555555555", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestAPI_RecordPayment(t *testing.T) {
	server := setupTestServer(t)
	router := server.routes()

	loan := createTestLoan(t, router)

	rr := doJSON(t, router, "POST", "/loans/"+loan.ID.String()+"/payments", map[string]interface{}{
		"amount": 200.0,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d. Body: %s", rr.Code, rr.Body.String())
	}
	var payment models.Payment
	json.Unmarshal(rr.Body.Bytes(), &payment)
	if !payment.Amount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected amount 200, got %s", payment.Amount)
	}

	rr = doJSON(t, router, "GET", "/loans/"+loan.ID.String(), nil)
	var fetched models.Loan
	json.Unmarshal(rr.Body.Bytes(), &fetched)
	if !fetched.PaidAmount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected paid amount 200, got %s", fetched.PaidAmount)
	}
}

func TestAPI_RecordPayment_Overpayment(t *testing.T) {
	server := setupTestServer(t)
	router := server.routes()

	loan := createTestLoan(t, router)

	// The total balance is 1100; paying more must be rejected.
	rr := doJSON(t, router, "POST", "/loans/"+loan.ID.String()+"/payments", map[string]interface{}{
		"amount": 1200.0,
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d. Body: %s", rr.Code, rr.Body.String())
	}
}

func TestAPI_SetLoanStatus_Invalid(t *testing.T) {
	server := setupTestServer(t)
	router := server.routes()

	loan := createTestLoan(t, router)

	rr := doJSON(t, router, "PUT", "/loans/"+loan.ID.String()+"/status", map[string]interface{}{
		"status": "frozen",
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d. Body: %s", rr.Code, rr.Body.String())
	}
}

func TestAPI_IssueBill(t *testing.T) {
	server := setupTestServer(t)
	router := server.routes()

	loan := createTestLoan(t, router)

	rr := doJSON(t, router, "POST", "/loans/"+loan.ID.String()+"/bills", map[string]interface{}{
		"due_date":       "2025-02-01T00:00:00Z",
		"penalty_amount": 15.0,
		"note":           "first notice",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d. Body: %s", rr.Code, rr.Body.String())
	}
	var bill models.Bill
	json.Unmarshal(rr.Body.Bytes(), &bill)
	if bill.BillNumber != 1 {
		t.Errorf("Expected bill number 1, got %d", bill.BillNumber)
	}
	if !bill.TotalAmountDue.Equal(decimal.NewFromInt(1115)) {
		t.Errorf("Expected total due 1115, got %s", bill.TotalAmountDue)
	}
}

func TestAPI_FundLifecycle(t *testing.T) {
	server := setupTestServer(t)
	router := server.routes()

	rr := doJSON(t, router, "POST", "/funds", map[string]interface{}{
		"name":            "Coop CBU",
		"target_amount":   100000.0,
		"value_per_share": 100.0,
		"start_date":      "2025-01-01T00:00:00Z",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d. Body: %s", rr.Code, rr.Body.String())
	}
	var fund models.CbuFund
	json.Unmarshal(rr.Body.Bytes(), &fund)

	rr = doJSON(t, router, "POST", "/funds/"+fund.ID.String()+"/contributions", map[string]interface{}{
		"amount": 950.0,
		"date":   "2025-02-01T00:00:00Z",
		"notes":  "february",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d. Body: %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, router, "GET", "/funds/"+fund.ID.String(), nil)
	var fetched models.CbuFund
	json.Unmarshal(rr.Body.Bytes(), &fetched)
	if !fetched.TotalAmount.Equal(decimal.NewFromInt(950)) {
		t.Errorf("Expected total 950, got %s", fetched.TotalAmount)
	}
	if fetched.NumberOfShares != 10 {
		t.Errorf("Expected 10 shares, got %d", fetched.NumberOfShares)
	}

	// Withdrawing more than the balance is rejected.
	rr = doJSON(t, router, "POST", "/funds/"+fund.ID.String()+"/withdrawals", map[string]interface{}{
		"amount": 1000.0,
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d. Body: %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, router, "GET", "/funds/"+fund.ID.String()+"/history", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var history []models.CbuHistoryEntry
	json.Unmarshal(rr.Body.Bytes(), &history)
	if len(history) != 1 {
		t.Errorf("Expected 1 history entry, got %d", len(history))
	}
}

func TestAPI_CbuReport(t *testing.T) {
	server := setupTestServer(t)
	router := server.routes()

	rr := doJSON(t, router, "POST", "/funds", map[string]interface{}{
		"name":            "Coop CBU",
		"target_amount":   100000.0,
		"value_per_share": 100.0,
		"start_date":      "2025-01-01T00:00:00Z",
	})
	var fund models.CbuFund
	json.Unmarshal(rr.Body.Bytes(), &fund)

	doJSON(t, router, "POST", "/funds/"+fund.ID.String()+"/contributions", map[string]interface{}{
		"amount": 300.0,
		"date":   "2025-03-15T00:00:00Z",
	})

	rr = doJSON(t, router, "GET", "/cbu/report?from=2025-03-01&to=2025-03-31", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", rr.Code, rr.Body.String())
	}
	var rep models.CbuReport
	json.Unmarshal(rr.Body.Bytes(), &rep)
	if rep.TotalFunds != 1 {
		t.Errorf("Expected 1 fund, got %d", rep.TotalFunds)
	}
	if !rep.TotalContributions.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Expected contributions 300, got %s", rep.TotalContributions)
	}

	rr = doJSON(t, router, "GET", "/cbu/report?from=bad&to=2025-03-31", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for bad date, got %d", rr.Code)
	}
}
