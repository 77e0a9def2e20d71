package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/khademul4765/arther-hiseb-sub001/internal/models"
	"github.com/khademul4765/arther-hiseb-sub001/internal/query"
	"github.com/khademul4765/arther-hiseb-sub001/internal/services"
)

// --- mock report service ---

type mockReportService struct {
	getStatementFn func(userID string, filter query.Filter) (*services.Statement, error)
	getSummaryFn   func(userID string) (*services.Summary, error)
}

func (m *mockReportService) GetStatement(userID string, filter query.Filter) (*services.Statement, error) {
	if m.getStatementFn != nil {
		return m.getStatementFn(userID, filter)
	}
	return &services.Statement{GeneratedAt: time.Now()}, nil
}

func (m *mockReportService) GetSummary(userID string) (*services.Summary, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn(userID)
	}
	return &services.Summary{}, nil
}

var _ services.ReportServicer = (*mockReportService)(nil)

func setupReportRouter(handler *ReportHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/reports/statement", handler.GetStatement)
	auth.GET("/reports/summary", handler.GetSummary)
	return r
}

func TestReportHandler_GetStatement(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		var got query.Filter
		svc := &mockReportService{
			getStatementFn: func(_ string, filter query.Filter) (*services.Statement, error) {
				got = filter
				return &services.Statement{GeneratedAt: time.Now()}, nil
			},
		}
		handler := NewReportHandler(svc)
		r := setupReportRouter(handler)

		rec := doRequest(r, "GET", "/reports/statement?type=expense&account_id="+testAccountID+"&from_date=2025-01-01&to_date=2025-01-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Type == nil || *got.Type != models.TransactionTypeExpense {
			t.Error("expected expense type filter")
		}
		if got.AccountID == nil || *got.AccountID != testAccountID {
			t.Error("expected account filter")
		}
		if got.DateStart == nil || got.DateEnd == nil {
			t.Error("expected date range filters")
		}
	})

	t.Run("returns 400 on invalid type", func(t *testing.T) {
		handler := NewReportHandler(&mockReportService{})
		r := setupReportRouter(handler)

		rec := doRequest(r, "GET", "/reports/statement?type=loan", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on bad date", func(t *testing.T) {
		handler := NewReportHandler(&mockReportService{})
		r := setupReportRouter(handler)

		rec := doRequest(r, "GET", "/reports/statement?to_date=soon", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestReportHandler_GetSummary(t *testing.T) {
	t.Run("returns totals", func(t *testing.T) {
		svc := &mockReportService{
			getSummaryFn: func(_ string) (*services.Summary, error) {
				return &services.Summary{
					TotalBalance: 12500,
					Totals:       query.Totals{Income: 20000, Expense: 7500, Net: 12500},
				}, nil
			},
		}
		handler := NewReportHandler(svc)
		r := setupReportRouter(handler)

		rec := doRequest(r, "GET", "/reports/summary", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["total_balance"].(float64) != 12500 {
			t.Errorf("expected total_balance 12500, got %v", result["total_balance"])
		}
	})
}
