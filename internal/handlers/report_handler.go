package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/khademul4765/arther-hiseb-sub001/internal/errors"
	"github.com/khademul4765/arther-hiseb-sub001/internal/models"
	"github.com/khademul4765/arther-hiseb-sub001/internal/query"
	"github.com/khademul4765/arther-hiseb-sub001/internal/services"
)

// ReportHandler handles statement and summary requests.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetStatement handles statement generation
// @Summary     Get a statement
// @Description Get a filtered, date-grouped statement with daily subtotals for printable views
// @Tags        reports
// @Produce     json
// @Param       X-User-ID   header string true  "User ID"
// @Param       account_id  query  string false "Filter by account ID"
// @Param       type        query  string false "Filter by transaction type (income, expense, transfer)"
// @Param       category_id query  string false "Filter by category ID"
// @Param       from_date   query  string false "Filter by start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date     query  string false "Filter by end date (RFC3339 or YYYY-MM-DD)"
// @Param       search      query  string false "Search note, person, and tags"
// @Success     200 {object} services.Statement "Statement"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/statement [get]
func (h *ReportHandler) GetStatement(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := parseQueryFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	statement, err := h.reportService.GetStatement(userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, statement)
}

// GetSummary handles summary generation
// @Summary     Get a summary
// @Description Get total balance across accounts plus all-time income/expense totals
// @Tags        reports
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Success     200 {object} services.Summary "Summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.reportService.GetSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func parseQueryFilter(c *gin.Context) (query.Filter, error) {
	var filter query.Filter

	if v := c.Query("account_id"); v != "" {
		acctID := v
		filter.AccountID = &acctID
	}

	if v := c.Query("type"); v != "" {
		txType := models.TransactionType(v)
		switch txType {
		case models.TransactionTypeIncome, models.TransactionTypeExpense, models.TransactionTypeTransfer:
			filter.Type = &txType
		default:
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid type, must be income, expense, or transfer")
		}
	}

	if v := c.Query("category_id"); v != "" {
		catID := v
		filter.CategoryID = &catID
	}

	if v := c.Query("from_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.DateStart = &t
	}

	if v := c.Query("to_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.DateEnd = &t
	}

	filter.Search = c.Query("search")

	return filter, nil
}
