package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/khademul4765/arther-hiseb-sub001/internal/errors"
	"github.com/khademul4765/arther-hiseb-sub001/internal/models"
	"github.com/khademul4765/arther-hiseb-sub001/internal/pagination"
	"github.com/khademul4765/arther-hiseb-sub001/internal/services"
	"github.com/khademul4765/arther-hiseb-sub001/internal/undo"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
	undoManager        *undo.Manager
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer, undoManager *undo.Manager) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService, undoManager: undoManager}
}

// CreateTransactionRequest represents the request payload for creating a transaction
type CreateTransactionRequest struct {
	AccountID  string                 `json:"account_id" binding:"required,uuid"`
	CategoryID *string                `json:"category_id" binding:"omitempty,uuid"`
	Type       models.TransactionType `json:"type" binding:"required,transaction_type"`
	Amount     int64                  `json:"amount" binding:"required,gt=0"`
	Date       *string                `json:"date"`
	Time       string                 `json:"time" binding:"omitempty,clock_time"`
	Person     string                 `json:"person" binding:"max=100"`
	Note       string                 `json:"note" binding:"max=500"`
	Tags       []string               `json:"tags"`
}

// UpdateTransactionRequest represents the request payload for updating a transaction
type UpdateTransactionRequest struct {
	AccountID  *string                 `json:"account_id" binding:"omitempty,uuid"`
	CategoryID *string                 `json:"category_id" binding:"omitempty,uuid"`
	Type       *models.TransactionType `json:"type" binding:"omitempty,transaction_type"`
	Amount     *int64                  `json:"amount" binding:"omitempty,gt=0"`
	Date       *string                 `json:"date"`
	Time       *string                 `json:"time" binding:"omitempty,clock_time"`
	Person     *string                 `json:"person" binding:"omitempty,max=100"`
	Note       *string                 `json:"note" binding:"omitempty,max=500"`
	Tags       []string                `json:"tags"`
}

// CreateTransferRequest represents the request payload for creating a transfer
type CreateTransferRequest struct {
	FromAccountID string  `json:"from_account_id" binding:"required,uuid"`
	ToAccountID   string  `json:"to_account_id" binding:"required,uuid"`
	Amount        int64   `json:"amount" binding:"required,gt=0"`
	Note          string  `json:"note" binding:"max=500"`
	Date          *string `json:"date"`
	Time          string  `json:"time" binding:"omitempty,clock_time"`
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Create a new income or expense transaction and apply its effect to the account balance
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transactionDate, err := parseOptionalDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(
		userID,
		req.AccountID,
		req.CategoryID,
		req.Type,
		req.Amount,
		req.Note,
		transactionDate,
		req.Time,
		req.Person,
		req.Tags,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"type": req.Type, "amount": req.Amount, "account_id": req.AccountID})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// CreateTransfer handles the creation of a transfer between two accounts
// @Summary     Create a transfer
// @Description Transfer funds from one account to another. Fails when the amount exceeds the source balance.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Param       request body CreateTransferRequest true "Transfer details"
// @Success     201 {object} models.Transaction "Transfer created"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient balance"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/transfer [post]
func (h *TransactionHandler) CreateTransfer(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transferDate, err := parseOptionalDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.Transfer(
		userID,
		req.FromAccountID,
		req.ToAccountID,
		req.Amount,
		req.Note,
		transferDate,
		req.Time,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSFER", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{
			"from_account_id": req.FromAccountID,
			"to_account_id":   req.ToAccountID,
			"amount":          req.Amount,
		})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetUserTransactions handles the retrieval of all transactions for the authenticated user
// @Summary     List transactions
// @Description Get a paginated list of transactions with optional filters
// @Tags        transactions
// @Produce     json
// @Param       X-User-ID   header string true  "User ID"
// @Param       page        query  int    false "Page number (default 1)"
// @Param       page_size   query  int    false "Items per page (default 20, max 100)"
// @Param       account_id  query  string false "Filter by account ID"
// @Param       from_date   query  string false "Filter by start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date     query  string false "Filter by end date (RFC3339 or YYYY-MM-DD)"
// @Param       type        query  string false "Filter by transaction type (income, expense, transfer)"
// @Param       category_id query  string false "Filter by category ID"
// @Param       search      query  string false "Search note and person"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAccountTransactions handles the retrieval of transactions for a specific account
// @Summary     Get account transactions
// @Description Get a paginated list of transactions touching a specific account, transfers into it included
// @Tags        accounts,transactions
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Param       id path string true "Account ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id}/transactions [get]
func (h *TransactionHandler) GetAccountTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetAccountTransactions(userID, accountID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransactionByID handles the retrieval of a specific transaction
// @Summary     Get transaction by ID
// @Tags        transactions
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction handles partial updates of a transaction
// @Summary     Update a transaction
// @Description Partially update an income or expense transaction. Transfers cannot be edited.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Param       id path string true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	patch := services.TransactionPatch{
		AccountID:  req.AccountID,
		CategoryID: req.CategoryID,
		Type:       req.Type,
		Amount:     req.Amount,
		Time:       req.Time,
		Person:     req.Person,
		Note:       req.Note,
		Tags:       req.Tags,
	}
	if req.Date != nil && *req.Date != "" {
		parsed, parseErr := parseFlexibleTime(*req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, parseErr.Error()))
			return
		}
		patch.Date = &parsed
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction arms a pending delete for a transaction
// @Summary     Delete a transaction
// @Description Schedule the transaction for deletion after the undo window
// @Tags        transactions
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Param       id path string true "Transaction ID"
// @Success     202 {object} map[string]interface{} "Delete pending"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Verify existence up front so the pending commit cannot 404 later.
	if _, err := h.transactionService.GetTransactionByID(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.undoManager.Request(undo.KindTransaction, userID, []string{transactionID}, h.transactionService.DeleteTransaction)

	h.auditService.Log(userID, "DELETE_TRANSACTION_PENDING", "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusAccepted, gin.H{"status": "pending", "id": transactionID})
}

// UndoDeleteTransaction cancels the pending transaction delete
// @Summary     Undo a pending transaction delete
// @Tags        transactions
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Success     200 {object} map[string]interface{} "Delete cancelled"
// @Failure     404 {object} ErrorResponse "No delete pending"
// @Router      /transactions/undo [post]
func (h *TransactionHandler) UndoDeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.undoManager.Undo(undo.KindTransaction, userID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UNDO_DELETE_TRANSACTION", "transaction", "", c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func parseOptionalDate(value *string) (time.Time, error) {
	if value == nil || *value == "" {
		return time.Now(), nil
	}
	parsed, err := parseFlexibleTime(*value)
	if err != nil {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date format, use RFC3339 or YYYY-MM-DD")
	}
	return parsed, nil
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("from_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.FromDate = &t
	}

	if v := c.Query("to_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.ToDate = &t
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

	if v := c.Query("account_id"); v != "" {
		acctID := v
		filter.AccountID = &acctID
	}

	filter.Search = c.Query("search")

	return filter, nil
}
