package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/khademul4765/arther-hiseb-sub001/internal/errors"
	"github.com/khademul4765/arther-hiseb-sub001/internal/models"
	"github.com/khademul4765/arther-hiseb-sub001/internal/pagination"
	"github.com/khademul4765/arther-hiseb-sub001/internal/services"
	"github.com/khademul4765/arther-hiseb-sub001/internal/undo"
)

// AccountHandler handles account-related requests.
type AccountHandler struct {
	accountService services.AccountServicer
	auditService   services.AuditServicer
	undoManager    *undo.Manager
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer, auditService services.AuditServicer, undoManager *undo.Manager) *AccountHandler {
	return &AccountHandler{accountService: accountService, auditService: auditService, undoManager: undoManager}
}

// CreateAccountRequest represents the request payload for creating an account
type CreateAccountRequest struct {
	Name           string             `json:"name" binding:"required,max=100"`
	Type           models.AccountType `json:"type" binding:"required,account_type"`
	Description    string             `json:"description" binding:"max=500"`
	InitialBalance int64              `json:"initial_balance"`
	IsDefault      bool               `json:"is_default"`
}

// UpdateAccountRequest represents the request payload for updating an account
type UpdateAccountRequest struct {
	Name        *string             `json:"name" binding:"omitempty,max=100"`
	Type        *models.AccountType `json:"type" binding:"omitempty,account_type"`
	Description *string             `json:"description" binding:"omitempty,max=500"`
	IsDefault   *bool               `json:"is_default"`
}

// CreateAccount handles the creation of a new account
// @Summary     Create an account
// @Description Create a new cash, bank, or MFS account. Setting is_default clears the flag on all other accounts.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Param       request body CreateAccountRequest true "Account details"
// @Success     201 {object} models.Account "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.CreateAccount(userID, req.Name, req.Type, req.Description, req.InitialBalance, req.IsDefault)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_ACCOUNT", "account", account.ID, c.ClientIP(),
		map[string]interface{}{"type": req.Type, "initial_balance": req.InitialBalance, "is_default": req.IsDefault})

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// GetUserAccounts handles the retrieval of all accounts for the authenticated user
// @Summary     List accounts
// @Description Get a paginated list of the user's accounts
// @Tags        accounts
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Param       page      query  int    false "Page number (default 1)"
// @Param       page_size query  int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Account] "Paginated accounts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [get]
func (h *AccountHandler) GetUserAccounts(c *gin.Context) {
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

	result, err := h.accountService.GetUserAccounts(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAccountByID handles the retrieval of a specific account
// @Summary     Get account by ID
// @Tags        accounts
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Param       id path string true "Account ID"
// @Success     200 {object} models.Account "Account"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [get]
func (h *AccountHandler) GetAccountByID(c *gin.Context) {
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

	account, err := h.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// UpdateAccount handles partial updates of an account
// @Summary     Update an account
// @Description Partially update an account. Setting is_default clears the flag on all other accounts.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Param       id path string true "Account ID"
// @Param       request body UpdateAccountRequest true "Fields to update"
// @Success     200 {object} models.Account "Updated account"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
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

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.UpdateAccount(userID, accountID, services.AccountUpdateFields{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		IsDefault:   req.IsDefault,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_ACCOUNT", "account", account.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DeleteAccount arms a pending delete for an account
// @Summary     Delete an account
// @Description Schedule the account for deletion after the undo window. Transactions are not cascade-deleted.
// @Tags        accounts
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Param       id path string true "Account ID"
// @Success     202 {object} map[string]interface{} "Delete pending"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
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

	// Verify existence up front so the pending commit cannot 404 later.
	if _, err := h.accountService.GetAccountByID(userID, accountID); err != nil {
		respondWithError(c, err)
		return
	}

	h.undoManager.Request(undo.KindAccount, userID, []string{accountID}, h.accountService.DeleteAccount)

	h.auditService.Log(userID, "DELETE_ACCOUNT_PENDING", "account", accountID, c.ClientIP(), nil)

	c.JSON(http.StatusAccepted, gin.H{"status": "pending", "id": accountID})
}

// UndoDeleteAccount cancels the pending account delete
// @Summary     Undo a pending account delete
// @Tags        accounts
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Success     200 {object} map[string]interface{} "Delete cancelled"
// @Failure     404 {object} ErrorResponse "No delete pending"
// @Router      /accounts/undo [post]
func (h *AccountHandler) UndoDeleteAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.undoManager.Undo(undo.KindAccount, userID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UNDO_DELETE_ACCOUNT", "account", "", c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}
