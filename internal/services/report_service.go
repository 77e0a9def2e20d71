package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "github.com/khademul4765/arther-hiseb-sub001/internal/errors"
	"github.com/khademul4765/arther-hiseb-sub001/internal/models"
	"github.com/khademul4765/arther-hiseb-sub001/internal/query"
)

// reportService derives statements and summaries from the canonical
// collections. It holds no state of its own; every call recomputes from
// the store.
type reportService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB, accountService AccountServicer) ReportServicer {
	return &reportService{db: db, accountService: accountService}
}

// GetStatement builds a printable statement: the user's transactions run
// through the query layer's filter, sort, and date grouping, with account
// names resolved per line. Deleted accounts resolve to their raw ID so
// history stays readable.
func (s *reportService) GetStatement(userID string, filter query.Filter) (*Statement, error) {
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ?", userID).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	filtered := query.Apply(transactions, filter)
	groups := query.GroupByDate(filtered)

	names, err := s.accountNames(userID)
	if err != nil {
		return nil, err
	}

	statement := &Statement{
		GeneratedAt: time.Now(),
		Totals:      query.Sum(filtered),
	}
	for _, g := range groups {
		sg := StatementGroup{Date: g.Date, Totals: g.Totals}
		for _, tx := range g.Transactions {
			line := StatementLine{
				Transaction: tx,
				AccountName: resolveName(names, tx.AccountID),
			}
			if tx.ToAccountID != nil {
				line.ToAccountName = resolveName(names, *tx.ToAccountID)
			}
			sg.Lines = append(sg.Lines, line)
		}
		statement.Groups = append(statement.Groups, sg)
	}

	return statement, nil
}

// GetSummary aggregates current balances and all-time income/expense
// totals for a user.
func (s *reportService) GetSummary(userID string) (*Summary, error) {
	accounts, err := s.accountService.ListAccounts(userID)
	if err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	if err := s.db.Where("user_id = ?", userID).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &Summary{
		TotalBalance: query.TotalBalance(accounts),
		Totals:       query.Sum(transactions),
		Accounts:     accounts,
	}, nil
}

// accountNames maps live account IDs to names. Transactions orphaned by
// an account deletion fall back to the raw ID in resolveName.
func (s *reportService) accountNames(userID string) (map[string]string, error) {
	var accounts []models.Account
	if err := s.db.Where("user_id = ?", userID).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	names := make(map[string]string, len(accounts))
	for i := range accounts {
		names[accounts[i].ID] = accounts[i].Name
	}
	return names, nil
}

// resolveName falls back to the raw ID when the account is unknown.
func resolveName(names map[string]string, accountID string) string {
	if name, ok := names[accountID]; ok {
		return name
	}
	return accountID
}
