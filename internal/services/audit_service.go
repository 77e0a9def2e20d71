package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/khademul4765/arther-hiseb-sub001/internal/logger"
	"github.com/khademul4765/arther-hiseb-sub001/internal/models"
)

// auditService records balance-affecting operations.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log writes an audit entry. Failures are logged and swallowed: auditing
// must never fail the operation it describes.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	var changesJSON string
	if changes != nil {
		if b, err := json.Marshal(changes); err == nil {
			changesJSON = string(b)
		}
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to write audit log",
			"action", action,
			"resource_type", resourceType,
			"error", err.Error(),
		)
	}
}
