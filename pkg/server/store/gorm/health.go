package gorm

import (
	"gorm.io/gorm"
)

// HealthStore answers the status endpoint's database probe over the
// application's GORM connection.
type HealthStore struct {
	db *gorm.DB
}

// NewHealthStore wraps the given connection for connectivity checks
func NewHealthStore(db *gorm.DB) *HealthStore {
	return &HealthStore{db: db}
}

// CheckConnectivity issues a trivial query and reports whether the
// database answered
func (s *HealthStore) CheckConnectivity() error {
	return s.db.Exec("SELECT 1").Error
}
