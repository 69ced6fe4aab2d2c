package scim

import (
	"errors"

	"github.com/tkoster/scimgate/pkg/scimgate/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserStore is the persistence capability the provisioning engine
// depends on. Absent records are returned as (nil, nil); a non-nil
// error is a real persistence failure and propagates untouched.
type UserStore interface {
	FindByUserName(userName string) (*models.User, error)
	FindByScimID(scimID string) (*models.User, error)
	FindByExternalID(externalID string) (*models.User, error)
	FindAll() ([]*models.User, error)
	Save(rec *models.User) (*models.User, error)
}

// GormUserStore backs UserStore with a GORM connection.
type GormUserStore struct {
	db *gorm.DB
}

// NewGormUserStore creates a store on top of the given connection.
func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) FindByUserName(userName string) (*models.User, error) {
	return s.findOne("user_name = ?", userName)
}

func (s *GormUserStore) FindByScimID(scimID string) (*models.User, error) {
	return s.findOne("scim_id = ?", scimID)
}

func (s *GormUserStore) FindByExternalID(externalID string) (*models.User, error) {
	return s.findOne("external_id = ?", externalID)
}

func (s *GormUserStore) findOne(query string, arg string) (*models.User, error) {
	var user models.User
	err := s.db.Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) FindAll() ([]*models.User, error) {
	var users []*models.User
	if err := s.db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Save inserts or updates by scim_id. Uniqueness violations on other
// columns (userName, externalId) surface as gorm.ErrDuplicatedKey.
func (s *GormUserStore) Save(rec *models.User) (*models.User, error) {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scim_id"}},
		UpdateAll: true,
	}).Create(rec).Error
	if err != nil {
		return nil, err
	}
	return rec, nil
}
