package database

import (
	"context"
	"time"

	"github.com/generalux/achileads/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements the services' persistence interfaces on gorm.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// UpsertUser inserts the user or refreshes the profile fields of the row
// with the same provider id, in one statement. user.ID is filled either way.
func (s *Store) UpsertUser(ctx context.Context, user *models.User) error {
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "image", "updated_at"}),
	}).Create(user).Error
}

func (s *Store) CreateSession(ctx context.Context, session *models.Session) error {
	return s.DB.WithContext(ctx).Omit("User").Create(session).Error
}

// GetSession returns gorm.ErrRecordNotFound for unknown ids.
func (s *Store) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	err := s.DB.WithContext(ctx).Preload("User").First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Delete(&models.Session{}, "id = ?", id).Error
}

func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}

// CreateSearch stores the search and its prospects in one transaction.
func (s *Store) CreateSearch(ctx context.Context, search *models.Search) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(search).Error
	})
}

func (s *Store) ListSearches(ctx context.Context, userID uint, limit int) ([]models.Search, error) {
	var searches []models.Search
	err := s.DB.WithContext(ctx).
		Preload("Prospects", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&searches).Error
	return searches, err
}
