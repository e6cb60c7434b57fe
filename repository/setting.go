package repository

import (
	"context"
	"errors"

	"github.com/galazzia/storefront-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository struct {
	db       *gorm.DB
	defaults models.Setting
}

// NewSettingRepository returns a repository that fills empty fields of the
// stored row from defaults.
func NewSettingRepository(db *gorm.DB, defaults models.Setting) *SettingRepository {
	return &SettingRepository{db: db, defaults: defaults}
}

func (r *SettingRepository) Get(ctx context.Context) (models.Setting, error) {
	var s models.Setting
	err := r.db.WithContext(ctx).First(&s, models.SettingsID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Setting{}, err
	}
	s.ID = models.SettingsID
	if s.WhatsappNumber == "" {
		s.WhatsappNumber = r.defaults.WhatsappNumber
	}
	if s.TelegramToken == "" {
		s.TelegramToken = r.defaults.TelegramToken
	}
	if s.TelegramChatID == "" {
		s.TelegramChatID = r.defaults.TelegramChatID
	}
	return s, nil
}

func (r *SettingRepository) Save(ctx context.Context, s *models.Setting) error {
	s.ID = models.SettingsID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(s).Error
}
