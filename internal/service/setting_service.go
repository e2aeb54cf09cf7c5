package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/cache"
	"github.com/saborconflow/studio-backend/internal/model"
)

type settingStore interface {
	GetAll(ctx context.Context) ([]model.AppSetting, error)
	GetByKey(ctx context.Context, key string) (*model.AppSetting, error)
	UpsertMany(ctx context.Context, settings map[string]string) error
}

// SettingService manages the editable site copy (hours, address, pricing text, socials).
type SettingService struct {
	settingRepo settingStore
	cache       *cache.Cache
	log         zerolog.Logger
}

func NewSettingService(settingRepo settingStore, c *cache.Cache, log zerolog.Logger) *SettingService {
	return &SettingService{
		settingRepo: settingRepo,
		cache:       c,
		log:         log.With().Str("component", "setting_service").Logger(),
	}
}

func (s *SettingService) GetAllSettings(ctx context.Context) (map[string]string, error) {
	settingsList, err := s.settingRepo.GetAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get all settings")
		return nil, err
	}

	settingsMap := make(map[string]string, len(settingsList))
	for _, setting := range settingsList {
		settingsMap[setting.Key] = setting.Value
	}
	return settingsMap, nil
}

// UpdateSettings writes all settings in one transaction and drops cached pages that render them.
func (s *SettingService) UpdateSettings(ctx context.Context, settingsMap map[string]string) error {
	if err := s.settingRepo.UpsertMany(ctx, settingsMap); err != nil {
		s.log.Error().Err(err).Msg("failed to update settings")
		return err
	}
	s.cache.Invalidate().Pages(ctx)
	return nil
}

func (s *SettingService) GetSettingByKey(ctx context.Context, key string) (string, error) {
	setting, err := s.settingRepo.GetByKey(ctx, key)
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}
