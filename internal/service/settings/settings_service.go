package settings

import (
	"context"

	"busfee/internal/pkg/apperrors"
	"busfee/internal/pkg/consts"
	"busfee/internal/pkg/store/models"
	"busfee/internal/service/interfaces"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// SettingsUpdate is a partial update; nil fields keep their stored value.
type SettingsUpdate struct {
	EmailNotifications    *bool   `json:"emailNotifications"`
	SMSNotifications      *bool   `json:"smsNotifications"`
	WhatsappNotifications *bool   `json:"whatsappNotifications"`
	ReminderDays          *int    `json:"reminderDays" validate:"omitempty,min=0,max=365"`
	EmailTemplate         *string `json:"emailTemplate"`
	SMSTemplate           *string `json:"smsTemplate"`
	WhatsappTemplate      *string `json:"whatsappTemplate"`
}

type SettingsServiceInterface interface {
	GetSettings(ctx context.Context) (*models.Settings, error)
	UpdateSettings(ctx context.Context, update SettingsUpdate) (*models.Settings, error)
}

type SettingsService struct {
	SettingsRepo interfaces.SettingsRepoInterface
}

var _ SettingsServiceInterface = (*SettingsService)(nil)

func NewSettingsService(settingsRepo interfaces.SettingsRepoInterface) *SettingsService {
	return &SettingsService{SettingsRepo: settingsRepo}
}

func DefaultSettings() models.Settings {
	return models.Settings{
		ID:                    consts.SettingsID,
		EmailNotifications:    true,
		SMSNotifications:      true,
		WhatsappNotifications: true,
		ReminderDays:          consts.DefaultReminderDays,
		EmailTemplate:         consts.DefaultEmailTemplate,
		SMSTemplate:           consts.DefaultSMSTemplate,
		WhatsappTemplate:      consts.DefaultWhatsappTemplate,
	}
}

// GetSettings returns the stored settings, creating the defaults on first use.
func (s *SettingsService) GetSettings(ctx context.Context) (*models.Settings, error) {
	return s.SettingsRepo.GetOrCreateSettings(ctx, DefaultSettings())
}

func (s *SettingsService) UpdateSettings(ctx context.Context, update SettingsUpdate) (*models.Settings, error) {
	if err := validate.Struct(update); err != nil {
		return nil, apperrors.Validation(err)
	}

	current, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	merged := update.apply(*current)
	return s.SettingsRepo.SaveSettings(ctx, merged)
}

func (u SettingsUpdate) apply(s models.Settings) models.Settings {
	if u.EmailNotifications != nil {
		s.EmailNotifications = *u.EmailNotifications
	}
	if u.SMSNotifications != nil {
		s.SMSNotifications = *u.SMSNotifications
	}
	if u.WhatsappNotifications != nil {
		s.WhatsappNotifications = *u.WhatsappNotifications
	}
	if u.ReminderDays != nil {
		s.ReminderDays = *u.ReminderDays
	}
	if u.EmailTemplate != nil {
		s.EmailTemplate = *u.EmailTemplate
	}
	if u.SMSTemplate != nil {
		s.SMSTemplate = *u.SMSTemplate
	}
	if u.WhatsappTemplate != nil {
		s.WhatsappTemplate = *u.WhatsappTemplate
	}
	return s
}
