package settings

import (
	"context"
	"errors"
	"testing"

	"busfee/internal/pkg/apperrors"
	"busfee/internal/pkg/consts"
	"busfee/internal/pkg/store/models"
	"busfee/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	d := DefaultSettings()
	assert.True(t, d.EmailNotifications)
	assert.True(t, d.SMSNotifications)
	assert.True(t, d.WhatsappNotifications)
	assert.Equal(t, 5, d.ReminderDays)
	assert.Contains(t, d.SMSTemplate, "{student_name}")
}

func TestGetSettings(t *testing.T) {
	repo := new(mocks.MockSettingsRepo)
	stored := DefaultSettings()
	repo.On("GetOrCreateSettings", mock.Anything, DefaultSettings()).Return(&stored, nil)

	got, err := NewSettingsService(repo).GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, consts.DefaultEmailTemplate, got.EmailTemplate)
}

func TestUpdateSettings_Partial(t *testing.T) {
	repo := new(mocks.MockSettingsRepo)
	stored := DefaultSettings()
	repo.On("GetOrCreateSettings", mock.Anything, mock.Anything).Return(&stored, nil)
	repo.On("SaveSettings", mock.Anything, mock.MatchedBy(func(s models.Settings) bool {
		return !s.SMSNotifications && s.EmailNotifications && s.ReminderDays == 7 &&
			s.SMSTemplate == "Pay {amount}" && s.EmailTemplate == consts.DefaultEmailTemplate
	})).Return(&models.Settings{ReminderDays: 7}, nil)

	off := false
	days := 7
	tpl := "Pay {amount}"
	got, err := NewSettingsService(repo).UpdateSettings(context.Background(), SettingsUpdate{
		SMSNotifications: &off,
		ReminderDays:     &days,
		SMSTemplate:      &tpl,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got.ReminderDays)
	repo.AssertExpectations(t)
}

func TestUpdateSettings_Invalid(t *testing.T) {
	repo := new(mocks.MockSettingsRepo)
	days := -1

	_, err := NewSettingsService(repo).UpdateSettings(context.Background(), SettingsUpdate{ReminderDays: &days})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	repo.AssertNotCalled(t, "SaveSettings", mock.Anything, mock.Anything)
}

func TestUpdateSettings_LoadError(t *testing.T) {
	repo := new(mocks.MockSettingsRepo)
	repo.On("GetOrCreateSettings", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := NewSettingsService(repo).UpdateSettings(context.Background(), SettingsUpdate{})
	assert.EqualError(t, err, "db down")
}
