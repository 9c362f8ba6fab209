package settings

import (
	"context"
	"time"

	"busfee/internal/pkg/apperrors"
	"busfee/internal/pkg/consts"
	mongodb "busfee/internal/pkg/db/mongo"
	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/logger"
	"busfee/internal/pkg/store/models"
	"busfee/internal/pkg/store/repository"
	"busfee/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SettingsRepository struct {
	repo             *repository.MongoRepository[models.Settings]
	findOneAndUpdate func(ctx context.Context, filter interface{}, update interface{},
		opts *options.FindOneAndUpdateOptions) (models.Settings, error)
	now func() time.Time
}

var _ interfaces.SettingsRepoInterface = (*SettingsRepository)(nil)

func NewSettingsRepository(client *mongodb.MongoClient) interfaces.SettingsRepoInterface {
	collection := client.Database.Collection(consts.SettingsCollection)
	repo := repository.NewMongoRepository[models.Settings](collection)
	return &SettingsRepository{
		repo:             repo,
		findOneAndUpdate: repo.FindOneAndUpdate,
		now:              time.Now,
	}
}

func settingsFields(s models.Settings) bson.M {
	return bson.M{
		"emailNotifications":    s.EmailNotifications,
		"smsNotifications":      s.SMSNotifications,
		"whatsappNotifications": s.WhatsappNotifications,
		"reminderDays":          s.ReminderDays,
		"emailTemplate":         s.EmailTemplate,
		"smsTemplate":           s.SMSTemplate,
		"whatsappTemplate":      s.WhatsappTemplate,
	}
}

// GetOrCreateSettings returns the settings document, inserting defaults the
// first time it is read. Existing values are never overwritten.
func (r *SettingsRepository) GetOrCreateSettings(ctx context.Context, defaults models.Settings) (*models.Settings, error) {
	onInsert := settingsFields(defaults)
	onInsert["updatedAt"] = r.now()
	update := bson.M{"$setOnInsert": onInsert}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	settings, err := r.findOneAndUpdate(ctx, bson.M{"_id": consts.SettingsID}, update, opts)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorReadingSettings, err)
		return nil, apperrors.Persistence("read settings", err)
	}
	return &settings, nil
}

func (r *SettingsRepository) SaveSettings(ctx context.Context, s models.Settings) (*models.Settings, error) {
	set := settingsFields(s)
	set["updatedAt"] = r.now()
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	settings, err := r.findOneAndUpdate(ctx, bson.M{"_id": consts.SettingsID}, bson.M{"$set": set}, opts)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorUpsertingSettings, err)
		return nil, apperrors.Persistence("save settings", err)
	}
	return &settings, nil
}
