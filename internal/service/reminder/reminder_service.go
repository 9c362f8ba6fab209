package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"busfee/internal/pkg/consts"
	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/logger"
	"busfee/internal/pkg/pubsub"
	"busfee/internal/pkg/store/models"
	"busfee/internal/service/interfaces"
	"busfee/internal/service/settings"
)

var ErrNotificationsDisabled = errors.New("notification publishing is disabled")

type ReminderResponse struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

type ReminderServiceInterface interface {
	SendReminders(ctx context.Context) (*ReminderResponse, error)
}

type ReminderService struct {
	StudentsRepo    interfaces.StudentsRepoInterface
	SettingsService settings.SettingsServiceInterface
	redisStore      interfaces.RedisStoreOperations
	notifier        interfaces.NotificationPublisher
	topic           string
	now             func() time.Time
}

var _ ReminderServiceInterface = (*ReminderService)(nil)

// NewReminderService wires reminder dispatch. Without a redis store every
// run sends to every pending student.
func NewReminderService(
	studentsRepo interfaces.StudentsRepoInterface,
	settingsService settings.SettingsServiceInterface,
	redisStore interfaces.RedisStoreOperations,
	notifier interfaces.NotificationPublisher,
	topic string,
) *ReminderService {
	return &ReminderService{
		StudentsRepo:    studentsRepo,
		SettingsService: settingsService,
		redisStore:      redisStore,
		notifier:        notifier,
		topic:           topic,
		now:             time.Now,
	}
}

// RenderTemplate fills the {student_name}, {amount} and {due_date} placeholders.
func RenderTemplate(tpl string, student models.Student, dueDate time.Time) string {
	return strings.NewReplacer(
		"{student_name}", student.Name,
		"{amount}", fmt.Sprintf("%.0f", student.DueAmount),
		"{due_date}", dueDate.Format(consts.ReminderDueFormat),
	).Replace(tpl)
}

func ReminderKey(studentID, channel string) string {
	return fmt.Sprintf("%s:%s:%s", consts.ReminderKeyPrefix, studentID, channel)
}

type channelTemplate struct {
	channel  string
	template string
}

func enabledChannels(s *models.Settings) []channelTemplate {
	var out []channelTemplate
	if s.EmailNotifications {
		out = append(out, channelTemplate{consts.ChannelEmail, s.EmailTemplate})
	}
	if s.SMSNotifications {
		out = append(out, channelTemplate{consts.ChannelSMS, s.SMSTemplate})
	}
	if s.WhatsappNotifications {
		out = append(out, channelTemplate{consts.ChannelWhatsapp, s.WhatsappTemplate})
	}
	return out
}

// SendReminders publishes one reminder per enabled channel to every active
// student with an open balance. A channel already reminded within the last
// reminderDays days is skipped.
func (rs *ReminderService) SendReminders(ctx context.Context) (*ReminderResponse, error) {
	if rs.notifier == nil || rs.topic == "" {
		return nil, ErrNotificationsDisabled
	}

	cfg, err := rs.SettingsService.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	students, err := rs.StudentsRepo.ListActivePendingStudents(ctx)
	if err != nil {
		return nil, err
	}

	days := cfg.ReminderDays
	if days <= 0 {
		days = 1
	}
	ttl := time.Duration(days) * 24 * time.Hour
	now := rs.now()
	dueDate := now.AddDate(0, 0, cfg.ReminderDays)

	resp := &ReminderResponse{}
	channels := enabledChannels(cfg)
	for _, student := range students {
		for _, ch := range channels {
			switch rs.sendOne(ctx, student, ch, dueDate, now, ttl) {
			case outcomeSent:
				resp.Sent++
			case outcomeSkipped:
				resp.Skipped++
			default:
				resp.Failed++
			}
		}
	}
	return resp, nil
}

type outcome int

const (
	outcomeSent outcome = iota
	outcomeSkipped
	outcomeFailed
)

func (rs *ReminderService) sendOne(ctx context.Context, student models.Student, ch channelTemplate,
	dueDate, now time.Time, ttl time.Duration) outcome {
	studentID := student.ID.Hex()
	key := ReminderKey(studentID, ch.channel)

	if rs.redisStore != nil {
		ok, err := rs.redisStore.SetNX(ctx, key, now.UTC().Format(time.RFC3339), ttl)
		if err != nil {
			logger.CtxError(ctx, log_messages.ErrorThrottlingReminder, err, slog.String("key", key))
			return outcomeFailed
		}
		if !ok {
			logger.CtxDebug(ctx, log_messages.ReminderSkippedThrottled, slog.String("key", key))
			return outcomeSkipped
		}
	}

	msg := pubsub.NotificationMessage{
		NotificationType: consts.NotificationReminder,
		Channel:          ch.channel,
		StudentID:        studentID,
		StudentName:      student.Name,
		Recipient:        student.ContactInfo,
		Amount:           student.DueAmount,
		Message:          RenderTemplate(ch.template, student, dueDate),
		PublishedAt:      now,
	}
	if err := rs.notifier.PublishJSON(ctx, rs.topic, msg, msg.Attributes()); err != nil {
		logger.CtxError(ctx, log_messages.ErrorPublishingReminder, err,
			slog.String("studentId", studentID),
			slog.String("channel", ch.channel))
		if rs.redisStore != nil {
			if delErr := rs.redisStore.Delete(ctx, key); delErr != nil {
				logger.CtxError(ctx, log_messages.ErrorThrottlingReminder, delErr, slog.String("key", key))
			}
		}
		return outcomeFailed
	}

	logger.CtxInfo(ctx, log_messages.ReminderPublished,
		slog.String("studentId", studentID),
		slog.String("channel", ch.channel))
	return outcomeSent
}
