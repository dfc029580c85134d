package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"telegram-guard-bot/internal/antispam"
	"telegram-guard-bot/internal/auth"
	"telegram-guard-bot/internal/metrics"
	"telegram-guard-bot/internal/pipeline"
	"telegram-guard-bot/internal/pipeline/filters"
	"telegram-guard-bot/internal/store"
	"telegram-guard-bot/internal/transport"
	"telegram-guard-bot/internal/utils"
)

const auditTextLimit = 180

// Options carries the deployment-wide chat ids the service needs beyond
// per-chat configuration.
type Options struct {
	// Fallback audit destination used when a chat has no log channel
	// configured.
	DefaultLogChatID  int64
	DefaultLogTopicID int
	// TestChatID is where recruiters use /invite; MainChatID is the
	// group their invite links lead to.
	TestChatID int64
	MainChatID int64
}

type Service interface {
	HandleMessage(ctx context.Context, payload pipeline.Payload) (*pipeline.Result, error)

	SetSetting(ctx context.Context, chatID, actorID int64, field, value string) (string, error)
	SetAutoMute(ctx context.Context, chatID, actorID int64, seconds int) error
	SetRole(ctx context.Context, chatID, actorID, targetID int64, roleName string) error
	DelRole(ctx context.Context, chatID, actorID, targetID int64) error
	ListRoles(ctx context.Context, chatID int64) []store.RoleAssignment
	WarnUser(ctx context.Context, chatID, actorID, targetID int64, reason string) (int, bool, error)
	MuteUser(ctx context.Context, chatID, actorID, targetID int64, duration time.Duration) error
	UnmuteUser(ctx context.Context, chatID, actorID, targetID int64) error
	BanUser(ctx context.Context, chatID, actorID, targetID int64) error
	UnbanUser(ctx context.Context, chatID, actorID, targetID int64) error
	KickUser(ctx context.Context, chatID, actorID, targetID int64) error
	WhitelistAdd(ctx context.Context, chatID, actorID, targetID int64) error
	WhitelistRemove(ctx context.Context, chatID, actorID, targetID int64) error
	WhitelistList(ctx context.Context, chatID, actorID int64) ([]int64, error)
	SetRules(ctx context.Context, chatID, actorID int64, text string) error
	Rules(ctx context.Context, chatID int64) string
	SetLogChannel(ctx context.Context, chatID, actorID, logChatID int64, logTopicID int) error
	CreateInvite(ctx context.Context, fromChatID, actorID int64) (string, error)
	MoveToMain(ctx context.Context, fromChatID, actorID int64, messageID int) error
	InactiveCount(ctx context.Context, chatID, actorID int64) (int, error)
	InactiveList(ctx context.Context, chatID, actorID int64, limit, offset int) ([]store.InactiveUser, error)
	ResolveTarget(ctx context.Context, chatID int64, arg string) (int64, bool)
	Settings(ctx context.Context, chatID int64) *store.ChatSettings

	StartCleanupTask(ctx context.Context)
	StartPruneTask(ctx context.Context)
	RunCleanup(ctx context.Context, chatID int64) (processed, removed int, err error)
}

type ModerationService struct {
	logger   *slog.Logger
	store    *store.Store
	client   transport.Client
	auth     *auth.Authorizer
	pipeline *pipeline.Manager
	tracer   trace.Tracer
	opts     Options
}

func NewModerationService(
	logger *slog.Logger,
	st *store.Store,
	client transport.Client,
	authorizer *auth.Authorizer,
	opts Options,
) Service {
	windows := antispam.NewWindows()
	repeats := antispam.NewRepeats()
	albums := antispam.NewAlbums()

	pm := pipeline.NewManager(
		filters.NewWhitelistFilter(st),
		filters.NewStaffFilter(logger, client, st),
		filters.NewAlbumFilter(albums, st),
		filters.NewStickerFilter(windows, st),
		filters.NewAnimationFilter(windows, st),
		filters.NewFloodFilter(windows, st),
		filters.NewLinkFilter(st),
		filters.NewRepeatFilter(repeats, st),
	)

	return &ModerationService{
		logger:   logger,
		store:    st,
		client:   client,
		auth:     authorizer,
		pipeline: pm,
		tracer:   otel.Tracer("service"),
		opts:     opts,
	}
}

// HandleMessage runs a group message through the decision pipeline and
// applies the verdict. The returned result reflects the pipeline
// decision even when enforcement partially failed.
func (s *ModerationService) HandleMessage(ctx context.Context, payload pipeline.Payload) (*pipeline.Result, error) {
	ctx, span := s.tracer.Start(ctx, "HandleMessage")
	defer span.End()

	s.store.UpsertActivity(payload.ChatID, payload.SenderID, time.Now().Unix(), payload.Username)

	settings := s.store.GetSettings(payload.ChatID)
	if !settings.Enabled {
		return &pipeline.Result{IsAllowed: true}, nil
	}

	res, err := s.pipeline.Process(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if !res.IsAllowed {
		s.applyVerdict(ctx, payload, res, settings)
	}
	return res, nil
}

// applyVerdict enforces a violation: delete the message, optionally mute
// the sender, and log the incident. Every platform call is best-effort.
func (s *ModerationService) applyVerdict(ctx context.Context, payload pipeline.Payload, res *pipeline.Result, settings *store.ChatSettings) {
	metrics.IncVerdict(res.Reason)

	if err := s.client.DeleteMessage(ctx, payload.ChatID, payload.MessageID); err != nil {
		s.bestEffort("delete_message", err, "chat_id", payload.ChatID, "message_id", payload.MessageID)
	} else {
		metrics.IncDeletedMessages(res.Reason)
	}

	if settings.Action == store.ActionMute {
		until := time.Now().Add(time.Duration(settings.MuteSeconds) * time.Second)
		if err := s.client.RestrictMember(ctx, payload.ChatID, payload.SenderID, until); err != nil {
			s.bestEffort("restrict_member", err, "chat_id", payload.ChatID, "user_id", payload.SenderID)
		}
	}

	s.audit(ctx, payload.ChatID, fmt.Sprintf(
		"🛡 Автомодерация: %s\nПользователь: %s (id %d)\nДействие: %s\nТекст: %s",
		res.Reason,
		payload.Username, payload.SenderID,
		settings.Action,
		utils.TruncateText(payload.Text+payload.Caption, auditTextLimit),
	), "reason", res.Reason, "filter", res.FilterName,
		"chat_id", payload.ChatID, "user_id", payload.SenderID)
}

// audit writes an incident line to the structured log and mirrors it to
// the chat's log channel, or the deployment default one, if configured.
func (s *ModerationService) audit(ctx context.Context, chatID int64, text string, attrs ...any) {
	incidentID := uuid.NewString()
	s.logger.Info("moderation incident", append([]any{"incident_id", incidentID}, attrs...)...)

	logChatID, logTopicID, _ := s.store.GetMeta(chatID)
	if logChatID == 0 {
		logChatID, logTopicID = s.opts.DefaultLogChatID, s.opts.DefaultLogTopicID
	}
	if logChatID == 0 {
		return
	}
	if err := s.client.SendMessage(ctx, logChatID, logTopicID, text); err != nil {
		s.bestEffort("send_audit", err, "log_chat_id", logChatID, "incident_id", incidentID)
	}
}

// bestEffort funnels non-fatal transport failures into the log and the
// error counter.
func (s *ModerationService) bestEffort(op string, err error, attrs ...any) {
	metrics.IncTransportError(op)
	s.logger.Warn("platform call failed", append([]any{"op", op, "error", err}, attrs...)...)
}

func (s *ModerationService) Settings(_ context.Context, chatID int64) *store.ChatSettings {
	return s.store.GetSettings(chatID)
}

func (s *ModerationService) Rules(_ context.Context, chatID int64) string {
	_, _, rules := s.store.GetMeta(chatID)
	return rules
}

func (s *ModerationService) ListRoles(_ context.Context, chatID int64) []store.RoleAssignment {
	return s.store.ListRoles(chatID)
}

// ResolveTarget turns a command argument into a user id: a numeric id is
// taken literally, @username goes through the activity index.
func (s *ModerationService) ResolveTarget(_ context.Context, chatID int64, arg string) (int64, bool) {
	if arg == "" {
		return 0, false
	}
	if id, ok := parseUserID(arg); ok {
		return id, true
	}
	return s.store.ResolveUsername(chatID, arg)
}
