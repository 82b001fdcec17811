package party

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/glutchdiscord-alt/v4-partyup/internal/common/clock"
	"github.com/glutchdiscord-alt/v4-partyup/internal/common/uuid"
	"github.com/glutchdiscord-alt/v4-partyup/internal/guard"
	"github.com/glutchdiscord-alt/v4-partyup/internal/models"
	"github.com/glutchdiscord-alt/v4-partyup/internal/platform"
	"github.com/glutchdiscord-alt/v4-partyup/internal/registry"
	membershipRepo "github.com/glutchdiscord-alt/v4-partyup/internal/repositories/membership"
	sessionRepo "github.com/glutchdiscord-alt/v4-partyup/internal/repositories/session"
	settingsRepo "github.com/glutchdiscord-alt/v4-partyup/internal/repositories/settings"
	"github.com/glutchdiscord-alt/v4-partyup/internal/scheduler"
	"go.uber.org/zap"
)

const (
	defaultRecruitWindow = 20 * time.Minute
	defaultConfirmWindow = 5 * time.Minute
	defaultSweepInterval = time.Minute
	defaultMaxCapacity   = 10
	defaultMaxInfoLength = 200
)

// service implements the Service interface
type service struct {
	config         *Config
	sessionRepo    sessionRepo.Repository
	membershipRepo membershipRepo.Repository
	settingsRepo   settingsRepo.Repository
	platform       platform.Platform
	registry       *registry.Registry
	guard          *guard.Guard
	sched          *scheduler.Scheduler
	clock          clock.Clock
	uuidGen        uuid.UUID
	logger         *zap.Logger

	recruitWindow time.Duration
	confirmWindow time.Duration
	sweepInterval time.Duration
	maxCapacity   int
	maxInfoLength int
	activities    map[string][]string
}

// New creates a new party service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}
	if cfg.MembershipRepo == nil {
		return nil, ErrNilMembershipRepo
	}
	if cfg.SettingsRepo == nil {
		return nil, ErrNilSettingsRepo
	}
	if cfg.Platform == nil {
		return nil, ErrNilPlatform
	}

	s := &service{
		config:         cfg,
		sessionRepo:    cfg.SessionRepo,
		membershipRepo: cfg.MembershipRepo,
		settingsRepo:   cfg.SettingsRepo,
		platform:       cfg.Platform,
		registry:       cfg.Registry,
		guard:          cfg.Guard,
		clock:          cfg.Clock,
		uuidGen:        cfg.UUIDGenerator,
		logger:         cfg.Logger,
		recruitWindow:  cfg.RecruitWindow,
		confirmWindow:  cfg.ConfirmWindow,
		sweepInterval:  cfg.SweepInterval,
		maxCapacity:    cfg.MaxCapacity,
		maxInfoLength:  cfg.MaxInfoLength,
		activities:     cfg.Activities,
	}

	if s.registry == nil {
		s.registry = registry.New()
	}
	if s.guard == nil {
		s.guard = guard.New(nil)
	}
	if s.clock == nil {
		s.clock = &clock.DefaultClock{}
	}
	if s.uuidGen == nil {
		s.uuidGen = uuid.New()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.recruitWindow <= 0 {
		s.recruitWindow = defaultRecruitWindow
	}
	if s.confirmWindow <= 0 {
		s.confirmWindow = defaultConfirmWindow
	}
	if s.sweepInterval <= 0 {
		s.sweepInterval = defaultSweepInterval
	}
	if s.maxCapacity <= 0 {
		s.maxCapacity = defaultMaxCapacity
	}
	if s.maxInfoLength <= 0 {
		s.maxInfoLength = defaultMaxInfoLength
	}

	sched, err := scheduler.New(&scheduler.Config{
		Fire: s.handleTimerFired,
	})
	if err != nil {
		return nil, err
	}
	s.sched = sched

	return s, nil
}

// Stop cancels all pending timers
func (s *service) Stop() {
	s.sched.Stop()
}

// CreateSession opens a new squad with the creator as its first member
func (s *service) CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
	if input == nil || input.UserID == "" || input.GuildID == "" || input.ChannelID == "" {
		return nil, errors.New("input, user, guild and channel cannot be empty")
	}

	if err := s.validateActivity(input.Activity, input.Mode); err != nil {
		return nil, err
	}
	if input.Capacity < 2 || input.Capacity > s.maxCapacity {
		return nil, ErrCapacityOutOfRange
	}
	if utf8.RuneCountInString(input.Info) > s.maxInfoLength {
		return nil, ErrInfoTooLong
	}

	if err := s.checkChannelAllowed(ctx, input.GuildID, input.ChannelID); err != nil {
		return nil, err
	}

	if err := s.checkNoExistingSession(ctx, input.UserID); err != nil {
		return nil, err
	}

	// One creation attempt per user at a time
	createKey := guard.Key{
		Kind:       guard.OperationCreateChannel,
		ResourceID: input.GuildID,
		SubjectID:  input.UserID,
	}
	if !s.guard.Acquire(createKey) {
		return nil, ErrOperationInFlight
	}
	defer s.guard.Release(createKey)

	// Reserve the user's membership slot before any external effect. The
	// existence check above only reads indexes; a concurrent create or join
	// for the same user is decided here, by whoever claims first.
	sessionID := s.uuidGen.NewUUID()
	if !s.registry.ClaimMember(input.UserID, sessionID) {
		return nil, ErrAlreadyInSession
	}

	// Phase one: the private voice channel, scoped to the creator
	voiceOut, err := s.platform.CreatePrivateVoiceChannel(ctx, &platform.CreatePrivateVoiceChannelInput{
		GuildID:      input.GuildID,
		CreatorID:    input.UserID,
		ChannelName:  input.Activity + " squad",
		CapacityHint: input.Capacity,
	})
	if err != nil {
		s.registry.ReleaseMember(input.UserID, sessionID)
		return nil, err
	}

	now := s.clock.Now()

	sess := &models.Session{
		ID:             sessionID,
		CreatorID:      input.UserID,
		GuildID:        input.GuildID,
		ChannelID:      input.ChannelID,
		Activity:       input.Activity,
		Mode:           input.Mode,
		Capacity:       input.Capacity,
		Info:           input.Info,
		Status:         models.SessionStatusWaiting,
		Players:        []string{input.UserID},
		Confirmed:      []string{},
		VoiceChannelID: voiceOut.ChannelID,
		CreatedAt:      now,
		Active:         true,
	}

	// Phase two: persist. A failure here tears the channel back down so no
	// orphan is left behind.
	if err := s.sessionRepo.CreateSession(ctx, &sessionRepo.CreateSessionInput{Session: sess}); err != nil {
		s.logger.Error("session create failed, rolling back voice channel",
			zap.String("session_id", sessionID),
			zap.Error(err))
		if derr := s.platform.DeleteVoiceChannel(ctx, &platform.DeleteVoiceChannelInput{ChannelID: voiceOut.ChannelID}); derr != nil {
			s.logger.Error("voice channel rollback failed",
				zap.String("voice_channel_id", voiceOut.ChannelID),
				zap.Error(derr))
		}
		s.registry.ReleaseMember(input.UserID, sessionID)
		return nil, err
	}

	if err := s.membershipRepo.CreateMembership(ctx, &membershipRepo.CreateMembershipInput{
		UserID:    input.UserID,
		SessionID: sessionID,
	}); err != nil {
		s.logger.Error("membership write failed",
			zap.String("session_id", sessionID),
			zap.String("user_id", input.UserID),
			zap.Error(err))
	}

	// Snapshot before the registry can hand the session to other goroutines
	snap := sess.Clone()
	s.registry.Add(sess)
	s.sched.Schedule(sessionID, scheduler.TimerRecruitment, s.recruitWindow)

	s.announce(ctx, snap, platform.NoticeRecruiting, nil)

	return &CreateSessionOutput{
		Session:        snap,
		VoiceChannelID: voiceOut.ChannelID,
	}, nil
}

// JoinSession adds a user to a recruiting squad
func (s *service) JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error) {
	if input == nil || input.UserID == "" || input.SessionID == "" {
		return nil, errors.New("input, user ID and session ID cannot be empty")
	}

	s.registry.Lock(input.SessionID)

	sess, ok := s.registry.Get(input.SessionID)
	if !ok {
		s.registry.Unlock(input.SessionID)
		return nil, ErrSessionNotFound
	}

	// Joining your own session shows status instead of an error
	if sess.HasPlayer(input.UserID) {
		snap := sess.Clone()
		s.registry.Unlock(input.SessionID)
		return &JoinSessionOutput{
			Session:       snap,
			AlreadyMember: true,
		}, nil
	}

	if sess.Status != models.SessionStatusWaiting {
		s.registry.Unlock(input.SessionID)
		return nil, ErrInvalidSessionState
	}

	// Whoever claims the user's membership slot first wins; a parallel join
	// into a different session loses here rather than slipping past a check
	if !s.registry.ClaimMember(input.UserID, input.SessionID) {
		s.registry.Unlock(input.SessionID)
		return nil, ErrAlreadyInSession
	}

	if sess.IsFull() {
		s.registry.ReleaseMember(input.UserID, input.SessionID)
		s.registry.Unlock(input.SessionID)
		return nil, ErrSessionFull
	}

	sess.Players = append(sess.Players, input.UserID)
	s.registry.Reindex(sess)

	filled := sess.IsFull()
	if filled {
		now := s.clock.Now()
		sess.Status = models.SessionStatusConfirming
		sess.ConfirmStartedAt = &now
		s.sched.Cancel(sess.ID)
		s.sched.Schedule(sess.ID, scheduler.TimerConfirmation, s.confirmWindow)
	} else {
		// The recruitment timer only covers a squad nobody has joined
		s.sched.Cancel(sess.ID)
	}

	s.persist(ctx, sess)
	snap := sess.Clone()
	s.registry.Unlock(input.SessionID)

	if err := s.membershipRepo.CreateMembership(ctx, &membershipRepo.CreateMembershipInput{
		UserID:    input.UserID,
		SessionID: snap.ID,
	}); err != nil {
		s.logger.Error("membership write failed",
			zap.String("session_id", snap.ID),
			zap.String("user_id", input.UserID),
			zap.Error(err))
	}

	// Access grant is retryable; a failure never rolls membership back
	s.grantAccess(ctx, snap.VoiceChannelID, input.UserID)

	if filled {
		s.announce(ctx, snap, platform.NoticeAssembled, snap.Players)
	} else {
		s.announce(ctx, snap, platform.NoticeProgress, nil)
	}

	return &JoinSessionOutput{
		Session: snap,
		Filled:  filled,
	}, nil
}

// ConfirmAttendance records a member's confirmation during the window
func (s *service) ConfirmAttendance(ctx context.Context, input *ConfirmAttendanceInput) (*ConfirmAttendanceOutput, error) {
	if input == nil || input.UserID == "" || input.SessionID == "" {
		return nil, errors.New("input, user ID and session ID cannot be empty")
	}

	s.registry.Lock(input.SessionID)

	sess, ok := s.registry.Get(input.SessionID)
	if !ok {
		s.registry.Unlock(input.SessionID)
		return nil, ErrSessionNotFound
	}

	if sess.Status != models.SessionStatusConfirming {
		s.registry.Unlock(input.SessionID)
		return nil, ErrInvalidSessionState
	}

	if !sess.HasPlayer(input.UserID) {
		s.registry.Unlock(input.SessionID)
		return nil, ErrNotAMember
	}

	// Confirmation is monotonic: confirming twice is a no-op success
	if sess.HasConfirmed(input.UserID) {
		s.registry.Unlock(input.SessionID)
		return &ConfirmAttendanceOutput{AlreadyConfirmed: true}, nil
	}

	sess.Confirmed = append(sess.Confirmed, input.UserID)

	if !sess.AllConfirmed() {
		s.persist(ctx, sess)
		s.registry.Unlock(input.SessionID)
		return &ConfirmAttendanceOutput{}, nil
	}

	// Everyone is in: the squad goes live and leaves active tracking
	s.sched.Cancel(sess.ID)
	sess.Status = models.SessionStatusActive
	sess.ConfirmStartedAt = nil
	sess.Active = false
	s.persist(ctx, sess)

	snap := sess.Clone()
	s.registry.Remove(sess.ID)
	s.registry.Unlock(input.SessionID)

	s.dropMemberships(ctx, snap.Players)
	s.announce(ctx, snap, platform.NoticeReady, snap.Players)

	return &ConfirmAttendanceOutput{AllConfirmed: true}, nil
}

// GetSessionByUser returns the session a user currently belongs to
func (s *service) GetSessionByUser(ctx context.Context, input *GetSessionByUserInput) (*GetSessionByUserOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	sessionID, ok := s.registry.IDByMember(input.UserID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	s.registry.Lock(sessionID)
	defer s.registry.Unlock(sessionID)

	sess, ok := s.registry.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	return &GetSessionByUserOutput{Session: sess.Clone()}, nil
}

// SetRestrictedChannel configures which channel a guild allows session
// creation in
func (s *service) SetRestrictedChannel(ctx context.Context, input *SetRestrictedChannelInput) (*SetRestrictedChannelOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID cannot be empty")
	}

	err := s.settingsRepo.UpsertGuildSettings(ctx, &settingsRepo.UpsertGuildSettingsInput{
		GuildID:             input.GuildID,
		RestrictedChannelID: input.ChannelID,
	})
	if err != nil {
		return nil, err
	}

	return &SetRestrictedChannelOutput{}, nil
}

func (s *service) validateActivity(activity, mode string) error {
	if activity == "" || mode == "" {
		return ErrUnknownActivity
	}
	if s.activities == nil {
		return nil
	}
	modes, ok := s.activities[activity]
	if !ok {
		return ErrUnknownActivity
	}
	for _, m := range modes {
		if m == mode {
			return nil
		}
	}
	return ErrUnknownActivity
}

func (s *service) checkChannelAllowed(ctx context.Context, guildID, channelID string) error {
	guildSettings, err := s.settingsRepo.GetGuildSettings(ctx, &settingsRepo.GetGuildSettingsInput{
		GuildID: guildID,
	})
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			return nil
		}
		// Settings unreachable: do not block creation on a degraded store
		s.logger.Error("guild settings read failed",
			zap.String("guild_id", guildID),
			zap.Error(err))
		return nil
	}

	if guildSettings.RestrictedChannelID != "" && guildSettings.RestrictedChannelID != channelID {
		return ErrWrongChannel
	}
	return nil
}

// checkNoExistingSession enforces one non-terminal session per user. The
// registry is authoritative; a store membership the registry doesn't know
// about is stale and gets cleaned up.
func (s *service) checkNoExistingSession(ctx context.Context, userID string) error {
	if id, ok := s.registry.IDByCreator(userID); ok && id != "" {
		return ErrAlreadyCreatedSession
	}
	if _, ok := s.registry.IDByMember(userID); ok {
		return ErrAlreadyInSession
	}

	stored, err := s.membershipRepo.GetMembership(ctx, &membershipRepo.GetMembershipInput{
		UserID: userID,
	})
	if err != nil {
		if !errors.Is(err, membershipRepo.ErrMembershipNotFound) {
			s.logger.Error("membership read failed",
				zap.String("user_id", userID),
				zap.Error(err))
		}
		return nil
	}

	if _, live := s.registry.Get(stored.SessionID); live {
		return ErrAlreadyInSession
	}

	// Leftover record from a session that no longer exists
	if derr := s.membershipRepo.DeleteMembership(ctx, &membershipRepo.DeleteMembershipInput{UserID: userID}); derr != nil {
		s.logger.Error("stale membership cleanup failed",
			zap.String("user_id", userID),
			zap.Error(derr))
	}
	return nil
}

// persist writes the session through to the store. The in-memory state is
// already committed; a write failure is logged for the sweep to reconcile,
// never bubbled to the initiator.
func (s *service) persist(ctx context.Context, sess *models.Session) {
	if err := s.sessionRepo.UpdateSession(ctx, &sessionRepo.UpdateSessionInput{Session: sess}); err != nil {
		s.logger.Error("session persist failed",
			zap.String("session_id", sess.ID),
			zap.Error(err))
	}
}

func (s *service) dropMemberships(ctx context.Context, userIDs []string) {
	for _, userID := range userIDs {
		if err := s.membershipRepo.DeleteMembership(ctx, &membershipRepo.DeleteMembershipInput{UserID: userID}); err != nil {
			s.logger.Error("membership delete failed",
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}
}

func (s *service) grantAccess(ctx context.Context, voiceChannelID, userID string) {
	if voiceChannelID == "" {
		return
	}

	key := guard.Key{
		Kind:       guard.OperationMemberAccess,
		ResourceID: voiceChannelID,
		SubjectID:  userID,
	}
	if !s.guard.Acquire(key) {
		s.logger.Warn("access grant already in flight",
			zap.String("voice_channel_id", voiceChannelID),
			zap.String("user_id", userID))
		return
	}
	defer s.guard.Release(key)

	err := s.platform.SetMemberAccess(ctx, &platform.SetMemberAccessInput{
		ChannelID: voiceChannelID,
		UserID:    userID,
		Allow:     true,
	})
	if err != nil {
		s.logger.Error("access grant failed",
			zap.String("voice_channel_id", voiceChannelID),
			zap.String("user_id", userID),
			zap.Error(err))
	}
}

func (s *service) revokeAccess(ctx context.Context, guildID, voiceChannelID, userID string) {
	if voiceChannelID == "" {
		return
	}

	key := guard.Key{
		Kind:       guard.OperationMemberAccess,
		ResourceID: voiceChannelID,
		SubjectID:  userID,
	}
	if !s.guard.Acquire(key) {
		s.logger.Warn("access revoke already in flight",
			zap.String("voice_channel_id", voiceChannelID),
			zap.String("user_id", userID))
		return
	}
	defer s.guard.Release(key)

	err := s.platform.SetMemberAccess(ctx, &platform.SetMemberAccessInput{
		ChannelID: voiceChannelID,
		UserID:    userID,
		Allow:     false,
	})
	if err != nil {
		s.logger.Error("access revoke failed",
			zap.String("voice_channel_id", voiceChannelID),
			zap.String("user_id", userID),
			zap.Error(err))
	}

	if err := s.platform.DisconnectMember(ctx, &platform.DisconnectMemberInput{
		GuildID: guildID,
		UserID:  userID,
	}); err != nil {
		s.logger.Warn("voice disconnect failed",
			zap.String("user_id", userID),
			zap.Error(err))
	}
}

func (s *service) deleteVoiceChannel(ctx context.Context, voiceChannelID string) {
	if voiceChannelID == "" {
		return
	}

	key := guard.Key{
		Kind:       guard.OperationDeleteChannel,
		ResourceID: voiceChannelID,
	}
	if !s.guard.Acquire(key) {
		s.logger.Warn("voice channel delete already in flight",
			zap.String("voice_channel_id", voiceChannelID))
		return
	}
	defer s.guard.Release(key)

	if err := s.platform.DeleteVoiceChannel(ctx, &platform.DeleteVoiceChannelInput{ChannelID: voiceChannelID}); err != nil {
		s.logger.Error("voice channel delete failed",
			zap.String("voice_channel_id", voiceChannelID),
			zap.Error(err))
	}
}

// shortID is the tag rendered into announcements so a lost message
// reference can be recovered by search
func shortID(sessionID string) string {
	if len(sessionID) <= 8 {
		return sessionID
	}
	return sessionID[len(sessionID)-8:]
}

// announce updates the session's announcement, falling back to a tag
// search and finally a fresh publish when the original message is gone
func (s *service) announce(ctx context.Context, snap *models.Session, notice platform.Notice, mentions []string) {
	key := guard.Key{
		Kind:       guard.OperationAnnouncement,
		ResourceID: snap.ChannelID,
		SubjectID:  snap.ID,
	}
	if !s.guard.Acquire(key) {
		s.logger.Warn("announcement update already in flight",
			zap.String("session_id", snap.ID))
		return
	}
	defer s.guard.Release(key)

	publish := func(messageID string) (*platform.PublishOrUpdateAnnouncementOutput, error) {
		return s.platform.PublishOrUpdateAnnouncement(ctx, &platform.PublishOrUpdateAnnouncementInput{
			ChannelID:      snap.ChannelID,
			MessageID:      messageID,
			Session:        snap,
			Notice:         notice,
			MentionUserIDs: mentions,
		})
	}

	out, err := publish(snap.AnnouncementID)
	if errors.Is(err, platform.ErrMessageNotFound) {
		// The original was deleted externally. Search recent messages for
		// our tag before resorting to a fresh publish.
		messageID := ""
		found, ferr := s.platform.FindAnnouncement(ctx, &platform.FindAnnouncementInput{
			ChannelID:       snap.ChannelID,
			SessionIDSuffix: shortID(snap.ID),
		})
		if ferr == nil && found != nil {
			messageID = found.MessageID
		}

		out, err = publish(messageID)
		if errors.Is(err, platform.ErrMessageNotFound) {
			out, err = publish("")
		}
	}

	if err != nil {
		s.logger.Warn("announcement update skipped",
			zap.String("session_id", snap.ID),
			zap.Error(err))
		return
	}

	if out.MessageID != snap.AnnouncementID {
		s.adoptAnnouncementRef(ctx, snap.ID, out.MessageID)
	}
}

// adoptAnnouncementRef records a new message reference on a session that is
// still tracked
func (s *service) adoptAnnouncementRef(ctx context.Context, sessionID, messageID string) {
	s.registry.Lock(sessionID)
	defer s.registry.Unlock(sessionID)

	sess, ok := s.registry.Get(sessionID)
	if !ok {
		return
	}
	sess.AnnouncementID = messageID
	s.persist(ctx, sess)
}
