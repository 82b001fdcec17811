package party

import (
	"context"
	"time"

	"github.com/glutchdiscord-alt/v4-partyup/internal/models"
	"github.com/glutchdiscord-alt/v4-partyup/internal/platform"
	sessionRepo "github.com/glutchdiscord-alt/v4-partyup/internal/repositories/session"
	"github.com/glutchdiscord-alt/v4-partyup/internal/scheduler"
	"go.uber.org/zap"
)

// Restore rebuilds the in-memory registry from the durable store after a
// restart. Sessions whose guild or announcement channel no longer exists are
// destroyed; everyone else is re-tracked, with timers re-derived from the
// stored timestamps. Deadlines that already passed while the process was
// down fire immediately.
func (s *service) Restore(ctx context.Context) error {
	s.registry.Clear()

	out, err := s.sessionRepo.ListActiveSessions(ctx, &sessionRepo.ListActiveSessionsInput{})
	if err != nil {
		return err
	}

	now := s.clock.Now()
	restored := 0
	destroyed := 0

	for _, sess := range out.Sessions {
		if sess.Status.IsTerminal() {
			// A terminal session in the active set means a crash interrupted
			// its teardown. Finish it.
			s.destroyStored(ctx, sess)
			destroyed++
			continue
		}

		bound := s.platform.BindingExists(ctx, &platform.BindingExistsInput{
			GuildID:   sess.GuildID,
			ChannelID: sess.ChannelID,
		})
		if !bound {
			s.logger.Warn("dropping session with missing guild or channel",
				zap.String("session_id", sess.ID),
				zap.String("guild_id", sess.GuildID))
			s.destroyStored(ctx, sess)
			destroyed++
			continue
		}

		s.registry.Add(sess)
		restored++

		switch sess.Status {
		case models.SessionStatusWaiting:
			if len(sess.Players) != 1 {
				continue
			}
			remaining := sess.CreatedAt.Add(s.recruitWindow).Sub(now)
			if remaining <= 0 {
				s.handleRecruitmentTimeout(ctx, sess.ID)
			} else {
				s.sched.Schedule(sess.ID, scheduler.TimerRecruitment, remaining)
			}

		case models.SessionStatusConfirming:
			var remaining time.Duration
			if sess.ConfirmStartedAt != nil {
				remaining = sess.ConfirmStartedAt.Add(s.confirmWindow).Sub(now)
			}
			if remaining <= 0 {
				s.handleConfirmationTimeout(ctx, sess.ID)
			} else {
				s.sched.Schedule(sess.ID, scheduler.TimerConfirmation, remaining)
			}
		}
	}

	s.logger.Info("restore complete",
		zap.Int("restored", restored),
		zap.Int("destroyed", destroyed))

	// One sweep pass closes any gap the per-session handling left open.
	s.sweepOnce(ctx)

	return nil
}

// destroyStored tears down a stored session that never made it back into the
// registry: the store record, memberships and the orphaned voice channel.
func (s *service) destroyStored(ctx context.Context, sess *models.Session) {
	if err := s.sessionRepo.SoftDeleteSession(ctx, &sessionRepo.SoftDeleteSessionInput{SessionID: sess.ID}); err != nil {
		s.logger.Error("session soft delete failed",
			zap.String("session_id", sess.ID),
			zap.Error(err))
	}

	s.dropMemberships(ctx, sess.Players)
	s.deleteVoiceChannel(ctx, sess.VoiceChannelID)
}
