package party

import (
	"context"
	"time"

	"github.com/glutchdiscord-alt/v4-partyup/internal/models"
	"github.com/glutchdiscord-alt/v4-partyup/internal/platform"
	"github.com/glutchdiscord-alt/v4-partyup/internal/scheduler"
	"go.uber.org/zap"
)

// handleTimerFired is the scheduler callback. It runs on the timer
// goroutine, so it re-validates everything against live state and never
// lets a panic escape.
func (s *service) handleTimerFired(sessionID string, kind scheduler.TimerKind) {
	s.recovering("timer", func() {
		ctx := context.Background()

		switch kind {
		case scheduler.TimerRecruitment:
			s.handleRecruitmentTimeout(ctx, sessionID)
		case scheduler.TimerConfirmation:
			s.handleConfirmationTimeout(ctx, sessionID)
		default:
			s.logger.Warn("unknown timer kind",
				zap.String("session_id", sessionID),
				zap.String("kind", string(kind)))
		}
	})
}

// handleRecruitmentTimeout destroys a session that never attracted a second
// member. A session that changed state since the timer was armed is left
// alone.
func (s *service) handleRecruitmentTimeout(ctx context.Context, sessionID string) {
	s.registry.Lock(sessionID)

	sess, ok := s.registry.Get(sessionID)
	if !ok || sess.Status != models.SessionStatusWaiting || len(sess.Players) != 1 {
		s.registry.Unlock(sessionID)
		return
	}

	s.logger.Info("recruitment window expired",
		zap.String("session_id", sessionID),
		zap.String("creator_id", sess.CreatorID))

	snap := s.teardownLocked(ctx, sess)
	s.registry.Unlock(sessionID)

	s.dropMemberships(ctx, snap.Players)
	s.deleteVoiceChannel(ctx, snap.VoiceChannelID)
	s.announce(ctx, snap, platform.NoticeCancelled, nil)
}

// handleConfirmationTimeout reopens a session whose confirmation window ran
// out. The creator and everyone who confirmed stay; everyone else is dropped
// and loses voice access.
func (s *service) handleConfirmationTimeout(ctx context.Context, sessionID string) {
	s.registry.Lock(sessionID)

	sess, ok := s.registry.Get(sessionID)
	if !ok || sess.Status != models.SessionStatusConfirming {
		s.registry.Unlock(sessionID)
		return
	}

	kept := []string{sess.CreatorID}
	var removed []string
	for _, userID := range sess.Players {
		if userID == sess.CreatorID {
			continue
		}
		if sess.HasConfirmed(userID) {
			kept = append(kept, userID)
		} else {
			removed = append(removed, userID)
		}
	}

	s.logger.Info("confirmation window expired",
		zap.String("session_id", sessionID),
		zap.Int("kept", len(kept)),
		zap.Int("removed", len(removed)))

	sess.Players = kept
	sess.Confirmed = []string{}
	s.reopenLocked(sess)
	s.persist(ctx, sess)
	s.registry.Reindex(sess)
	snap := sess.Clone()
	s.registry.Unlock(sessionID)

	s.dropMemberships(ctx, removed)
	for _, userID := range removed {
		s.revokeAccess(ctx, snap.GuildID, snap.VoiceChannelID, userID)
	}
	s.announce(ctx, snap, platform.NoticeReopened, nil)
}

// StartSweep runs the periodic backstop until ctx is cancelled. The sweep
// catches deadlines whose timers were lost, typically around a restart.
func (s *service) StartSweep(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.recovering("sweep", func() {
					s.sweepOnce(ctx)
				})
			}
		}
	}()
}

// sweepOnce walks every tracked session and runs any timeout whose deadline
// has passed. The timeout handlers re-check state under the lock, so racing
// an armed timer is harmless.
func (s *service) sweepOnce(ctx context.Context) {
	now := s.clock.Now()

	for _, sessionID := range s.registry.IDs() {
		s.registry.Lock(sessionID)

		sess, ok := s.registry.Get(sessionID)
		var expired scheduler.TimerKind
		if ok {
			switch {
			case sess.Status == models.SessionStatusWaiting &&
				len(sess.Players) == 1 &&
				now.Sub(sess.CreatedAt) >= s.recruitWindow:
				expired = scheduler.TimerRecruitment
			case sess.Status == models.SessionStatusConfirming &&
				sess.ConfirmStartedAt != nil &&
				now.Sub(*sess.ConfirmStartedAt) >= s.confirmWindow:
				expired = scheduler.TimerConfirmation
			}
		}

		s.registry.Unlock(sessionID)

		switch expired {
		case scheduler.TimerRecruitment:
			s.handleRecruitmentTimeout(ctx, sessionID)
		case scheduler.TimerConfirmation:
			s.handleConfirmationTimeout(ctx, sessionID)
		}
	}
}

// recovering shields background work from panics
func (s *service) recovering(op string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("recovered panic in background work",
				zap.String("op", op),
				zap.Any("panic", r))
		}
	}()
	fn()
}
