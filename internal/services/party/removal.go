package party

import (
	"context"
	"errors"

	"github.com/glutchdiscord-alt/v4-partyup/internal/models"
	"github.com/glutchdiscord-alt/v4-partyup/internal/platform"
	sessionRepo "github.com/glutchdiscord-alt/v4-partyup/internal/repositories/session"
	"github.com/glutchdiscord-alt/v4-partyup/internal/scheduler"
	"go.uber.org/zap"
)

// LeaveSession removes a non-creator member who walks away voluntarily
func (s *service) LeaveSession(ctx context.Context, input *LeaveSessionInput) (*LeaveSessionOutput, error) {
	if input == nil || input.UserID == "" || input.SessionID == "" {
		return nil, errors.New("input, user ID and session ID cannot be empty")
	}

	if creatorOf(s, input.SessionID) == input.UserID {
		return nil, ErrCreatorCannotLeave
	}

	destroyed, err := s.removeFromSession(ctx, input.SessionID, input.UserID)
	if err != nil {
		return nil, err
	}

	return &LeaveSessionOutput{Destroyed: destroyed}, nil
}

// DeclineAttendance drops a member out of confirmation. The creator
// declining terminates the squad outright.
func (s *service) DeclineAttendance(ctx context.Context, input *DeclineAttendanceInput) (*DeclineAttendanceOutput, error) {
	if input == nil || input.UserID == "" || input.SessionID == "" {
		return nil, errors.New("input, user ID and session ID cannot be empty")
	}

	if creatorOf(s, input.SessionID) == input.UserID {
		if err := s.terminate(ctx, input.SessionID, input.UserID); err != nil {
			return nil, err
		}
		return &DeclineAttendanceOutput{Terminated: true}, nil
	}

	if _, err := s.removeFromSession(ctx, input.SessionID, input.UserID); err != nil {
		return nil, err
	}

	return &DeclineAttendanceOutput{}, nil
}

// TerminateSession tears the squad down on the creator's request
func (s *service) TerminateSession(ctx context.Context, input *TerminateSessionInput) (*TerminateSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	if err := s.terminate(ctx, input.SessionID, input.InitiatorID); err != nil {
		return nil, err
	}

	return &TerminateSessionOutput{}, nil
}

// RemoveMember removes any member, creator included. Removing the creator
// terminates the squad rather than reopening it.
func (s *service) RemoveMember(ctx context.Context, input *RemoveMemberInput) (*RemoveMemberOutput, error) {
	if input == nil || input.UserID == "" || input.SessionID == "" {
		return nil, errors.New("input, user ID and session ID cannot be empty")
	}

	if creatorOf(s, input.SessionID) == input.UserID {
		if err := s.terminate(ctx, input.SessionID, ""); err != nil {
			return nil, err
		}
		return &RemoveMemberOutput{Terminated: true}, nil
	}

	if _, err := s.removeFromSession(ctx, input.SessionID, input.UserID); err != nil {
		return nil, err
	}

	return &RemoveMemberOutput{}, nil
}

// creatorOf reads the creator under the session lock; empty when unknown
func creatorOf(s *service, sessionID string) string {
	s.registry.Lock(sessionID)
	defer s.registry.Unlock(sessionID)

	sess, ok := s.registry.Get(sessionID)
	if !ok {
		return ""
	}
	return sess.CreatorID
}

// terminate runs the full teardown from waiting or confirming. When
// initiatorID is set it must match the creator; internal callers pass "".
func (s *service) terminate(ctx context.Context, sessionID, initiatorID string) error {
	s.registry.Lock(sessionID)

	sess, ok := s.registry.Get(sessionID)
	if !ok {
		s.registry.Unlock(sessionID)
		return ErrSessionNotFound
	}

	if initiatorID != "" && initiatorID != sess.CreatorID {
		s.registry.Unlock(sessionID)
		return ErrNotSessionCreator
	}

	snap := s.teardownLocked(ctx, sess)
	s.registry.Unlock(sessionID)

	s.dropMemberships(ctx, snap.Players)
	s.deleteVoiceChannel(ctx, snap.VoiceChannelID)
	s.announce(ctx, snap, platform.NoticeCancelled, nil)

	return nil
}

// teardownLocked marks the session terminated, persists the soft delete and
// drops it from the registry. The caller holds the session lock and runs
// the external teardown effects after releasing it.
func (s *service) teardownLocked(ctx context.Context, sess *models.Session) *models.Session {
	s.sched.Cancel(sess.ID)
	sess.Status = models.SessionStatusTerminated
	sess.Active = false
	snap := sess.Clone()

	if err := s.sessionRepo.SoftDeleteSession(ctx, &sessionRepo.SoftDeleteSessionInput{SessionID: sess.ID}); err != nil {
		s.logger.Error("session soft delete failed",
			zap.String("session_id", sess.ID),
			zap.Error(err))
	}

	s.registry.Remove(sess.ID)
	return snap
}

// removeFromSession takes a non-creator member out of the session and
// reopens or destroys it. Shared by leave, decline and moderation removal.
func (s *service) removeFromSession(ctx context.Context, sessionID, userID string) (destroyed bool, err error) {
	s.registry.Lock(sessionID)

	sess, ok := s.registry.Get(sessionID)
	if !ok {
		s.registry.Unlock(sessionID)
		return false, ErrSessionNotFound
	}

	if !sess.HasPlayer(userID) {
		s.registry.Unlock(sessionID)
		return false, ErrNotAMember
	}

	sess.Players = removeString(sess.Players, userID)
	sess.Confirmed = removeString(sess.Confirmed, userID)

	if len(sess.Players) == 0 {
		snap := s.teardownLocked(ctx, sess)
		s.registry.Unlock(sessionID)

		s.dropMemberships(ctx, []string{userID})
		s.deleteVoiceChannel(ctx, snap.VoiceChannelID)
		s.announce(ctx, snap, platform.NoticeCancelled, nil)
		return true, nil
	}

	s.reopenLocked(sess)
	s.persist(ctx, sess)
	s.registry.Reindex(sess)
	snap := sess.Clone()
	s.registry.Unlock(sessionID)

	s.dropMemberships(ctx, []string{userID})
	s.revokeAccess(ctx, snap.GuildID, snap.VoiceChannelID, userID)
	s.announce(ctx, snap, platform.NoticeReopened, nil)

	return false, nil
}

// reopenLocked drops the session back to waiting. A squad that decayed back
// to just the creator picks its recruitment deadline back up, measured from
// the original creation time.
func (s *service) reopenLocked(sess *models.Session) {
	s.sched.Cancel(sess.ID)
	sess.Status = models.SessionStatusWaiting
	sess.ConfirmStartedAt = nil

	if len(sess.Players) == 1 {
		remaining := sess.CreatedAt.Add(s.recruitWindow).Sub(s.clock.Now())
		s.sched.Schedule(sess.ID, scheduler.TimerRecruitment, remaining)
	}
}

func removeString(list []string, value string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
