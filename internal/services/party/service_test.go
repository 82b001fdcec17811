package party

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	clockMocks "github.com/glutchdiscord-alt/v4-partyup/internal/common/clock/mocks"
	uuidMocks "github.com/glutchdiscord-alt/v4-partyup/internal/common/uuid/mocks"
	"github.com/glutchdiscord-alt/v4-partyup/internal/models"
	"github.com/glutchdiscord-alt/v4-partyup/internal/platform"
	platformMocks "github.com/glutchdiscord-alt/v4-partyup/internal/platform/mocks"
	"github.com/glutchdiscord-alt/v4-partyup/internal/registry"
	membershipRepo "github.com/glutchdiscord-alt/v4-partyup/internal/repositories/membership"
	membershipMocks "github.com/glutchdiscord-alt/v4-partyup/internal/repositories/membership/mocks"
	sessionRepo "github.com/glutchdiscord-alt/v4-partyup/internal/repositories/session"
	sessionMocks "github.com/glutchdiscord-alt/v4-partyup/internal/repositories/session/mocks"
	settingsRepo "github.com/glutchdiscord-alt/v4-partyup/internal/repositories/settings"
	settingsMocks "github.com/glutchdiscord-alt/v4-partyup/internal/repositories/settings/mocks"
	"github.com/glutchdiscord-alt/v4-partyup/internal/scheduler"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PartyServiceTestSuite struct {
	suite.Suite
	mockCtrl           *gomock.Controller
	mockSessionRepo    *sessionMocks.MockRepository
	mockMembershipRepo *membershipMocks.MockRepository
	mockSettingsRepo   *settingsMocks.MockRepository
	mockPlatform       *platformMocks.MockPlatform
	mockClock          *clockMocks.MockClock
	mockUUID           *uuidMocks.MockUUID
	registry           *registry.Registry
	partyService       *service
	ctx                context.Context

	// Test data
	testTime      time.Time
	testGuildID   string
	testChannelID string
	testVoiceID   string
	testMessageID string
	testCreatorID string
	testJoinerID  string
	testThirdID   string

	// External effects captured by the baseline expectations
	mu              sync.Mutex
	persisted       []*models.Session
	softDeleted     []string
	deletedChannels []string
}

func (s *PartyServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockSessionRepo = sessionMocks.NewMockRepository(s.mockCtrl)
	s.mockMembershipRepo = membershipMocks.NewMockRepository(s.mockCtrl)
	s.mockSettingsRepo = settingsMocks.NewMockRepository(s.mockCtrl)
	s.mockPlatform = platformMocks.NewMockPlatform(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.registry = registry.New()

	s.ctx = context.Background()

	s.testTime = time.Date(2025, 6, 7, 18, 0, 0, 0, time.UTC)
	s.testGuildID = "test-guild-id"
	s.testChannelID = "test-channel-id"
	s.testVoiceID = "test-voice-channel-id"
	s.testMessageID = "test-message-id"
	s.testCreatorID = "test-creator-id"
	s.testJoinerID = "test-joiner-id"
	s.testThirdID = "test-third-id"

	s.persisted = nil
	s.softDeleted = nil
	s.deletedChannels = nil

	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	// Sequential session IDs so multi-session tests stay readable
	counter := 0
	s.mockUUID.EXPECT().NewUUID().DoAndReturn(func() string {
		counter++
		return fmt.Sprintf("test-session-%04d", counter)
	}).AnyTimes()

	cfg := &Config{
		SessionRepo:    s.mockSessionRepo,
		MembershipRepo: s.mockMembershipRepo,
		SettingsRepo:   s.mockSettingsRepo,
		Platform:       s.mockPlatform,
		Registry:       s.registry,
		Clock:          s.mockClock,
		UUIDGenerator:  s.mockUUID,
		RecruitWindow:  20 * time.Minute,
		ConfirmWindow:  5 * time.Minute,
		MaxCapacity:    10,
	}

	svc, err := New(cfg)
	s.Require().NoError(err)
	s.partyService = svc
}

func (s *PartyServiceTestSuite) TearDownTest() {
	s.partyService.Stop()
	s.mockCtrl.Finish()
}

// expectBaseline wires permissive expectations for every collaborator and
// records the external effects so tests can assert on them afterwards.
// Tests needing a specific behavior declare their own expectation first;
// the baseline absorbs the rest.
func (s *PartyServiceTestSuite) expectBaseline() {
	s.mockSettingsRepo.EXPECT().
		GetGuildSettings(gomock.Any(), gomock.Any()).
		Return(nil, settingsRepo.ErrSettingsNotFound).
		AnyTimes()

	s.mockMembershipRepo.EXPECT().
		GetMembership(gomock.Any(), gomock.Any()).
		Return(nil, membershipRepo.ErrMembershipNotFound).
		AnyTimes()
	s.mockMembershipRepo.EXPECT().
		CreateMembership(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()
	s.mockMembershipRepo.EXPECT().
		DeleteMembership(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	s.mockSessionRepo.EXPECT().
		CreateSession(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()
	s.mockSessionRepo.EXPECT().
		UpdateSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.UpdateSessionInput) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.persisted = append(s.persisted, input.Session.Clone())
			return nil
		}).
		AnyTimes()
	s.mockSessionRepo.EXPECT().
		SoftDeleteSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SoftDeleteSessionInput) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.softDeleted = append(s.softDeleted, input.SessionID)
			return nil
		}).
		AnyTimes()

	s.mockPlatform.EXPECT().
		CreatePrivateVoiceChannel(gomock.Any(), gomock.Any()).
		Return(&platform.CreatePrivateVoiceChannelOutput{ChannelID: s.testVoiceID}, nil).
		AnyTimes()
	s.mockPlatform.EXPECT().
		DeleteVoiceChannel(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *platform.DeleteVoiceChannelInput) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.deletedChannels = append(s.deletedChannels, input.ChannelID)
			return nil
		}).
		AnyTimes()
	s.mockPlatform.EXPECT().
		SetMemberAccess(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()
	s.mockPlatform.EXPECT().
		DisconnectMember(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()
	s.mockPlatform.EXPECT().
		PublishOrUpdateAnnouncement(gomock.Any(), gomock.Any()).
		Return(&platform.PublishOrUpdateAnnouncementOutput{MessageID: s.testMessageID}, nil).
		AnyTimes()
}

// createSession drives a successful creation and returns the new session ID
func (s *PartyServiceTestSuite) createSession(capacity int) string {
	out, err := s.partyService.CreateSession(s.ctx, &CreateSessionInput{
		UserID:    s.testCreatorID,
		GuildID:   s.testGuildID,
		ChannelID: s.testChannelID,
		Activity:  "valorant",
		Mode:      "competitive",
		Capacity:  capacity,
	})
	s.Require().NoError(err)
	s.Require().NotNil(out)
	return out.Session.ID
}

func (s *PartyServiceTestSuite) join(userID, sessionID string) (*JoinSessionOutput, error) {
	return s.partyService.JoinSession(s.ctx, &JoinSessionInput{
		UserID:    userID,
		SessionID: sessionID,
	})
}

func (s *PartyServiceTestSuite) wasSoftDeleted(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.softDeleted {
		if id == sessionID {
			return true
		}
	}
	return false
}

// CreateSession tests

func (s *PartyServiceTestSuite) TestCreateSession_HappyPath() {
	s.expectBaseline()

	out, err := s.partyService.CreateSession(s.ctx, &CreateSessionInput{
		UserID:    s.testCreatorID,
		GuildID:   s.testGuildID,
		ChannelID: s.testChannelID,
		Activity:  "valorant",
		Mode:      "competitive",
		Capacity:  5,
		Info:      "diamond lobby",
	})

	s.Require().NoError(err)
	s.Require().NotNil(out)
	s.Equal(models.SessionStatusWaiting, out.Session.Status)
	s.Equal([]string{s.testCreatorID}, out.Session.Players)
	s.Empty(out.Session.Confirmed)
	s.Equal(s.testVoiceID, out.VoiceChannelID)
	s.Equal(s.testTime, out.Session.CreatedAt)

	s.Equal(1, s.registry.Len())
	kind, pending := s.partyService.sched.Pending(out.Session.ID)
	s.True(pending)
	s.Equal(scheduler.TimerRecruitment, kind)
}

func (s *PartyServiceTestSuite) TestCreateSession_CapacityOutOfRange() {
	s.expectBaseline()

	for _, capacity := range []int{0, 1, 11} {
		out, err := s.partyService.CreateSession(s.ctx, &CreateSessionInput{
			UserID:    s.testCreatorID,
			GuildID:   s.testGuildID,
			ChannelID: s.testChannelID,
			Activity:  "valorant",
			Mode:      "competitive",
			Capacity:  capacity,
		})

		s.Require().ErrorIs(err, ErrCapacityOutOfRange)
		s.Nil(out)
	}
}

func (s *PartyServiceTestSuite) TestCreateSession_EmptyActivity() {
	s.expectBaseline()

	out, err := s.partyService.CreateSession(s.ctx, &CreateSessionInput{
		UserID:    s.testCreatorID,
		GuildID:   s.testGuildID,
		ChannelID: s.testChannelID,
		Activity:  "",
		Mode:      "competitive",
		Capacity:  5,
	})

	s.Require().ErrorIs(err, ErrUnknownActivity)
	s.Nil(out)
}

func (s *PartyServiceTestSuite) TestCreateSession_RestrictedChannel() {
	s.mockSettingsRepo.EXPECT().
		GetGuildSettings(gomock.Any(), &settingsRepo.GetGuildSettingsInput{
			GuildID: s.testGuildID,
		}).
		Return(&models.GuildSettings{
			GuildID:             s.testGuildID,
			RestrictedChannelID: "the-matchmaking-channel",
		}, nil)

	out, err := s.partyService.CreateSession(s.ctx, &CreateSessionInput{
		UserID:    s.testCreatorID,
		GuildID:   s.testGuildID,
		ChannelID: s.testChannelID,
		Activity:  "valorant",
		Mode:      "competitive",
		Capacity:  5,
	})

	s.Require().ErrorIs(err, ErrWrongChannel)
	s.Nil(out)
}

func (s *PartyServiceTestSuite) TestCreateSession_SecondSessionRejected() {
	s.expectBaseline()

	s.createSession(5)

	out, err := s.partyService.CreateSession(s.ctx, &CreateSessionInput{
		UserID:    s.testCreatorID,
		GuildID:   s.testGuildID,
		ChannelID: s.testChannelID,
		Activity:  "valorant",
		Mode:      "competitive",
		Capacity:  5,
	})

	s.Require().ErrorIs(err, ErrAlreadyCreatedSession)
	s.Nil(out)
	s.Equal(1, s.registry.Len())
}

func (s *PartyServiceTestSuite) TestCreateSession_StoreFailureRollsBackVoiceChannel() {
	expectedErr := errors.New("redis unavailable")

	s.mockSessionRepo.EXPECT().
		CreateSession(gomock.Any(), gomock.Any()).
		Return(expectedErr)
	s.expectBaseline()

	out, err := s.partyService.CreateSession(s.ctx, &CreateSessionInput{
		UserID:    s.testCreatorID,
		GuildID:   s.testGuildID,
		ChannelID: s.testChannelID,
		Activity:  "valorant",
		Mode:      "competitive",
		Capacity:  5,
	})

	s.Require().ErrorIs(err, expectedErr)
	s.Nil(out)
	s.Equal(0, s.registry.Len())

	// The voice channel from phase one must not be orphaned
	s.mu.Lock()
	s.Equal([]string{s.testVoiceID}, s.deletedChannels)
	s.mu.Unlock()

	// Nothing from the failed attempt blocks a retry
	s.createSession(5)
}

func (s *PartyServiceTestSuite) TestCreateSession_ChannelFailureLeavesNoTrace() {
	expectedErr := errors.New("discord 500")

	s.mockPlatform.EXPECT().
		CreatePrivateVoiceChannel(gomock.Any(), gomock.Any()).
		Return(nil, expectedErr)
	s.expectBaseline()

	out, err := s.partyService.CreateSession(s.ctx, &CreateSessionInput{
		UserID:    s.testCreatorID,
		GuildID:   s.testGuildID,
		ChannelID: s.testChannelID,
		Activity:  "valorant",
		Mode:      "competitive",
		Capacity:  5,
	})

	s.Require().ErrorIs(err, expectedErr)
	s.Nil(out)
	s.Equal(0, s.registry.Len())

	// A retry goes through once the transient failure clears
	s.createSession(5)
}

// JoinSession tests

func (s *PartyServiceTestSuite) TestJoinSession_AddsMember() {
	s.expectBaseline()
	sessionID := s.createSession(5)

	out, err := s.join(s.testJoinerID, sessionID)

	s.Require().NoError(err)
	s.False(out.Filled)
	s.Equal(models.SessionStatusWaiting, out.Session.Status)
	s.Equal([]string{s.testCreatorID, s.testJoinerID}, out.Session.Players)

	// A squad with company no longer owns a recruitment timer
	_, pending := s.partyService.sched.Pending(sessionID)
	s.False(pending)
}

func (s *PartyServiceTestSuite) TestJoinSession_AlreadyMember() {
	s.expectBaseline()
	sessionID := s.createSession(5)

	out, err := s.join(s.testCreatorID, sessionID)

	s.Require().NoError(err)
	s.True(out.AlreadyMember)
	s.Equal([]string{s.testCreatorID}, out.Session.Players)
}

func (s *PartyServiceTestSuite) TestJoinSession_FillTransitionsToConfirming() {
	s.expectBaseline()
	sessionID := s.createSession(2)

	out, err := s.join(s.testJoinerID, sessionID)

	s.Require().NoError(err)
	s.True(out.Filled)
	s.Equal(models.SessionStatusConfirming, out.Session.Status)
	s.Require().NotNil(out.Session.ConfirmStartedAt)
	s.Equal(s.testTime, *out.Session.ConfirmStartedAt)

	kind, pending := s.partyService.sched.Pending(sessionID)
	s.True(pending)
	s.Equal(scheduler.TimerConfirmation, kind)
}

func (s *PartyServiceTestSuite) TestJoinSession_RejectsWhileConfirming() {
	s.expectBaseline()
	sessionID := s.createSession(2)

	_, err := s.join(s.testJoinerID, sessionID)
	s.Require().NoError(err)

	out, err := s.join(s.testThirdID, sessionID)

	s.Require().ErrorIs(err, ErrInvalidSessionState)
	s.Nil(out)
}

func (s *PartyServiceTestSuite) TestJoinSession_MemberOfAnotherSession() {
	s.expectBaseline()
	first := s.createSession(5)

	// A second creator opens their own squad
	secondOut, err := s.partyService.CreateSession(s.ctx, &CreateSessionInput{
		UserID:    "test-other-creator",
		GuildID:   s.testGuildID,
		ChannelID: s.testChannelID,
		Activity:  "valorant",
		Mode:      "competitive",
		Capacity:  5,
	})
	s.Require().NoError(err)

	out, err := s.join("test-other-creator", first)

	s.Require().ErrorIs(err, ErrAlreadyInSession)
	s.Nil(out)

	// Both squads untouched
	sess, ok := s.registry.Get(secondOut.Session.ID)
	s.Require().True(ok)
	s.Equal([]string{"test-other-creator"}, sess.Players)
}

func (s *PartyServiceTestSuite) TestJoinSession_ConcurrentNeverOverfills() {
	s.expectBaseline()
	sessionID := s.createSession(3)

	const contenders = 16
	var wg sync.WaitGroup
	results := make([]error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, results[n] = s.join(fmt.Sprintf("test-user-%02d", n), sessionID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			s.ErrorIs(err, ErrInvalidSessionState)
		}
	}
	s.Equal(2, succeeded)

	sess, ok := s.registry.Get(sessionID)
	s.Require().True(ok)
	s.Len(sess.Players, 3)
	s.Equal(models.SessionStatusConfirming, sess.Status)
}

func (s *PartyServiceTestSuite) TestJoinSession_ConcurrentAcrossSessionsSingleMembership() {
	s.expectBaseline()
	firstID := s.createSession(5)

	second, err := s.partyService.CreateSession(s.ctx, &CreateSessionInput{
		UserID:    s.testThirdID,
		GuildID:   s.testGuildID,
		ChannelID: s.testChannelID,
		Activity:  "valorant",
		Mode:      "competitive",
		Capacity:  5,
	})
	s.Require().NoError(err)

	// The same user raced into both sessions at once must land in exactly
	// one of them, no matter how the goroutines interleave
	targets := []string{firstID, second.Session.ID, firstID, second.Session.ID}
	var wg sync.WaitGroup
	outs := make([]*JoinSessionOutput, len(targets))
	errs := make([]error, len(targets))

	for i := range targets {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			outs[n], errs[n] = s.join(s.testJoinerID, targets[n])
		}(i)
	}
	wg.Wait()

	freshJoins := 0
	for i := range targets {
		if errs[i] == nil {
			if !outs[i].AlreadyMember {
				freshJoins++
			}
		} else {
			s.ErrorIs(errs[i], ErrAlreadyInSession)
		}
	}
	s.Equal(1, freshJoins)

	memberships := 0
	for _, id := range []string{firstID, second.Session.ID} {
		sess, ok := s.registry.Get(id)
		s.Require().True(ok)
		if sess.HasPlayer(s.testJoinerID) {
			memberships++
		}
	}
	s.Equal(1, memberships)
}

func (s *PartyServiceTestSuite) TestCreateSession_ConcurrentSameUserSingleSession() {
	s.expectBaseline()

	// Parallel creations in different guilds dodge the per-guild operation
	// guard; the membership claim still admits only one
	const attempts = 8
	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, results[n] = s.partyService.CreateSession(s.ctx, &CreateSessionInput{
				UserID:    s.testCreatorID,
				GuildID:   fmt.Sprintf("test-guild-%02d", n),
				ChannelID: s.testChannelID,
				Activity:  "valorant",
				Mode:      "competitive",
				Capacity:  5,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			s.True(errors.Is(err, ErrAlreadyInSession) || errors.Is(err, ErrAlreadyCreatedSession),
				"unexpected error: %v", err)
		}
	}
	s.Equal(1, succeeded)
	s.Equal(1, s.registry.Len())
}

// ConfirmAttendance tests

func (s *PartyServiceTestSuite) TestConfirmAttendance_RepeatIsNoOp() {
	s.expectBaseline()
	sessionID := s.createSession(3)
	_, err := s.join(s.testJoinerID, sessionID)
	s.Require().NoError(err)
	_, err = s.join(s.testThirdID, sessionID)
	s.Require().NoError(err)

	first, err := s.partyService.ConfirmAttendance(s.ctx, &ConfirmAttendanceInput{
		UserID:    s.testJoinerID,
		SessionID: sessionID,
	})
	s.Require().NoError(err)
	s.False(first.AlreadyConfirmed)

	second, err := s.partyService.ConfirmAttendance(s.ctx, &ConfirmAttendanceInput{
		UserID:    s.testJoinerID,
		SessionID: sessionID,
	})
	s.Require().NoError(err)
	s.True(second.AlreadyConfirmed)

	sess, ok := s.registry.Get(sessionID)
	s.Require().True(ok)
	s.Equal([]string{s.testJoinerID}, sess.Confirmed)
}

func (s *PartyServiceTestSuite) TestConfirmAttendance_RequiresConfirmingState() {
	s.expectBaseline()
	sessionID := s.createSession(5)

	out, err := s.partyService.ConfirmAttendance(s.ctx, &ConfirmAttendanceInput{
		UserID:    s.testCreatorID,
		SessionID: sessionID,
	})

	s.Require().ErrorIs(err, ErrInvalidSessionState)
	s.Nil(out)
}

func (s *PartyServiceTestSuite) TestConfirmAttendance_CompletesSquad() {
	s.expectBaseline()
	sessionID := s.createSession(2)
	_, err := s.join(s.testJoinerID, sessionID)
	s.Require().NoError(err)

	_, err = s.partyService.ConfirmAttendance(s.ctx, &ConfirmAttendanceInput{
		UserID:    s.testCreatorID,
		SessionID: sessionID,
	})
	s.Require().NoError(err)

	out, err := s.partyService.ConfirmAttendance(s.ctx, &ConfirmAttendanceInput{
		UserID:    s.testJoinerID,
		SessionID: sessionID,
	})

	s.Require().NoError(err)
	s.True(out.AllConfirmed)

	// A live squad leaves active tracking and its members are free again
	s.Equal(0, s.registry.Len())
	_, pending := s.partyService.sched.Pending(sessionID)
	s.False(pending)

	s.mu.Lock()
	final := s.persisted[len(s.persisted)-1]
	s.mu.Unlock()
	s.Equal(models.SessionStatusActive, final.Status)
	s.False(final.Active)
	s.Nil(final.ConfirmStartedAt)
}

// Decline / leave / terminate tests

func (s *PartyServiceTestSuite) TestDeclineAttendance_NonCreatorReopens() {
	s.expectBaseline()
	sessionID := s.createSession(2)
	_, err := s.join(s.testJoinerID, sessionID)
	s.Require().NoError(err)

	out, err := s.partyService.DeclineAttendance(s.ctx, &DeclineAttendanceInput{
		UserID:    s.testJoinerID,
		SessionID: sessionID,
	})

	s.Require().NoError(err)
	s.False(out.Terminated)

	sess, ok := s.registry.Get(sessionID)
	s.Require().True(ok)
	s.Equal(models.SessionStatusWaiting, sess.Status)
	s.Equal([]string{s.testCreatorID}, sess.Players)
	s.Nil(sess.ConfirmStartedAt)

	// Back to a lonely squad: the recruitment deadline is re-armed
	kind, pending := s.partyService.sched.Pending(sessionID)
	s.True(pending)
	s.Equal(scheduler.TimerRecruitment, kind)
}

func (s *PartyServiceTestSuite) TestDeclineAttendance_CreatorTerminates() {
	s.expectBaseline()
	sessionID := s.createSession(2)
	_, err := s.join(s.testJoinerID, sessionID)
	s.Require().NoError(err)

	out, err := s.partyService.DeclineAttendance(s.ctx, &DeclineAttendanceInput{
		UserID:    s.testCreatorID,
		SessionID: sessionID,
	})

	s.Require().NoError(err)
	s.True(out.Terminated)
	s.Equal(0, s.registry.Len())
	s.True(s.wasSoftDeleted(sessionID))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Contains(s.deletedChannels, s.testVoiceID)
}

func (s *PartyServiceTestSuite) TestLeaveSession_RemovesMember() {
	s.expectBaseline()
	sessionID := s.createSession(5)
	_, err := s.join(s.testJoinerID, sessionID)
	s.Require().NoError(err)

	out, err := s.partyService.LeaveSession(s.ctx, &LeaveSessionInput{
		UserID:    s.testJoinerID,
		SessionID: sessionID,
	})

	s.Require().NoError(err)
	s.False(out.Destroyed)

	sess, ok := s.registry.Get(sessionID)
	s.Require().True(ok)
	s.Equal([]string{s.testCreatorID}, sess.Players)
}

func (s *PartyServiceTestSuite) TestLeaveSession_CreatorCannotLeave() {
	s.expectBaseline()
	sessionID := s.createSession(5)

	out, err := s.partyService.LeaveSession(s.ctx, &LeaveSessionInput{
		UserID:    s.testCreatorID,
		SessionID: sessionID,
	})

	s.Require().ErrorIs(err, ErrCreatorCannotLeave)
	s.Nil(out)
	s.Equal(1, s.registry.Len())
}

func (s *PartyServiceTestSuite) TestTerminateSession_CreatorOnly() {
	s.expectBaseline()
	sessionID := s.createSession(5)

	out, err := s.partyService.TerminateSession(s.ctx, &TerminateSessionInput{
		SessionID:   sessionID,
		InitiatorID: s.testJoinerID,
	})
	s.Require().ErrorIs(err, ErrNotSessionCreator)
	s.Nil(out)

	_, err = s.partyService.TerminateSession(s.ctx, &TerminateSessionInput{
		SessionID:   sessionID,
		InitiatorID: s.testCreatorID,
	})
	s.Require().NoError(err)
	s.Equal(0, s.registry.Len())
	s.True(s.wasSoftDeleted(sessionID))
}

func (s *PartyServiceTestSuite) TestRemoveMember_NonCreator() {
	s.expectBaseline()
	sessionID := s.createSession(5)
	_, err := s.join(s.testJoinerID, sessionID)
	s.Require().NoError(err)

	out, err := s.partyService.RemoveMember(s.ctx, &RemoveMemberInput{
		SessionID: sessionID,
		UserID:    s.testJoinerID,
	})

	s.Require().NoError(err)
	s.False(out.Terminated)

	sess, ok := s.registry.Get(sessionID)
	s.Require().True(ok)
	s.False(sess.HasPlayer(s.testJoinerID))
}

// Timeout tests

func (s *PartyServiceTestSuite) TestRecruitmentTimeout_DestroysLonelySession() {
	s.expectBaseline()
	sessionID := s.createSession(5)

	s.partyService.handleRecruitmentTimeout(s.ctx, sessionID)

	s.Equal(0, s.registry.Len())
	s.True(s.wasSoftDeleted(sessionID))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Contains(s.deletedChannels, s.testVoiceID)
}

func (s *PartyServiceTestSuite) TestRecruitmentTimeout_IgnoresGrownSession() {
	s.expectBaseline()
	sessionID := s.createSession(5)
	_, err := s.join(s.testJoinerID, sessionID)
	s.Require().NoError(err)

	// A stale timer firing after someone joined must be a no-op
	s.partyService.handleRecruitmentTimeout(s.ctx, sessionID)

	s.Equal(1, s.registry.Len())
	s.False(s.wasSoftDeleted(sessionID))
}

func (s *PartyServiceTestSuite) TestConfirmationTimeout_RetainsCreatorAndConfirmed() {
	s.expectBaseline()
	sessionID := s.createSession(3)
	_, err := s.join(s.testJoinerID, sessionID)
	s.Require().NoError(err)
	_, err = s.join(s.testThirdID, sessionID)
	s.Require().NoError(err)

	_, err = s.partyService.ConfirmAttendance(s.ctx, &ConfirmAttendanceInput{
		UserID:    s.testJoinerID,
		SessionID: sessionID,
	})
	s.Require().NoError(err)

	s.partyService.handleConfirmationTimeout(s.ctx, sessionID)

	sess, ok := s.registry.Get(sessionID)
	s.Require().True(ok)
	s.Equal(models.SessionStatusWaiting, sess.Status)
	s.Equal([]string{s.testCreatorID, s.testJoinerID}, sess.Players)
	s.Empty(sess.Confirmed)
	s.Nil(sess.ConfirmStartedAt)
}

// Sweep tests

func (s *PartyServiceTestSuite) TestSweep_CatchesExpiredDeadlines() {
	s.expectBaseline()

	expired := &models.Session{
		ID:             "test-expired-session",
		CreatorID:      s.testCreatorID,
		GuildID:        s.testGuildID,
		ChannelID:      s.testChannelID,
		Capacity:       5,
		Status:         models.SessionStatusWaiting,
		Players:        []string{s.testCreatorID},
		Confirmed:      []string{},
		VoiceChannelID: s.testVoiceID,
		CreatedAt:      s.testTime.Add(-30 * time.Minute),
		Active:         true,
	}
	confirmExpiredAt := s.testTime.Add(-10 * time.Minute)
	stalled := &models.Session{
		ID:               "test-stalled-session",
		CreatorID:        "test-other-creator",
		GuildID:          s.testGuildID,
		ChannelID:        s.testChannelID,
		Capacity:         2,
		Status:           models.SessionStatusConfirming,
		Players:          []string{"test-other-creator", s.testJoinerID},
		Confirmed:        []string{},
		VoiceChannelID:   "test-other-voice",
		CreatedAt:        s.testTime.Add(-15 * time.Minute),
		ConfirmStartedAt: &confirmExpiredAt,
		Active:           true,
	}
	s.registry.Add(expired)
	s.registry.Add(stalled)

	s.partyService.sweepOnce(s.ctx)

	// The lonely expired squad is gone
	s.True(s.wasSoftDeleted("test-expired-session"))
	_, ok := s.registry.Get("test-expired-session")
	s.False(ok)

	// The stalled confirmation reopened with just its creator
	sess, ok := s.registry.Get("test-stalled-session")
	s.Require().True(ok)
	s.Equal(models.SessionStatusWaiting, sess.Status)
	s.Equal([]string{"test-other-creator"}, sess.Players)
}

// Restore tests

func (s *PartyServiceTestSuite) TestRestore_RebuildsRegistryAndDestroysOrphans() {
	healthy := &models.Session{
		ID:             "test-healthy-session",
		CreatorID:      s.testCreatorID,
		GuildID:        s.testGuildID,
		ChannelID:      s.testChannelID,
		Capacity:       5,
		Status:         models.SessionStatusWaiting,
		Players:        []string{s.testCreatorID},
		Confirmed:      []string{},
		VoiceChannelID: s.testVoiceID,
		CreatedAt:      s.testTime.Add(-time.Minute),
		Active:         true,
	}
	expired := &models.Session{
		ID:             "test-expired-session",
		CreatorID:      "test-other-creator",
		GuildID:        s.testGuildID,
		ChannelID:      s.testChannelID,
		Capacity:       5,
		Status:         models.SessionStatusWaiting,
		Players:        []string{"test-other-creator"},
		Confirmed:      []string{},
		VoiceChannelID: "test-other-voice",
		CreatedAt:      s.testTime.Add(-30 * time.Minute),
		Active:         true,
	}
	unbound := &models.Session{
		ID:             "test-unbound-session",
		CreatorID:      s.testThirdID,
		GuildID:        "test-deleted-guild",
		ChannelID:      s.testChannelID,
		Capacity:       5,
		Status:         models.SessionStatusWaiting,
		Players:        []string{s.testThirdID},
		Confirmed:      []string{},
		VoiceChannelID: "test-orphan-voice",
		CreatedAt:      s.testTime.Add(-time.Minute),
		Active:         true,
	}

	s.mockSessionRepo.EXPECT().
		ListActiveSessions(gomock.Any(), gomock.Any()).
		Return(&sessionRepo.ListActiveSessionsOutput{
			Sessions: []*models.Session{healthy, expired, unbound},
		}, nil)
	s.mockPlatform.EXPECT().
		BindingExists(gomock.Any(), &platform.BindingExistsInput{
			GuildID:   s.testGuildID,
			ChannelID: s.testChannelID,
		}).
		Return(true).
		Times(2)
	s.mockPlatform.EXPECT().
		BindingExists(gomock.Any(), &platform.BindingExistsInput{
			GuildID:   "test-deleted-guild",
			ChannelID: s.testChannelID,
		}).
		Return(false)
	s.expectBaseline()

	err := s.partyService.Restore(s.ctx)
	s.Require().NoError(err)

	// Only the healthy session survives, with its timer re-derived
	s.Equal(1, s.registry.Len())
	_, ok := s.registry.Get("test-healthy-session")
	s.True(ok)
	kind, pending := s.partyService.sched.Pending("test-healthy-session")
	s.True(pending)
	s.Equal(scheduler.TimerRecruitment, kind)

	// The expired one ran its timeout, the unbound one was destroyed
	s.True(s.wasSoftDeleted("test-expired-session"))
	s.True(s.wasSoftDeleted("test-unbound-session"))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Contains(s.deletedChannels, "test-other-voice")
	s.Contains(s.deletedChannels, "test-orphan-voice")
}

func (s *PartyServiceTestSuite) TestRestore_ListFailure() {
	expectedErr := errors.New("redis unavailable")

	s.mockSessionRepo.EXPECT().
		ListActiveSessions(gomock.Any(), gomock.Any()).
		Return(nil, expectedErr)

	err := s.partyService.Restore(s.ctx)
	s.Require().ErrorIs(err, expectedErr)
}

// Announcement recovery

func (s *PartyServiceTestSuite) TestAnnounce_RecoversDeletedMessage() {
	snap := &models.Session{
		ID:             "test-session-recovery",
		CreatorID:      s.testCreatorID,
		GuildID:        s.testGuildID,
		ChannelID:      s.testChannelID,
		AnnouncementID: "test-deleted-message",
		Capacity:       5,
		Status:         models.SessionStatusWaiting,
		Players:        []string{s.testCreatorID},
		Confirmed:      []string{},
		CreatedAt:      s.testTime,
		Active:         true,
	}

	// The edit fails because the message was deleted out from under us
	s.mockPlatform.EXPECT().
		PublishOrUpdateAnnouncement(gomock.Any(), gomock.Any()).
		Return(nil, platform.ErrMessageNotFound)

	// The tag search finds the replacement
	s.mockPlatform.EXPECT().
		FindAnnouncement(gomock.Any(), &platform.FindAnnouncementInput{
			ChannelID:       s.testChannelID,
			SessionIDSuffix: "recovery",
		}).
		Return(&platform.FindAnnouncementOutput{MessageID: s.testMessageID}, nil)

	s.mockPlatform.EXPECT().
		PublishOrUpdateAnnouncement(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *platform.PublishOrUpdateAnnouncementInput) (*platform.PublishOrUpdateAnnouncementOutput, error) {
			s.Equal(s.testMessageID, input.MessageID)
			return &platform.PublishOrUpdateAnnouncementOutput{MessageID: s.testMessageID}, nil
		})

	s.partyService.announce(s.ctx, snap, platform.NoticeRecruiting, nil)
}

func TestPartyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PartyServiceTestSuite))
}
