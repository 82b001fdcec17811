package messaging

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/glutchdiscord-alt/v4-partyup/internal/services/party"
)

// service implements the Service interface
type service struct {
	// Random number generator for selecting random copy
	rand *rand.Rand
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (Service, error) {
	// Create a new random source with the current time as seed
	source := rand.NewSource(time.Now().UnixNano())

	return &service{
		rand: rand.New(source),
	}, nil
}

// GetAnnouncementLine returns the headline for a lifecycle announcement
func (s *service) GetAnnouncementLine(ctx context.Context, input *GetAnnouncementLineInput) (*GetAnnouncementLineOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	var lines []string

	switch input.Kind {
	case KindRecruiting:
		lines = []string{
			fmt.Sprintf("Squad forming for %s! %d more needed.", input.Activity, input.OpenSlots),
			fmt.Sprintf("Looking for %d more to play %s. Jump in!", input.OpenSlots, input.Activity),
			fmt.Sprintf("%s squad is recruiting. %d open slots.", input.Activity, input.OpenSlots),
		}
	case KindProgress:
		lines = []string{
			fmt.Sprintf("One more aboard! %d slots left for %s.", input.OpenSlots, input.Activity),
			fmt.Sprintf("The %s squad is growing. %d to go.", input.Activity, input.OpenSlots),
		}
	case KindAssembled:
		lines = []string{
			"Squad assembled! Confirm your attendance before the window closes.",
			"Full house! Everyone confirm to lock it in.",
		}
	case KindReady:
		lines = []string{
			"Everyone confirmed. Match ready, see you in voice!",
			"All locked in. Good luck and have fun!",
		}
	case KindReopened:
		lines = []string{
			fmt.Sprintf("A slot opened up for %s. Recruiting again!", input.Activity),
			fmt.Sprintf("Back to recruiting: %d slots open for %s.", input.OpenSlots, input.Activity),
		}
	case KindCancelled:
		lines = []string{
			"This squad has been disbanded.",
			"Party cancelled. Better luck next time!",
		}
	default:
		return nil, fmt.Errorf("unknown announcement kind: %s", input.Kind)
	}

	return &GetAnnouncementLineOutput{
		Line: lines[s.rand.Intn(len(lines))],
	}, nil
}

// GetErrorMessage returns a user-friendly message for a service error
func (s *service) GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error) {
	if input == nil || input.Err == nil {
		return nil, errors.New("input and error cannot be nil")
	}

	var message string

	switch {
	case errors.Is(input.Err, party.ErrSessionNotFound):
		message = "That squad doesn't exist anymore."
	case errors.Is(input.Err, party.ErrAlreadyInSession):
		message = "You're already in a squad. Leave it before joining another."
	case errors.Is(input.Err, party.ErrAlreadyCreatedSession):
		message = "You already have a squad open. End it before starting a new one."
	case errors.Is(input.Err, party.ErrSessionFull):
		message = "That squad is already full."
	case errors.Is(input.Err, party.ErrInvalidSessionState):
		message = "That squad isn't taking this action right now."
	case errors.Is(input.Err, party.ErrNotAMember):
		message = "You're not in that squad."
	case errors.Is(input.Err, party.ErrCreatorCannotLeave):
		message = "As the squad leader you can't just leave. Use end to disband."
	case errors.Is(input.Err, party.ErrNotSessionCreator):
		message = "Only the squad leader can do that."
	case errors.Is(input.Err, party.ErrUnknownActivity):
		message = "I don't recognize that game or mode."
	case errors.Is(input.Err, party.ErrCapacityOutOfRange):
		message = "Pick a squad size that actually makes sense."
	case errors.Is(input.Err, party.ErrInfoTooLong):
		message = "That description is a bit long. Keep it under 200 characters."
	case errors.Is(input.Err, party.ErrWrongChannel):
		message = "Squads can only be created in the designated channel."
	case errors.Is(input.Err, party.ErrOperationInFlight):
		message = "Hold on, I'm still working on the last request."
	default:
		message = "Something went wrong. Try again in a moment."
	}

	return &GetErrorMessageOutput{
		Message: message,
	}, nil
}
