package messaging

import "context"

// Service is the interface for the messaging service
type Service interface {
	// GetAnnouncementLine returns the headline for a lifecycle announcement
	GetAnnouncementLine(ctx context.Context, input *GetAnnouncementLineInput) (*GetAnnouncementLineOutput, error)

	// GetErrorMessage returns a user-friendly message for a service error
	GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error)
}
