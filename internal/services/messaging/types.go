package messaging

// AnnouncementKind names the lifecycle moment copy is requested for
type AnnouncementKind string

const (
	// KindRecruiting is the standing "looking for members" headline
	KindRecruiting AnnouncementKind = "recruiting"

	// KindProgress is a membership change while still recruiting
	KindProgress AnnouncementKind = "progress"

	// KindAssembled asks a full squad to confirm attendance
	KindAssembled AnnouncementKind = "assembled"

	// KindReady is the final all-confirmed headline
	KindReady AnnouncementKind = "ready"

	// KindReopened follows a dropout or a confirmation timeout
	KindReopened AnnouncementKind = "reopened"

	// KindCancelled is the terminal cancellation headline
	KindCancelled AnnouncementKind = "cancelled"
)

type GetAnnouncementLineInput struct {
	Kind AnnouncementKind

	// Activity is spliced into the headline where the copy supports it
	Activity string

	// OpenSlots is how many seats remain, used by recruiting copy
	OpenSlots int
}

type GetAnnouncementLineOutput struct {
	Line string
}

type GetErrorMessageInput struct {
	Err error
}

type GetErrorMessageOutput struct {
	Message string
}

// ServiceConfig holds configuration for the messaging service
type ServiceConfig struct {
}
