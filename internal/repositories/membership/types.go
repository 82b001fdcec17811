package membership

type CreateMembershipInput struct {
	UserID    string
	SessionID string
}

type GetMembershipInput struct {
	UserID string
}

type GetMembershipOutput struct {
	SessionID string
}

type DeleteMembershipInput struct {
	UserID string
}
