package input

type CreateRoomInput struct {
	Name        string
	Description *string
	AvatarURL   *string
	GroupID     *int64
	MaxMembers  int
	IsPublic    bool
}

// UpdateRoomInput is a patch: nil fields keep their current value.
type UpdateRoomInput struct {
	Name        *string
	Description *string
	AvatarURL   *string
	MaxMembers  *int
	IsPublic    *bool
}
