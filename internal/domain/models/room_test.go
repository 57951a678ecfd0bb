package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomStatusTransitions(t *testing.T) {
	cases := []struct {
		from    RoomStatus
		to      RoomStatus
		allowed bool
	}{
		{RoomStatusActive, RoomStatusArchived, true},
		{RoomStatusActive, RoomStatusSuspended, true},
		{RoomStatusActive, RoomStatusClosed, true},
		{RoomStatusArchived, RoomStatusActive, true},
		{RoomStatusArchived, RoomStatusClosed, true},
		{RoomStatusSuspended, RoomStatusActive, true},
		{RoomStatusSuspended, RoomStatusClosed, true},

		{RoomStatusArchived, RoomStatusSuspended, false},
		{RoomStatusSuspended, RoomStatusArchived, false},
		{RoomStatusClosed, RoomStatusActive, false},
		{RoomStatusClosed, RoomStatusArchived, false},
		{RoomStatusActive, RoomStatusActive, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestRoomStatusValid(t *testing.T) {
	assert.True(t, RoomStatusActive.Valid())
	assert.True(t, RoomStatusClosed.Valid())
	assert.False(t, RoomStatus("deleted").Valid())
}

func TestRoleCanModerate(t *testing.T) {
	assert.True(t, RoleOwner.CanModerate())
	assert.True(t, RoleAdmin.CanModerate())
	assert.False(t, RoleMember.CanModerate())
}
