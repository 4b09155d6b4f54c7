package entity

import "slices"

// RoomMembership is the lobby state of one room: an optional master and its members.
type RoomMembership struct {
	RoomCode string   `json:"roomCode"`
	Master   string   `json:"master"`
	Members  []string `json:"members"`
}

func NewRoomMembership(roomCode string) *RoomMembership {
	return &RoomMembership{
		RoomCode: roomCode,
		Members:  []string{},
	}
}

// AddMember appends the username unless it is already a member.
func (that *RoomMembership) AddMember(username string) bool {
	if slices.Contains(that.Members, username) {
		return false
	}
	that.Members = append(that.Members, username)
	return true
}

// RemoveMember drops every occurrence of the username.
func (that *RoomMembership) RemoveMember(username string) {
	that.Members = slices.DeleteFunc(that.Members, func(member string) bool {
		return member == username
	})
}

func (that *RoomMembership) SetMaster(username string) {
	that.Master = username
}

func (that *RoomMembership) ClearMaster() {
	that.Master = ""
}

func (that *RoomMembership) IsEmpty() bool {
	return that.Master == "" && len(that.Members) == 0
}

// Pool merges the master into the member list, master first, without duplicates.
func (that *RoomMembership) Pool() []string {
	pool := make([]string, 0, len(that.Members)+1)
	if that.Master != "" {
		pool = append(pool, that.Master)
	}
	for _, member := range that.Members {
		if !slices.Contains(pool, member) {
			pool = append(pool, member)
		}
	}
	return pool
}

func (that *RoomMembership) Clone() *RoomMembership {
	if that == nil {
		return nil
	}
	members := make([]string, len(that.Members))
	copy(members, that.Members)
	return &RoomMembership{
		RoomCode: that.RoomCode,
		Master:   that.Master,
		Members:  members,
	}
}

// RoomSnapshot is the read-only view of a room sent to clients.
type RoomSnapshot struct {
	RoomCode string   `json:"roomCode"`
	Master   string   `json:"master"`
	Members  []string `json:"members"`
}

func (that *RoomMembership) Snapshot() RoomSnapshot {
	clone := that.Clone()
	return RoomSnapshot{
		RoomCode: clone.RoomCode,
		Master:   clone.Master,
		Members:  clone.Members,
	}
}
