package model

import "time"

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
)

// Friendship is directed while pending: RequesterID asked AddresseeID.
type Friendship struct {
	RequesterID int64
	AddresseeID int64
	Status      FriendshipStatus
	CreatedAt   time.Time
}
