// internal/domain/relationship.go
package domain

// RelationshipStatus is the state of an unordered pair of distinct users.
type RelationshipStatus string

const (
	RelationshipNone           RelationshipStatus = "NONE"
	RelationshipRequestPending RelationshipStatus = "REQUEST_PENDING"
	RelationshipFriends        RelationshipStatus = "FRIENDS"
)

// Relationship describes the pair state. RequesterID is only set while a
// request is pending and names the user who sent it.
type Relationship struct {
	Status      RelationshipStatus
	RequesterID int64
}

// PendingFrom reports whether a request sent by requesterID is pending.
func (r Relationship) PendingFrom(requesterID int64) bool {
	return r.Status == RelationshipRequestPending && r.RequesterID == requesterID
}
