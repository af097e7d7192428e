package domain

import "time"

type BuddyStatus string

const (
	BuddyStatusPending  BuddyStatus = "pending"
	BuddyStatusAccepted BuddyStatus = "accepted"
	BuddyStatusRejected BuddyStatus = "rejected"
)

func (s BuddyStatus) Valid() bool {
	switch s {
	case BuddyStatusPending, BuddyStatusAccepted, BuddyStatusRejected:
		return true
	}
	return false
}

// Buddy is a relationship between two users. User1ID is the initiator and
// User2ID the receiver; only the receiver may resolve a pending request.
type Buddy struct {
	ID         int         `json:"id" db:"id"`
	User1ID    int         `json:"user1_id" db:"user1_id"`
	User2ID    int         `json:"user2_id" db:"user2_id"`
	MatchScore *float64    `json:"match_score" db:"match_score"`
	Status     BuddyStatus `json:"status" db:"status"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  *time.Time  `json:"updated_at,omitempty" db:"updated_at"`
}

func (b *Buddy) HasUser(userID int) bool {
	return b.User1ID == userID || b.User2ID == userID
}

func (b *Buddy) GetOtherUserID(userID int) (int, bool) {
	if b.User1ID == userID {
		return b.User2ID, true
	}
	if b.User2ID == userID {
		return b.User1ID, true
	}
	return 0, false
}

// Key returns the unordered pair key of the relationship.
func (b *Buddy) Key() PairKey {
	return NewPairKey(b.User1ID, b.User2ID)
}

// PairKey identifies a relationship regardless of who initiated it.
type PairKey struct {
	Low  int
	High int
}

func NewPairKey(a, b int) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{Low: a, High: b}
}
