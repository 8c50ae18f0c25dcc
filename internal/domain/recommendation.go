// internal/domain/recommendation.go
package domain

// Recommendation is one ranked friend candidate.
type Recommendation struct {
	UserID          int64  `json:"id"`
	Username        string `json:"username"`
	CommonInterests int    `json:"common_interests"`
	MutualFriends   int    `json:"mutual_friends"`
}
