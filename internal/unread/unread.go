// Package unread implements the best-effort unread-chat heuristic. The
// last-seen map is persisted by the client and sent with each request; this
// is not a read-receipt system and is not synchronized across devices.
package unread

import "time"

// ChatDigest is the per-chat input to the estimator: who the other party is
// and their newest message in the chat, if any. Messages authored by the
// viewer never count toward unread.
type ChatDigest struct {
	OtherUserID      string
	LastTheirsAt     time.Time
	HasTheirMessages bool
}

// Count returns how many chats hold a message from the other party newer
// than the viewer's recorded last-seen time for that party. A chat with no
// messages from the other party is never unread; a party with no last-seen
// entry is unread as soon as any message from them exists.
func Count(digests []ChatDigest, lastSeen map[string]time.Time) int {
	count := 0
	for _, d := range digests {
		if IsUnread(d, lastSeen) {
			count++
		}
	}
	return count
}

// IsUnread reports whether a single chat counts as unread.
func IsUnread(d ChatDigest, lastSeen map[string]time.Time) bool {
	if !d.HasTheirMessages {
		return false
	}
	seen, ok := lastSeen[d.OtherUserID]
	if !ok {
		return true
	}
	return d.LastTheirsAt.After(seen)
}
