// Package chat groups a user's messages into conversation threads.
package chat

import (
	"sort"

	"github.com/tindaph/tinda-backend/internal/model"
)

// ThreadKey identifies a conversation from one viewer's point of view.
type ThreadKey struct {
	ListingID     string
	CounterpartID string
}

// Thread is one conversation about a listing with its messages oldest first;
// UnreadCount counts those addressed to the viewer and not yet read.
type Thread struct {
	Key         ThreadKey
	Listing     model.Listing
	Counterpart model.User
	Messages    []model.Message
	LastMessage model.Message
	UnreadCount int
}

// ListingLookup and UserLookup resolve the records a thread refers to. A
// false result drops the thread.
type (
	ListingLookup func(id string) (model.Listing, bool)
	UserLookup    func(id string) (model.User, bool)
)

// Counterpart returns the other participant of m as seen by viewerID.
func Counterpart(m model.Message, viewerID string) string {
	if m.SenderID == viewerID {
		return m.RecipientID
	}
	return m.SenderID
}

func newer(a, b model.Message) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// BuildThreads groups the viewer's messages by listing and counterpart.
// Messages the viewer is not part of are ignored. Threads are returned in
// order of first appearance; messages inside a thread are oldest first.
func BuildThreads(messages []model.Message, viewerID string, listings ListingLookup, users UserLookup) []Thread {
	groups := make(map[ThreadKey][]model.Message)
	var order []ThreadKey
	for _, m := range messages {
		if !m.Involves(viewerID) {
			continue
		}
		key := ThreadKey{ListingID: m.ListingID, CounterpartID: Counterpart(m, viewerID)}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], m)
	}

	threads := make([]Thread, 0, len(order))
	for _, key := range order {
		listing, ok := listings(key.ListingID)
		if !ok {
			continue
		}
		counterpart, ok := users(key.CounterpartID)
		if !ok {
			continue
		}

		msgs := groups[key]
		sort.SliceStable(msgs, func(i, j int) bool { return newer(msgs[j], msgs[i]) })

		t := Thread{
			Key:         key,
			Listing:     listing,
			Counterpart: counterpart,
			Messages:    msgs,
			LastMessage: msgs[len(msgs)-1],
		}
		for _, m := range msgs {
			if m.RecipientID == viewerID && !m.Read {
				t.UnreadCount++
			}
		}
		threads = append(threads, t)
	}
	return threads
}

// SortByRecent orders threads by their last message, newest first.
func SortByRecent(threads []Thread) {
	sort.SliceStable(threads, func(i, j int) bool {
		return newer(threads[i].LastMessage, threads[j].LastMessage)
	})
}
