package notify

import "github.com/haianh3623/TEAManage/internal/model"

// Feed is the in-memory notification list, newest first. Insertion
// order is arrival order. The unread counter is maintained alongside
// every mutation so that unread == count(items where !IsRead) holds
// after each call.
//
// Feed is not safe for concurrent use; the Channel serializes access.
type Feed struct {
	items  []model.Notification
	unread int
}

// Replace swaps the whole list, as after a bulk unread fetch. The
// counter is recomputed from the new contents.
func (f *Feed) Replace(items []model.Notification) {
	f.items = make([]model.Notification, len(items))
	copy(f.items, items)

	f.unread = 0
	for _, n := range f.items {
		if !n.IsRead {
			f.unread++
		}
	}
}

// Push prepends a newly arrived notification and bumps the unread
// counter when it arrives unread.
func (f *Feed) Push(n model.Notification) {
	f.items = append([]model.Notification{n}, f.items...)
	if !n.IsRead {
		f.unread++
	}
}

// MarkRead flips a single notification to read. It reports whether any
// state changed; marking an unknown or already-read id is a no-op.
func (f *Feed) MarkRead(id int64) bool {
	for i := range f.items {
		if f.items[i].ID != id {
			continue
		}
		if f.items[i].IsRead {
			return false
		}
		f.items[i].IsRead = true
		f.unread--
		return true
	}
	return false
}

// MarkAllRead flips every notification to read and returns how many
// were unread before the call.
func (f *Feed) MarkAllRead() int {
	flipped := 0
	for i := range f.items {
		if !f.items[i].IsRead {
			f.items[i].IsRead = true
			flipped++
		}
	}
	f.unread = 0
	return flipped
}

// Clear drops all notifications, as on user switch or logout.
func (f *Feed) Clear() {
	f.items = nil
	f.unread = 0
}

// UnreadCount returns the number of unread notifications.
func (f *Feed) UnreadCount() int {
	return f.unread
}

// Len returns the total number of notifications held.
func (f *Feed) Len() int {
	return len(f.items)
}

// Items returns a copy of the notification list, newest first.
func (f *Feed) Items() []model.Notification {
	out := make([]model.Notification, len(f.items))
	copy(out, f.items)
	return out
}
