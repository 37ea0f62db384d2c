package notify

import (
	"context"
	"strconv"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/haianh3623/TEAManage/internal/api"
	"github.com/haianh3623/TEAManage/internal/model"
	"github.com/haianh3623/TEAManage/internal/store"
)

// State is the push-channel connection state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

// String returns the state label used in the status bar.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "live"
	default:
		return "offline"
	}
}

// PushMsg is a tea.Msg sent when a notification arrives over the
// push channel.
type PushMsg struct {
	Notification model.Notification
	Unread       int
}

// FeedReloadedMsg is a tea.Msg sent after a bulk unread fetch.
// FromCache is true when the server was unreachable and the local cache
// served the list instead; a failed fetch with no cached rows empties
// the feed.
type FeedReloadedMsg struct {
	Items     []model.Notification
	Unread    int
	FromCache bool
	Err       error
}

// MarkReadResultMsg is a tea.Msg reporting a mark-read mutation.
// ID is zero for mark-all. A non-nil Err means the server call failed
// after the optimistic local flip; a reconciling reload has already
// been scheduled.
type MarkReadResultMsg struct {
	ID     int64
	Unread int
	Err    error
}

// StateChangedMsg is a tea.Msg reporting a connection state transition.
// Attempt is the reconnect attempt number that produced the transition,
// zero for explicit connects.
type StateChangedMsg struct {
	State   State
	Attempt int
}

// maxBackoff caps the delay between reconnect attempts.
const maxBackoff = 30 * time.Second

// BackoffDelay returns the delay before the attempt-th reconnect:
// min(1s * 2^attempt, 30s). Attempts are numbered from 1.
func BackoffDelay(attempt int) time.Duration {
	if attempt >= 5 {
		return maxBackoff
	}
	delay := time.Duration(1<<uint(attempt)) * time.Second
	if delay > maxBackoff {
		return maxBackoff
	}
	return delay
}

// Channel owns the single logical connection to the per-user
// notification topic and the in-memory feed derived from it.
//
// Lifecycle: Disconnected until Connect. An initial dial failure stays
// Disconnected with no retry, so a down backend does not trigger a
// reconnect storm at page load. A drop after a successful connect
// reconnects with exponential backoff, giving up for good after
// maxReconnectAttempts until the next explicit Connect (typically a
// fresh login).
type Channel struct {
	client  *api.Client
	dialer  Dialer
	store   store.Store
	wsURL   string
	desktop bool

	maxReconnectAttempts int

	mu                gosync.Mutex
	state             State
	userID            int64
	feed              Feed
	conn              Conn
	connGen           int
	reconnectAttempts int
	reconnectTimer    *time.Timer

	eventCh chan tea.Msg

	// afterFunc schedules reconnect timers; replaced in tests.
	afterFunc func(time.Duration, func()) *time.Timer
}

// NewChannel creates a notification channel. A nil dialer is tolerated:
// Connect becomes a no-op and the feature degrades to "no live updates"
// while the bulk fetch and mark-read paths keep working. A nil store
// disables the offline cache.
func NewChannel(
	client *api.Client,
	dialer Dialer,
	wsURL string,
	cfg model.NotificationsConfig,
	s store.Store,
) *Channel {
	maxAttempts := cfg.MaxReconnectAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Channel{
		client:               client,
		dialer:               dialer,
		store:                s,
		wsURL:                wsURL,
		desktop:              cfg.Desktop,
		maxReconnectAttempts: maxAttempts,
		eventCh:              make(chan tea.Msg, 16),
		afterFunc:            time.AfterFunc,
	}
}

// State returns the current connection state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// UnreadCount returns the current unread counter.
func (c *Channel) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.feed.UnreadCount()
}

// Notifications returns a copy of the feed, newest first.
func (c *Channel) Notifications() []model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.feed.Items()
}

// Connect establishes the push connection. It is idempotent: a no-op
// when already connecting or connected. Without a dialer it degrades
// silently.
func (c *Channel) Connect() {
	c.mu.Lock()
	if c.state != StateDisconnected || c.dialer == nil {
		c.mu.Unlock()
		return
	}
	c.state = StateConnecting
	c.connGen++
	gen := c.connGen
	c.mu.Unlock()

	c.emit(StateChangedMsg{State: StateConnecting})
	go c.dial(gen, 0)
}

// dial performs one connection attempt. attempt is zero for explicit
// connects and the attempt number for reconnects; only reconnect
// failures schedule another try.
func (c *Channel) dial(gen int, attempt int) {
	conn, err := c.dialer.Dial(context.Background(), c.wsURL)

	c.mu.Lock()
	if gen != c.connGen {
		// Superseded by a user switch or logout.
		c.mu.Unlock()
		if err == nil {
			conn.Close()
		}
		return
	}

	if err != nil {
		c.state = StateDisconnected
		if attempt > 0 {
			c.scheduleReconnectLocked()
		}
		c.mu.Unlock()
		c.emit(StateChangedMsg{State: StateDisconnected, Attempt: attempt})
		return
	}

	c.conn = conn
	c.state = StateConnected
	c.reconnectAttempts = 0
	userID := c.userID
	c.mu.Unlock()

	if userID != 0 {
		if subErr := conn.Subscribe(topicFor(userID)); subErr != nil {
			c.onDrop(gen)
			return
		}
	}

	c.emit(StateChangedMsg{State: StateConnected, Attempt: attempt})
	go c.readLoop(conn, gen)
}

// readLoop consumes push frames until the transport fails. Payloads
// that fail to parse are skipped; the connection stays up.
func (c *Channel) readLoop(conn Conn, gen int) {
	for {
		payload, err := conn.Read()
		if err != nil {
			c.onDrop(gen)
			return
		}

		var n model.Notification
		if decodeNotification(payload, &n) != nil {
			continue
		}
		c.handleNewNotification(n)
	}
}

// onDrop handles a transport failure on an active connection.
func (c *Channel) onDrop(gen int) {
	c.mu.Lock()
	if gen != c.connGen {
		c.mu.Unlock()
		return
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.state = StateDisconnected
	c.scheduleReconnectLocked()
	c.mu.Unlock()

	c.emit(StateChangedMsg{State: StateDisconnected})
}

// scheduleReconnectLocked arms the backoff timer for the next reconnect
// attempt. After maxReconnectAttempts the channel stays Disconnected
// until the next explicit Connect. Caller holds c.mu.
func (c *Channel) scheduleReconnectLocked() {
	if c.reconnectAttempts >= c.maxReconnectAttempts {
		return
	}
	c.reconnectAttempts++
	attempt := c.reconnectAttempts

	c.reconnectTimer = c.afterFunc(BackoffDelay(attempt), func() {
		c.mu.Lock()
		if c.state != StateDisconnected || c.userID == 0 {
			c.mu.Unlock()
			return
		}
		c.state = StateConnecting
		c.connGen++
		gen := c.connGen
		c.mu.Unlock()

		c.emit(StateChangedMsg{State: StateConnecting, Attempt: attempt})
		c.dial(gen, attempt)
	})
}

// UpdateUser switches the subscription identity. A new user clears the
// feed, (re)subscribes, and reloads the unread list. A zero userID
// (logout) clears state and disconnects with no further reconnection.
func (c *Channel) UpdateUser(userID int64) {
	c.mu.Lock()
	old := c.userID
	c.userID = userID

	if userID == 0 {
		c.feed.Clear()
		c.reconnectAttempts = 0
		if c.reconnectTimer != nil {
			c.reconnectTimer.Stop()
			c.reconnectTimer = nil
		}
		c.connGen++
		if c.conn != nil {
			c.conn.Close()
			c.conn = nil
		}
		c.state = StateDisconnected
		c.mu.Unlock()

		c.emit(StateChangedMsg{State: StateDisconnected})
		c.emit(FeedReloadedMsg{Items: nil, Unread: 0})
		return
	}

	if userID == old {
		c.mu.Unlock()
		return
	}

	c.feed.Clear()
	conn := c.conn
	connected := c.state == StateConnected
	c.mu.Unlock()

	c.emit(FeedReloadedMsg{Items: nil, Unread: 0})

	if connected && conn != nil {
		// Rebind the existing connection to the new user's topic.
		if err := conn.Subscribe(topicFor(userID)); err != nil {
			c.mu.Lock()
			gen := c.connGen
			c.mu.Unlock()
			c.onDrop(gen)
		}
	} else {
		c.Connect()
	}

	c.Load()
}

// Load performs the one-shot bulk fetch of unread notifications for
// the current user. A fetch failure falls back to the cached unread
// rows; with nothing cached the feed is emptied and the error is
// surfaced as a FeedReloadedMsg. Nothing propagates further.
//
// Concurrent loads are not mutually excluded: whichever response lands
// last wins the whole list.
func (c *Channel) Load() {
	c.mu.Lock()
	userID := c.userID
	c.mu.Unlock()
	if userID == 0 {
		return
	}

	go func() {
		items, err := c.client.UnreadNotifications(context.Background(), userID)

		// Auth failures are not served from cache; the app needs to see
		// them to drop back to the login view.
		fromCache := false
		if err != nil && !api.IsAuthError(err) && c.store != nil {
			cached, cacheErr := c.store.UnreadNotifications(
				context.Background(), userID,
			)
			if cacheErr == nil && len(cached) > 0 {
				items = cached
				fromCache = true
			}
		}
		if err == nil && c.store != nil {
			// Best-effort cache refresh for the next offline start.
			_ = c.store.CacheNotifications(context.Background(), userID, items)
		}

		c.mu.Lock()
		if c.userID != userID {
			// The user changed while the request was in flight.
			c.mu.Unlock()
			return
		}
		if err != nil && !fromCache {
			c.feed.Replace(nil)
			c.mu.Unlock()
			c.emit(FeedReloadedMsg{Err: err})
			return
		}
		c.feed.Replace(items)
		unread := c.feed.UnreadCount()
		snapshot := c.feed.Items()
		c.mu.Unlock()

		if fromCache {
			c.emit(FeedReloadedMsg{
				Items: snapshot, Unread: unread, FromCache: true, Err: err,
			})
			return
		}
		c.emit(FeedReloadedMsg{Items: snapshot, Unread: unread})
	}()
}

// handleNewNotification records a pushed notification, fires the
// best-effort desktop notification, and emits a PushMsg.
func (c *Channel) handleNewNotification(n model.Notification) {
	c.mu.Lock()
	if c.userID == 0 {
		c.mu.Unlock()
		return
	}
	userID := c.userID
	c.feed.Push(n)
	unread := c.feed.UnreadCount()
	desktop := c.desktop
	c.mu.Unlock()

	if c.store != nil {
		_ = c.store.CacheNotifications(
			context.Background(), userID, []model.Notification{n},
		)
	}

	if desktop {
		notifyDesktop(n)
	}

	c.emit(PushMsg{Notification: n, Unread: unread})
}

// MarkAsRead optimistically flips a notification to read, then tells
// the server. On server failure the local flip is kept and a reload is
// scheduled to reconcile, and the error is surfaced for a toast.
func (c *Channel) MarkAsRead(id int64) {
	c.mu.Lock()
	userID := c.userID
	changed := c.feed.MarkRead(id)
	unread := c.feed.UnreadCount()
	c.mu.Unlock()

	if !changed {
		return
	}
	if c.store != nil && userID != 0 {
		// Mirror the optimistic flip so a cached feed stays consistent.
		_ = c.store.MarkNotificationRead(context.Background(), userID, id)
	}
	c.emit(MarkReadResultMsg{ID: id, Unread: unread})

	go func() {
		if err := c.client.MarkNotificationRead(context.Background(), id); err != nil {
			c.emit(MarkReadResultMsg{ID: id, Unread: unread, Err: err})
			c.Load()
		}
	}()
}

// MarkAllAsRead optimistically flips every notification to read, then
// tells the server. Calling it with nothing unread is a harmless no-op
// round trip. Failure handling matches MarkAsRead.
func (c *Channel) MarkAllAsRead() {
	c.mu.Lock()
	userID := c.userID
	c.feed.MarkAllRead()
	unread := c.feed.UnreadCount()
	c.mu.Unlock()

	if c.store != nil && userID != 0 {
		_ = c.store.MarkAllNotificationsRead(context.Background(), userID)
	}
	c.emit(MarkReadResultMsg{Unread: unread})

	go func() {
		if err := c.client.MarkAllNotificationsRead(context.Background()); err != nil {
			c.emit(MarkReadResultMsg{Unread: unread, Err: err})
			c.Load()
		}
	}()
}

// WaitForEvent returns a tea.Cmd that delivers the next channel event
// to the Bubble Tea runtime. The app re-issues it after every event to
// keep listening, mirroring a subscription.
func (c *Channel) WaitForEvent() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-c.eventCh
		if !ok {
			return nil
		}
		return msg
	}
}

// emit sends an event without blocking; events are dropped when the
// buffer is full rather than stalling the read loop.
func (c *Channel) emit(msg tea.Msg) {
	select {
	case c.eventCh <- msg:
	default:
	}
}

// topicFor returns the per-user notification topic.
func topicFor(userID int64) string {
	return "/topic/notifications/" + strconv.FormatInt(userID, 10)
}
