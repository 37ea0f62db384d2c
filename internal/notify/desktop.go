package notify

import (
	"github.com/gen2brain/beeep"

	"github.com/haianh3623/TEAManage/internal/model"
)

// notifyDesktop raises an OS-level notification for a pushed event.
// Best effort: a missing notification daemon or denied permission is
// not worth surfacing, the in-app feed already has the message.
func notifyDesktop(n model.Notification) {
	_ = beeep.Notify("TEAManage", n.Message, "")
}
