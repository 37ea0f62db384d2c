package help

import (
	"strings"
	"testing"

	"github.com/haianh3623/TEAManage/internal/keys"
)

func TestViewGroupsDomainSections(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 40)
	out := m.View()

	for _, want := range []string{
		"Task hierarchy",
		"Notifications",
		"expand all",
		"mark all read",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("help view missing %q", want)
		}
	}
}
