package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejasmali6131/TeamRetro-sub000/internal/domain"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/infra/persistence/memory"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/namegen"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/service"
)

type recordingSender struct {
	sent [][]byte
}

func (s *recordingSender) Send(message []byte) bool {
	s.sent = append(s.sent, message)
	return true
}

func (s *recordingSender) Open() bool { return true }

func newLifecycleHub(t *testing.T) *Hub {
	t.Helper()
	meetings := service.NewMeetingService(memory.NewMeetingRepository(), service.NewTemplateService())
	h := NewHub(service.NewSessionService(), meetings, namegen.NewAllocator(), Timeouts{
		QuickDisconnect:  time.Second,
		IdleGrace:        time.Hour,
		InteractiveGrace: time.Hour,
		SweepInterval:    time.Hour,
	})
	t.Cleanup(h.Shutdown)
	return h
}

func TestRetirementSealsRoomAgainstLateAttach(t *testing.T) {
	h := newLifecycleHub(t)
	ctx := context.Background()

	room := h.getOrCreateRoom(ctx, "m1")
	_, ok := room.Join(&domain.Participant{ID: "p1", Name: "Heron", JoinedAt: time.Now()}, &recordingSender{})
	require.True(t, ok)

	// The last participant's grace timer fires while another connect
	// still holds the old room reference.
	h.retire("m1", "p1")
	_, found := h.Room("m1")
	require.False(t, found, "an emptied room leaves the store")

	// The stale reference must not accept the attach; the connect path
	// resolves the room again and lands in a live aggregate.
	_, ok = room.Join(&domain.Participant{ID: "p2", Name: "Otter", JoinedAt: time.Now()}, &recordingSender{})
	assert.False(t, ok)

	fresh := h.getOrCreateRoom(ctx, "m1")
	assert.NotSame(t, room, fresh)
	_, ok = fresh.Join(&domain.Participant{ID: "p2", Name: "Otter", JoinedAt: time.Now()}, &recordingSender{})
	require.True(t, ok)

	live, found := h.Room("m1")
	require.True(t, found)
	assert.Same(t, fresh, live)
}

func TestRetireIgnoresReplacedRoom(t *testing.T) {
	h := newLifecycleHub(t)
	ctx := context.Background()

	room := h.getOrCreateRoom(ctx, "m1")
	_, ok := room.Join(&domain.Participant{ID: "p1", Name: "Heron", JoinedAt: time.Now()}, &recordingSender{})
	require.True(t, ok)
	h.retire("m1", "p1")

	fresh := h.getOrCreateRoom(ctx, "m1")
	_, ok = fresh.Join(&domain.Participant{ID: "p2", Name: "Otter", JoinedAt: time.Now()}, &recordingSender{})
	require.True(t, ok)

	// A duplicate retirement against the already-destroyed generation
	// must not tear down its replacement.
	h.retire("m1", "p1")
	live, found := h.Room("m1")
	require.True(t, found)
	assert.Same(t, fresh, live)
}
