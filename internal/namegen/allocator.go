// Package namegen hands out unique, human-friendly display names to
// joining participants. Used-name sets are scoped per meeting and must
// be released when the meeting's room is destroyed.
package namegen

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type meetingNames struct {
	theme string
	used  map[string]bool
}

// Allocator is an explicit service object rather than a package-level
// registry, so tests can run meetings in isolation.
type Allocator struct {
	mu       sync.Mutex
	rnd      *rand.Rand
	mixed    []string
	meetings map[string]*meetingNames
}

// NewAllocator creates an allocator seeded from the clock.
func NewAllocator() *Allocator {
	return &Allocator{
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		mixed:    mixedPool(),
		meetings: make(map[string]*meetingNames),
	}
}

func (a *Allocator) meetingLocked(meetingID string) *meetingNames {
	m, ok := a.meetings[meetingID]
	if !ok {
		m = &meetingNames{theme: ThemeMixed, used: make(map[string]bool)}
		a.meetings[meetingID] = m
	}
	return m
}

// ConfigureTheme selects the word pool for a meeting. Unknown theme
// keys fall back to the mixed pool.
func (a *Allocator) ConfigureTheme(meetingID, theme string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := pools[theme]; !ok && theme != ThemeMixed {
		if theme != "" {
			logrus.WithFields(logrus.Fields{
				"meeting_id": meetingID,
				"theme":      theme,
			}).Warn("Unknown naming theme, falling back to mixed pool")
		}
		theme = ThemeMixed
	}
	a.meetingLocked(meetingID).theme = theme
}

// Allocate draws a random unused name from the meeting's pool. When
// every name is in use the used-set is cleared first, so allocation
// always terminates and names get recycled instead of failing.
func (a *Allocator) Allocate(meetingID string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	m := a.meetingLocked(meetingID)
	pool := a.mixed
	if p, ok := pools[m.theme]; ok {
		pool = p
	}

	free := make([]string, 0, len(pool))
	for _, name := range pool {
		if !m.used[name] {
			free = append(free, name)
		}
	}
	if len(free) == 0 {
		// Pool exhausted: recycle rather than fail.
		m.used = make(map[string]bool, len(pool))
		free = pool
		logrus.WithFields(logrus.Fields{
			"meeting_id": meetingID,
			"theme":      m.theme,
		}).Info("Name pool exhausted, recycling used names")
	}
	name := free[a.rnd.Intn(len(free))]
	m.used[name] = true
	return name
}

// ReleaseAll drops the meeting's used-name set. It must be called when
// the meeting's room is destroyed, or the per-meeting sets leak.
func (a *Allocator) ReleaseAll(meetingID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.meetings, meetingID)
}

// Allocated lists the names currently in use for a meeting, sorted.
func (a *Allocator) Allocated(meetingID string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	m, ok := a.meetings[meetingID]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(m.used))
	for name := range m.used {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
