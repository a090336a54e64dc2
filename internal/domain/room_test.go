package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	open bool
	sent [][]byte
}

func (f *fakeConn) Send(message []byte) bool {
	if !f.open {
		return false
	}
	f.sent = append(f.sent, message)
	return true
}

func (f *fakeConn) Open() bool { return f.open }

func newFakeConn() *fakeConn { return &fakeConn{open: true} }

func join(r *Room, id string) (*Participant, bool) {
	p := &Participant{ID: id, Name: "n-" + id, JoinedAt: time.Now()}
	became, _ := r.Join(p, newFakeConn())
	return p, became
}

func TestFirstJoinerBecomesFacilitator(t *testing.T) {
	r := NewRoom("m1", nil)

	_, became := join(r, "p1")
	assert.True(t, became)

	_, became = join(r, "p2")
	assert.False(t, became)
	assert.True(t, r.IsFacilitator("p1"))
	assert.False(t, r.IsFacilitator("p2"))
}

func TestFacilitatorReclaimsRoleOnReconnect(t *testing.T) {
	r := NewRoom("m1", nil)
	join(r, "p1")
	join(r, "p2")

	// The facilitator drops; the role is not reassigned until the next
	// join or reconnect decision.
	r.Detach("p1")
	assert.True(t, r.IsFacilitator("p1"))

	p, became, ok := r.Reconnect("p1", newFakeConn())
	require.True(t, ok)
	assert.False(t, became, "reclaiming a never-lost role is not a handoff")
	assert.True(t, p.IsFacilitator)
}

func TestJoinerTakesRoleWhileFacilitatorDisconnected(t *testing.T) {
	r := NewRoom("m1", nil)
	join(r, "p1")
	r.Detach("p1")

	// No facilitator holds an active connection, so the next joiner
	// takes the role.
	_, became := join(r, "p2")
	assert.True(t, became)
	assert.True(t, r.IsFacilitator("p2"))
	assert.False(t, r.IsFacilitator("p1"))

	// The original holder comes back into a room with an active
	// facilitator and does not get the role back.
	p, became, ok := r.Reconnect("p1", newFakeConn())
	require.True(t, ok)
	assert.False(t, became)
	assert.False(t, p.IsFacilitator)
}

func TestRoleMovesAfterFacilitatorRetires(t *testing.T) {
	r := NewRoom("m1", nil)
	join(r, "p1")
	join(r, "p2")

	r.Detach("p1")
	_, empty := r.Retire("p1")
	assert.False(t, empty)

	_, became := join(r, "p3")
	assert.True(t, became)
	assert.True(t, r.IsFacilitator("p3"))
	assert.False(t, r.IsFacilitator("p2"))
}

func TestReconnectUnknownParticipant(t *testing.T) {
	r := NewRoom("m1", nil)
	_, _, ok := r.Reconnect("ghost", newFakeConn())
	assert.False(t, ok)
}

func TestRetireLastParticipantEmptiesRoom(t *testing.T) {
	r := NewRoom("m1", nil)
	p, _ := join(r, "p1")

	name, empty := r.Retire("p1")
	assert.Equal(t, p.Name, name)
	assert.True(t, empty)
}

func TestJoinRejectedAfterRoomEmpties(t *testing.T) {
	r := NewRoom("m1", nil)
	join(r, "p1")

	_, empty := r.Retire("p1")
	require.True(t, empty)

	// The emptied room is sealed; a join racing the teardown must fail
	// so the caller resolves a fresh room instead.
	p := &Participant{ID: "p2", Name: "n-p2", JoinedAt: time.Now()}
	_, ok := r.Join(p, newFakeConn())
	assert.False(t, ok)
	_, _, ok = r.Reconnect("p1", newFakeConn())
	assert.False(t, ok)
}

func TestVotesAllowDuplicatesAndRemoveOne(t *testing.T) {
	r := NewRoom("m1", nil)

	assert.Equal(t, 1, r.AddVote("card-1", "p1"))
	assert.Equal(t, 2, r.AddVote("card-1", "p1"))
	assert.Equal(t, 3, r.AddVote("card-1", "p2"))

	count, removed := r.RemoveVote("card-1", "p1")
	assert.True(t, removed)
	assert.Equal(t, 2, count)

	count, removed = r.RemoveVote("card-1", "p1")
	assert.True(t, removed)
	assert.Equal(t, 1, count)

	// p1 has no votes left on the target.
	count, removed = r.RemoveVote("card-1", "p1")
	assert.False(t, removed)
	assert.Equal(t, 1, count)
}

func TestRemoveVoteOnAbsentTarget(t *testing.T) {
	r := NewRoom("m1", nil)
	count, removed := r.RemoveVote("nope", "p1")
	assert.False(t, removed)
	assert.Zero(t, count)
}

func TestMarkStageDoneIsIdempotent(t *testing.T) {
	r := NewRoom("m1", nil)

	ids := r.MarkStageDone("stage-1", "p1", true)
	assert.Equal(t, []string{"p1"}, ids)

	ids = r.MarkStageDone("stage-1", "p1", true)
	assert.Equal(t, []string{"p1"}, ids)

	ids = r.MarkStageDone("stage-1", "p2", true)
	assert.Equal(t, []string{"p1", "p2"}, ids)

	ids = r.MarkStageDone("stage-1", "p1", false)
	assert.Equal(t, []string{"p2"}, ids)
}

func TestSetStageClearsDoneMarks(t *testing.T) {
	r := NewRoom("m1", nil)
	r.MarkStageDone("stage-1", "p1", true)

	r.SetStage(2)
	assert.Equal(t, 2, r.StageIndex)
	ids := r.MarkStageDone("stage-1", "p2", true)
	assert.Equal(t, []string{"p2"}, ids)
}

func TestGroupingIsColumnConfined(t *testing.T) {
	r := NewRoom("m1", nil)
	r.AddCard(Card{ID: "c1", ColumnID: "colA"})
	r.AddCard(Card{ID: "c2", ColumnID: "colA"})
	r.AddCard(Card{ID: "c3", ColumnID: "colB"})

	_, ok := r.GroupCards("g1", "theme", []string{"c1", "c3"})
	assert.False(t, ok, "cross-column grouping must be rejected")

	groups, ok := r.GroupCards("g1", "theme", []string{"c1", "c2"})
	require.True(t, ok)
	require.Len(t, groups, 1)
	assert.ElementsMatch(t, []string{"c1", "c2"}, groups[0].CardIDs)

	// Extending the group with a card from another column fails too.
	_, ok = r.GroupCards("g1", "", []string{"c3"})
	assert.False(t, ok)
}

func TestNewGroupRequiresTwoCards(t *testing.T) {
	r := NewRoom("m1", nil)
	r.AddCard(Card{ID: "c1", ColumnID: "colA"})
	r.AddCard(Card{ID: "c2", ColumnID: "colA"})
	r.AddCard(Card{ID: "c3", ColumnID: "colA"})

	_, ok := r.GroupCards("g1", "theme", []string{"c1"})
	assert.False(t, ok, "a brand-new group of one must be rejected")
	assert.Empty(t, r.Groups)

	_, ok = r.GroupCards("g1", "theme", []string{"c1", "c2"})
	require.True(t, ok)

	// One card at a time is fine once the group exists.
	groups, ok := r.GroupCards("g1", "", []string{"c3"})
	require.True(t, ok)
	require.Len(t, groups, 1)
	assert.ElementsMatch(t, []string{"c1", "c2", "c3"}, groups[0].CardIDs)
}

func TestGroupingMissingCardRejected(t *testing.T) {
	r := NewRoom("m1", nil)
	r.AddCard(Card{ID: "c1", ColumnID: "colA"})

	_, ok := r.GroupCards("g1", "", []string{"c1", "ghost"})
	assert.False(t, ok)
	assert.Empty(t, r.Groups)
}

func TestUngroupDropsEmptyGroup(t *testing.T) {
	r := NewRoom("m1", nil)
	r.AddCard(Card{ID: "c1", ColumnID: "colA"})
	r.AddCard(Card{ID: "c2", ColumnID: "colA"})
	_, ok := r.GroupCards("g1", "theme", []string{"c1", "c2"})
	require.True(t, ok)

	groups, ok := r.UngroupCard("c1")
	require.True(t, ok)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"c2"}, groups[0].CardIDs)

	groups, ok = r.UngroupCard("c2")
	require.True(t, ok)
	assert.Empty(t, groups)
}

func TestDeleteCardCleansUp(t *testing.T) {
	r := NewRoom("m1", nil)
	r.AddCard(Card{ID: "c1", ColumnID: "colA"})
	r.AddCard(Card{ID: "c2", ColumnID: "colA"})
	_, ok := r.GroupCards("g1", "theme", []string{"c1", "c2"})
	require.True(t, ok)
	r.ToggleReaction("c1", "🔥", "p1")

	require.True(t, r.DeleteCard("c1"))
	assert.NotContains(t, r.Cards, "c1")
	assert.NotContains(t, r.Reactions, "c1")
	assert.Equal(t, []string{"c2"}, r.Groups["g1"].CardIDs)
}

func TestToggleReactionRoundTrip(t *testing.T) {
	r := NewRoom("m1", nil)
	r.AddCard(Card{ID: "c1", ColumnID: "colA"})

	view := r.ToggleReaction("c1", "👍", "p1")
	assert.Equal(t, []string{"p1"}, view["👍"])

	view = r.ToggleReaction("c1", "👍", "p2")
	assert.Equal(t, []string{"p1", "p2"}, view["👍"])

	view = r.ToggleReaction("c1", "👍", "p1")
	assert.Equal(t, []string{"p2"}, view["👍"])

	view = r.ToggleReaction("c1", "👍", "p2")
	assert.Empty(t, view)
	assert.NotContains(t, r.Reactions, "c1")
}

func TestIcebreakerQuestionChangeResetsRound(t *testing.T) {
	r := NewRoom("m1", []string{"q0", "q1"})

	r.IcebreakerAnsweringStarted()
	r.IcebreakerAnswerCompleted("p1", "my answer", true)

	view, ok := r.IcebreakerQuestionChanged(1)
	require.True(t, ok)
	assert.Equal(t, 1, view.QuestionIndex)
	assert.False(t, view.Answering)
	assert.Empty(t, view.AnsweredIDs)
	assert.Empty(t, view.Answers)
}

func TestIcebreakerQuestionChangeOutOfRange(t *testing.T) {
	r := NewRoom("m1", []string{"q0"})

	_, ok := r.IcebreakerQuestionChanged(5)
	assert.False(t, ok)
	_, ok = r.IcebreakerQuestionChanged(-1)
	assert.False(t, ok)
}

func TestIcebreakerAnswerKeepsFloorUntilDone(t *testing.T) {
	r := NewRoom("m1", []string{"q0"})
	r.IcebreakerAnsweringStarted()

	view := r.IcebreakerAnswerCompleted("p1", "draft", false)
	assert.True(t, view.Answering)
	assert.Equal(t, []string{"p1"}, view.AnsweredIDs)

	view = r.IcebreakerAnswerCompleted("p1", "final", true)
	assert.False(t, view.Answering)
	assert.Equal(t, "final", view.Answers["p1"])
}

func TestSnapshotIsDeterministic(t *testing.T) {
	r := NewRoom("m1", nil)
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	r.AddCard(Card{ID: "b", ColumnID: "colA", CreatedAt: base.Add(time.Second)})
	r.AddCard(Card{ID: "a", ColumnID: "colA", CreatedAt: base})
	r.SetDiscussed("b", true)
	r.MarkStageDone("stage-1", "p2", true)
	r.MarkStageDone("stage-1", "p1", true)

	snap := r.Snapshot()
	require.Len(t, snap.Cards, 2)
	assert.Equal(t, "a", snap.Cards[0].ID)
	assert.Equal(t, "b", snap.Cards[1].ID)
	assert.Equal(t, []string{"b"}, snap.Discussed)
	assert.Equal(t, []string{"p1", "p2"}, snap.StageDone["stage-1"])
}

func TestConnectedSendersSkipsClosedAndExcluded(t *testing.T) {
	r := NewRoom("m1", nil)
	p1 := &Participant{ID: "p1"}
	p2 := &Participant{ID: "p2"}
	p3 := &Participant{ID: "p3"}
	c1, c2, c3 := newFakeConn(), newFakeConn(), newFakeConn()
	r.Join(p1, c1)
	r.Join(p2, c2)
	r.Join(p3, c3)
	c2.open = false

	senders := r.ConnectedSenders("p1")
	assert.Len(t, senders, 1)
	assert.True(t, senders[0].Send([]byte("x")))
	assert.Len(t, c3.sent, 1)
}
