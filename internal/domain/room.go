package domain

import (
	"sort"
	"sync"
)

// DefaultIcebreakerQuestions seeds rooms whose meeting record does not
// carry its own question list.
var DefaultIcebreakerQuestions = []string{
	"What is one thing that energized you this sprint?",
	"If this sprint were a movie, what would its title be?",
	"What is the best thing you ate this week?",
	"Share one thing your teammates don't know about you.",
	"What would you do with an extra hour every day?",
}

// Room is the live, in-memory aggregate of all state for one meeting.
// Every mutating method takes the room lock, so each inbound event is
// applied atomically and in arrival order for this room while rooms
// stay independent of each other.
type Room struct {
	mu     sync.Mutex
	sealed bool

	ID            string
	Participants  map[string]*Participant
	FacilitatorID string
	StageIndex    int

	Cards       map[string]*Card
	Groups      map[string]*CardGroup
	Votes       map[string][]string // target id -> voter ids, duplicates allowed
	ActionItems map[string]*ActionItem
	Discussed   map[string]bool
	StageDone   map[string]map[string]bool            // stage id -> participant set
	Reactions   map[string]map[string]map[string]bool // card id -> emoji -> participant set
	Icebreaker  *IcebreakerState
}

// NewRoom creates an empty room for the given meeting id. An empty
// question list falls back to DefaultIcebreakerQuestions.
func NewRoom(id string, icebreakerQuestions []string) *Room {
	if len(icebreakerQuestions) == 0 {
		icebreakerQuestions = DefaultIcebreakerQuestions
	}
	return &Room{
		ID:           id,
		Participants: make(map[string]*Participant),
		Cards:        make(map[string]*Card),
		Groups:       make(map[string]*CardGroup),
		Votes:        make(map[string][]string),
		ActionItems:  make(map[string]*ActionItem),
		Discussed:    make(map[string]bool),
		StageDone:    make(map[string]map[string]bool),
		Reactions:    make(map[string]map[string]map[string]bool),
		Icebreaker:   newIcebreakerState(icebreakerQuestions),
	}
}

// --- participant lifecycle ---

// Join registers a participant and attaches its transport handle. It
// reports whether the joiner was resolved as the facilitator and
// whether the join was accepted at all: a room sealed by its last
// retirement refuses new members, so the caller re-resolves the room
// instead of attaching to a dead aggregate.
func (r *Room) Join(p *Participant, conn Sender) (becameFacilitator, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return false, false
	}
	p.Conn = conn
	p.Connected = true
	r.Participants[p.ID] = p
	return r.resolveFacilitatorLocked(p), true
}

// Reconnect re-attaches a retained participant. It returns the
// participant, whether the reconnect made them facilitator, and whether
// the participant was still present at all.
func (r *Room) Reconnect(participantID string, conn Sender) (*Participant, bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Participants[participantID]
	if !ok {
		return nil, false, false
	}
	p.Conn = conn
	p.Connected = true
	return p, r.resolveFacilitatorLocked(p), true
}

// resolveFacilitatorLocked applies the single-facilitator rule: the
// joiner takes the role only when no participant currently holds it
// with an active connection.
func (r *Room) resolveFacilitatorLocked(joiner *Participant) bool {
	for _, other := range r.Participants {
		if other.IsFacilitator && other.Connected && other.ID != joiner.ID {
			return false
		}
	}
	if joiner.IsFacilitator {
		// Reclaiming a role never lost; not a handoff.
		r.FacilitatorID = joiner.ID
		return false
	}
	for _, other := range r.Participants {
		other.IsFacilitator = false
	}
	joiner.IsFacilitator = true
	r.FacilitatorID = joiner.ID
	return true
}

// Detach clears the transport handle but retains the participant slot
// for a possible reconnect.
func (r *Room) Detach(participantID string) (*Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Participants[participantID]
	if !ok {
		return nil, false
	}
	p.Conn = nil
	p.Connected = false
	return p, true
}

// Retire removes the participant for good. It returns the participant's
// display name and whether the room is now empty. An emptied room is
// sealed under the same lock, so no concurrent Join can slip in between
// the emptiness check and the store dropping the room.
func (r *Room) Retire(participantID string) (name string, empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.Participants[participantID]; ok {
		name = p.Name
		delete(r.Participants, participantID)
	}
	if len(r.Participants) == 0 {
		r.sealed = true
		return name, true
	}
	return name, false
}

// IsFacilitator reports whether the participant currently holds the role.
func (r *Room) IsFacilitator(participantID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Participants[participantID]
	return ok && p.IsFacilitator
}

// Roster returns the sorted roster view for participants-update.
func (r *Room) Roster() []ParticipantInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	roster := make([]ParticipantInfo, 0, len(r.Participants))
	for _, p := range r.Participants {
		roster = append(roster, p.Info())
	}
	sort.Slice(roster, func(i, j int) bool { return roster[i].ID < roster[j].ID })
	return roster
}

// ConnectedSenders snapshots the open transport handles of the room,
// optionally excluding one participant.
func (r *Room) ConnectedSenders(excludeID string) []Sender {
	r.mu.Lock()
	defer r.mu.Unlock()
	senders := make([]Sender, 0, len(r.Participants))
	for _, p := range r.Participants {
		if p.ID == excludeID || p.Conn == nil || !p.Conn.Open() {
			continue
		}
		senders = append(senders, p.Conn)
	}
	return senders
}

// SenderOf returns the open transport handle of one participant.
func (r *Room) SenderOf(participantID string) (Sender, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Participants[participantID]
	if !ok || p.Conn == nil || !p.Conn.Open() {
		return nil, false
	}
	return p.Conn, true
}

// --- stage ---

// SetStage moves the agenda to the given stage and resets all
// stage-done marks.
func (r *Room) SetStage(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StageIndex = index
	r.StageDone = make(map[string]map[string]bool)
}

// MarkStageDone toggles the participant's readiness mark for a stage.
// Marking is idempotent. The updated, sorted set is returned.
func (r *Room) MarkStageDone(stageID, participantID string, done bool) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.StageDone[stageID]
	if !ok {
		set = make(map[string]bool)
		r.StageDone[stageID] = set
	}
	if done {
		set[participantID] = true
	} else {
		delete(set, participantID)
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// --- cards ---

// AddCard inserts a card. A card id already present is replaced, which
// keeps retried creates idempotent.
func (r *Room) AddCard(card Card) Card {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := card
	r.Cards[c.ID] = &c
	return c
}

// UpdateCard merges new text into an existing card.
func (r *Room) UpdateCard(id, text string) (Card, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.Cards[id]
	if !ok {
		return Card{}, false
	}
	c.Text = text
	return *c, true
}

// DeleteCard removes a card along with its group membership and its
// reaction bucket.
func (r *Room) DeleteCard(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.Cards[id]
	if !ok {
		return false
	}
	if c.GroupID != "" {
		r.removeFromGroupLocked(id, c.GroupID)
	}
	delete(r.Reactions, id)
	delete(r.Cards, id)
	return true
}

// --- grouping ---

// GroupCards moves the listed cards into the target group, detaching
// them from any group they were in. All listed cards must exist and
// share a single originating column (and the target group's column when
// extending); otherwise nothing changes and ok is false.
func (r *Room) GroupCards(groupID, name string, cardIDs []string) (groups []CardGroup, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(cardIDs) == 0 {
		return nil, false
	}
	if _, exists := r.Groups[groupID]; !exists && len(cardIDs) < 2 {
		// A brand-new group needs at least two members; extending an
		// existing group by one card is fine.
		return nil, false
	}
	columnID := ""
	for _, id := range cardIDs {
		c, exists := r.Cards[id]
		if !exists {
			return nil, false
		}
		if columnID == "" {
			columnID = c.ColumnID
		} else if c.ColumnID != columnID {
			// Grouping is column-confined.
			return nil, false
		}
	}
	target, exists := r.Groups[groupID]
	if exists && target.ColumnID != columnID {
		return nil, false
	}
	for _, id := range cardIDs {
		c := r.Cards[id]
		if c.GroupID != "" && c.GroupID != groupID {
			r.removeFromGroupLocked(id, c.GroupID)
		}
	}
	if !exists {
		target = &CardGroup{ID: groupID, Name: name, ColumnID: columnID}
		r.Groups[groupID] = target
	} else if name != "" {
		target.Name = name
	}
	for _, id := range cardIDs {
		c := r.Cards[id]
		if c.GroupID != groupID {
			target.CardIDs = append(target.CardIDs, id)
			c.GroupID = groupID
		}
	}
	return r.groupsViewLocked(), true
}

// UngroupCard detaches one card from its group, dropping the group once
// it has no members left.
func (r *Room) UngroupCard(cardID string) (groups []CardGroup, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, exists := r.Cards[cardID]
	if !exists || c.GroupID == "" {
		return nil, false
	}
	r.removeFromGroupLocked(cardID, c.GroupID)
	return r.groupsViewLocked(), true
}

func (r *Room) removeFromGroupLocked(cardID, groupID string) {
	g, ok := r.Groups[groupID]
	if !ok {
		return
	}
	members := g.CardIDs[:0]
	for _, id := range g.CardIDs {
		if id != cardID {
			members = append(members, id)
		}
	}
	g.CardIDs = members
	if c, ok := r.Cards[cardID]; ok && c.GroupID == groupID {
		c.GroupID = ""
	}
	if len(g.CardIDs) == 0 {
		delete(r.Groups, groupID)
	}
}

func (r *Room) groupsViewLocked() []CardGroup {
	groups := make([]CardGroup, 0, len(r.Groups))
	for _, g := range r.Groups {
		view := *g
		view.CardIDs = append([]string(nil), g.CardIDs...)
		groups = append(groups, view)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups
}

// --- votes ---

// AddVote appends one vote by the voter on the target. A voter may cast
// more than one vote on the same target. The new count is returned.
func (r *Room) AddVote(targetID, voterID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Votes[targetID] = append(r.Votes[targetID], voterID)
	return len(r.Votes[targetID])
}

// RemoveVote deletes exactly one occurrence of the voter's id for the
// target. Removing from an empty or absent target is a no-op.
func (r *Room) RemoveVote(targetID, voterID string) (count int, removed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	voters := r.Votes[targetID]
	for i := len(voters) - 1; i >= 0; i-- {
		if voters[i] == voterID {
			voters = append(voters[:i], voters[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		return len(voters), false
	}
	if len(voters) == 0 {
		delete(r.Votes, targetID)
	} else {
		r.Votes[targetID] = voters
	}
	return len(voters), true
}

// --- discussion ---

// SetDiscussed adds or removes the target from the discussed set.
// Idempotent in both directions.
func (r *Room) SetDiscussed(targetID string, discussed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if discussed {
		r.Discussed[targetID] = true
	} else {
		delete(r.Discussed, targetID)
	}
}

// --- action items ---

// UpsertActionItem adds the item or replaces the one with the same id.
func (r *Room) UpsertActionItem(item ActionItem) ActionItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	it := item
	r.ActionItems[it.ID] = &it
	return it
}

// RemoveActionItem deletes the item by id.
func (r *Room) RemoveActionItem(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ActionItems[id]; !ok {
		return false
	}
	delete(r.ActionItems, id)
	return true
}

// --- reactions ---

// ToggleReaction flips the participant's reaction in the (card, emoji)
// bucket, dropping emoji buckets and card entries that become empty.
// The card's updated reaction view is returned.
func (r *Room) ToggleReaction(cardID, emoji, participantID string) map[string][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	byEmoji, ok := r.Reactions[cardID]
	if !ok {
		byEmoji = make(map[string]map[string]bool)
		r.Reactions[cardID] = byEmoji
	}
	set, ok := byEmoji[emoji]
	if !ok {
		set = make(map[string]bool)
		byEmoji[emoji] = set
	}
	if set[participantID] {
		delete(set, participantID)
		if len(set) == 0 {
			delete(byEmoji, emoji)
		}
		if len(byEmoji) == 0 {
			delete(r.Reactions, cardID)
		}
	} else {
		set[participantID] = true
	}
	return r.reactionViewLocked(cardID)
}

func (r *Room) reactionViewLocked(cardID string) map[string][]string {
	view := make(map[string][]string)
	for emoji, set := range r.Reactions[cardID] {
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		view[emoji] = ids
	}
	return view
}

// --- icebreaker ---

// IcebreakerAnsweringStarted marks that someone took the floor.
func (r *Room) IcebreakerAnsweringStarted() IcebreakerView {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Icebreaker.Answering = true
	return r.Icebreaker.view()
}

// IcebreakerAnswerCompleted records the participant's answer. The
// answering flag is cleared only when the caller says the turn is done.
func (r *Room) IcebreakerAnswerCompleted(participantID, answer string, done bool) IcebreakerView {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Icebreaker.Answers[participantID] = answer
	if done {
		r.Icebreaker.Answering = false
	}
	return r.Icebreaker.view()
}

// IcebreakerQuestionChanged moves to another question and resets the
// round: answers, answered set and answering flag all clear.
func (r *Room) IcebreakerQuestionChanged(index int) (IcebreakerView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= len(r.Icebreaker.Questions) {
		return IcebreakerView{}, false
	}
	r.Icebreaker.QuestionIndex = index
	r.Icebreaker.Answers = make(map[string]string)
	r.Icebreaker.Answering = false
	return r.Icebreaker.view(), true
}

// IcebreakerQuestionEdited rewrites one question in place.
func (r *Room) IcebreakerQuestionEdited(index int, question string) (IcebreakerView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= len(r.Icebreaker.Questions) {
		return IcebreakerView{}, false
	}
	r.Icebreaker.Questions[index] = question
	return r.Icebreaker.view(), true
}
