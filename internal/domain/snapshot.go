package domain

import "sort"

// StateSnapshot is the full mutable state of a room, sent to a newly
// attached participant inside the user-joined envelope.
type StateSnapshot struct {
	StageIndex  int                            `json:"stageIndex"`
	Cards       []Card                         `json:"cards"`
	Groups      []CardGroup                    `json:"groups"`
	Votes       map[string][]string            `json:"votes"`
	ActionItems []ActionItem                   `json:"actionItems"`
	Discussed   []string                       `json:"discussed"`
	StageDone   map[string][]string            `json:"stageDone"`
	Reactions   map[string]map[string][]string `json:"reactions"`
	Icebreaker  IcebreakerView                 `json:"icebreaker"`
}

// Snapshot copies the room's entire mutable state under the room lock.
func (r *Room) Snapshot() StateSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	cards := make([]Card, 0, len(r.Cards))
	for _, c := range r.Cards {
		cards = append(cards, *c)
	}
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].CreatedAt.Equal(cards[j].CreatedAt) {
			return cards[i].ID < cards[j].ID
		}
		return cards[i].CreatedAt.Before(cards[j].CreatedAt)
	})

	votes := make(map[string][]string, len(r.Votes))
	for target, voters := range r.Votes {
		votes[target] = append([]string(nil), voters...)
	}

	items := make([]ActionItem, 0, len(r.ActionItems))
	for _, it := range r.ActionItems {
		items = append(items, *it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	discussed := make([]string, 0, len(r.Discussed))
	for id := range r.Discussed {
		discussed = append(discussed, id)
	}
	sort.Strings(discussed)

	stageDone := make(map[string][]string, len(r.StageDone))
	for stage, set := range r.StageDone {
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		stageDone[stage] = ids
	}

	reactions := make(map[string]map[string][]string, len(r.Reactions))
	for cardID := range r.Reactions {
		reactions[cardID] = r.reactionViewLocked(cardID)
	}

	return StateSnapshot{
		StageIndex:  r.StageIndex,
		Cards:       cards,
		Groups:      r.groupsViewLocked(),
		Votes:       votes,
		ActionItems: items,
		Discussed:   discussed,
		StageDone:   stageDone,
		Reactions:   reactions,
		Icebreaker:  r.Icebreaker.view(),
	}
}
