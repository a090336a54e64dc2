package protocol

import "github.com/tejasmali6131/TeamRetro-sub000/internal/domain"

// Outbound event types.
const (
	TypeUserJoined         = "user-joined"
	TypeParticipantsUpdate = "participants-update"
	TypeCreatorAssigned    = "creator-assigned"
	TypeStageDoneUpdate    = "stage-done-update"
	TypeCardCreated        = "card-created"
	TypeCardUpdated        = "card-updated"
	TypeCardDeleted        = "card-deleted"
	TypeCardsGrouped       = "cards-grouped"
	TypeCardUngrouped      = "card-ungrouped"
	TypeVoteAdded          = "vote-added"
	TypeVoteRemoved        = "vote-removed"
	TypeActionItemUpdated  = "action-item-update"
	TypeReactionUpdate     = "reaction-update"
)

// UserJoined is the initial sync sent to a newly attached participant:
// its assigned identity plus the room's full state snapshot.
type UserJoined struct {
	Type           string               `json:"type"`
	ParticipantID  string               `json:"participantId"`
	Name           string               `json:"name"`
	IsFacilitator  bool                 `json:"isFacilitator"`
	IsReconnection bool                 `json:"isReconnection"`
	State          domain.StateSnapshot `json:"state"`
}

// ParticipantsUpdate refreshes the roster on every join, reconnect and
// retirement.
type ParticipantsUpdate struct {
	Type         string                   `json:"type"`
	Participants []domain.ParticipantInfo `json:"participants"`
}

// CreatorAssigned tells exactly one participant that the facilitator
// role landed on them.
type CreatorAssigned struct {
	Type          string `json:"type"`
	ParticipantID string `json:"participantId"`
}

// StageChanged mirrors an accepted stage-change.
type StageChanged struct {
	Type       string `json:"type"`
	StageIndex int    `json:"stageIndex"`
}

// StageDoneUpdate carries one stage's full done set.
type StageDoneUpdate struct {
	Type           string   `json:"type"`
	StageID        string   `json:"stageId"`
	ParticipantIDs []string `json:"participantIds"`
}

// TimerRelayed mirrors a facilitator timer-update to the others.
type TimerRelayed struct {
	Type    string `json:"type"`
	Action  string `json:"action"`
	Seconds int    `json:"seconds,omitempty"`
}

// IcebreakerChanged carries the authoritative icebreaker round state.
type IcebreakerChanged struct {
	Type       string                `json:"type"`
	Icebreaker domain.IcebreakerView `json:"icebreaker"`
}

// CardChanged announces a created or updated card.
type CardChanged struct {
	Type string      `json:"type"`
	Card domain.Card `json:"card"`
}

// CardDeleted announces a removed card.
type CardDeleted struct {
	Type   string `json:"type"`
	CardID string `json:"cardId"`
}

// GroupsChanged carries the authoritative group collection after a
// grouping or ungrouping event.
type GroupsChanged struct {
	Type   string             `json:"type"`
	Groups []domain.CardGroup `json:"groups"`
}

// VoteChanged announces one added or removed vote and the new count.
type VoteChanged struct {
	Type     string `json:"type"`
	TargetID string `json:"targetId"`
	VoterID  string `json:"voterId"`
	Count    int    `json:"count"`
}

// DiscussChanged mirrors an accepted discuss-update.
type DiscussChanged struct {
	Type      string `json:"type"`
	TargetID  string `json:"targetId"`
	Discussed bool   `json:"discussed"`
}

// ActionItemChanged mirrors an accepted action-item-update.
type ActionItemChanged struct {
	Type   string             `json:"type"`
	Action string             `json:"action"`
	Item   *domain.ActionItem `json:"item,omitempty"`
	ID     string             `json:"id,omitempty"`
}

// ReactionUpdate carries one card's full reaction state.
type ReactionUpdate struct {
	Type      string              `json:"type"`
	CardID    string              `json:"cardId"`
	Reactions map[string][]string `json:"reactions"`
}
