// Package protocol defines the realtime wire envelopes. Every message,
// inbound or outbound, is one JSON object carrying a "type" discriminant
// next to its type-specific fields. Inbound payloads are decoded into a
// closed set of typed variants at the boundary, before dispatch.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tejasmali6131/TeamRetro-sub000/internal/domain"
)

// Inbound event types.
const (
	TypeStageChange      = "stage-change"
	TypeMarkStageDone    = "mark-stage-done"
	TypeTimerUpdate      = "timer-update"
	TypeIcebreakerUpdate = "icebreaker-update"
	TypeCardCreate       = "card-create"
	TypeCardUpdate       = "card-update"
	TypeCardDelete       = "card-delete"
	TypeCardsGroup       = "cards-group"
	TypeCardUngroup      = "card-ungroup"
	TypeVoteAdd          = "vote-add"
	TypeVoteRemove       = "vote-remove"
	TypeDiscussUpdate    = "discuss-update"
	TypeActionItemUpdate = "action-item-update"
	TypeReactionToggle   = "reaction-toggle"
)

// Icebreaker sub-actions, a closed set.
const (
	IcebreakerAnsweringStarted = "answering-started"
	IcebreakerAnswerCompleted  = "answer-completed"
	IcebreakerQuestionChanged  = "question-changed"
	IcebreakerQuestionEdited   = "question-edited"
)

// Action-item sub-actions, a closed set.
const (
	ActionItemAdd    = "add"
	ActionItemUpdate = "update"
	ActionItemRemove = "remove"
)

// ErrMalformed marks envelopes that could not be parsed at all.
var ErrMalformed = errors.New("protocol: malformed envelope")

// ErrUnknownType marks a parseable envelope with an unrecognized type.
var ErrUnknownType = errors.New("protocol: unknown envelope type")

// Inbound is the closed union of client events.
type Inbound interface{ inbound() }

// StageChange moves the agenda to another stage. Facilitator only.
type StageChange struct {
	StageIndex int `json:"stageIndex"`
}

// MarkStageDone toggles the sender's readiness mark for a stage.
type MarkStageDone struct {
	StageID string `json:"stageId"`
	Done    bool   `json:"done"`
}

// TimerUpdate is an ephemeral facilitator relay; the room keeps no
// timer state of its own.
type TimerUpdate struct {
	Action  string `json:"action"`
	Seconds int    `json:"seconds,omitempty"`
}

// IcebreakerUpdate carries one icebreaker sub-action.
type IcebreakerUpdate struct {
	Action        string `json:"action"`
	QuestionIndex int    `json:"questionIndex,omitempty"`
	Question      string `json:"question,omitempty"`
	Answer        string `json:"answer,omitempty"`
	Done          bool   `json:"done,omitempty"`
}

// CardCreate adds a new card to one template column.
type CardCreate struct {
	ID       string `json:"id"`
	ColumnID string `json:"columnId"`
	Text     string `json:"text"`
}

// CardUpdate rewrites a card's text.
type CardUpdate struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// CardDelete removes a card.
type CardDelete struct {
	ID string `json:"id"`
}

// CardsGroup clusters cards into a (new or existing) group.
type CardsGroup struct {
	GroupID string   `json:"groupId"`
	Name    string   `json:"name,omitempty"`
	CardIDs []string `json:"cardIds"`
}

// CardUngroup detaches one card from its group.
type CardUngroup struct {
	CardID string `json:"cardId"`
}

// VoteAdd casts one vote on a card or group.
type VoteAdd struct {
	TargetID string `json:"targetId"`
}

// VoteRemove retracts one vote on a card or group.
type VoteRemove struct {
	TargetID string `json:"targetId"`
}

// DiscussUpdate marks a target discussed or not.
type DiscussUpdate struct {
	TargetID  string `json:"targetId"`
	Discussed bool   `json:"discussed"`
}

// ActionItemEvent adds, replaces or removes a follow-up task.
type ActionItemEvent struct {
	Action string            `json:"action"`
	Item   domain.ActionItem `json:"item,omitempty"`
	ID     string            `json:"id,omitempty"`
}

// ReactionToggle flips the sender's emoji reaction on a card.
type ReactionToggle struct {
	CardID string `json:"cardId"`
	Emoji  string `json:"emoji"`
}

func (StageChange) inbound()      {}
func (MarkStageDone) inbound()    {}
func (TimerUpdate) inbound()      {}
func (IcebreakerUpdate) inbound() {}
func (CardCreate) inbound()       {}
func (CardUpdate) inbound()       {}
func (CardDelete) inbound()       {}
func (CardsGroup) inbound()       {}
func (CardUngroup) inbound()      {}
func (VoteAdd) inbound()          {}
func (VoteRemove) inbound()       {}
func (DiscussUpdate) inbound()    {}
func (ActionItemEvent) inbound()  {}
func (ReactionToggle) inbound()   {}

// Decode parses one raw frame into its typed variant. A frame that is
// not valid JSON (or lacks a type) yields ErrMalformed; a valid frame
// with a type outside the closed set yields ErrUnknownType.
func Decode(raw []byte) (Inbound, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if head.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)
	}

	decodeInto := func(v Inbound) (Inbound, error) {
		if err := json.Unmarshal(raw, v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return v, nil
	}

	switch head.Type {
	case TypeStageChange:
		return decodeInto(&StageChange{})
	case TypeMarkStageDone:
		return decodeInto(&MarkStageDone{})
	case TypeTimerUpdate:
		return decodeInto(&TimerUpdate{})
	case TypeIcebreakerUpdate:
		return decodeInto(&IcebreakerUpdate{})
	case TypeCardCreate:
		return decodeInto(&CardCreate{})
	case TypeCardUpdate:
		return decodeInto(&CardUpdate{})
	case TypeCardDelete:
		return decodeInto(&CardDelete{})
	case TypeCardsGroup:
		return decodeInto(&CardsGroup{})
	case TypeCardUngroup:
		return decodeInto(&CardUngroup{})
	case TypeVoteAdd:
		return decodeInto(&VoteAdd{})
	case TypeVoteRemove:
		return decodeInto(&VoteRemove{})
	case TypeDiscussUpdate:
		return decodeInto(&DiscussUpdate{})
	case TypeActionItemUpdate:
		return decodeInto(&ActionItemEvent{})
	case TypeReactionToggle:
		return decodeInto(&ReactionToggle{})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, head.Type)
	}
}
