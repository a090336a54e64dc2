package service

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tejasmali6131/TeamRetro-sub000/internal/domain"
	"github.com/tejasmali6131/TeamRetro-sub000/internal/protocol"
)

// Fanout selects who receives an outbound envelope.
type Fanout int

const (
	// FanoutAll delivers to every connected participant, sender included.
	FanoutAll Fanout = iota
	// FanoutExceptSender delivers to everyone but the sender.
	FanoutExceptSender
	// FanoutParticipant delivers to exactly one participant (TargetID).
	FanoutParticipant
)

// Broadcast is one outbound envelope plus its delivery rule.
type Broadcast struct {
	Message  any
	Fanout   Fanout
	TargetID string
}

// SessionService is the protocol/event router: it applies one inbound
// envelope to the room's shared state and computes the resulting
// fan-out. Every failure mode degrades to a logged no-op so a stale
// client or bad actor can never take a live meeting down.
type SessionService struct{}

// NewSessionService creates the router.
func NewSessionService() *SessionService {
	return &SessionService{}
}

// HandleEnvelope routes one raw frame from the given sender. The
// returned broadcasts are empty for dropped, unauthorized, unknown or
// target-missing events.
func (s *SessionService) HandleEnvelope(room *domain.Room, senderID string, raw []byte) []Broadcast {
	logCtx := logrus.WithFields(logrus.Fields{
		"room_id":        room.ID,
		"participant_id": senderID,
	})

	event, err := protocol.Decode(raw)
	if err != nil {
		if errors.Is(err, protocol.ErrUnknownType) {
			logCtx.WithError(err).Debug("Ignoring envelope with unknown type")
		} else {
			logCtx.WithError(err).Warn("Dropping malformed envelope")
		}
		return nil
	}

	switch ev := event.(type) {
	case *protocol.StageChange:
		return s.handleStageChange(room, senderID, ev, logCtx)
	case *protocol.MarkStageDone:
		return s.handleMarkStageDone(room, senderID, ev)
	case *protocol.TimerUpdate:
		return s.handleTimerUpdate(room, senderID, ev, logCtx)
	case *protocol.IcebreakerUpdate:
		return s.handleIcebreaker(room, senderID, ev, logCtx)
	case *protocol.CardCreate:
		return s.handleCardCreate(room, senderID, ev)
	case *protocol.CardUpdate:
		return s.handleCardUpdate(room, ev)
	case *protocol.CardDelete:
		return s.handleCardDelete(room, ev)
	case *protocol.CardsGroup:
		return s.handleCardsGroup(room, ev, logCtx)
	case *protocol.CardUngroup:
		return s.handleCardUngroup(room, ev)
	case *protocol.VoteAdd:
		count := room.AddVote(ev.TargetID, senderID)
		return exceptSender(protocol.VoteChanged{
			Type:     protocol.TypeVoteAdded,
			TargetID: ev.TargetID,
			VoterID:  senderID,
			Count:    count,
		})
	case *protocol.VoteRemove:
		count, removed := room.RemoveVote(ev.TargetID, senderID)
		if !removed {
			return nil
		}
		return exceptSender(protocol.VoteChanged{
			Type:     protocol.TypeVoteRemoved,
			TargetID: ev.TargetID,
			VoterID:  senderID,
			Count:    count,
		})
	case *protocol.DiscussUpdate:
		room.SetDiscussed(ev.TargetID, ev.Discussed)
		return exceptSender(protocol.DiscussChanged{
			Type:      protocol.TypeDiscussUpdate,
			TargetID:  ev.TargetID,
			Discussed: ev.Discussed,
		})
	case *protocol.ActionItemEvent:
		return s.handleActionItem(room, ev, logCtx)
	case *protocol.ReactionToggle:
		reactions := room.ToggleReaction(ev.CardID, ev.Emoji, senderID)
		return toAll(protocol.ReactionUpdate{
			Type:      protocol.TypeReactionUpdate,
			CardID:    ev.CardID,
			Reactions: reactions,
		})
	default:
		// Decode only produces the closed set above.
		logCtx.Warnf("Router has no handler for %T", ev)
		return nil
	}
}

func (s *SessionService) handleStageChange(room *domain.Room, senderID string, ev *protocol.StageChange, logCtx *logrus.Entry) []Broadcast {
	if !room.IsFacilitator(senderID) {
		// Expected benign race: the UI should not have offered the
		// control, the server stays the final authority.
		logCtx.Debug("Ignoring stage-change from non-facilitator")
		return nil
	}
	room.SetStage(ev.StageIndex)
	return exceptSender(protocol.StageChanged{
		Type:       protocol.TypeStageChange,
		StageIndex: ev.StageIndex,
	})
}

func (s *SessionService) handleMarkStageDone(room *domain.Room, senderID string, ev *protocol.MarkStageDone) []Broadcast {
	ids := room.MarkStageDone(ev.StageID, senderID, ev.Done)
	return toAll(protocol.StageDoneUpdate{
		Type:           protocol.TypeStageDoneUpdate,
		StageID:        ev.StageID,
		ParticipantIDs: ids,
	})
}

func (s *SessionService) handleTimerUpdate(room *domain.Room, senderID string, ev *protocol.TimerUpdate, logCtx *logrus.Entry) []Broadcast {
	if !room.IsFacilitator(senderID) {
		logCtx.Debug("Ignoring timer-update from non-facilitator")
		return nil
	}
	// Ephemeral relay: the room keeps no timer state.
	return exceptSender(protocol.TimerRelayed{
		Type:    protocol.TypeTimerUpdate,
		Action:  ev.Action,
		Seconds: ev.Seconds,
	})
}

func (s *SessionService) handleIcebreaker(room *domain.Room, senderID string, ev *protocol.IcebreakerUpdate, logCtx *logrus.Entry) []Broadcast {
	var (
		view domain.IcebreakerView
		ok   = true
	)
	switch ev.Action {
	case protocol.IcebreakerAnsweringStarted:
		view = room.IcebreakerAnsweringStarted()
	case protocol.IcebreakerAnswerCompleted:
		view = room.IcebreakerAnswerCompleted(senderID, ev.Answer, ev.Done)
	case protocol.IcebreakerQuestionChanged:
		if !room.IsFacilitator(senderID) {
			logCtx.Debug("Ignoring icebreaker question change from non-facilitator")
			return nil
		}
		view, ok = room.IcebreakerQuestionChanged(ev.QuestionIndex)
	case protocol.IcebreakerQuestionEdited:
		if !room.IsFacilitator(senderID) {
			logCtx.Debug("Ignoring icebreaker question edit from non-facilitator")
			return nil
		}
		view, ok = room.IcebreakerQuestionEdited(ev.QuestionIndex, ev.Question)
	default:
		logCtx.WithField("action", ev.Action).Debug("Ignoring unknown icebreaker action")
		return nil
	}
	if !ok {
		return nil
	}
	// The sender's UI renders from the authoritative broadcast too.
	return toAll(protocol.IcebreakerChanged{
		Type:       protocol.TypeIcebreakerUpdate,
		Icebreaker: view,
	})
}

func (s *SessionService) handleCardCreate(room *domain.Room, senderID string, ev *protocol.CardCreate) []Broadcast {
	if ev.ID == "" || ev.ColumnID == "" {
		return nil
	}
	card := room.AddCard(domain.Card{
		ID:        ev.ID,
		ColumnID:  ev.ColumnID,
		Text:      ev.Text,
		AuthorID:  senderID,
		CreatedAt: time.Now().UTC(),
	})
	return exceptSender(protocol.CardChanged{Type: protocol.TypeCardCreated, Card: card})
}

func (s *SessionService) handleCardUpdate(room *domain.Room, ev *protocol.CardUpdate) []Broadcast {
	card, ok := room.UpdateCard(ev.ID, ev.Text)
	if !ok {
		return nil
	}
	return exceptSender(protocol.CardChanged{Type: protocol.TypeCardUpdated, Card: card})
}

func (s *SessionService) handleCardDelete(room *domain.Room, ev *protocol.CardDelete) []Broadcast {
	if !room.DeleteCard(ev.ID) {
		return nil
	}
	return exceptSender(protocol.CardDeleted{Type: protocol.TypeCardDeleted, CardID: ev.ID})
}

func (s *SessionService) handleCardsGroup(room *domain.Room, ev *protocol.CardsGroup, logCtx *logrus.Entry) []Broadcast {
	groups, ok := room.GroupCards(ev.GroupID, ev.Name, ev.CardIDs)
	if !ok {
		logCtx.WithField("group_id", ev.GroupID).Debug("Rejected cards-group request")
		return nil
	}
	return exceptSender(protocol.GroupsChanged{Type: protocol.TypeCardsGrouped, Groups: groups})
}

func (s *SessionService) handleCardUngroup(room *domain.Room, ev *protocol.CardUngroup) []Broadcast {
	groups, ok := room.UngroupCard(ev.CardID)
	if !ok {
		return nil
	}
	return exceptSender(protocol.GroupsChanged{Type: protocol.TypeCardUngrouped, Groups: groups})
}

func (s *SessionService) handleActionItem(room *domain.Room, ev *protocol.ActionItemEvent, logCtx *logrus.Entry) []Broadcast {
	switch ev.Action {
	case protocol.ActionItemAdd, protocol.ActionItemUpdate:
		if ev.Item.ID == "" {
			return nil
		}
		item := room.UpsertActionItem(ev.Item)
		return exceptSender(protocol.ActionItemChanged{
			Type:   protocol.TypeActionItemUpdated,
			Action: ev.Action,
			Item:   &item,
		})
	case protocol.ActionItemRemove:
		if !room.RemoveActionItem(ev.ID) {
			return nil
		}
		return exceptSender(protocol.ActionItemChanged{
			Type:   protocol.TypeActionItemUpdated,
			Action: ev.Action,
			ID:     ev.ID,
		})
	default:
		logCtx.WithField("action", ev.Action).Debug("Ignoring unknown action-item action")
		return nil
	}
}

func toAll(message any) []Broadcast {
	return []Broadcast{{Message: message, Fanout: FanoutAll}}
}

func exceptSender(message any) []Broadcast {
	return []Broadcast{{Message: message, Fanout: FanoutExceptSender}}
}
