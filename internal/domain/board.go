package domain

import (
	"sort"
	"time"
)

// Card is one free-form feedback note, pinned to a single template
// column for the lifetime of the meeting.
type Card struct {
	ID        string    `json:"id"`
	ColumnID  string    `json:"columnId"`
	Text      string    `json:"text"`
	AuthorID  string    `json:"authorId"`
	GroupID   string    `json:"groupId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CardGroup is a named cluster of cards sharing one originating column.
type CardGroup struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	ColumnID string   `json:"columnId"`
	CardIDs  []string `json:"cardIds"`
}

// ActionItem is a follow-up task owned by the room for the meeting's
// duration only.
type ActionItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Assignee string `json:"assignee,omitempty"`
	Priority string `json:"priority,omitempty"`
	DueDate  string `json:"dueDate,omitempty"`
	Status   string `json:"status,omitempty"`
}

// IcebreakerState tracks the icebreaker round: which question is up,
// whether someone is currently answering, and who has answered with what.
type IcebreakerState struct {
	QuestionIndex int
	Questions     []string
	Answering     bool
	Answers       map[string]string // participant id -> answer text
}

// IcebreakerView is the wire representation of the icebreaker round.
type IcebreakerView struct {
	QuestionIndex int               `json:"questionIndex"`
	Questions     []string          `json:"questions"`
	Answering     bool              `json:"answering"`
	AnsweredIDs   []string          `json:"answeredIds"`
	Answers       map[string]string `json:"answers"`
}

func newIcebreakerState(questions []string) *IcebreakerState {
	qs := make([]string, len(questions))
	copy(qs, questions)
	return &IcebreakerState{
		Questions: qs,
		Answers:   make(map[string]string),
	}
}

func (s *IcebreakerState) view() IcebreakerView {
	answered := make([]string, 0, len(s.Answers))
	answers := make(map[string]string, len(s.Answers))
	for id, text := range s.Answers {
		answered = append(answered, id)
		answers[id] = text
	}
	sort.Strings(answered)
	questions := make([]string, len(s.Questions))
	copy(questions, s.Questions)
	return IcebreakerView{
		QuestionIndex: s.QuestionIndex,
		Questions:     questions,
		Answering:     s.Answering,
		AnsweredIDs:   answered,
		Answers:       answers,
	}
}
