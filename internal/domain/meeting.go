package domain

import "time"

// Meeting is the durable meeting record managed by the REST layer.
// Realtime room state is deliberately not part of it.
type Meeting struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	Name       string    `json:"name" gorm:"size:191;not null"`
	TemplateID string    `json:"templateId" gorm:"size:64"`
	NameTheme  string    `json:"nameTheme" gorm:"size:32"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt  time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// MeetingParticipant is one row of the meeting's non-realtime
// participant list, fed by the session core on each new join.
type MeetingParticipant struct {
	ID            uint      `json:"-" gorm:"primaryKey"`
	MeetingID     string    `json:"meetingId" gorm:"index;size:36;not null"`
	ParticipantID string    `json:"participantId" gorm:"size:36;not null"`
	Name          string    `json:"name" gorm:"size:191"`
	JoinedAt      time.Time `json:"joinedAt" gorm:"autoCreateTime"`
}

// TemplateColumn is one board column of a retrospective template.
type TemplateColumn struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Color string `json:"color,omitempty"`
}

// Template describes a retrospective format: its columns and the
// icebreaker questions it opens with.
type Template struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	Columns             []TemplateColumn `json:"columns"`
	IcebreakerQuestions []string         `json:"icebreakerQuestions,omitempty"`
	BuiltIn             bool             `json:"builtIn"`
}
