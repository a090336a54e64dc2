package service

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tejasmali6131/TeamRetro-sub000/internal/domain"
)

// builtInTemplates are the retrospective formats shipped with the
// server. They are read-only; custom templates live alongside them.
func builtInTemplates() []domain.Template {
	return []domain.Template{
		{
			ID:   "mad-sad-glad",
			Name: "Mad / Sad / Glad",
			Columns: []domain.TemplateColumn{
				{ID: "mad", Title: "Mad", Color: "#e74c3c"},
				{ID: "sad", Title: "Sad", Color: "#3498db"},
				{ID: "glad", Title: "Glad", Color: "#2ecc71"},
			},
			IcebreakerQuestions: domain.DefaultIcebreakerQuestions,
			BuiltIn:             true,
		},
		{
			ID:   "start-stop-continue",
			Name: "Start / Stop / Continue",
			Columns: []domain.TemplateColumn{
				{ID: "start", Title: "Start", Color: "#2ecc71"},
				{ID: "stop", Title: "Stop", Color: "#e74c3c"},
				{ID: "continue", Title: "Continue", Color: "#f39c12"},
			},
			IcebreakerQuestions: domain.DefaultIcebreakerQuestions,
			BuiltIn:             true,
		},
		{
			ID:   "went-well-improve",
			Name: "What Went Well / What To Improve",
			Columns: []domain.TemplateColumn{
				{ID: "went-well", Title: "What went well", Color: "#2ecc71"},
				{ID: "improve", Title: "What to improve", Color: "#9b59b6"},
				{ID: "action-ideas", Title: "Action ideas", Color: "#f1c40f"},
			},
			IcebreakerQuestions: domain.DefaultIcebreakerQuestions,
			BuiltIn:             true,
		},
		{
			ID:   "4ls",
			Name: "4Ls",
			Columns: []domain.TemplateColumn{
				{ID: "liked", Title: "Liked", Color: "#2ecc71"},
				{ID: "learned", Title: "Learned", Color: "#3498db"},
				{ID: "lacked", Title: "Lacked", Color: "#e67e22"},
				{ID: "longed-for", Title: "Longed for", Color: "#9b59b6"},
			},
			IcebreakerQuestions: domain.DefaultIcebreakerQuestions,
			BuiltIn:             true,
		},
	}
}

// TemplateService manages retrospective templates: the built-in set
// plus user-defined ones kept in memory.
type TemplateService struct {
	mu        sync.RWMutex
	templates map[string]domain.Template
}

// NewTemplateService seeds the service with the built-in templates.
func NewTemplateService() *TemplateService {
	s := &TemplateService{templates: make(map[string]domain.Template)}
	for _, t := range builtInTemplates() {
		s.templates[t.ID] = t
	}
	return s
}

// List returns every template, built-ins first, then customs by name.
func (s *TemplateService) List() []domain.Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	templates := make([]domain.Template, 0, len(s.templates))
	for _, t := range s.templates {
		templates = append(templates, t)
	}
	sort.Slice(templates, func(i, j int) bool {
		if templates[i].BuiltIn != templates[j].BuiltIn {
			return templates[i].BuiltIn
		}
		return templates[i].Name < templates[j].Name
	})
	return templates
}

// FindByID returns the template or ErrTemplateNotFound.
func (s *TemplateService) FindByID(id string) (*domain.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	copied := t
	return &copied, nil
}

// Create registers a custom template. A missing ID gets a generated
// one; empty icebreaker questions inherit the default set.
func (s *TemplateService) Create(t domain.Template) (*domain.Template, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.BuiltIn = false
	if len(t.IcebreakerQuestions) == 0 {
		t.IcebreakerQuestions = domain.DefaultIcebreakerQuestions
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.templates[t.ID]; ok && existing.BuiltIn {
		return nil, ErrTemplateReadOnly
	}
	s.templates[t.ID] = t
	logrus.WithFields(logrus.Fields{
		"template_id": t.ID,
		"name":        t.Name,
	}).Info("Custom template created")
	copied := t
	return &copied, nil
}

// Delete removes a custom template. Built-ins are protected.
func (s *TemplateService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[id]
	if !ok {
		return ErrTemplateNotFound
	}
	if t.BuiltIn {
		return ErrTemplateReadOnly
	}
	delete(s.templates, id)
	return nil
}
