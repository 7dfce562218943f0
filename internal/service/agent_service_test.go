package service

import (
	"log/slog"
	"testing"

	"github.com/pureai/hostdesk/internal/domain"
)

func seedAgent(t *testing.T, repo *memAgentRepo, businessID string) *domain.Agent {
	t.Helper()
	agent := &domain.Agent{
		ID:         "agent-1",
		BusinessID: businessID,
		Name:       "Front Desk",
		Greeting:   "Hello",
		Language:   "en",
	}
	if err := repo.Create(agent); err != nil {
		t.Fatalf("seeding agent: %v", err)
	}
	return agent
}

func TestAgentUpdatePartial(t *testing.T) {
	repo := newMemAgentRepo()
	seedAgent(t, repo, "b1")
	svc := NewAgentService(repo, slog.Default())

	prompt := "You answer calls for a pizzeria."
	updated, err := svc.Update("b1", AgentUpdate{SystemPrompt: &prompt})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.SystemPrompt != prompt {
		t.Errorf("prompt not applied: %q", updated.SystemPrompt)
	}
	if updated.Name != "Front Desk" || updated.Greeting != "Hello" {
		t.Error("untouched fields must survive a partial update")
	}
}

func TestAgentUpdateRejectsEmptyName(t *testing.T) {
	repo := newMemAgentRepo()
	seedAgent(t, repo, "b1")
	svc := NewAgentService(repo, slog.Default())

	blank := "   "
	if _, err := svc.Update("b1", AgentUpdate{Name: &blank}); err == nil {
		t.Error("blank agent name must be rejected")
	}
}

func TestAgentCreate(t *testing.T) {
	repo := newMemAgentRepo()
	seedAgent(t, repo, "b1")
	svc := NewAgentService(repo, slog.Default())

	created, err := svc.Create("b1", AgentCreate{Name: " After Hours ", Language: "es"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Name != "After Hours" {
		t.Errorf("expected trimmed name, got %q", created.Name)
	}
	if created.ID == "" || created.BusinessID != "b1" {
		t.Errorf("unexpected agent identity: %+v", created)
	}

	agents, err := svc.List("b1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(agents) != 2 {
		t.Errorf("expected 2 agents, got %d", len(agents))
	}

	if _, err := svc.Create("b1", AgentCreate{Name: ""}); err == nil {
		t.Error("nameless agents must be rejected")
	}
}

func TestAgentGetUnknownBusiness(t *testing.T) {
	svc := NewAgentService(newMemAgentRepo(), slog.Default())
	if _, err := svc.Get("nope"); err == nil {
		t.Error("expected an error for an unknown business")
	}
}
