package repositories

import (
	"context"
	"testing"
	"time"

	"travellink/internal/domain"
	"travellink/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var leadCols = []string{
	"id", "itinerary_id", "itinerary_title", "agent_id", "agent_name",
	"customer_name", "customer_email", "customer_phone", "message",
	"destination", "travel_date", "group_size", "budget_range", "source",
	"status", "created_at", "updated_at",
}

func leadRow(rows *sqlmock.Rows, l models.Lead) *sqlmock.Rows {
	return rows.AddRow(
		l.ID, l.ItineraryID, l.ItineraryTitle, l.AgentID, l.AgentName,
		l.CustomerName, l.CustomerEmail, l.CustomerPhone, l.Message,
		l.Destination, l.TravelDate, l.GroupSize, l.BudgetRange, l.Source,
		string(l.Status), l.CreatedAt, l.UpdatedAt,
	)
}

func sampleLead(id string, status models.LeadStatus) models.Lead {
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	return models.Lead{
		ID: id, AgentName: "Mountain Explorers", CustomerName: "Ravi", CustomerEmail: "ravi@example.com",
		Message: "Family trip in May", GroupSize: 4, Status: status, CreatedAt: at, UpdatedAt: at,
	}
}

func TestLeadRepositoryListByAgentAndStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM leads WHERE agent_name = \\? AND status = \\? ORDER BY created_at DESC").
		WithArgs("Mountain Explorers", "new").
		WillReturnRows(leadRow(sqlmock.NewRows(leadCols), sampleLead("lead_1", models.LeadNew)))

	out, err := LeadRepository{DB: db}.ListLeads(context.Background(), models.LeadFilter{AgentName: "Mountain Explorers", Status: models.LeadNew})
	if err != nil {
		t.Fatalf("ListLeads error: %v", err)
	}
	if len(out) != 1 || out[0].Status != models.LeadNew || out[0].GroupSize != 4 {
		t.Fatalf("unexpected leads: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLeadRepositoryUpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	at := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE leads SET status=\\?, updated_at=\\? WHERE id=\\?").
		WithArgs("contacted", at, "lead_1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	updated := sampleLead("lead_1", models.LeadContacted)
	updated.UpdatedAt = at
	mock.ExpectQuery("FROM leads WHERE id=\\?").WithArgs("lead_1").
		WillReturnRows(leadRow(sqlmock.NewRows(leadCols), updated))

	got, err := LeadRepository{DB: db}.UpdateLeadStatus(context.Background(), "lead_1", models.LeadContacted, at)
	if err != nil {
		t.Fatalf("UpdateLeadStatus error: %v", err)
	}
	if got.Status != models.LeadContacted || !got.UpdatedAt.Equal(at) {
		t.Fatalf("unexpected lead: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLeadRepositoryUpdateUnknown(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE leads").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM leads WHERE id=\\?").WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(leadCols))

	_, err = LeadRepository{DB: db}.UpdateLeadStatus(context.Background(), "missing", models.LeadClosed, time.Now())
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLeadRepositorySave(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	l := sampleLead("lead_9", models.LeadNew)
	mock.ExpectExec("INSERT INTO leads").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := (LeadRepository{DB: db}).SaveLead(context.Background(), l); err != nil {
		t.Fatalf("SaveLead error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
