package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	intconfig "travellink/internal/config"
	intdb "travellink/internal/db"
	"travellink/internal/domain"
	"travellink/internal/domain/models"
)

const leadsTable = "leads"

type LeadRepository struct {
	DB *sql.DB
}

func (r LeadRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r LeadRepository) EnsureSchema(ctx context.Context) error {
	db := r.db()
	if db == nil {
		return fmt.Errorf("db not available")
	}
	if intdb.HasTable(ctx, db, leadsTable) {
		return nil
	}
	ddl := `
CREATE TABLE IF NOT EXISTS leads (
	id VARCHAR(64) PRIMARY KEY,
	itinerary_id VARCHAR(64) NULL,
	itinerary_title VARCHAR(255) NULL,
	agent_id VARCHAR(64) NULL,
	agent_name VARCHAR(255) NOT NULL,
	customer_name VARCHAR(255) NOT NULL,
	customer_email VARCHAR(255) NOT NULL,
	customer_phone VARCHAR(64) NULL,
	message TEXT NOT NULL,
	destination VARCHAR(255) NULL,
	travel_date VARCHAR(32) NULL,
	group_size INT NOT NULL DEFAULT 0,
	budget_range VARCHAR(64) NULL,
	source VARCHAR(64) NULL,
	status VARCHAR(16) NOT NULL,
	created_at DATETIME(3) NOT NULL,
	updated_at DATETIME(3) NOT NULL,
	KEY idx_agent (agent_name),
	KEY idx_status (status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := db.ExecContext(ctx, ddl)
	return err
}

func (r LeadRepository) SaveLead(ctx context.Context, l models.Lead) error {
	db := r.db()
	if db == nil {
		return fmt.Errorf("db not available")
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO leads (
			id, itinerary_id, itinerary_title, agent_id, agent_name,
			customer_name, customer_email, customer_phone, message,
			destination, travel_date, group_size, budget_range, source,
			status, created_at, updated_at
		) VALUES (?,?,?,?,?, ?,?,?,?, ?,?,?,?,?, ?,?,?)`,
		l.ID, intdb.NullIfEmpty(l.ItineraryID), intdb.NullIfEmpty(l.ItineraryTitle), intdb.NullIfEmpty(l.AgentID), l.AgentName,
		l.CustomerName, l.CustomerEmail, intdb.NullIfEmpty(l.CustomerPhone), l.Message,
		intdb.NullIfEmpty(l.Destination), intdb.NullIfEmpty(l.TravelDate), l.GroupSize, intdb.NullIfEmpty(l.BudgetRange), intdb.NullIfEmpty(l.Source),
		string(l.Status), l.CreatedAt, l.UpdatedAt,
	)
	return err
}

const leadColumns = `
	id, COALESCE(itinerary_id, ''), COALESCE(itinerary_title, ''), COALESCE(agent_id, ''), agent_name,
	customer_name, customer_email, COALESCE(customer_phone, ''), message,
	COALESCE(destination, ''), COALESCE(travel_date, ''), group_size, COALESCE(budget_range, ''), COALESCE(source, ''),
	status, created_at, updated_at`

func scanLead(row rowScanner) (models.Lead, error) {
	var (
		l      models.Lead
		status string
	)
	err := row.Scan(
		&l.ID, &l.ItineraryID, &l.ItineraryTitle, &l.AgentID, &l.AgentName,
		&l.CustomerName, &l.CustomerEmail, &l.CustomerPhone, &l.Message,
		&l.Destination, &l.TravelDate, &l.GroupSize, &l.BudgetRange, &l.Source,
		&status, &l.CreatedAt, &l.UpdatedAt,
	)
	l.Status = models.LeadStatus(status)
	return l, err
}

func (r LeadRepository) GetLead(ctx context.Context, id string) (models.Lead, error) {
	db := r.db()
	if db == nil {
		return models.Lead{}, fmt.Errorf("db not available")
	}
	l, err := scanLead(db.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id=? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Lead{}, domain.NotFoundError{Resource: "lead", Err: err}
	}
	return l, err
}

func (r LeadRepository) ListLeads(ctx context.Context, f models.LeadFilter) ([]models.Lead, error) {
	db := r.db()
	if db == nil {
		return nil, fmt.Errorf("db not available")
	}
	var (
		where []string
		args  []any
	)
	if f.AgentName != "" {
		where = append(where, "agent_name = ?")
		args = append(args, f.AgentName)
	}
	if f.CustomerEmail != "" {
		where = append(where, "customer_email = ?")
		args = append(args, f.CustomerEmail)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	query := `SELECT ` + leadColumns + ` FROM leads`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id ASC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r LeadRepository) UpdateLeadStatus(ctx context.Context, id string, status models.LeadStatus, at time.Time) (models.Lead, error) {
	db := r.db()
	if db == nil {
		return models.Lead{}, fmt.Errorf("db not available")
	}
	if _, err := db.ExecContext(ctx, `UPDATE leads SET status=?, updated_at=? WHERE id=?`, string(status), at, id); err != nil {
		return models.Lead{}, err
	}
	// affected rows is 0 for an unchanged row as well, so existence is decided by the read
	return r.GetLead(ctx, id)
}
