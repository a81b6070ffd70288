package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	intconfig "travellink/internal/config"
	intdb "travellink/internal/db"
	"travellink/internal/domain"
	"travellink/internal/domain/models"
)

const itinerariesTable = "itineraries"

// ItineraryRepository stores agency listings in MySQL. The day plan is a JSON text column.
type ItineraryRepository struct {
	DB *sql.DB
}

func (r ItineraryRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r ItineraryRepository) EnsureSchema(ctx context.Context) error {
	db := r.db()
	if db == nil {
		return fmt.Errorf("db not available")
	}
	if intdb.HasTable(ctx, db, itinerariesTable) {
		return nil
	}
	ddl := `
CREATE TABLE IF NOT EXISTS itineraries (
	id VARCHAR(64) PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	destination VARCHAR(255) NOT NULL,
	price_per_person DOUBLE NOT NULL,
	duration_days INT NOT NULL,
	duration_nights INT NOT NULL,
	description TEXT NOT NULL,
	category VARCHAR(64) NULL,
	rating DOUBLE NOT NULL DEFAULT 0,
	agent_name VARCHAR(255) NOT NULL,
	days TEXT NULL,
	active TINYINT(1) NOT NULL DEFAULT 1,
	created_at DATETIME(3) NOT NULL,
	updated_at DATETIME(3) NOT NULL,
	KEY idx_agent (agent_name),
	KEY idx_active (active)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := db.ExecContext(ctx, ddl)
	return err
}

func (r ItineraryRepository) SaveItinerary(ctx context.Context, it models.Itinerary) error {
	db := r.db()
	if db == nil {
		return fmt.Errorf("db not available")
	}
	days, err := json.Marshal(it.Days)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO itineraries (
			id, title, destination, price_per_person, duration_days, duration_nights,
			description, category, rating, agent_name, days, active, created_at, updated_at
		) VALUES (?,?,?,?,?,?, ?,?,?,?,?,?,?,?)`,
		it.ID, it.Title, it.Destination, it.PricePerPerson, it.DurationDays, it.DurationNights,
		it.Description, intdb.NullIfEmpty(it.Category), it.Rating, it.AgentName, string(days), it.Active, it.CreatedAt, it.UpdatedAt,
	)
	if isDuplicateKey(err) {
		return domain.ConflictError{Resource: "itinerary", Msg: "id " + it.ID + " already stored", Err: err}
	}
	return err
}

// UpdateItinerary rewrites every editable column. Owner and creation time are kept.
func (r ItineraryRepository) UpdateItinerary(ctx context.Context, it models.Itinerary) error {
	db := r.db()
	if db == nil {
		return fmt.Errorf("db not available")
	}
	days, err := json.Marshal(it.Days)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `
		UPDATE itineraries SET
			title=?, destination=?, price_per_person=?, duration_days=?, duration_nights=?,
			description=?, category=?, rating=?, days=?, active=?, updated_at=?
		WHERE id=?`,
		it.Title, it.Destination, it.PricePerPerson, it.DurationDays, it.DurationNights,
		it.Description, intdb.NullIfEmpty(it.Category), it.Rating, string(days), it.Active, it.UpdatedAt,
		it.ID,
	)
	if err != nil {
		return err
	}
	// updated_at always moves, so zero affected rows means the id is unknown
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "itinerary"}
	}
	return nil
}

const itineraryColumns = `
	id, title, destination, price_per_person, duration_days, duration_nights,
	description, COALESCE(category, ''), rating, agent_name, COALESCE(days, ''), active, created_at, updated_at`

func scanItinerary(row rowScanner) (models.Itinerary, error) {
	var (
		it   models.Itinerary
		days string
	)
	err := row.Scan(
		&it.ID, &it.Title, &it.Destination, &it.PricePerPerson, &it.DurationDays, &it.DurationNights,
		&it.Description, &it.Category, &it.Rating, &it.AgentName, &days, &it.Active, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return it, err
	}
	if days != "" && days != "null" {
		if err := json.Unmarshal([]byte(days), &it.Days); err != nil {
			return it, fmt.Errorf("decode days: %w", err)
		}
	}
	return it, nil
}

func (r ItineraryRepository) GetItinerary(ctx context.Context, id string) (models.Itinerary, error) {
	db := r.db()
	if db == nil {
		return models.Itinerary{}, fmt.Errorf("db not available")
	}
	it, err := scanItinerary(db.QueryRowContext(ctx, `SELECT `+itineraryColumns+` FROM itineraries WHERE id=? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Itinerary{}, domain.NotFoundError{Resource: "itinerary", Err: err}
	}
	return it, err
}

func (r ItineraryRepository) ListItineraries(ctx context.Context, f models.ItineraryFilter) ([]models.Itinerary, error) {
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
	if f.ActiveOnly {
		where = append(where, "active = 1")
	}
	query := `SELECT ` + itineraryColumns + ` FROM itineraries`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id ASC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Itinerary
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
