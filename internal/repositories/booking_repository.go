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

	"github.com/go-sql-driver/mysql"
)

const bookingsTable = "travel_bookings"

// BookingRepository stores confirmed bookings in MySQL. Nested parts
// (agency contact, itinerary) are kept as JSON text columns.
type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Confirmation numbers repeat every 10^6 ms, so only the id is unique.
const bookingsDDL = `
CREATE TABLE IF NOT EXISTS travel_bookings (
	id VARCHAR(64) PRIMARY KEY,
	confirmation_number VARCHAR(32) NOT NULL,
	package_id VARCHAR(64) NULL,
	package_title VARCHAR(255) NOT NULL,
	agency_name VARCHAR(255) NOT NULL,
	agency_contact TEXT NULL,
	customer_name VARCHAR(255) NOT NULL,
	customer_email VARCHAR(255) NOT NULL,
	customer_phone VARCHAR(64) NULL,
	travel_date VARCHAR(32) NULL,
	travelers INT NOT NULL,
	duration VARCHAR(64) NULL,
	amount DOUBLE NOT NULL,
	currency VARCHAR(8) NOT NULL,
	payment_id VARCHAR(64) NOT NULL,
	transaction_id VARCHAR(64) NOT NULL,
	payment_method VARCHAR(32) NOT NULL,
	paid_at DATETIME(3) NULL,
	gst DOUBLE NOT NULL,
	service_fee DOUBLE NOT NULL,
	total DOUBLE NOT NULL,
	status VARCHAR(32) NOT NULL,
	itinerary TEXT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_confirmation (confirmation_number),
	KEY idx_customer (customer_email),
	KEY idx_agency (agency_name)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`

const bookingInsert = `
		INSERT INTO travel_bookings (
			id, confirmation_number, package_id, package_title, agency_name, agency_contact,
			customer_name, customer_email, customer_phone,
			travel_date, travelers, duration,
			amount, currency, payment_id, transaction_id, payment_method, paid_at,
			gst, service_fee, total, status, itinerary
		) VALUES (?,?,?,?,?,?, ?,?,?, ?,?,?, ?,?,?,?,?,?, ?,?,?,?,?)`

// EnsureSchema creates the bookings table when it does not exist yet.
func (r BookingRepository) EnsureSchema(ctx context.Context) error {
	db := r.db()
	if db == nil {
		return fmt.Errorf("db not available")
	}
	if intdb.HasTable(ctx, db, bookingsTable) {
		// tables created before confirmation numbers were allowed to repeat
		if intdb.HasIndex(ctx, db, bookingsTable, "uniq_confirmation") {
			_, err := db.ExecContext(ctx, `ALTER TABLE travel_bookings DROP INDEX uniq_confirmation, ADD INDEX idx_confirmation (confirmation_number)`)
			return err
		}
		return nil
	}
	_, err := db.ExecContext(ctx, bookingsDDL)
	return err
}

func (r BookingRepository) SaveBooking(ctx context.Context, rec models.BookingRecord) error {
	db := r.db()
	if db == nil {
		return fmt.Errorf("db not available")
	}
	contact, err := json.Marshal(rec.AgencyContact)
	if err != nil {
		return err
	}
	itinerary, err := json.Marshal(rec.Itinerary)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, bookingInsert,
		rec.ID, rec.ConfirmationNumber, intdb.NullIfEmpty(rec.PackageID), rec.PackageTitle, rec.AgencyName, string(contact),
		rec.Customer.Name, rec.Customer.Email, intdb.NullIfEmpty(rec.Customer.Phone),
		intdb.NullIfEmpty(rec.Travel.Date), rec.Travel.Travelers, intdb.NullIfEmpty(rec.Travel.Duration),
		rec.Payment.Amount, rec.Payment.Currency, rec.Payment.PaymentID, rec.Payment.TransactionID, rec.Payment.Method, intdb.NullTime(rec.Payment.Timestamp),
		rec.Charges.GST, rec.Charges.ServiceFee, rec.Charges.Total, rec.Status, string(itinerary),
	)
	if isDuplicateKey(err) {
		return domain.ConflictError{Resource: "booking", Msg: "id " + rec.ID + " already stored", Err: err}
	}
	return err
}

// isDuplicateKey reports MySQL error 1062 (ER_DUP_ENTRY).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

const bookingColumns = `
	id, confirmation_number, COALESCE(package_id, ''), package_title, agency_name, COALESCE(agency_contact, ''),
	customer_name, customer_email, COALESCE(customer_phone, ''),
	COALESCE(travel_date, ''), travelers, COALESCE(duration, ''),
	amount, currency, payment_id, transaction_id, payment_method, paid_at,
	gst, service_fee, total, status, COALESCE(itinerary, '')`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (models.BookingRecord, error) {
	var (
		rec       models.BookingRecord
		contact   string
		itinerary string
		paidAt    sql.NullTime
	)
	err := row.Scan(
		&rec.ID, &rec.ConfirmationNumber, &rec.PackageID, &rec.PackageTitle, &rec.AgencyName, &contact,
		&rec.Customer.Name, &rec.Customer.Email, &rec.Customer.Phone,
		&rec.Travel.Date, &rec.Travel.Travelers, &rec.Travel.Duration,
		&rec.Payment.Amount, &rec.Payment.Currency, &rec.Payment.PaymentID, &rec.Payment.TransactionID, &rec.Payment.Method, &paidAt,
		&rec.Charges.GST, &rec.Charges.ServiceFee, &rec.Charges.Total, &rec.Status, &itinerary,
	)
	if err != nil {
		return rec, err
	}
	if paidAt.Valid {
		rec.Payment.Timestamp = paidAt.Time
	}
	rec.Charges.Base = rec.Payment.Amount
	if contact != "" {
		if err := json.Unmarshal([]byte(contact), &rec.AgencyContact); err != nil {
			return rec, fmt.Errorf("decode agency_contact: %w", err)
		}
	}
	if itinerary != "" {
		if err := json.Unmarshal([]byte(itinerary), &rec.Itinerary); err != nil {
			return rec, fmt.Errorf("decode itinerary: %w", err)
		}
	}
	return rec, nil
}

func (r BookingRepository) GetBooking(ctx context.Context, id string) (models.BookingRecord, error) {
	db := r.db()
	if db == nil {
		return models.BookingRecord{}, fmt.Errorf("db not available")
	}
	row := db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM travel_bookings WHERE id=? LIMIT 1`, id)
	rec, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BookingRecord{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	return rec, err
}

func (r BookingRepository) ListBookings(ctx context.Context, f models.BookingFilter) ([]models.BookingRecord, error) {
	db := r.db()
	if db == nil {
		return nil, fmt.Errorf("db not available")
	}

	var (
		where []string
		args  []any
	)
	if f.CustomerEmail != "" {
		where = append(where, "customer_email = ?")
		args = append(args, f.CustomerEmail)
	}
	if f.AgencyName != "" {
		where = append(where, "agency_name = ?")
		args = append(args, f.AgencyName)
	}
	query := `SELECT ` + bookingColumns + ` FROM travel_bookings`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY paid_at DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.BookingRecord
	for rows.Next() {
		rec, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r BookingRepository) UpdateBookingStatus(ctx context.Context, id, status string) (models.BookingRecord, error) {
	db := r.db()
	if db == nil {
		return models.BookingRecord{}, fmt.Errorf("db not available")
	}
	if _, err := db.ExecContext(ctx, `UPDATE travel_bookings SET status=? WHERE id=?`, status, id); err != nil {
		return models.BookingRecord{}, err
	}
	return r.GetBooking(ctx, id)
}
