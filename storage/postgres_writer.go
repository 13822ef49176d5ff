package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"cian-offices-scraper/models"
	"cian-offices-scraper/utils"
)

const offersTable = "offices_offers"

// sqlColumns maps models.OfferColumns onto table columns, in the same order.
var sqlColumns = []struct {
	name string
	typ  string
}{
	{"offer_id", "TEXT"},
	{"listed_at", "TIMESTAMP"},
	{"url", "TEXT"},
	{"price", "DOUBLE PRECISION"},
	{"price_per_m2", "DOUBLE PRECISION"},
	{"address", "TEXT"},
	{"district", "TEXT"},
	{"sub_region", "TEXT"},
	{"area", "DOUBLE PRECISION"},
	{"area_unit", "TEXT"},
	{"room_area", "DOUBLE PRECISION"},
	{"floor", "TEXT"},
	{"total_floors", "TEXT"},
	{"year_built", "TEXT"},
	{"building_type", "TEXT"},
	{"building_class", "TEXT"},
	{"has_parking", "TEXT"},
	{"description", "TEXT"},
	{"client_id", "TEXT"},
	{"agency_name", "TEXT"},
	{"lat", "DOUBLE PRECISION"},
	{"lng", "DOUBLE PRECISION"},
}

// PostgresWriter stores every run's offers in PostgreSQL, tagged with a run id.
type PostgresWriter struct {
	db     *sql.DB
	runID  uuid.UUID
	logger *utils.Logger
}

// NewPostgresWriter opens a connection to PostgreSQL, retrying the ping with
// the given policy, runs schema migrations and returns a writer for a new run.
func NewPostgresWriter(dsn string, retry *utils.RetryConfig, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do("postgres ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db, runID: uuid.New(), logger: logger}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

// RunID identifies the rows written by this writer.
func (pw *PostgresWriter) RunID() uuid.UUID {
	return pw.runID
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(createTableSQL())
	return err
}

func createTableSQL() string {
	defs := make([]string, 0, len(sqlColumns))
	for _, c := range sqlColumns {
		defs = append(defs, fmt.Sprintf("\t\t\t%-15s %s", c.name, c.typ))
	}
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			run_id         UUID        NOT NULL,
			seq            INTEGER     NOT NULL,
			collected_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
%[2]s,
			PRIMARY KEY (run_id, seq)
		);

		CREATE INDEX IF NOT EXISTS idx_%[1]s_offer_id ON %[1]s(offer_id);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_district ON %[1]s(district);
	`, offersTable, strings.Join(defs, ",\n"))
}

// Write batch-inserts all offers of this run, preserving their order in seq.
func (pw *PostgresWriter) Write(offers []*models.Offer) error {
	if len(offers) == 0 {
		return ErrNoData
	}

	const batchSize = 50
	for i := 0; i < len(offers); i += batchSize {
		end := i + batchSize
		if end > len(offers) {
			end = len(offers)
		}
		query, args := buildInsert(pw.runID, i, offers[i:end])
		if _, err := pw.db.Exec(query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch at %d: %w", i, err)
		}
	}

	pw.logger.Info("[postgres] Stored %d offers under run %s", len(offers), pw.runID)
	return nil
}

// CountRun returns the number of rows stored for this writer's run.
func (pw *PostgresWriter) CountRun() (int, error) {
	var n int
	err := pw.db.QueryRow("SELECT COUNT(*) FROM "+offersTable+" WHERE run_id = $1", pw.runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("postgres: count run: %w", err)
	}
	return n, nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// buildInsert renders one multi-row INSERT for a batch starting at offset.
func buildInsert(runID uuid.UUID, offset int, batch []*models.Offer) (string, []any) {
	perRow := len(sqlColumns) + 2
	names := make([]string, 0, perRow)
	names = append(names, "run_id", "seq")
	for _, c := range sqlColumns {
		names = append(names, c.name)
	}

	valueStrings := make([]string, 0, len(batch))
	args := make([]any, 0, len(batch)*perRow)

	for idx, o := range batch {
		base := idx * perRow
		placeholders := make([]string, perRow)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		args = append(args, runID.String(), offset+idx)
		for j, v := range o.Values() {
			args = append(args, sqlValue(sqlColumns[j].typ, v))
		}
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		offersTable, strings.Join(names, ", "), strings.Join(valueStrings, ","))
	return query, args
}

// sqlValue converts a cell to a driver value for a column of type typ.
// Null becomes SQL NULL, as does a non-number headed for a numeric column.
func sqlValue(typ string, s models.Scalar) any {
	if s.IsNull() {
		return nil
	}
	if typ == "DOUBLE PRECISION" {
		f, ok := s.Float()
		if !ok {
			return nil
		}
		return f
	}
	return s.String()
}
