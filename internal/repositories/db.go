package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Open connects to postgres (lib/pq) or sqlite (modernc) and applies the schema.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// One writer; avoids SQLITE_BUSY under concurrent requests.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates missing tables. Statements are idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	ddl := schema
	if db.DriverName() == "postgres" {
		ddl = strings.NewReplacer(
			"{{id}}", "BIGSERIAL PRIMARY KEY",
			"{{ts}}", "TIMESTAMPTZ",
		).Replace(ddl)
	} else {
		ddl = strings.NewReplacer(
			"{{id}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
			"{{ts}}", "TIMESTAMP",
		).Replace(ddl)
	}
	for _, stmt := range strings.Split(ddl, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS services (
	id          {{id}},
	title       TEXT NOT NULL,
	slug        TEXT NOT NULL UNIQUE,
	summary     TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	icon        TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT '',
	sort_order  INTEGER NOT NULL DEFAULT 0,
	active      BOOLEAN NOT NULL DEFAULT TRUE,
	created_at  {{ts}} NOT NULL,
	updated_at  {{ts}} NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_services_order ON services (sort_order, id);

CREATE TABLE IF NOT EXISTS team_members (
	id           {{id}},
	name         TEXT NOT NULL,
	position     TEXT NOT NULL,
	bio          TEXT NOT NULL DEFAULT '',
	photo_url    TEXT NOT NULL DEFAULT '',
	email        TEXT NOT NULL DEFAULT '',
	linkedin_url TEXT NOT NULL DEFAULT '',
	sort_order   INTEGER NOT NULL DEFAULT 0,
	active       BOOLEAN NOT NULL DEFAULT TRUE,
	created_at   {{ts}} NOT NULL,
	updated_at   {{ts}} NOT NULL
);

CREATE TABLE IF NOT EXISTS blog_posts (
	id           {{id}},
	title        TEXT NOT NULL,
	slug         TEXT NOT NULL UNIQUE,
	excerpt      TEXT NOT NULL DEFAULT '',
	content      TEXT NOT NULL DEFAULT '',
	author       TEXT NOT NULL DEFAULT '',
	tags         TEXT NOT NULL DEFAULT '',
	published    BOOLEAN NOT NULL DEFAULT FALSE,
	published_at {{ts}},
	created_at   {{ts}} NOT NULL,
	updated_at   {{ts}} NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_blog_posts_published ON blog_posts (published, created_at);

CREATE TABLE IF NOT EXISTS portfolio_items (
	id           {{id}},
	title        TEXT NOT NULL,
	client       TEXT NOT NULL DEFAULT '',
	industry     TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT '',
	outcome      TEXT NOT NULL DEFAULT '',
	image_url    TEXT NOT NULL DEFAULT '',
	deal_value   TEXT NOT NULL DEFAULT '',
	featured     BOOLEAN NOT NULL DEFAULT FALSE,
	completed_at {{ts}},
	created_at   {{ts}} NOT NULL,
	updated_at   {{ts}} NOT NULL
);

CREATE TABLE IF NOT EXISTS newsletter_subscriptions (
	id              {{id}},
	email           TEXT NOT NULL UNIQUE,
	name            TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL,
	token           TEXT NOT NULL UNIQUE,
	created_at      {{ts}} NOT NULL,
	unsubscribed_at {{ts}}
);

CREATE TABLE IF NOT EXISTS contacts (
	id         {{id}},
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	phone      TEXT NOT NULL DEFAULT '',
	company    TEXT NOT NULL DEFAULT '',
	subject    TEXT NOT NULL DEFAULT '',
	message    TEXT NOT NULL,
	service    TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL,
	created_at {{ts}} NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contacts_status ON contacts (status, created_at);

CREATE TABLE IF NOT EXISTS wizard_state (
	session_id TEXT NOT NULL,
	state_key  TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at {{ts}} NOT NULL,
	PRIMARY KEY (session_id, state_key)
)
`

// insertReturningID runs an INSERT and returns the generated id. Arguments
// must already be plain driver values (see nullTime).
func insertReturningID(ctx context.Context, db *sqlx.DB, query string, args ...any) (int64, error) {
	var id int64
	if err := db.QueryRowxContext(ctx, db.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// execAffectingOne runs a statement and reports ErrNotFound when no row
// matched.
func execAffectingOne(ctx context.Context, db *sqlx.DB, query string, args ...any) error {
	res, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// nullTime unwraps an optional timestamp into a value every driver accepts.
func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func deleteByID(ctx context.Context, db *sqlx.DB, table string, id int64) error {
	res, err := db.ExecContext(ctx, db.Rebind("DELETE FROM "+table+" WHERE id = ?"), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func count(ctx context.Context, db *sqlx.DB, query string, args ...any) (int, error) {
	var n int
	if err := db.GetContext(ctx, &n, db.Rebind(query), args...); err != nil {
		return 0, err
	}
	return n, nil
}

// mapError folds driver-specific errors into the package sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrConflict, pqErr.Constraint)
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && isUniqueViolation(liteErr) {
		return fmt.Errorf("%w: %s", ErrConflict, liteErr.Error())
	}
	return err
}

func isUniqueViolation(e *sqlite.Error) bool {
	code := e.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
		return true
	}
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(e.Error(), "UNIQUE")
}
