// Package postgresengine provides the PostgreSQL-backed BookStorage
// implementation, so a persistent backing store can be substituted for the
// in-memory one without touching the CatalogStore.
//
// The store supports multiple database libraries through an internal adapter
// pattern: pgxpool.Pool, sql.DB and sqlx.DB. Queries are built with goqu and
// executed as pre-interpolated SQL strings.
//
// The expected table schema:
//
//	CREATE TABLE books (
//	    id         TEXT PRIMARY KEY,
//	    payload    JSONB NOT NULL,
//	    updated_at TIMESTAMP WITH TIME ZONE NOT NULL
//	);
//
// Store-assigned IDs are numeric strings; the id column must only hold values
// that cast to integer.
package postgresengine
