package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/pagebound/bookcatalog-go/bookcatalog"
	"github.com/pagebound/bookcatalog-go/bookcatalog/postgresengine/internal/adapters"
)

var (
	ErrBuildingQueryFailed       = errors.New("failed to build sql query")
	ErrQueryingBooksFailed       = errors.New("failed to query books")
	ErrScanningDBRowFailed       = errors.New("failed to scan database row")
	ErrExecutingStatementFailed  = errors.New("failed to execute sql statement")
	ErrGettingRowsAffectedFailed = errors.New("failed to get rows affected count")
	ErrDeserializingBookFailed   = errors.New("failed to deserialize book payload")
	ErrInsertReturnedNoID        = errors.New("insert returned no id")
)

const (
	defaultBookTableName   = "books"
	logMsgSQLExecuted      = "executed sql for: "
	logMsgOperation        = "bookstore operation: "
	logMsgDBQueryFailed    = "database query execution failed"
	logMsgDBExecFailed     = "database execution failed"
	logMsgCloseRowsFailed  = "failed to close database rows"
	logMsgScanRowFailed    = "failed to scan database row"
	logMsgBuildQueryFailed = "failed to build sql query"
	logMsgDecodeBookFailed = "failed to deserialize book payload"
	logMsgBookInserted     = "book inserted"
	logMsgBookReplaced     = "book replaced"
	logMsgBookRemoved      = "book removed"
	logMsgBooksListed      = "books listed"
	logAttrError           = "error"
	logAttrQuery           = "query"
	logAttrBookID          = "book_id"
	logAttrBookCount       = "book_count"
	logAttrDurationMS      = "duration_ms"
	logActionInsert        = "insert"
	logActionGet           = "get"
	logActionReplace       = "replace"
	logActionRemove        = "remove"
	logActionList          = "list"
	colID                  = "id"
	colPayload             = "payload"
	colUpdatedAt           = "updated_at"
	dialectPostgres        = "postgres"
	castText               = "?::text"
	castJsonb              = "?::jsonb"
	castTimestamp          = "?::timestamp with time zone"
	exprNextNumericID      = "((COALESCE(MAX(id::integer), 0)) + 1)::text"
	exprNumericID          = "id::integer"
)

type sqlQueryString = string

// BookStore is a PostgreSQL-backed bookcatalog.BookStorage.
//
// Each book is stored as one row holding its ID, the canonical JSON payload
// and the last-updated timestamp. Assigned IDs are numeric strings derived
// from the current maximum, so they are monotonic while records are only
// inserted; the CatalogStore treats them as opaque either way.
type BookStore struct {
	db            adapters.DBAdapter
	bookTableName string
	logger        Logger
}

// NewBookStoreFromPGXPool creates a new BookStore using a pgx Pool with optional configuration.
func NewBookStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (BookStore, error) {
	if db == nil {
		return BookStore{}, bookcatalog.ErrNilDatabaseConnection
	}

	return newBookStore(adapters.NewPGXAdapter(db), options...)
}

// NewBookStoreFromSQLDB creates a new BookStore using a sql.DB with optional configuration.
func NewBookStoreFromSQLDB(db *sql.DB, options ...Option) (BookStore, error) {
	if db == nil {
		return BookStore{}, bookcatalog.ErrNilDatabaseConnection
	}

	return newBookStore(adapters.NewSQLAdapter(db), options...)
}

// NewBookStoreFromSQLX creates a new BookStore using a sqlx.DB with optional configuration.
func NewBookStoreFromSQLX(db *sqlx.DB, options ...Option) (BookStore, error) {
	if db == nil {
		return BookStore{}, bookcatalog.ErrNilDatabaseConnection
	}

	return newBookStore(adapters.NewSQLXAdapter(db), options...)
}

func newBookStore(db adapters.DBAdapter, options ...Option) (BookStore, error) {
	bs := BookStore{
		db:            db,
		bookTableName: defaultBookTableName,
	}

	for _, option := range options {
		if err := option(&bs); err != nil {
			return BookStore{}, err
		}
	}

	return bs, nil
}

// Insert stores a new book.
//
// When the book carries no ID the database assigns the next numeric one
// atomically within the insert statement. A caller-provided ID is inserted
// conditionally; an already-taken ID surfaces as ErrDuplicateBookID.
func (bs BookStore) Insert(ctx context.Context, book bookcatalog.Book) (bookcatalog.Book, error) {
	payload, marshalErr := bookcatalog.BookToJSON(book)
	if marshalErr != nil {
		return bookcatalog.Book{}, marshalErr
	}

	if book.ID == "" {
		return bs.insertWithAssignedID(ctx, book, payload)
	}

	return bs.insertWithGivenID(ctx, book, payload)
}

func (bs BookStore) insertWithAssignedID(
	ctx context.Context,
	book bookcatalog.Book,
	payload []byte,
) (bookcatalog.Book, error) {

	builder := goqu.Dialect(dialectPostgres)

	// The next ID is derived from the current maximum inside the same
	// statement, so two inserts can never be handed the same ID.
	selectStmt := builder.
		From(bs.bookTableName).
		Select(
			goqu.L(exprNextNumericID),
			goqu.L(castJsonb, string(payload)),
			goqu.L(castTimestamp, book.LastUpdated),
		)

	insertStmt := builder.
		Insert(bs.bookTableName).
		Cols(colID, colPayload, colUpdatedAt).
		FromQuery(selectStmt).
		Returning(colID)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		bs.logError(logMsgBuildQueryFailed, toSQLErr)
		return bookcatalog.Book{}, errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	rows, _, queryErr := bs.executeQuery(ctx, sqlQuery, logActionInsert)
	if queryErr != nil {
		return bookcatalog.Book{}, queryErr
	}
	defer bs.closeRows(rows)

	if !rows.Next() {
		return bookcatalog.Book{}, ErrInsertReturnedNoID
	}

	var assignedID string
	if scanErr := rows.Scan(&assignedID); scanErr != nil {
		bs.logError(logMsgScanRowFailed, scanErr)
		return bookcatalog.Book{}, errors.Join(ErrScanningDBRowFailed, scanErr)
	}

	book.ID = assignedID
	bs.logOperation(logMsgBookInserted, logAttrBookID, book.ID)

	return book, nil
}

func (bs BookStore) insertWithGivenID(
	ctx context.Context,
	book bookcatalog.Book,
	payload []byte,
) (bookcatalog.Book, error) {

	builder := goqu.Dialect(dialectPostgres)

	selectStmt := builder.
		Select(
			goqu.L(castText, book.ID),
			goqu.L(castJsonb, string(payload)),
			goqu.L(castTimestamp, book.LastUpdated),
		).
		Where(goqu.L(
			"NOT EXISTS (SELECT 1 FROM "+bs.bookTableName+" WHERE "+colID+" = ?)",
			book.ID,
		))

	insertStmt := builder.
		Insert(bs.bookTableName).
		Cols(colID, colPayload, colUpdatedAt).
		FromQuery(selectStmt)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		bs.logError(logMsgBuildQueryFailed, toSQLErr)
		return bookcatalog.Book{}, errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	rowsAffected, _, execErr := bs.executeStatement(ctx, sqlQuery, logActionInsert)
	if execErr != nil {
		return bookcatalog.Book{}, execErr
	}

	if rowsAffected == 0 {
		return bookcatalog.Book{}, bookcatalog.ErrDuplicateBookID
	}

	bs.logOperation(logMsgBookInserted, logAttrBookID, book.ID)

	return book, nil
}

// Get returns the book with the given ID, or bookcatalog.ErrBookNotFound.
func (bs BookStore) Get(ctx context.Context, id string) (bookcatalog.Book, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(bs.bookTableName).
		Select(colID, colPayload).
		Where(goqu.C(colID).Eq(id))

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		bs.logError(logMsgBuildQueryFailed, toSQLErr)
		return bookcatalog.Book{}, errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	rows, _, queryErr := bs.executeQuery(ctx, sqlQuery, logActionGet)
	if queryErr != nil {
		return bookcatalog.Book{}, queryErr
	}
	defer bs.closeRows(rows)

	if !rows.Next() {
		return bookcatalog.Book{}, bookcatalog.ErrBookNotFound
	}

	return bs.scanBook(rows)
}

// Replace overwrites the stored record carrying the book's ID.
func (bs BookStore) Replace(ctx context.Context, book bookcatalog.Book) error {
	payload, marshalErr := bookcatalog.BookToJSON(book)
	if marshalErr != nil {
		return marshalErr
	}

	updateStmt := goqu.Dialect(dialectPostgres).
		Update(bs.bookTableName).
		Set(goqu.Record{
			colPayload:   goqu.L(castJsonb, string(payload)),
			colUpdatedAt: goqu.L(castTimestamp, book.LastUpdated),
		}).
		Where(goqu.C(colID).Eq(book.ID))

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		bs.logError(logMsgBuildQueryFailed, toSQLErr)
		return errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	rowsAffected, _, execErr := bs.executeStatement(ctx, sqlQuery, logActionReplace)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		return bookcatalog.ErrBookNotFound
	}

	bs.logOperation(logMsgBookReplaced, logAttrBookID, book.ID)

	return nil
}

// Remove deletes the book with the given ID.
func (bs BookStore) Remove(ctx context.Context, id string) error {
	deleteStmt := goqu.Dialect(dialectPostgres).
		Delete(bs.bookTableName).
		Where(goqu.C(colID).Eq(id))

	sqlQuery, _, toSQLErr := deleteStmt.ToSQL()
	if toSQLErr != nil {
		bs.logError(logMsgBuildQueryFailed, toSQLErr)
		return errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	rowsAffected, _, execErr := bs.executeStatement(ctx, sqlQuery, logActionRemove)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		return bookcatalog.ErrBookNotFound
	}

	bs.logOperation(logMsgBookRemoved, logAttrBookID, id)

	return nil
}

// List returns all stored books ordered by their numeric ID, which matches
// insertion order for store-assigned IDs.
func (bs BookStore) List(ctx context.Context) ([]bookcatalog.Book, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(bs.bookTableName).
		Select(colID, colPayload).
		Order(goqu.L(exprNumericID).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		bs.logError(logMsgBuildQueryFailed, toSQLErr)
		return nil, errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	rows, duration, queryErr := bs.executeQuery(ctx, sqlQuery, logActionList)
	if queryErr != nil {
		return nil, queryErr
	}
	defer bs.closeRows(rows)

	books := make([]bookcatalog.Book, 0)

	for rows.Next() {
		book, scanErr := bs.scanBook(rows)
		if scanErr != nil {
			return nil, scanErr
		}

		books = append(books, book)
	}

	bs.logOperation(
		logMsgBooksListed,
		logAttrBookCount, len(books),
		logAttrDurationMS, bs.durationToMilliseconds(duration))

	return books, nil
}

// scanBook reads one (id, payload) row and deserializes the book.
// The ID column is authoritative over whatever the payload carries.
func (bs BookStore) scanBook(rows adapters.DBRows) (bookcatalog.Book, error) {
	var (
		id      string
		payload []byte
	)

	if scanErr := rows.Scan(&id, &payload); scanErr != nil {
		bs.logError(logMsgScanRowFailed, scanErr)
		return bookcatalog.Book{}, errors.Join(ErrScanningDBRowFailed, scanErr)
	}

	book, decodeErr := bookcatalog.BookFromJSON(payload)
	if decodeErr != nil {
		bs.logError(logMsgDecodeBookFailed, decodeErr, logAttrBookID, id)
		return bookcatalog.Book{}, errors.Join(ErrDeserializingBookFailed, decodeErr)
	}

	book.ID = id

	return book, nil
}

// executeQuery executes the SQL query and returns rows with timing information.
func (bs BookStore) executeQuery(ctx context.Context, sqlQuery sqlQueryString, action string) (
	adapters.DBRows,
	time.Duration,
	error,
) {

	start := time.Now()
	rows, queryErr := bs.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	bs.logQueryWithDuration(sqlQuery, action, duration)

	if queryErr != nil {
		bs.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, duration, errors.Join(ErrQueryingBooksFailed, queryErr)
	}

	return rows, duration, nil
}

// executeStatement executes the SQL statement and returns rows affected with timing information.
func (bs BookStore) executeStatement(ctx context.Context, sqlQuery sqlQueryString, action string) (
	int64,
	time.Duration,
	error,
) {

	start := time.Now()
	result, execErr := bs.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	bs.logQueryWithDuration(sqlQuery, action, duration)

	if execErr != nil {
		bs.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return 0, duration, errors.Join(ErrExecutingStatementFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		bs.logError(logMsgDBExecFailed, rowsAffectedErr)
		return 0, duration, errors.Join(ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return rowsAffected, duration, nil
}

// closeRows safely closes database rows and logs any errors.
func (bs BookStore) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if bs.logger != nil {
			bs.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

// logQueryWithDuration logs SQL queries with execution time at debug level if the logger is configured.
func (bs BookStore) logQueryWithDuration(sqlQuery sqlQueryString, action string, duration time.Duration) {
	if bs.logger != nil {
		bs.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, bs.durationToMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (bs BookStore) logOperation(action string, args ...any) {
	if bs.logger != nil {
		bs.logger.Info(logMsgOperation+action, args...)
	}
}

// logError logs error information at the error level if the logger is configured.
func (bs BookStore) logError(message string, err error, args ...any) {
	if bs.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		bs.logger.Error(message, allArgs...)
	}
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (bs BookStore) durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
