package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	apperrors "github.com/palemoky/forhonor-db/internal/errors"
)

// Conn is an open handle on one SQLite file.
// A nil *Conn is accepted by every Gateway method and degrades the call.
type Conn struct {
	db     *gorm.DB
	path   string
	closed atomic.Bool
}

// Path returns the file the connection was opened on
func (c *Conn) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// Gateway executes statements against a Conn.
//
// Every method logs failures at the point of execution and returns the
// degraded value (nil connection, zero rows affected, nil rows) together
// with a classified *errors.Error. Callers that only need the value may
// ignore the error; it has already been reported.
type Gateway struct {
	log *zap.Logger
}

// NewGateway creates a gateway that reports failures to log
func NewGateway(log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{log: log}
}

// Open opens or creates the SQLite file at path with foreign keys enforced.
// The pool is capped at a single connection.
//
// Degraded value: nil *Conn.
func (g *Gateway) Open(path string) (*Conn, error) {
	gormDB, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, g.fail(apperrors.Connection("open", err), zap.String("path", path))
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, g.fail(apperrors.Connection("open", err), zap.String("path", path))
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, g.fail(apperrors.Connection("open", err), zap.String("path", path))
	}

	g.log.Info("Connected to SQLite database",
		zap.String("path", path),
		zap.String("driver", gormDB.Dialector.Name()),
	)

	return &Conn{db: gormDB, path: path}, nil
}

// uriEscaper escapes the characters that would end the path part of a
// SQLite URI filename.
var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23")

// dsn builds a URI filename for path with foreign keys enabled
func dsn(path string) string {
	return "file:" + uriEscaper.Replace(path) + "?_foreign_keys=on"
}

// Close releases conn. It is safe on nil and on already closed connections;
// errors are logged and swallowed.
func (g *Gateway) Close(conn *Conn) {
	if conn == nil {
		return
	}
	if !conn.closed.CompareAndSwap(false, true) {
		g.log.Debug("Connection already closed", zap.String("path", conn.path))
		return
	}

	sqlDB, err := conn.db.DB()
	if err != nil {
		g.log.Warn("Failed to get connection pool", zap.String("path", conn.path), zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		g.log.Warn("Failed to close database", zap.String("path", conn.path), zap.Error(err))
		return
	}

	g.log.Info("Disconnected from SQLite database", zap.String("path", conn.path))
}

// Ping checks that conn still reaches its database file
func (g *Gateway) Ping(conn *Conn) error {
	if err := g.usable(conn, "ping"); err != nil {
		return err
	}
	sqlDB, err := conn.db.DB()
	if err != nil {
		return g.fail(apperrors.Connection("ping", err), zap.String("path", conn.path))
	}
	if err := sqlDB.Ping(); err != nil {
		return g.fail(apperrors.Connection("ping", err), zap.String("path", conn.path))
	}
	return nil
}

// Stats returns the pool statistics of conn, or zero stats when conn is unusable
func (g *Gateway) Stats(conn *Conn) sql.DBStats {
	if conn == nil || conn.closed.Load() {
		return sql.DBStats{}
	}
	sqlDB, err := conn.db.DB()
	if err != nil {
		return sql.DBStats{}
	}
	return sqlDB.Stats()
}

// ExecuteUpdate runs a DDL or DML statement and returns the affected row count.
//
// Degraded value: 0.
func (g *Gateway) ExecuteUpdate(conn *Conn, query string, args ...any) (int64, error) {
	if err := g.usable(conn, "execute update"); err != nil {
		return 0, err
	}

	result := conn.db.Exec(query, args...)
	if result.Error != nil {
		return 0, g.fail(apperrors.Statement("execute update", result.Error), zap.String("sql", compact(query)))
	}

	return result.RowsAffected, nil
}

// ExecuteQuery runs a read statement and materializes every row.
// The cursor is closed before returning.
//
// Degraded value: nil rows.
func (g *Gateway) ExecuteQuery(conn *Conn, query string, args ...any) ([]Row, error) {
	if err := g.usable(conn, "execute query"); err != nil {
		return nil, err
	}

	rows, err := conn.db.Raw(query, args...).Rows()
	if err != nil {
		return nil, g.fail(apperrors.Statement("execute query", err), zap.String("sql", compact(query)))
	}
	defer func() { _ = rows.Close() }()

	result, err := scanRows(rows)
	if err != nil {
		return nil, g.fail(apperrors.Statement("execute query", err), zap.String("sql", compact(query)))
	}

	return result, nil
}

// ListDistinctColumnValues returns SELECT DISTINCT column FROM table.
// Both identifiers must belong to the schema.
//
// Degraded value: nil.
func (g *Gateway) ListDistinctColumnValues(conn *Conn, table, column string) ([]string, error) {
	if !IsKnownColumn(table, column) {
		err := fmt.Errorf("unknown column %q in table %q", column, table)
		return nil, g.fail(apperrors.Statement("list distinct values", err))
	}

	rows, err := g.ExecuteQuery(conn, fmt.Sprintf("SELECT DISTINCT %s FROM %s", column, table))
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(rows))
	for _, row := range rows {
		values = append(values, row.Values[0])
	}
	return values, nil
}

func (g *Gateway) usable(conn *Conn, op string) error {
	if conn == nil || conn.closed.Load() {
		return g.fail(apperrors.Connection(op, apperrors.ErrNilConnection), zap.String("path", conn.Path()))
	}
	return nil
}

func (g *Gateway) fail(err *apperrors.Error, fields ...zap.Field) error {
	fields = append(fields, zap.String("op", err.Op), zap.String("kind", string(err.Kind)), zap.Error(err.Err))
	g.log.Error(err.Message, fields...)
	return err
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []Row
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		row := Row{Columns: columns, Values: make([]string, len(columns))}
		for i, v := range values {
			row.Values[i] = formatValue(v)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		s := strconv.FormatFloat(val, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	default:
		return fmt.Sprint(val)
	}
}

// compact collapses whitespace so multi-line statements log on one line
func compact(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
