package vspheredb

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"

	"github.com/consol-monitoring/check_vspheredb/pkg/dump"
	"github.com/go-sql-driver/mysql"
)

// Query is a statement along with its bound parameters.
type Query struct {
	Text string
	Args []interface{}
}

// QuerySource executes a query against the vSphereDB database.
type QuerySource interface {
	// Fetch runs the query and returns all rows fully read into memory.
	Fetch(ctx context.Context, query *Query) ([]*Row, error)
	Close() error
}

// SourceOpener establishes the connection for one invocation.
type SourceOpener func(ctx context.Context, opts *DatabaseOptions) (QuerySource, error)

// SQLSource implements QuerySource on top of database/sql.
type SQLSource struct {
	db *sql.DB
}

func init() {
	LogError(mysql.SetLogger(NewStandardLog("debug")))
}

// MySQLConfig returns the driver config for given options.
func MySQLConfig(opts *DatabaseOptions) *mysql.Config {
	cfg := mysql.NewConfig()
	cfg.User = opts.User
	cfg.Passwd = opts.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))
	cfg.DBName = opts.Database
	cfg.Timeout = opts.Timeout
	cfg.ReadTimeout = opts.Timeout
	cfg.WriteTimeout = opts.Timeout

	return cfg
}

// OpenMySQL connects to the vSphereDB MySQL/MariaDB database.
func OpenMySQL(ctx context.Context, opts *DatabaseOptions) (QuerySource, error) {
	cfg := MySQLConfig(opts)
	log.Debugf("connecting to mysql://%s@%s/%s", cfg.User, cfg.Addr, cfg.DBName)

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, wrapCause(ErrConnection, err)
	}

	return OpenSQLSource(ctx, db)
}

// OpenSQLSource verifies the connection of db and takes ownership of it.
func OpenSQLSource(ctx context.Context, db *sql.DB) (*SQLSource, error) {
	// one query per invocation, never more than one connection
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		LogError(db.Close())

		return nil, wrapCause(ErrConnection, err)
	}

	return &SQLSource{db: db}, nil
}

// Fetch implements QuerySource.
func (s *SQLSource) Fetch(ctx context.Context, query *Query) ([]*Row, error) {
	log.Debugf("query: %s", query.Text)
	log.Debugf("args: %v", query.Args)

	rows, err := s.db.QueryContext(ctx, query.Text, query.Args...)
	if err != nil {
		return nil, wrapCause(ErrQuery, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, wrapCause(ErrQuery, err)
	}

	result := make([]*Row, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, wrapCause(ErrQuery, err)
		}
		result = append(result, &Row{Columns: columns, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, wrapCause(ErrQuery, err)
	}

	log.Debugf("query returned %d rows", len(result))
	if log.IsV(LogVerbosityTrace) {
		log.Tracef("rows:\n%s", dump.Sdump(result))
	}

	return result, nil
}

// Close releases the connection.
func (s *SQLSource) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close: %s", err.Error())
	}

	return nil
}
