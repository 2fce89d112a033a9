package database

import (
	"context"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// driverConnector adapts a driver without OpenConnector to driver.Connector.
type driverConnector struct {
	driver driver.Driver
	dsn    string
}

func (dc *driverConnector) Connect(_ context.Context) (driver.Conn, error) {
	return dc.driver.Open(dc.dsn)
}

func (dc *driverConnector) Driver() driver.Driver {
	return dc.driver
}

// pragmaConnector runs the connection pragmas on every connection it opens.
// SQLite keeps foreign_keys and busy_timeout per connection, so setting them
// once on the pool would leave later connections without them.
type pragmaConnector struct {
	connector driver.Connector
	pragmas   []string
}

func newPragmaConnector(connector driver.Connector, busyTimeout time.Duration) *pragmaConnector {
	return &pragmaConnector{
		connector: connector,
		pragmas: []string{
			"PRAGMA foreign_keys=ON",
			fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout.Milliseconds()),
		},
	}
}

func (pc *pragmaConnector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := pc.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	for _, pragma := range pc.pragmas {
		if err := execConn(ctx, conn, pragma); err != nil {
			conn.Close()
			return nil, errors.Wrapf(err, "failed to run %q", pragma)
		}
	}
	return conn, nil
}

func (pc *pragmaConnector) Driver() driver.Driver {
	return pc.connector.Driver()
}

func execConn(ctx context.Context, conn driver.Conn, query string) error {
	if execer, ok := conn.(driver.ExecerContext); ok {
		_, err := execer.ExecContext(ctx, query, nil)
		return errors.WithStack(err)
	}
	stmt, err := conn.Prepare(query)
	if err != nil {
		return errors.WithStack(err)
	}
	defer stmt.Close()
	_, err = stmt.Exec(nil)
	return errors.WithStack(err)
}
