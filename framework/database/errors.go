package database

import "errors"

var (
	// ErrUnknownConnection is returned for a connection name that was never opened.
	ErrUnknownConnection = errors.New("database: unknown connection")

	// ErrUnsupportedDriver is returned for a DB_DRIVER other than mysql, postgres or sqlite.
	ErrUnsupportedDriver = errors.New("database: unsupported driver")
)
