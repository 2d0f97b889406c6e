package config

import (
	"errors"
)

var (
	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownGormEngine error if config db.gormEngine is not one of mysql, postgres or sqlite.
	ErrUnknownGormEngine = errors.New("toml config db.gormEngine must be mysql, postgres or sqlite")

	// ErrEmptyDBName error if config db.name is empty.
	ErrEmptyDBName = errors.New("toml config db.name can not be empty")
)
