package main

import (
	"errors"

	"github.com/iota-uz/legacy-migrate/modules/migration/services"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitValidation = 2
	exitUsage      = 3
	exitDB         = 4
	exitDBWrite    = 5
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}

// runFailure maps a fatal orchestrator error to its exit code.
func runFailure(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrSourceUnreadable):
		return withCode(exitValidation, err)
	default:
		return withCode(exitDBWrite, err)
	}
}
