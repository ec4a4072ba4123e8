package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/iota-uz/legacy-migrate/modules/migration/services"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"plain", errors.New("boom"), 1},
		{"coded", withCode(exitUsage, errors.New("bad flag")), exitUsage},
		{"wrapped", fmt.Errorf("outer: %w", withCode(exitDB, errors.New("refused"))), exitDB},
		{"unreadable source", runFailure(fmt.Errorf("%w: accounts", services.ErrSourceUnreadable)), exitValidation},
		{"migrator panic", runFailure(fmt.Errorf("%w: tasks", services.ErrMigratorPanic)), exitDBWrite},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Fatalf("%s: exit code = %d, want %d", tc.name, got, tc.want)
		}
	}

	if withCode(exitUsage, nil) != nil {
		t.Fatal("withCode(nil) must stay nil")
	}
	if runFailure(nil) != nil {
		t.Fatal("runFailure(nil) must stay nil")
	}
}
