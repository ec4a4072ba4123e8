package persistence

import (
	"regexp"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
)

var (
	ErrInvalidIdentifier = gerrors.New("invalid identifier")

	identPartRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// parseIdentifier parses "schema.table" or "table" into pgx.Identifier.
func parseIdentifier(s string) (pgx.Identifier, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, gerrors.Wrap(ErrInvalidIdentifier, "identifier is empty")
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return nil, gerrors.Wrapf(ErrInvalidIdentifier, "%q (expected name or schema.name)", s)
	}

	ident := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if !identPartRe.MatchString(p) {
			return nil, gerrors.Wrapf(ErrInvalidIdentifier, "%q (bad part %q)", s, p)
		}
		ident = append(ident, p)
	}
	return ident, nil
}

func quoteIdent(s string) (string, error) {
	ident, err := parseIdentifier(s)
	if err != nil {
		return "", err
	}
	return ident.Sanitize(), nil
}

func quoteColumns(cols []string) ([]string, error) {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if !identPartRe.MatchString(c) {
			return nil, gerrors.Wrapf(ErrInvalidIdentifier, "column %q", c)
		}
		out = append(out, pgx.Identifier{c}.Sanitize())
	}
	return out, nil
}
