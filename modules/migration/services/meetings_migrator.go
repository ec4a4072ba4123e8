package services

import (
	"context"
	"strings"

	"github.com/iota-uz/legacy-migrate/modules/migration/domain/registry"
	"github.com/iota-uz/legacy-migrate/modules/migration/domain/store"
	"github.com/iota-uz/legacy-migrate/modules/migration/infrastructure/source"
)

// meetingTitle stands in for a blank Title; the column is NOT NULL.
const meetingTitle = "Imported meeting"

type MeetingsMigrator struct{}

func (MeetingsMigrator) Entity() store.Entity { return store.EntityMeetings }

func (m MeetingsMigrator) Migrate(ctx context.Context, env *Env) (EntityReport, error) {
	rep := EntityReport{Entity: m.Entity()}
	err := env.eachRow(ctx, m.Entity(), &rep, func(ctx context.Context, row source.Row) outcome {
		mt := decodeMeeting(row)
		if err := validate.Struct(mt); err != nil {
			return skipped(mt.Title, invalidReason(err))
		}

		_, err := env.Store.Insert(ctx, store.TableMeetings, store.Record{
			"title":       mt.Title,
			"description": nullable(mt.Notes),
			"start_time":  *mt.Start,
			"end_time":    mt.End(),
			"location":    nullable(mt.Location),
			"attendees":   nullable(strings.Join(mt.Attendees, ", ")),
			"client_id":   m.client(ctx, env, mt),
		})
		if err != nil {
			return failed(mt.Title, err)
		}
		return succeeded(mt.Title)
	})
	return rep, err
}

// client resolves the meeting's account from the explicit Account column or,
// when that is blank, from the first attendee whose user row carries a
// company. Emails match case-insensitively since users are stored lowercased.
// Each attendee costs one store lookup.
func (MeetingsMigrator) client(ctx context.Context, env *Env, mt meetingRow) any {
	if mt.Account != "" {
		return env.ref(registry.Accounts, mt.Account)
	}
	for _, attendee := range mt.Attendees {
		email := strings.ToLower(strings.TrimSpace(attendee))
		users, err := env.Store.Read(ctx, store.TableUsers, store.Record{"email": email}, 1)
		if err != nil {
			env.logger().WithError(err).WithField("attendee", email).Debug("attendee lookup failed")
			continue
		}
		if len(users) == 0 {
			continue
		}
		if id, ok := users[0].UUID("company"); ok {
			return id
		}
	}
	return nil
}
