package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRecord_Columns_Sorted(t *testing.T) {
	r := Record{"status": "new", "name": "x", "client_id": nil}
	require.Equal(t, []string{"client_id", "name", "status"}, r.Columns())
	require.Empty(t, Record{}.Columns())
}

func TestRecord_UUID(t *testing.T) {
	id := uuid.New()

	cases := []struct {
		name string
		v    any
		want uuid.UUID
		ok   bool
	}{
		{"value", id, id, true},
		{"pointer", &id, id, true},
		{"nil pointer", (*uuid.UUID)(nil), uuid.Nil, false},
		{"raw bytes", [16]byte(id), id, true},
		{"string", id.String(), id, true},
		{"garbage", "not-a-uuid", uuid.Nil, false},
		{"null", nil, uuid.Nil, false},
		{"zero", uuid.Nil, uuid.Nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Record{"company": tc.v}.UUID("company")
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				require.Equal(t, tc.want, got)
			}
		})
	}
}

func TestEntities_DependencyOrderAndNames(t *testing.T) {
	require.Equal(t, []Entity{
		EntityAccounts, EntityUsers, EntityProjects, EntityTasks,
		EntityMeetings, EntityDocuments, EntityTimePackages, EntityScheduleLinks,
	}, Entities)

	require.Equal(t, TableClients, EntityAccounts.Table())
	require.Equal(t, "contacts.csv", EntityUsers.SourceFile())
	require.Equal(t, "time_purchases.csv", EntityTimePackages.SourceFile())
	require.Equal(t, "scheduling_links.csv", EntityScheduleLinks.SourceFile())

	for _, e := range Entities {
		require.NotEmpty(t, e.Table(), e)
		require.NotEmpty(t, e.SourceFile(), e)
	}
}
