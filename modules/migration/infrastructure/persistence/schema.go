package persistence

import "github.com/iota-uz/legacy-migrate/modules/migration/domain/store"

// gen_random_uuid() is built in from Postgres 13 on, no pgcrypto needed.
var tableDDL = map[string]string{
	store.TableClients: `CREATE TABLE IF NOT EXISTS clients (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	name text NOT NULL UNIQUE,
	email text,
	phone text,
	website text,
	address text,
	notes text,
	hours_purchased numeric(12, 2),
	hours_used numeric(12, 2),
	legacy_id text,
	created_at timestamptz NOT NULL DEFAULT now()
)`,
	store.TableUsers: `CREATE TABLE IF NOT EXISTS users (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	email text NOT NULL UNIQUE,
	first_name text,
	last_name text,
	phone text,
	role text,
	company uuid REFERENCES clients (id) ON DELETE SET NULL,
	legacy_id text,
	created_at timestamptz NOT NULL DEFAULT now()
)`,
	store.TableProjects: `CREATE TABLE IF NOT EXISTS projects (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	name text NOT NULL,
	description text,
	status text NOT NULL DEFAULT 'new',
	client_id uuid REFERENCES clients (id) ON DELETE SET NULL,
	start_date date,
	due_date date,
	legacy_id text,
	created_at timestamptz NOT NULL DEFAULT now()
)`,
	store.TableTasks: `CREATE TABLE IF NOT EXISTS tasks (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	title text NOT NULL,
	description text,
	status text NOT NULL DEFAULT 'new',
	priority text NOT NULL DEFAULT 'medium',
	project_id uuid REFERENCES projects (id) ON DELETE SET NULL,
	client_id uuid REFERENCES clients (id) ON DELETE SET NULL,
	assignee_id uuid REFERENCES users (id) ON DELETE SET NULL,
	due_date date,
	created_at timestamptz NOT NULL DEFAULT now()
)`,
	store.TableMeetings: `CREATE TABLE IF NOT EXISTS meetings (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	title text NOT NULL,
	description text,
	start_time timestamptz NOT NULL,
	end_time timestamptz NOT NULL,
	location text,
	attendees text,
	client_id uuid REFERENCES clients (id) ON DELETE SET NULL,
	created_at timestamptz NOT NULL DEFAULT now()
)`,
	store.TableDocuments: `CREATE TABLE IF NOT EXISTS documents (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	name text NOT NULL,
	description text,
	file_url text NOT NULL,
	file_type text,
	file_size bigint NOT NULL DEFAULT 0,
	client_id uuid REFERENCES clients (id) ON DELETE SET NULL,
	created_at timestamptz NOT NULL DEFAULT now()
)`,
	store.TableTimePackages: `CREATE TABLE IF NOT EXISTS time_packages (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	client_id uuid NOT NULL REFERENCES clients (id) ON DELETE CASCADE,
	hours_purchased numeric(12, 2) NOT NULL DEFAULT 0,
	hours_used numeric(12, 2) NOT NULL DEFAULT 0,
	purchase_date date,
	amount numeric(12, 2),
	notes text,
	created_at timestamptz NOT NULL DEFAULT now()
)`,
	store.TableScheduleLinks: `CREATE TABLE IF NOT EXISTS schedule_links (
	id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	name text,
	url text,
	formatted_url text,
	created_at timestamptz NOT NULL DEFAULT now()
)`,
}

// TableDDL returns the CREATE statement for a destination table.
func TableDDL(table string) (string, bool) {
	ddl, ok := tableDDL[table]
	return ddl, ok
}
