package store

type Entity string

const (
	EntityAccounts      Entity = "accounts"
	EntityUsers         Entity = "users"
	EntityProjects      Entity = "projects"
	EntityTasks         Entity = "tasks"
	EntityMeetings      Entity = "meetings"
	EntityDocuments     Entity = "documents"
	EntityTimePackages  Entity = "time_packages"
	EntityScheduleLinks Entity = "schedule_links"
)

// Destination tables.
const (
	TableClients       = "clients"
	TableUsers         = "users"
	TableProjects      = "projects"
	TableTasks         = "tasks"
	TableMeetings      = "meetings"
	TableDocuments     = "documents"
	TableTimePackages  = "time_packages"
	TableScheduleLinks = "schedule_links"
)

// Entities lists every entity in dependency order: an entity only references
// entities that appear before it.
var Entities = []Entity{
	EntityAccounts,
	EntityUsers,
	EntityProjects,
	EntityTasks,
	EntityMeetings,
	EntityDocuments,
	EntityTimePackages,
	EntityScheduleLinks,
}

var tables = map[Entity]string{
	EntityAccounts:      TableClients,
	EntityUsers:         TableUsers,
	EntityProjects:      TableProjects,
	EntityTasks:         TableTasks,
	EntityMeetings:      TableMeetings,
	EntityDocuments:     TableDocuments,
	EntityTimePackages:  TableTimePackages,
	EntityScheduleLinks: TableScheduleLinks,
}

// Legacy export file names, one per entity.
var sourceFiles = map[Entity]string{
	EntityAccounts:      "accounts.csv",
	EntityUsers:         "contacts.csv",
	EntityProjects:      "projects.csv",
	EntityTasks:         "tasks.csv",
	EntityMeetings:      "meetings.csv",
	EntityDocuments:     "documents.csv",
	EntityTimePackages:  "time_purchases.csv",
	EntityScheduleLinks: "scheduling_links.csv",
}

func (e Entity) Table() string {
	return tables[e]
}

func (e Entity) SourceFile() string {
	return sourceFiles[e]
}
