package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iota-uz/legacy-migrate/modules/migration/infrastructure/source"
)

// Typed views of the legacy export rows. Each decode function pulls only the
// columns its migrator writes; the validate tags mark the identifying field
// without which a row is skipped.

type accountRow struct {
	Company        string `validate:"required"`
	RecordID       string
	Email          string
	Phone          string
	Website        string
	Address        string
	Notes          string
	PurchasedHours decimal.NullDecimal
	UsedHours      decimal.NullDecimal
	rawPurchased   string
}

func decodeAccount(r source.Row) accountRow {
	purchased := r.Get("Purchased Hours")
	return accountRow{
		Company:        r.Get("Company"),
		RecordID:       r.Get("Record ID"),
		Email:          r.Get("Email"),
		Phone:          r.Get("Phone"),
		Website:        r.Get("Website"),
		Address:        r.Get("Address"),
		Notes:          r.Get("Notes"),
		PurchasedHours: firstDecimal(purchased),
		UsedHours:      firstDecimal(r.Get("Used Hours")),
		rawPurchased:   purchased,
	}
}

type userRow struct {
	Email     string `validate:"required"`
	FirstName string
	LastName  string
	Account   string
	Phone     string
	Role      string
	RecordID  string
}

func decodeUser(r source.Row) userRow {
	first, last := splitName(r.Get("Full Name"))
	return userRow{
		Email:     strings.ToLower(r.Get("Email")),
		FirstName: first,
		LastName:  last,
		Account:   r.Get("Account"),
		Phone:     r.Get("Phone"),
		Role:      r.Get("Role"),
		RecordID:  r.Get("Record ID"),
	}
}

type projectRow struct {
	Name        string `validate:"required"`
	Account     string
	Status      string
	Description string
	StartDate   *time.Time
	DueDate     *time.Time
	RecordID    string
}

func decodeProject(r source.Row) projectRow {
	return projectRow{
		Name:        r.Get("Project Name", "Name"),
		Account:     r.Get("Account"),
		Status:      r.Get("Status"),
		Description: r.Get("Description"),
		StartDate:   optionalTime(r.Get("Start Date")),
		DueDate:     optionalTime(r.Get("Due Date")),
		RecordID:    r.Get("Record ID"),
	}
}

type taskRow struct {
	Title       string `validate:"required"`
	Description string
	Project     string
	Account     string
	Assignee    string
	Status      string
	Priority    string
	DueDate     *time.Time
}

// taskTitleLabel is the header the task export uses for its title column.
const taskTitleLabel = "1"

func decodeTask(r source.Row) taskRow {
	description := r.Get("Description")

	var title string
	switch {
	case r.HasColumn(taskTitleLabel):
		title = r.Exact(taskTitleLabel)
	case r.HasColumn("Title"):
		title = r.Exact("Title")
	default:
		title = r.At(1)
	}
	if title == "" {
		title = description
	}

	return taskRow{
		Title:       title,
		Description: description,
		Project:     r.Get("Project"),
		Account:     r.Get("Account"),
		Assignee:    r.Get("Assignee"),
		Status:      r.Get("Status"),
		Priority:    r.Get("Priority"),
		DueDate:     optionalTime(r.Get("Due Date")),
	}
}

type meetingRow struct {
	Title     string
	Start     *time.Time `validate:"required"`
	Minutes   int
	Account   string
	Attendees []string
	Location  string
	Notes     string
}

func (m meetingRow) End() time.Time {
	return m.Start.Add(time.Duration(m.Minutes) * time.Minute)
}

func decodeMeeting(r source.Row) meetingRow {
	title := r.Get("Title", "Meeting")
	if title == "" {
		title = meetingTitle
	}
	return meetingRow{
		Title:     title,
		Start:     optionalTime(r.Get("Date")),
		Minutes:   meetingMinutes(r.Get("Duration")),
		Account:   r.Get("Account"),
		Attendees: splitList(r.Get("Attendees")),
		Location:  r.Get("Location"),
		Notes:     r.Get("Notes"),
	}
}

type documentRow struct {
	Link string `validate:"required"`
}

func decodeDocument(r source.Row) documentRow {
	return documentRow{Link: r.Get("Link", "URL", "File")}
}

type purchaseRow struct {
	Account      string `validate:"required"`
	Hours        decimal.NullDecimal
	HoursUsed    decimal.NullDecimal
	PurchaseDate *time.Time
	Amount       decimal.NullDecimal
	Notes        string
}

func decodePurchase(r source.Row) purchaseRow {
	return purchaseRow{
		Account:      r.Get("Account"),
		Hours:        firstDecimal(r.Get("Hours")),
		HoursUsed:    firstDecimal(r.Get("Hours Used")),
		PurchaseDate: optionalTime(r.Get("Purchase Date")),
		Amount:       firstDecimal(r.Get("Amount")),
		Notes:        r.Get("Notes"),
	}
}

type scheduleLinkRow struct {
	Name         string `validate:"required_without_all=URL FormattedURL"`
	URL          string
	FormattedURL string
}

func decodeScheduleLink(r source.Row) scheduleLinkRow {
	return scheduleLinkRow{
		Name:         r.Get("Name"),
		URL:          r.Get("URL"),
		FormattedURL: r.Get("Formatted URL"),
	}
}
