package domain

import "time"

// CampusType distinguishes the central campus from branch campuses.
type CampusType string

const (
	CampusCenter CampusType = "center"
	CampusBranch CampusType = "branch"
)

// Campus is a physical training location.
type Campus struct {
	CampusID      string     `json:"campusID"`
	Name          string     `json:"name"`
	Address       string     `json:"address"`
	ContactPerson string     `json:"contactPerson"`
	ContactPhone  string     `json:"contactPhone"`
	ContactEmail  string     `json:"contactEmail"`
	Type          CampusType `json:"type"`
	ManagerID     string     `json:"managerID"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// TableStatus indicates whether a table can be booked at all.
type TableStatus string

const (
	TableAvailable   TableStatus = "available"
	TableMaintenance TableStatus = "maintenance"
	TableOccupied    TableStatus = "occupied"
)

// Table is a bookable table-tennis table at a campus.
type Table struct {
	TableID   string      `json:"tableID"`
	Number    string      `json:"number"`
	CampusID  string      `json:"campusID"`
	Status    TableStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}
