package models

import "time"

// Employee repräsentiert eine Zeile des Personal-Rosters (aktive Positionen).
type Employee struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	EmployeeID    int    `json:"emp_id" gorm:"column:emp_id;uniqueIndex;not null"`
	PreferredName string `json:"preferred_name" gorm:"index;not null"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Position      string `json:"position" gorm:"index"`
	Department    string `json:"department"`
	College       string `json:"college"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Employee) TableName() string {
	return "employees"
}

// AuthorIdentifier verknüpft eine Mitarbeiter-ID mit den Autoren-IDs der
// externen Quellen. WOSIDs ist eine kommagetrennte Liste, da ein Autor
// mehrere WOS-ResearcherIDs haben kann. Leere Spalten bedeuten: keine
// Präsenz in der jeweiligen Quelle.
type AuthorIdentifier struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	EmployeeID int    `json:"emp_id" gorm:"column:emp_id;uniqueIndex;not null"`
	WOSIDs     string `json:"wos_ids" gorm:"column:wos_ids"`
	OpenAlexID string `json:"alex_id" gorm:"column:alex_id"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (AuthorIdentifier) TableName() string {
	return "author_identifiers"
}

// AuthorIdentity ist die aufgelöste Identität eines Forschenden für einen
// Dashboard-Request. OpenAlexID ist nil, wenn der Autor dort nicht geführt
// wird.
type AuthorIdentity struct {
	DisplayName string   `json:"display_name"`
	EmployeeID  int      `json:"emp_id"`
	WOSIDs      []string `json:"wos_ids"`
	OpenAlexID  *string  `json:"alex_id,omitempty"`
}
