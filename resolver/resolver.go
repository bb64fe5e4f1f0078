// Package resolver löst Anzeigenamen aus dem Personal-Roster in die
// Autoren-IDs der externen Quellen auf.
package resolver

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pub-scope/models"
)

// rankTerms sind die akademischen Ränge, auf die das Roster beim Laden
// gefiltert wird (case-insensitive Substring-Match auf die Position).
var rankTerms = []string{"Professor", "Assistant Professor", "Associate Professor", "Lecturer"}

// absentSentinel markiert in der Lookup-Tabelle eine fehlende WOS-ID.
const absentSentinel = "none"

// NotFoundError signalisiert, dass ein Anzeigename nicht im gefilterten
// Roster steht oder keine Zeile in der Identifier-Tabelle hat.
type NotFoundError struct {
	DisplayName string
	Reason      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("author %q not found: %s", e.DisplayName, e.Reason)
}

// Resolver hält das rang-gefilterte Roster und die Identifier-Tabelle im
// Speicher. Beide werden einmal beim Start geladen; Reload erlaubt ein
// periodisches Neuladen per Cron.
type Resolver struct {
	db     *gorm.DB
	logger *zap.Logger

	mu          sync.RWMutex
	employees   map[string]models.Employee
	identifiers map[int]models.AuthorIdentifier
}

// New erstellt einen Resolver und lädt beide Tabellen initial.
func New(db *gorm.DB, logger *zap.Logger) (*Resolver, error) {
	r := &Resolver{db: db, logger: logger}
	if err := r.Reload(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload liest Roster und Identifier-Tabelle neu aus der Datenbank und
// wendet den Rang-Filter an.
func (r *Resolver) Reload(ctx context.Context) error {
	var employees []models.Employee
	if err := r.db.WithContext(ctx).Find(&employees).Error; err != nil {
		return fmt.Errorf("load employees: %w", err)
	}

	var identifiers []models.AuthorIdentifier
	if err := r.db.WithContext(ctx).Find(&identifiers).Error; err != nil {
		return fmt.Errorf("load author identifiers: %w", err)
	}

	byName := make(map[string]models.Employee)
	for _, emp := range employees {
		if !matchesRank(emp.Position) {
			continue
		}
		byName[emp.PreferredName] = emp
	}

	byEmpID := make(map[int]models.AuthorIdentifier, len(identifiers))
	for _, row := range identifiers {
		byEmpID[row.EmployeeID] = row
	}

	r.mu.Lock()
	r.employees = byName
	r.identifiers = byEmpID
	r.mu.Unlock()

	r.logger.Info("Roster geladen",
		zap.Int("employees_total", len(employees)),
		zap.Int("employees_ranked", len(byName)),
		zap.Int("identifier_rows", len(byEmpID)))
	return nil
}

// Names gibt die Anzeigenamen des gefilterten Rosters sortiert zurück
// (Dropdown-Optionen der Präsentationsschicht).
func (r *Resolver) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.employees))
	for name := range r.employees {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EmployeeInfo gibt die Roster-Zeile zu einem Anzeigenamen zurück.
func (r *Resolver) EmployeeInfo(displayName string) (models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emp, ok := r.employees[displayName]
	if !ok {
		return models.Employee{}, &NotFoundError{DisplayName: displayName, Reason: "not in active-position roster"}
	}
	return emp, nil
}

// Resolve löst einen Anzeigenamen in die Autoren-Identität auf. Enthält
// die WOS-ID-Liste den Abwesenheits-Sentinel, wird sie komplett geleert
// (die Quelle gilt dann als abwesend, wie in der Lookup-Tabelle gepflegt).
func (r *Resolver) Resolve(displayName string) (models.AuthorIdentity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emp, ok := r.employees[displayName]
	if !ok {
		return models.AuthorIdentity{}, &NotFoundError{DisplayName: displayName, Reason: "not in active-position roster"}
	}

	row, ok := r.identifiers[emp.EmployeeID]
	if !ok {
		return models.AuthorIdentity{}, &NotFoundError{DisplayName: displayName, Reason: "no identifier row"}
	}

	identity := models.AuthorIdentity{
		DisplayName: displayName,
		EmployeeID:  emp.EmployeeID,
		WOSIDs:      parseWOSIDs(row.WOSIDs),
	}
	if alexID := strings.TrimSpace(row.OpenAlexID); alexID != "" && !strings.EqualFold(alexID, absentSentinel) {
		identity.OpenAlexID = &alexID
	}
	return identity, nil
}

// matchesRank prüft, ob eine Position einen der akademischen Ränge enthält.
func matchesRank(position string) bool {
	lower := strings.ToLower(position)
	for _, term := range rankTerms {
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// parseWOSIDs zerlegt die kommagetrennte ID-Liste. Taucht der Sentinel
// auf, ist die gesamte Quelle abwesend und die Liste bleibt leer.
func parseWOSIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.EqualFold(part, absentSentinel) {
			return nil
		}
		ids = append(ids, part)
	}
	return ids
}
