// Importiert Roster- und Identifier-CSVs in die Postgres-Datenbank.
// Ersetzt die früheren Pickle-Dateien der Dashboard-Altimplementierung.
//
// Aufruf:
//
//	import -employees employees.csv -identifiers identifiers.csv
//
// employees.csv:   emp_id,preferred_name,first_name,last_name,position,department,college
// identifiers.csv: emp_id,wos_ids,alex_id   (wos_ids kommagetrennt, "none" = abwesend)
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"pub-scope/config"
	"pub-scope/models"
)

func main() {
	employeesPath := flag.String("employees", "", "Pfad zur Roster-CSV")
	identifiersPath := flag.String("identifiers", "", "Pfad zur Identifier-CSV")
	flag.Parse()

	if *employeesPath == "" && *identifiersPath == "" {
		log.Fatal("Mindestens -employees oder -identifiers angeben.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Fehler beim Laden der Konfiguration: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Fehler bei der Datenbank-Verbindung: %v", err)
	}
	db.AutoMigrate(&models.Employee{}, &models.AuthorIdentifier{})

	if *employeesPath != "" {
		count, err := importEmployees(db, *employeesPath)
		if err != nil {
			log.Fatalf("Fehler beim Roster-Import: %v", err)
		}
		log.Printf("%d Roster-Zeilen importiert.", count)
	}

	if *identifiersPath != "" {
		count, err := importIdentifiers(db, *identifiersPath)
		if err != nil {
			log.Fatalf("Fehler beim Identifier-Import: %v", err)
		}
		log.Printf("%d Identifier-Zeilen importiert.", count)
	}
}

func importEmployees(db *gorm.DB, path string) (int, error) {
	rows, err := readCSV(path, 7)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range rows {
		empID, err := strconv.Atoi(row[0])
		if err != nil {
			return count, fmt.Errorf("ungültige emp_id %q: %w", row[0], err)
		}
		emp := models.Employee{
			EmployeeID:    empID,
			PreferredName: row[1],
			FirstName:     row[2],
			LastName:      row[3],
			Position:      row[4],
			Department:    row[5],
			College:       row[6],
		}
		err = db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "emp_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"preferred_name", "first_name", "last_name", "position", "department", "college", "updated_at",
			}),
		}).Create(&emp).Error
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func importIdentifiers(db *gorm.DB, path string) (int, error) {
	rows, err := readCSV(path, 3)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range rows {
		empID, err := strconv.Atoi(row[0])
		if err != nil {
			return count, fmt.Errorf("ungültige emp_id %q: %w", row[0], err)
		}
		ident := models.AuthorIdentifier{
			EmployeeID: empID,
			WOSIDs:     row[1],
			OpenAlexID: row[2],
		}
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "emp_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"wos_ids", "alex_id", "updated_at"}),
		}).Create(&ident).Error
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// readCSV liest eine CSV mit Kopfzeile und prüft die Spaltenzahl.
func readCSV(path string, wantFields int) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = wantFields

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("leere CSV: %s", path)
	}
	return records[1:], nil // Kopfzeile überspringen
}
