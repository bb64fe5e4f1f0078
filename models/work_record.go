package models

import "strings"

// Origin kennzeichnet die Herkunftsquelle eines normalisierten Records.
type Origin string

const (
	OriginWOS      Origin = "WOS"
	OriginOpenAlex Origin = "OpenAlex"
)

// WorkRecord ist eine normalisierte Publikation, unabhängig von der Quelle.
// DOI/ISSN/EISSN sind nur bei WOS-Records gesetzt; fehlende Identifier
// bleiben nil und sind kein Fehler.
type WorkRecord struct {
	WorkID      string  `json:"work_id"`
	Title       string  `json:"title"`
	Source      string  `json:"source"`
	PublishYear int     `json:"publish_year"`
	Origin      Origin  `json:"origin"`
	DOI         *string `json:"doi,omitempty"`
	ISSN        *string `json:"issn,omitempty"`
	EISSN       *string `json:"eissn,omitempty"`
}

// MatchKey ist der heuristische Dedup-Schlüssel: Titel in Kleinschreibung
// plus Erscheinungsjahr. Venue/Source ist bewusst NICHT Teil des Schlüssels.
type MatchKey struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
}

// Key leitet den MatchKey eines Records ab. Es findet nur Case-Folding
// statt, keine weitere Normalisierung von Satzzeichen oder Whitespace.
func (w WorkRecord) Key() MatchKey {
	return MatchKey{Title: strings.ToLower(w.Title), Year: w.PublishYear}
}

// SourceTable ist das getaggte Ergebnis eines Quell-Abrufs: entweder
// "abwesend" (Quelle nicht auflösbar oder Abruf fehlgeschlagen) oder eine
// echte Tabelle von Records. Ersetzt den 0-Sentinel der Altimplementierung.
type SourceTable struct {
	Absent bool         `json:"absent"`
	Rows   []WorkRecord `json:"rows"`
}

// AbsentTable gibt eine abwesende Quelle zurück.
func AbsentTable() SourceTable {
	return SourceTable{Absent: true}
}

// NewTable verpackt Records in eine vorhandene Tabelle.
func NewTable(rows []WorkRecord) SourceTable {
	return SourceTable{Rows: rows}
}

// Len gibt die Zeilenzahl zurück, 0 bei abwesender Quelle.
func (t SourceTable) Len() int {
	if t.Absent {
		return 0
	}
	return len(t.Rows)
}

// FilterMinYear gibt eine neue Tabelle mit allen Records ab minYear zurück.
// Eine abwesende Tabelle bleibt abwesend.
func (t SourceTable) FilterMinYear(minYear int) SourceTable {
	if t.Absent {
		return t
	}
	filtered := make([]WorkRecord, 0, len(t.Rows))
	for _, r := range t.Rows {
		if r.PublishYear >= minYear {
			filtered = append(filtered, r)
		}
	}
	return SourceTable{Rows: filtered}
}
