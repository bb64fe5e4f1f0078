package models

// ReconciliationResult ist das Ergebnis eines Abgleichs beider Quellen für
// eine (Autor, minYear)-Abfrage.
//
// CountCommon folgt der Zeilen-Entfernungs-Konvention: Anzahl der Records,
// die wegen eines mehrfach vorkommenden MatchKeys aus der kombinierten
// Tabelle entfernt wurden. Bei 3+ Vorkommen desselben Schlüssels ist das
// mehr als die Anzahl der Paare.
type ReconciliationResult struct {
	OnlyInWOS      []WorkRecord `json:"only_in_wos"`
	OnlyInOpenAlex []WorkRecord `json:"only_in_openalex"`
	CommonKeys     []MatchKey   `json:"common_keys"`

	CountWOS      int `json:"count_wos"`
	CountOpenAlex int `json:"count_openalex"`
	CountUnique   int `json:"count_unique"`
	CountCommon   int `json:"count_common"`
}

// SummaryRow ist die einzeilige Übersichtstabelle des Dashboards. Sie wird
// auch bei komplett leeren Quellen mit Nullen gerendert.
type SummaryRow struct {
	RecordsInWOS      int `json:"records_in_wos"`
	RecordsInOpenAlex int `json:"records_in_openalex"`
	UniqueRecords     int `json:"unique_records"`
	CommonRecords     int `json:"common_records"`
}

// Summary projiziert das Ergebnis in die Übersichtszeile.
func (r ReconciliationResult) Summary() SummaryRow {
	return SummaryRow{
		RecordsInWOS:      r.CountWOS,
		RecordsInOpenAlex: r.CountOpenAlex,
		UniqueRecords:     r.CountUnique,
		CommonRecords:     r.CountCommon,
	}
}
