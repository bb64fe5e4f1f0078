package services

import (
	"sort"

	"pub-scope/models"
)

// Reconcile gleicht die normalisierten Tabellen beider Quellen über den
// MatchKey (Titel kleingeschrieben + Erscheinungsjahr) ab. Abwesende oder
// leere Eingaben sind gültig; alle vier Kombinationen liefern ein
// wohlgeformtes Ergebnis. Die Eingaben werden nicht verändert.
//
// Es überlebt genau, was in der kombinierten Tabelle einen eindeutigen
// Schlüssel hat. Entfernt wird damit auch ein Schlüssel, der nur innerhalb
// EINER Quelle doppelt vorkommt; CountCommon zählt alle entfernten Zeilen,
// nicht die Paare.
func Reconcile(a, b models.SourceTable) models.ReconciliationResult {
	keyCount := make(map[models.MatchKey]int)
	inWOS := make(map[models.MatchKey]bool)
	inAlex := make(map[models.MatchKey]bool)

	for _, rec := range a.Rows {
		key := rec.Key()
		keyCount[key]++
		inWOS[key] = true
	}
	for _, rec := range b.Rows {
		key := rec.Key()
		keyCount[key]++
		inAlex[key] = true
	}

	onlyInWOS := make([]models.WorkRecord, 0)
	for _, rec := range a.Rows {
		if keyCount[rec.Key()] == 1 {
			onlyInWOS = append(onlyInWOS, rec)
		}
	}
	onlyInOpenAlex := make([]models.WorkRecord, 0)
	for _, rec := range b.Rows {
		if keyCount[rec.Key()] == 1 {
			onlyInOpenAlex = append(onlyInOpenAlex, rec)
		}
	}

	commonKeys := make([]models.MatchKey, 0)
	for key := range keyCount {
		if inWOS[key] && inAlex[key] {
			commonKeys = append(commonKeys, key)
		}
	}
	sort.Slice(commonKeys, func(i, j int) bool {
		if commonKeys[i].Title != commonKeys[j].Title {
			return commonKeys[i].Title < commonKeys[j].Title
		}
		return commonKeys[i].Year < commonKeys[j].Year
	})

	combined := a.Len() + b.Len()
	countUnique := len(onlyInWOS) + len(onlyInOpenAlex)

	return models.ReconciliationResult{
		OnlyInWOS:      onlyInWOS,
		OnlyInOpenAlex: onlyInOpenAlex,
		CommonKeys:     commonKeys,
		CountWOS:       a.Len(),
		CountOpenAlex:  b.Len(),
		CountUnique:    countUnique,
		CountCommon:    combined - countUnique,
	}
}
