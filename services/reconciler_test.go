package services

import (
	"reflect"
	"testing"

	"pub-scope/models"
)

func wosRecord(title, venue string, year int) models.WorkRecord {
	return models.WorkRecord{
		WorkID:      "000" + title,
		Title:       title,
		Source:      venue,
		PublishYear: year,
		Origin:      models.OriginWOS,
	}
}

func alexRecord(title, venue string, year int) models.WorkRecord {
	return models.WorkRecord{
		WorkID:      "https://openalex.org/W" + title,
		Title:       title,
		Source:      venue,
		PublishYear: year,
		Origin:      models.OriginOpenAlex,
	}
}

func TestReconcileBothAbsent(t *testing.T) {
	result := Reconcile(models.AbsentTable(), models.AbsentTable())

	if result.CountWOS != 0 || result.CountOpenAlex != 0 || result.CountUnique != 0 || result.CountCommon != 0 {
		t.Errorf("expected all zero counts, got %+v", result)
	}
	if len(result.OnlyInWOS) != 0 || len(result.OnlyInOpenAlex) != 0 || len(result.CommonKeys) != 0 {
		t.Errorf("expected empty sets, got %+v", result)
	}
}

func TestReconcileBothEmpty(t *testing.T) {
	result := Reconcile(models.NewTable(nil), models.NewTable([]models.WorkRecord{}))

	if result.CountCommon != 0 || result.CountUnique != 0 {
		t.Errorf("expected zero counts for empty tables, got %+v", result)
	}
}

func TestReconcileOnlyWOSPresent(t *testing.T) {
	a := models.NewTable([]models.WorkRecord{
		wosRecord("Paper One", "V1", 2020),
		wosRecord("Paper Two", "V2", 2021),
		wosRecord("Paper Two", "V2 reprint", 2021), // doppelter Key innerhalb einer Quelle
	})

	result := Reconcile(a, models.AbsentTable())

	if result.CountWOS != 3 {
		t.Errorf("CountWOS = %d, want 3", result.CountWOS)
	}
	if len(result.OnlyInWOS) != 1 || result.OnlyInWOS[0].Title != "Paper One" {
		t.Errorf("OnlyInWOS = %+v, want only Paper One", result.OnlyInWOS)
	}
	if len(result.OnlyInOpenAlex) != 0 {
		t.Errorf("OnlyInOpenAlex = %+v, want empty", result.OnlyInOpenAlex)
	}
	// size(A) - size(uniqueKeys überlebend) = 3 - 1
	if result.CountCommon != 2 {
		t.Errorf("CountCommon = %d, want 2", result.CountCommon)
	}
	if len(result.CommonKeys) != 0 {
		t.Errorf("CommonKeys = %+v, want empty (nichts in beiden Quellen)", result.CommonKeys)
	}
}

func TestReconcileCaseInsensitiveTitleMatch(t *testing.T) {
	a := models.NewTable([]models.WorkRecord{wosRecord("Deep Learning Survey", "Venue X", 2019)})
	b := models.NewTable([]models.WorkRecord{alexRecord("deep learning survey", "Venue Y", 2019)})

	result := Reconcile(a, b)

	if len(result.OnlyInWOS) != 0 || len(result.OnlyInOpenAlex) != 0 {
		t.Errorf("expected both records removed from only-sets, got %+v", result)
	}
	if result.CountCommon != 2 {
		t.Errorf("CountCommon = %d, want 2 (zwei entfernte Zeilen)", result.CountCommon)
	}
	if result.CountWOS != 1 || result.CountOpenAlex != 1 {
		t.Errorf("counts = %d/%d, want 1/1", result.CountWOS, result.CountOpenAlex)
	}
	if len(result.CommonKeys) != 1 || result.CommonKeys[0].Title != "deep learning survey" {
		t.Errorf("CommonKeys = %+v", result.CommonKeys)
	}
}

func TestReconcileNoOverlap(t *testing.T) {
	a := models.NewTable([]models.WorkRecord{wosRecord("Paper One", "V1", 2020)})
	b := models.NewTable([]models.WorkRecord{alexRecord("Paper Two", "V2", 2020)})

	result := Reconcile(a, b)

	if len(result.OnlyInWOS) != 1 || result.OnlyInWOS[0].Title != "Paper One" {
		t.Errorf("OnlyInWOS = %+v", result.OnlyInWOS)
	}
	if len(result.OnlyInOpenAlex) != 1 || result.OnlyInOpenAlex[0].Title != "Paper Two" {
		t.Errorf("OnlyInOpenAlex = %+v", result.OnlyInOpenAlex)
	}
	if result.CountCommon != 0 {
		t.Errorf("CountCommon = %d, want 0", result.CountCommon)
	}
}

func TestReconcileVenueNotPartOfKey(t *testing.T) {
	a := models.NewTable([]models.WorkRecord{wosRecord("Same Title", "Journal A", 2018)})
	b := models.NewTable([]models.WorkRecord{alexRecord("Same Title", "Journal B", 2018)})

	result := Reconcile(a, b)

	if result.CountCommon != 2 {
		t.Errorf("records with same title/year but different venue must match, got CountCommon=%d", result.CountCommon)
	}
}

func TestReconcileSwapSymmetry(t *testing.T) {
	// Key "shared/2020" kommt dreimal vor (2x WOS, 1x OpenAlex):
	// CountCommon zählt alle drei entfernten Zeilen, nicht die Paare.
	a := models.NewTable([]models.WorkRecord{
		wosRecord("Shared", "V1", 2020),
		wosRecord("Shared", "V1b", 2020),
		wosRecord("WOS only", "V2", 2021),
	})
	b := models.NewTable([]models.WorkRecord{
		alexRecord("Shared", "V3", 2020),
		alexRecord("Alex only", "V4", 2022),
	})

	forward := Reconcile(a, b)
	swapped := Reconcile(b, a)

	if forward.CountCommon != 3 {
		t.Errorf("CountCommon = %d, want 3 (drei entfernte Zeilen für einen Key)", forward.CountCommon)
	}
	if forward.CountCommon != swapped.CountCommon {
		t.Errorf("CountCommon not swap-invariant: %d vs %d", forward.CountCommon, swapped.CountCommon)
	}
	if !reflect.DeepEqual(forward.OnlyInWOS, swapped.OnlyInOpenAlex) || !reflect.DeepEqual(forward.OnlyInOpenAlex, swapped.OnlyInWOS) {
		t.Errorf("only-sets must swap with inputs: %+v vs %+v", forward, swapped)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	aRows := []models.WorkRecord{
		wosRecord("Shared", "V1", 2020),
		wosRecord("WOS only", "V2", 2021),
	}
	bRows := []models.WorkRecord{
		alexRecord("Shared", "V3", 2020),
	}
	a := models.NewTable(aRows)
	b := models.NewTable(bRows)

	first := Reconcile(a, b)
	second := Reconcile(a, b)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ between runs: %+v vs %+v", first, second)
	}
	if aRows[0].Title != "Shared" || len(a.Rows) != 2 || len(b.Rows) != 1 {
		t.Error("inputs were mutated")
	}
}

func TestFilterMinYearMonotonic(t *testing.T) {
	table := models.NewTable([]models.WorkRecord{
		wosRecord("Old", "V", 1999),
		wosRecord("Mid", "V", 2010),
		wosRecord("New", "V", 2023),
	})

	prev := table.Len()
	for year := 1990; year <= 2030; year += 5 {
		got := table.FilterMinYear(year).Len()
		if got > prev {
			t.Fatalf("raising minYear to %d increased count: %d > %d", year, got, prev)
		}
		prev = got
	}

	if absent := models.AbsentTable().FilterMinYear(2000); !absent.Absent {
		t.Error("filtering an absent table must keep it absent")
	}
}
