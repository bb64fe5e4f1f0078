package services

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"pub-scope/config"
	"pub-scope/models"
	"pub-scope/providers"
	"pub-scope/resolver"
)

type stubResolver struct {
	identity models.AuthorIdentity
	err      error
}

func (s *stubResolver) Resolve(string) (models.AuthorIdentity, error) {
	return s.identity, s.err
}

type stubSource struct {
	name    string
	records []models.WorkRecord
	err     error
	calls   int
}

func (s *stubSource) FetchWorks(context.Context, models.AuthorIdentity) ([]models.WorkRecord, error) {
	s.calls++
	return s.records, s.err
}

func (s *stubSource) Name() string { return s.name }

func strPtr(s string) *string { return &s }

func newTestService(res AuthorResolver, wosSource, alexSource providers.Source) *CoverageService {
	return NewCoverageService(&config.Config{}, zap.NewNop(), res, wosSource, alexSource)
}

func fullIdentity() models.AuthorIdentity {
	return models.AuthorIdentity{
		DisplayName: "Jane Doe",
		EmployeeID:  42,
		WOSIDs:      []string{"A-1234-2020"},
		OpenAlexID:  strPtr("A5000000001"),
	}
}

func TestRunFailedSourceBecomesAbsent(t *testing.T) {
	wosSource := &stubSource{name: "wos", err: &providers.RemoteAPIError{Source: "wos", StatusCode: 502, Message: "bad gateway"}}
	alexSource := &stubSource{name: "openalex", records: []models.WorkRecord{
		{WorkID: "W1", Title: "Paper", PublishYear: 2021, Origin: models.OriginOpenAlex},
	}}
	svc := newTestService(&stubResolver{identity: fullIdentity()}, wosSource, alexSource)

	view, err := svc.Run(context.Background(), "Jane Doe", 2000)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if !view.WOS.Absent {
		t.Error("failed WOS fetch must yield an absent table")
	}
	if view.OpenAlex.Absent || view.OpenAlex.Len() != 1 {
		t.Errorf("OpenAlex data must still render, got %+v", view.OpenAlex)
	}
	if len(view.Warnings) != 1 {
		t.Errorf("expected one warning, got %v", view.Warnings)
	}
	if view.Summary.RecordsInOpenAlex != 1 || view.Summary.RecordsInWOS != 0 {
		t.Errorf("summary = %+v", view.Summary)
	}
}

func TestRunUnresolvableAuthorYieldsZeroView(t *testing.T) {
	res := &stubResolver{err: &resolver.NotFoundError{DisplayName: "Nobody", Reason: "not in active-position roster"}}
	svc := newTestService(res, &stubSource{name: "wos"}, &stubSource{name: "openalex"})

	view, err := svc.Run(context.Background(), "Nobody", 2000)
	if err != nil {
		t.Fatalf("NotFound must not surface as error, got: %v", err)
	}

	if view.Summary != (models.SummaryRow{}) {
		t.Errorf("expected zero summary, got %+v", view.Summary)
	}
	if len(view.Warnings) == 0 {
		t.Error("expected a warning about the unresolved author")
	}
}

func TestRunSkipsSourcesWithoutIdentifiers(t *testing.T) {
	wosSource := &stubSource{name: "wos"}
	alexSource := &stubSource{name: "openalex"}
	identity := models.AuthorIdentity{DisplayName: "Jane Doe", EmployeeID: 42} // keine IDs
	svc := newTestService(&stubResolver{identity: identity}, wosSource, alexSource)

	view, err := svc.Run(context.Background(), "Jane Doe", 2000)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if wosSource.calls != 0 || alexSource.calls != 0 {
		t.Errorf("sources without identifiers must not be queried: wos=%d alex=%d", wosSource.calls, alexSource.calls)
	}
	if !view.WOS.Absent || !view.OpenAlex.Absent {
		t.Error("both tables must be absent")
	}
	if view.Summary != (models.SummaryRow{}) {
		t.Errorf("expected zero summary, got %+v", view.Summary)
	}
}

func TestRunAppliesMinYearFilter(t *testing.T) {
	wosSource := &stubSource{name: "wos", records: []models.WorkRecord{
		{WorkID: "1", Title: "Old", PublishYear: 1998, Origin: models.OriginWOS},
		{WorkID: "2", Title: "New", PublishYear: 2015, Origin: models.OriginWOS},
	}}
	alexSource := &stubSource{name: "openalex", records: []models.WorkRecord{
		{WorkID: "W3", Title: "Also Old", PublishYear: 1995, Origin: models.OriginOpenAlex},
	}}
	svc := newTestService(&stubResolver{identity: fullIdentity()}, wosSource, alexSource)

	view, err := svc.Run(context.Background(), "Jane Doe", 2000)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if view.WOS.Len() != 1 || view.WOS.Rows[0].Title != "New" {
		t.Errorf("WOS table after filter = %+v", view.WOS)
	}
	if view.OpenAlex.Len() != 0 {
		t.Errorf("OpenAlex table after filter = %+v", view.OpenAlex)
	}
}

func TestRunProjectsUniqueRecords(t *testing.T) {
	wosSource := &stubSource{name: "wos", records: []models.WorkRecord{
		{WorkID: "1", Title: "Shared Work", PublishYear: 2020, Origin: models.OriginWOS},
		{WorkID: "2", Title: "WOS Only", PublishYear: 2021, Origin: models.OriginWOS},
	}}
	alexSource := &stubSource{name: "openalex", records: []models.WorkRecord{
		{WorkID: "W3", Title: "shared work", PublishYear: 2020, Origin: models.OriginOpenAlex},
		{WorkID: "W4", Title: "Alex Only", PublishYear: 2022, Origin: models.OriginOpenAlex},
	}}
	svc := newTestService(&stubResolver{identity: fullIdentity()}, wosSource, alexSource)

	view, err := svc.Run(context.Background(), "Jane Doe", 2000)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(view.UniqueRecords) != 2 {
		t.Fatalf("UniqueRecords = %+v, want 2 entries", view.UniqueRecords)
	}
	if view.UniqueRecords[0].Origin != models.OriginWOS || view.UniqueRecords[1].Origin != models.OriginOpenAlex {
		t.Errorf("unique list must keep source attribution, got %+v", view.UniqueRecords)
	}
	if view.Summary.CommonRecords != 2 || view.Summary.UniqueRecords != 2 {
		t.Errorf("summary = %+v", view.Summary)
	}
}
