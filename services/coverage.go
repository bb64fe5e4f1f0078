package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"pub-scope/config"
	"pub-scope/models"
	"pub-scope/providers"
	"pub-scope/resolver"
)

var (
	fetchedRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_records_fetched_total",
			Help: "Total number of records fetched per source.",
		},
		[]string{"source"},
	)
	fetchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_fetch_failures_total",
			Help: "Total number of failed source fetches.",
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(fetchedRecords, fetchFailures)
}

// CoverageView ist das Ergebnis eines Dashboard-Requests: ein einziger
// Reconcile-Lauf, auf alle Ansichten projiziert (Summary, Quell-Tabellen,
// kombinierte Unikat-Liste). Warnings tragen Fetch-Fehler zur
// Präsentationsschicht, ohne den Request abzubrechen.
type CoverageView struct {
	Author        string                      `json:"author"`
	MinYear       int                         `json:"min_year"`
	Summary       models.SummaryRow           `json:"summary"`
	WOS           models.SourceTable          `json:"wos"`
	OpenAlex      models.SourceTable          `json:"openalex"`
	UniqueRecords []models.WorkRecord         `json:"unique_records"`
	Result        models.ReconciliationResult `json:"result"`
	Warnings      []string                    `json:"warnings,omitempty"`
}

// AuthorResolver löst einen Anzeigenamen in die Autoren-Identität auf.
// Implementiert vom resolver-Package.
type AuthorResolver interface {
	Resolve(displayName string) (models.AuthorIdentity, error)
}

// CoverageService orchestriert Resolve, die parallelen Quell-Abrufe, die
// Jahresfilterung und den Abgleich. Alle Abhängigkeiten werden beim Start
// konstruiert und injiziert; der Service hält keinen Request-Zustand.
type CoverageService struct {
	Config   *config.Config
	Logger   *zap.Logger
	Resolver AuthorResolver
	WOS      providers.Source
	OpenAlex providers.Source
}

// NewCoverageService erstellt eine neue Instanz des CoverageService.
func NewCoverageService(cfg *config.Config, logger *zap.Logger, res AuthorResolver, wosSource, alexSource providers.Source) *CoverageService {
	return &CoverageService{
		Config:   cfg,
		Logger:   logger,
		Resolver: res,
		WOS:      wosSource,
		OpenAlex: alexSource,
	}
}

// Run führt einen kompletten Fetch-und-Abgleich-Zyklus für eine
// (Autor, minYear)-Auswahl aus. Ein nicht auflösbarer Autor liefert die
// Null-Ansicht mit Warnung, keinen Fehler. Ein fehlgeschlagener
// Quell-Abruf macht die Quelle abwesend; die andere Quelle wird trotzdem
// gerendert.
func (s *CoverageService) Run(ctx context.Context, displayName string, minYear int) (*CoverageView, error) {
	log := s.Logger.With(zap.String("author", displayName), zap.Int("min_year", minYear))
	log.Info("Starte Coverage-Abgleich.")

	view := &CoverageView{
		Author:        displayName,
		MinYear:       minYear,
		WOS:           models.AbsentTable(),
		OpenAlex:      models.AbsentTable(),
		UniqueRecords: []models.WorkRecord{},
	}

	identity, err := s.Resolver.Resolve(displayName)
	if err != nil {
		var notFound *resolver.NotFoundError
		if errors.As(err, &notFound) {
			log.Warn("Autor nicht auflösbar, liefere Null-Ansicht", zap.Error(err))
			view.Warnings = append(view.Warnings, err.Error())
			view.Result = Reconcile(view.WOS, view.OpenAlex)
			view.Summary = view.Result.Summary()
			return view, nil
		}
		return nil, err
	}

	wosTable, alexTable, warnings := s.fetchBoth(ctx, identity)
	view.Warnings = append(view.Warnings, warnings...)

	// Jahresfilter liegt beim Aufrufer, nicht beim Adapter.
	view.WOS = wosTable.FilterMinYear(minYear)
	view.OpenAlex = alexTable.FilterMinYear(minYear)

	view.Result = Reconcile(view.WOS, view.OpenAlex)
	view.Summary = view.Result.Summary()
	view.UniqueRecords = append(view.UniqueRecords, view.Result.OnlyInWOS...)
	view.UniqueRecords = append(view.UniqueRecords, view.Result.OnlyInOpenAlex...)

	log.Info("Coverage-Abgleich abgeschlossen",
		zap.Int("wos", view.Result.CountWOS),
		zap.Int("openalex", view.Result.CountOpenAlex),
		zap.Int("unique", view.Result.CountUnique),
		zap.Int("common", view.Result.CountCommon))
	return view, nil
}

// fetchBoth holt beide Quellen parallel. Zwischen den Abrufen besteht
// keine Ordnungsabhängigkeit. Eine Quelle ohne Identifier bleibt abwesend,
// ohne dass ein Request abgesetzt wird.
func (s *CoverageService) fetchBoth(ctx context.Context, identity models.AuthorIdentity) (models.SourceTable, models.SourceTable, []string) {
	wosTable := models.AbsentTable()
	alexTable := models.AbsentTable()

	var wg sync.WaitGroup
	var wosErr, alexErr error

	if len(identity.WOSIDs) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := s.WOS.FetchWorks(ctx, identity)
			if err != nil {
				wosErr = err
				return
			}
			wosTable = models.NewTable(records)
		}()
	}

	if identity.OpenAlexID != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := s.OpenAlex.FetchWorks(ctx, identity)
			if err != nil {
				alexErr = err
				return
			}
			alexTable = models.NewTable(records)
		}()
	}

	wg.Wait()

	var warnings []string
	if wosErr != nil {
		fetchFailures.WithLabelValues(s.WOS.Name()).Inc()
		s.Logger.Error("WOS-Abruf fehlgeschlagen, Quelle gilt als abwesend", zap.Error(wosErr))
		warnings = append(warnings, fmt.Sprintf("%s fetch failed: %v", s.WOS.Name(), wosErr))
	} else {
		fetchedRecords.WithLabelValues(s.WOS.Name()).Add(float64(wosTable.Len()))
	}
	if alexErr != nil {
		fetchFailures.WithLabelValues(s.OpenAlex.Name()).Inc()
		s.Logger.Error("OpenAlex-Abruf fehlgeschlagen, Quelle gilt als abwesend", zap.Error(alexErr))
		warnings = append(warnings, fmt.Sprintf("%s fetch failed: %v", s.OpenAlex.Name(), alexErr))
	} else {
		fetchedRecords.WithLabelValues(s.OpenAlex.Name()).Add(float64(alexTable.Len()))
	}

	return wosTable, alexTable, warnings
}
