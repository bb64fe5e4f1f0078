package wos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"pub-scope/config"
	"pub-scope/models"
	"pub-scope/providers"
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

// Fetcher implementiert das Source-Interface für die WOS Starter API.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt einen neuen WOS-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "wos"
}

// FetchWorks holt alle Records für sämtliche WOS-Autoren-IDs der Identität.
// Ein Autor kann mehrere ResearcherIDs haben; die Ergebnisse werden flach
// zusammengeführt. Die Jahresfilterung übernimmt der Aufrufer.
func (f *Fetcher) FetchWorks(ctx context.Context, identity models.AuthorIdentity) ([]models.WorkRecord, error) {
	var records []models.WorkRecord
	for _, id := range identity.WOSIDs {
		recs, err := f.fetchAuthorRecords(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	return records, nil
}

// fetchAuthorRecords holt alle Seiten für eine einzelne Autoren-ID.
// Die erste Seite liefert total und limit; daraus ergibt sich die
// Seitenzahl. Der Ein-Seiten-Fall ist der degenerierte Durchlauf derselben
// Schleife, damit auch total==1 verarbeitet wird.
func (f *Fetcher) fetchAuthorRecords(ctx context.Context, authorID string) ([]models.WorkRecord, error) {
	log := f.Logger.With(zap.String("wos_id", authorID))
	log.Info("Starte WOS-Abruf für Autoren-ID.")

	first, err := f.fetchPage(ctx, authorID, 1, "")
	if err != nil {
		return nil, err
	}

	total := first.Metadata.Total
	limit := first.Metadata.Limit
	if limit <= 0 {
		limit = f.Config.WOSPageSize
	}
	pageCount := (total + limit - 1) / limit
	log.Debug("WOS-Metadaten erhalten",
		zap.Int("total", total), zap.Int("limit", limit), zap.Int("pages", pageCount))

	records, skipped := f.mapHits(first.Hits)
	for page := 2; page <= pageCount; page++ {
		resp, err := f.fetchPage(ctx, authorID, page, "")
		if err != nil {
			return nil, err
		}
		recs, s := f.mapHits(resp.Hits)
		records = append(records, recs...)
		skipped += s
	}

	log.Info("WOS-Abruf abgeschlossen",
		zap.Int("records", len(records)), zap.Int("skipped", skipped))
	return records, nil
}

// fetchPage ruft eine einzelne Ergebnisseite ab. publishTimeSpan ist ein
// optionaler Datumsbereich (yyyy-mm-dd+yyyy-mm-dd), leer = kein Filter.
func (f *Fetcher) fetchPage(ctx context.Context, authorID string, page int, publishTimeSpan string) (*DocumentsResponse, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("AI=%s", authorID))
	params.Set("db", f.Config.WOSDatabase)
	params.Set("limit", fmt.Sprintf("%d", f.Config.WOSPageSize))
	params.Set("page", fmt.Sprintf("%d", page))
	params.Set("sortField", "LD+D")
	if publishTimeSpan != "" {
		params.Set("modifiedTimeSpan", publishTimeSpan)
	}

	reqURL := fmt.Sprintf("%s/documents?%s", f.Config.WOSBaseURL, params.Encode())
	f.Logger.Debug("Rufe WOS-API auf", zap.String("url", reqURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &providers.RemoteAPIError{Source: "wos", Message: err.Error(), Err: err}
	}
	req.Header.Set("X-ApiKey", f.Config.WOSAPIKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &providers.RemoteAPIError{Source: "wos", Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &providers.RemoteAPIError{
			Source:     "wos",
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	var docs DocumentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, &providers.RemoteAPIError{Source: "wos", Message: "invalid response body", Err: err}
	}
	return &docs, nil
}

// mapHits normalisiert die Hits einer Seite. Hits ohne Titel werden
// übersprungen und gezählt.
func (f *Fetcher) mapHits(hits []Hit) ([]models.WorkRecord, int) {
	records := make([]models.WorkRecord, 0, len(hits))
	skipped := 0
	for _, hit := range hits {
		if hit.Title == "" {
			skipped++
			providers.SkippedRecords.WithLabelValues("wos").Inc()
			skipErr := &providers.MalformedRecordError{Source: "wos", WorkID: hit.UID, Field: "title"}
			f.Logger.Warn("Überspringe unvollständigen WOS-Hit", zap.Error(skipErr))
			continue
		}
		records = append(records, models.WorkRecord{
			WorkID:      stripNamespace(hit.UID),
			Title:       hit.Title,
			Source:      hit.Source.SourceTitle,
			PublishYear: hit.Source.PublishYear,
			Origin:      models.OriginWOS,
			DOI:         hit.Identifiers.DOI,
			ISSN:        hit.Identifiers.ISSN,
			EISSN:       hit.Identifiers.EISSN,
		})
	}
	return records, skipped
}

// stripNamespace entfernt das Namespace-Präfix einer UID und behält den
// Teil nach dem ersten Doppelpunkt ("WOS:000123" -> "000123").
func stripNamespace(uid string) string {
	if _, rest, found := strings.Cut(uid, ":"); found {
		return rest
	}
	return uid
}
