package openalex

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

// startCursor ist der Start-Sentinel der Cursor-Pagination.
const startCursor = "*"

// selectFields ist die Feldliste, die pro Werk angefordert wird.
var selectFields = strings.Join([]string{
	"id",
	"title",
	"display_name",
	"publication_year",
	"primary_location",
	"authorships",
}, ",")

// Fetcher implementiert das Source-Interface für OpenAlex.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt einen neuen OpenAlex-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "openalex"
}

// FetchWorks holt alle Werke des Autors per Cursor-Pagination und flacht
// sie auf (Werk, Autorenschaft, Institution)-Zeilen ab. Behalten werden nur
// Zeilen der konfigurierten Institution UND des angefragten Autors; der
// Doppelfilter verhindert Kontamination durch Co-Autoren desselben Werks.
func (f *Fetcher) FetchWorks(ctx context.Context, identity models.AuthorIdentity) ([]models.WorkRecord, error) {
	if identity.OpenAlexID == nil {
		return nil, nil
	}
	authorID := *identity.OpenAlexID
	log := f.Logger.With(zap.String("alex_id", authorID))
	log.Info("Starte OpenAlex-Abruf für Autoren-ID.")

	works, err := f.fetchAllPages(ctx, authorID, log)
	if err != nil {
		return nil, err
	}

	records, skipped := f.flattenWorks(works, authorID)
	log.Info("OpenAlex-Abruf abgeschlossen",
		zap.Int("works", len(works)), zap.Int("records", len(records)), zap.Int("skipped", skipped))
	return records, nil
}

// fetchAllPages folgt dem Cursor, bis next_cursor leer ist oder die
// konfigurierte Seitenobergrenze erreicht wird. Die Gesamtseitenzahl ist
// vorab nicht bekannt.
func (f *Fetcher) fetchAllPages(ctx context.Context, authorID string, log *zap.Logger) ([]Work, error) {
	var works []Work
	cursor := startCursor
	page := 0

	for cursor != "" {
		if f.Config.OpenAlexMaxPages > 0 && page >= f.Config.OpenAlexMaxPages {
			log.Warn("OpenAlex-Seitenobergrenze erreicht, breche Pagination ab",
				zap.Int("max_pages", f.Config.OpenAlexMaxPages))
			break
		}

		resp, err := f.fetchPage(ctx, authorID, cursor)
		if err != nil {
			return nil, err
		}
		works = append(works, resp.Results...)
		cursor = resp.Meta.NextCursor
		page++

		if page == 5 || page == 10 || page == 20 || page == 50 || page == 100 || page%500 == 0 {
			log.Debug("OpenAlex-Pagination läuft", zap.Int("pages", page), zap.Int("works", len(works)))
		}
	}
	return works, nil
}

// fetchPage ruft eine einzelne Cursor-Seite ab.
func (f *Fetcher) fetchPage(ctx context.Context, authorID, cursor string) (*WorksResponse, error) {
	params := url.Values{}
	params.Set("filter", "author.id:"+authorID)
	params.Set("select", selectFields)
	params.Set("per-page", fmt.Sprintf("%d", f.Config.OpenAlexPerPage))
	params.Set("cursor", cursor)
	if f.Config.OpenAlexMailto != "" {
		// Polite Pool, siehe OpenAlex-Dokumentation.
		params.Set("mailto", f.Config.OpenAlexMailto)
	}

	reqURL := fmt.Sprintf("%s/works?%s", f.Config.OpenAlexBaseURL, params.Encode())
	f.Logger.Debug("Rufe OpenAlex-API auf", zap.String("url", reqURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &providers.RemoteAPIError{Source: "openalex", Message: err.Error(), Err: err}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &providers.RemoteAPIError{Source: "openalex", Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &providers.RemoteAPIError{
			Source:     "openalex",
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	var page WorksResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, &providers.RemoteAPIError{Source: "openalex", Message: "invalid response body", Err: err}
	}
	return &page, nil
}

// flattenWorks macht aus jedem Werk eine Zeile pro (Autorenschaft,
// Institution) und filtert auf Institution und Autor. Werke ohne Titel
// werden übersprungen und gezählt. Fehlende primary_location oder source
// ergeben eine leere Venue, keinen Fehler.
func (f *Fetcher) flattenWorks(works []Work, authorID string) ([]models.WorkRecord, int) {
	wantInstitution := canonicalID(f.Config.InstitutionID)
	wantAuthor := canonicalID(authorID)

	var records []models.WorkRecord
	skipped := 0
	for _, work := range works {
		title := work.Title
		if title == "" {
			title = work.DisplayName
		}
		if title == "" {
			skipped++
			providers.SkippedRecords.WithLabelValues("openalex").Inc()
			skipErr := &providers.MalformedRecordError{Source: "openalex", WorkID: work.ID, Field: "title"}
			f.Logger.Warn("Überspringe unvollständiges OpenAlex-Werk", zap.Error(skipErr))
			continue
		}

		venue := ""
		if work.PrimaryLocation != nil && work.PrimaryLocation.Source != nil {
			venue = work.PrimaryLocation.Source.DisplayName
		}

		for _, authorship := range work.Authorships {
			if canonicalID(authorship.Author.ID) != wantAuthor {
				continue
			}
			for _, institution := range authorship.Institutions {
				if canonicalID(institution.ID) != wantInstitution {
					continue
				}
				records = append(records, models.WorkRecord{
					WorkID:      work.ID,
					Title:       title,
					Source:      venue,
					PublishYear: work.PublicationYear,
					Origin:      models.OriginOpenAlex,
				})
			}
		}
	}
	return records, skipped
}

// canonicalID normalisiert eine OpenAlex-ID auf die volle URL-Form, damit
// Lookup-Tabellen-IDs ("A5023888391") und API-IDs
// ("https://openalex.org/A5023888391") vergleichbar sind.
func canonicalID(id string) string {
	if id == "" || strings.HasPrefix(id, "https://") {
		return id
	}
	return "https://openalex.org/" + id
}
