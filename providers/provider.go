package providers

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"pub-scope/models"
)

// SkippedRecords zählt übersprungene unvollständige Records pro Quelle.
var SkippedRecords = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "source_records_skipped_total",
		Help: "Total number of malformed records skipped per source.",
	},
	[]string{"source"},
)

func init() {
	prometheus.MustRegister(SkippedRecords)
}

// Source ist das Interface, das jeder Record-Provider (WOS, OpenAlex)
// implementieren muss.
type Source interface {
	// FetchWorks holt alle Records für die gegebene Autoren-Identität und
	// normalisiert sie in WorkRecords. Die Jahresfilterung übernimmt der
	// Aufrufer, nicht der Provider.
	FetchWorks(ctx context.Context, identity models.AuthorIdentity) ([]models.WorkRecord, error)

	// Name gibt den eindeutigen Namen des Providers zurück (z.B. "wos").
	Name() string
}

// RemoteAPIError signalisiert einen Transportfehler oder eine
// Nicht-2xx-Antwort einer externen API. Es gibt keinen Retry; die Quelle
// trägt für den aktuellen Request nichts bei.
type RemoteAPIError struct {
	Source     string
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteAPIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s api: status %d: %s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s api: %s", e.Source, e.Message)
}

func (e *RemoteAPIError) Unwrap() error {
	return e.Err
}

// MalformedRecordError beschreibt einen einzelnen Hit ohne Pflichtfeld.
// Solche Records werden übersprungen und gezählt, sie brechen den Abruf
// nicht ab.
type MalformedRecordError struct {
	Source string
	WorkID string
	Field  string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s record %q: missing %s", e.Source, e.WorkID, e.Field)
}
