// Package wos enthält die Logik für die Interaktion mit der Web of
// Science Starter API.
package wos

// DocumentsResponse ist die Top-Level-Struktur der /documents-Antwort.
type DocumentsResponse struct {
	Metadata Metadata `json:"metadata"`
	Hits     []Hit    `json:"hits"`
}

// Metadata enthält die Pagination-Informationen der Antwort.
type Metadata struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Hit repräsentiert ein einzelnes Dokument in der API-Antwort. Die UID ist
// namespaced (z.B. "WOS:000123456789").
type Hit struct {
	UID    string `json:"uid"`
	Title  string `json:"title"`
	Source struct {
		SourceTitle string `json:"sourceTitle"`
		PublishYear int    `json:"publishYear"`
	} `json:"source"`
	// Identifier sind optional; fehlende Schlüssel bleiben nil.
	Identifiers struct {
		DOI   *string `json:"doi"`
		ISSN  *string `json:"issn"`
		EISSN *string `json:"eissn"`
	} `json:"identifiers"`
}
