// Package openalex enthält die Logik für die Interaktion mit der
// OpenAlex Works API.
package openalex

// WorksResponse ist die Top-Level-Struktur einer /works-Seite.
type WorksResponse struct {
	Meta struct {
		Count      int    `json:"count"`
		NextCursor string `json:"next_cursor"`
	} `json:"meta"`
	Results []Work `json:"results"`
}

// Work repräsentiert ein einzelnes Werk in der API-Antwort. IDs sind volle
// OpenAlex-URLs (z.B. "https://openalex.org/W2741809807").
type Work struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	DisplayName     string       `json:"display_name"`
	PublicationYear int          `json:"publication_year"`
	PrimaryLocation *Location    `json:"primary_location"`
	Authorships     []Authorship `json:"authorships"`
}

// Location ist der primäre Publikationsort eines Werks. Source kann null
// sein; das ist kein Fehler.
type Location struct {
	Source *struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"source"`
}

// Authorship ist ein Autoreneintrag eines Werks mit seinen
// Institutions-Affiliationen.
type Authorship struct {
	AuthorPosition string `json:"author_position"`
	Author         struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"author"`
	Institutions []struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		CountryCode string `json:"country_code"`
	} `json:"institutions"`
}
