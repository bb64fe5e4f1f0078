package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4280"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Web of Science Starter API
	WOSBaseURL  string `envconfig:"WOS_BASE_URL" default:"https://api.clarivate.com/apis/wos-starter/v1"`
	WOSAPIKey   string `envconfig:"WOS_API_KEY" required:"true"`
	WOSDatabase string `envconfig:"WOS_DATABASE" default:"WOS"`
	WOSPageSize int    `envconfig:"WOS_PAGE_SIZE" default:"50"`

	// OpenAlex API
	OpenAlexBaseURL  string `envconfig:"OPENALEX_BASE_URL" default:"https://api.openalex.org"`
	OpenAlexMailto   string `envconfig:"OPENALEX_MAILTO"`
	OpenAlexPerPage  int    `envconfig:"OPENALEX_PER_PAGE" default:"200"`
	OpenAlexMaxPages int    `envconfig:"OPENALEX_MAX_PAGES" default:"0"` // 0 = unbegrenzt

	// OpenAlex-ID der Institution, auf die Affiliations gefiltert werden.
	InstitutionID string `envconfig:"INSTITUTION_ID" required:"true"`

	// Cron-Schedule für das Neuladen des Personal-Rosters aus der DB.
	RosterReloadSchedule string `envconfig:"ROSTER_RELOAD_SCHEDULE" default:"0 3 * * *"`

	StratoS3Key    string `envconfig:"STRATO_S3_KEY"`
	StratoS3Secret string `envconfig:"STRATO_S3_SECRET"`
	StratoS3URL    string `envconfig:"STRATO_S3_URL"`
	StratoS3Region string `envconfig:"STRATO_S3_REGION"`
	StratoS3Bucket string `envconfig:"STRATO_S3_BUCKET"`

	// Anzahl der Roster-Backups, die bei der Rotation behalten werden.
	BackupKeepCount int `envconfig:"BACKUP_KEEP_COUNT" default:"4"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
