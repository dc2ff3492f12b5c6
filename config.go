package tinyrisks

import (
	"errors"

	"github.com/spf13/viper"
)

// SiteConfig holds all configuration for a tinyrisks site.
type SiteConfig struct {
	Name        string // Site name used by the feed and error pages
	URL         string // Canonical URL for feed/sitemap links
	Description string // Site description for the RSS channel

	Addr         string // Listen address (default ":5000")
	DatabasePath string // SQLite path (default "data/tinyrisks.db")
	StaticDir    string // Directory served at the site root (default "htdocs")

	UploadDir       string // Directory uploaded files are written to
	UploadURLPrefix string // URL path uploads are served under

	AdminUsername string // Seed admin account name (default "admin")
	AdminPassword string // Required: seed admin password
	SessionSecret string // Required: session cookie encryption secret
	CookieSecure  bool   // Set true when serving over HTTPS

	MaxGalleryImages  int   // Per-post image cap for gallery uploads
	MaxUploadBytes    int64 // Per-file size cap for gallery uploads
	MaxDescriptionLen int   // Character cap on description fields
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "TinyRisks"
	}
	if c.URL == "" {
		c.URL = "http://localhost:5000"
	}
	if c.Description == "" {
		c.Description = c.Name
	}
	if c.Addr == "" {
		c.Addr = ":5000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/tinyrisks.db"
	}
	if c.StaticDir == "" {
		c.StaticDir = "htdocs"
	}
	if c.UploadDir == "" {
		c.UploadDir = "htdocs/static/uploads"
	}
	if c.UploadURLPrefix == "" {
		c.UploadURLPrefix = "/static/uploads"
	}
	if c.AdminUsername == "" {
		c.AdminUsername = "admin"
	}
	if c.MaxGalleryImages == 0 {
		c.MaxGalleryImages = 9
	}
	if c.MaxUploadBytes == 0 {
		c.MaxUploadBytes = 20 << 20 // 20 MiB
	}
	if c.MaxDescriptionLen == 0 {
		c.MaxDescriptionLen = 4000
	}
}

// validate checks the settings that have no safe default.
func (c *SiteConfig) validate() error {
	if c.AdminPassword == "" {
		return errors.New("tinyrisks: AdminPassword is required")
	}
	if c.SessionSecret == "" {
		return errors.New("tinyrisks: SessionSecret is required")
	}
	return nil
}

// LoadConfig reads configuration from the environment and an optional
// config.yaml in the working directory. Environment variables win over
// file values; missing values fall back to setDefaults.
func LoadConfig() (SiteConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return SiteConfig{}, err
		}
	}

	cfg := SiteConfig{
		Name:              v.GetString("SITE_NAME"),
		URL:               v.GetString("SITE_URL"),
		Description:       v.GetString("SITE_DESCRIPTION"),
		Addr:              v.GetString("LISTEN_ADDR"),
		DatabasePath:      v.GetString("DATABASE_PATH"),
		StaticDir:         v.GetString("STATIC_DIR"),
		UploadDir:         v.GetString("UPLOAD_DIR"),
		UploadURLPrefix:   v.GetString("UPLOAD_URL_PREFIX"),
		AdminUsername:     v.GetString("ADMIN_USERNAME"),
		AdminPassword:     v.GetString("ADMIN_PASSWORD"),
		SessionSecret:     v.GetString("SESSION_SECRET"),
		CookieSecure:      v.GetBool("COOKIE_SECURE"),
		MaxGalleryImages:  v.GetInt("MAX_GALLERY_IMAGES"),
		MaxUploadBytes:    v.GetInt64("MAX_UPLOAD_BYTES"),
		MaxDescriptionLen: v.GetInt("MAX_DESCRIPTION_LEN"),
	}
	cfg.setDefaults()
	return cfg, nil
}
