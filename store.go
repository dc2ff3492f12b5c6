package tinyrisks

import (
	"database/sql"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database and provides CRUD operations for the four
// content tables: users, images, community_images, and text_posts.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access and set a busy
	// timeout so writers wait instead of returning SQLITE_BUSY immediately.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS images (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    filename TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    uploaded_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS community_images (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    caption TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    images TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS text_posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    subtitle TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    reading_time INTEGER NOT NULL DEFAULT 0,
    published INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`)
	return err
}

// now returns the current UTC time in RFC3339 form. Stored timestamps sort
// lexicographically in chronological order, which ORDER BY relies on.
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// encodeList serializes a string slice into the TEXT column format.
func encodeList(vals []string) string {
	if vals == nil {
		vals = []string{}
	}
	b, err := json.Marshal(vals)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// decodeList parses a serialized string list. A corrupted column degrades
// to an empty slice; the anomaly is only surfaced through the log.
func decodeList(column, raw string) []string {
	if raw == "" {
		return []string{}
	}
	var vals []string
	if err := json.Unmarshal([]byte(raw), &vals); err != nil {
		log.Printf("store: malformed %s column %q: %v", column, raw, err)
		return []string{}
	}
	if vals == nil {
		return []string{}
	}
	return vals
}

// --- Single images ---

// SaveImage inserts metadata for one uploaded file and returns the row id.
func (s *Store) SaveImage(filename, description string) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO images (filename, description, uploaded_at) VALUES (?, ?, ?)`,
		filename, description, now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListImages returns all uploaded images, newest first.
func (s *Store) ListImages() ([]SingleImage, error) {
	rows, err := s.db.Query(`SELECT id, filename, description, uploaded_at FROM images ORDER BY uploaded_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := []SingleImage{}
	for rows.Next() {
		var img SingleImage
		if err := rows.Scan(&img.ID, &img.Filename, &img.Description, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// --- Gallery posts ---

// CreateGalleryPost inserts a gallery post and returns its id. Timestamps
// are assigned here.
func (s *Store) CreateGalleryPost(p GalleryPost) (int64, error) {
	ts := now()
	res, err := s.db.Exec(`INSERT INTO community_images (title, caption, description, images, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.Title, p.Caption, p.Description, encodeList(p.Images), ts, ts)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetGalleryPost returns one gallery post by id, or sql.ErrNoRows.
func (s *Store) GetGalleryPost(id int64) (GalleryPost, error) {
	var p GalleryPost
	var images string
	err := s.db.QueryRow(`SELECT id, title, caption, description, images, created_at, updated_at FROM community_images WHERE id = ?`, id).
		Scan(&p.ID, &p.Title, &p.Caption, &p.Description, &images, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return GalleryPost{}, err
	}
	p.Images = decodeList("images", images)
	return p, nil
}

// ListGalleryPosts returns all gallery posts, newest first.
func (s *Store) ListGalleryPosts() ([]GalleryPost, error) {
	rows, err := s.db.Query(`SELECT id, title, caption, description, images, created_at, updated_at FROM community_images ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []GalleryPost{}
	for rows.Next() {
		var p GalleryPost
		var images string
		if err := rows.Scan(&p.ID, &p.Title, &p.Caption, &p.Description, &images, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Images = decodeList("images", images)
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// UpdateGalleryPost rewrites the metadata (and image list) of an existing
// post. Returns sql.ErrNoRows when the id does not exist.
func (s *Store) UpdateGalleryPost(p GalleryPost) error {
	res, err := s.db.Exec(`UPDATE community_images SET title = ?, caption = ?, description = ?, images = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.Caption, p.Description, encodeList(p.Images), now(), p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteGalleryPost removes a gallery post row. Returns sql.ErrNoRows when
// the id does not exist.
func (s *Store) DeleteGalleryPost(id int64) error {
	res, err := s.db.Exec(`DELETE FROM community_images WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// --- Text posts ---

// CreateTextPost inserts a text post and returns its id.
func (s *Store) CreateTextPost(p TextPost) (int64, error) {
	ts := now()
	res, err := s.db.Exec(`INSERT INTO text_posts (title, subtitle, content, category, tags, reading_time, published, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Subtitle, p.Content, p.Category, encodeList(p.Tags), p.ReadingTime, boolInt(p.Published), ts, ts)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetTextPost returns one text post by id. With publishedOnly set, drafts
// are reported as sql.ErrNoRows so anonymous callers cannot distinguish
// an unpublished post from a missing one.
func (s *Store) GetTextPost(id int64, publishedOnly bool) (TextPost, error) {
	query := `SELECT id, title, subtitle, content, category, tags, reading_time, published, created_at, updated_at FROM text_posts WHERE id = ?`
	if publishedOnly {
		query += ` AND published = 1`
	}
	var p TextPost
	var tags string
	var published int
	err := s.db.QueryRow(query, id).
		Scan(&p.ID, &p.Title, &p.Subtitle, &p.Content, &p.Category, &tags, &p.ReadingTime, &published, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return TextPost{}, err
	}
	p.Tags = decodeList("tags", tags)
	p.Published = published == 1
	return p, nil
}

// ListTextPosts returns text posts ordered by created_at descending. With
// publishedOnly set, drafts are filtered out.
func (s *Store) ListTextPosts(publishedOnly bool) ([]TextPost, error) {
	query := `SELECT id, title, subtitle, content, category, tags, reading_time, published, created_at, updated_at FROM text_posts`
	if publishedOnly {
		query += ` WHERE published = 1`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []TextPost{}
	for rows.Next() {
		var p TextPost
		var tags string
		var published int
		if err := rows.Scan(&p.ID, &p.Title, &p.Subtitle, &p.Content, &p.Category, &tags, &p.ReadingTime, &published, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Tags = decodeList("tags", tags)
		p.Published = published == 1
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// UpdateTextPost rewrites an existing text post. Returns sql.ErrNoRows
// when the id does not exist.
func (s *Store) UpdateTextPost(p TextPost) error {
	res, err := s.db.Exec(`UPDATE text_posts SET title = ?, subtitle = ?, content = ?, category = ?, tags = ?, reading_time = ?, published = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.Subtitle, p.Content, p.Category, encodeList(p.Tags), p.ReadingTime, boolInt(p.Published), now(), p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteTextPost removes a text post row. Returns sql.ErrNoRows when the
// id does not exist.
func (s *Store) DeleteTextPost(id int64) error {
	res, err := s.db.Exec(`DELETE FROM text_posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
