package tinyrisks

// Principal is the identity established after a successful login.
type Principal struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// SingleImage is one uploaded image with an optional description.
// Immutable after creation; the filename points into the upload directory.
type SingleImage struct {
	ID          int64  `json:"id"`
	Filename    string `json:"filename"`
	Description string `json:"description"`
	UploadedAt  string `json:"uploaded_at"`
}

// GalleryPost is a community gallery entry owning between 1 and 9 stored
// files. Images holds the stored filenames in upload order.
type GalleryPost struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Caption     string   `json:"caption"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// TextPost is a blog-style post. Published gates what anonymous callers
// can see; drafts are visible to the authenticated admin only.
type TextPost struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Content     string   `json:"content"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	ReadingTime int      `json:"reading_time"`
	Published   bool     `json:"published"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}
