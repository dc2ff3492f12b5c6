package tinyrisks

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// textPostRequest enumerates every field of the create/update body with
// its default. Tags is raw so a non-list value can be rejected with a
// useful message instead of a generic bind error.
type textPostRequest struct {
	Title       string          `json:"title"`
	Subtitle    string          `json:"subtitle"`
	Content     string          `json:"content"`
	Category    string          `json:"category"`
	Tags        json.RawMessage `json:"tags"`
	ReadingTime int             `json:"reading_time"`
	Published   bool            `json:"published"`
}

func (r *textPostRequest) toPost() (TextPost, error) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return TextPost{}, validationError("Title is required")
	}
	if strings.TrimSpace(r.Content) == "" {
		return TextPost{}, validationError("Content is required")
	}
	tags := []string{}
	if len(r.Tags) > 0 && string(r.Tags) != "null" {
		if err := json.Unmarshal(r.Tags, &tags); err != nil {
			return TextPost{}, validationError("Tags must be a list of strings")
		}
	}
	return TextPost{
		Title:       title,
		Subtitle:    r.Subtitle,
		Content:     r.Content,
		Category:    r.Category,
		Tags:        tags,
		ReadingTime: r.ReadingTime,
		Published:   r.Published,
	}, nil
}

func (a *App) handleCreateTextPost(c echo.Context) error {
	var req textPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	post, err := req.toPost()
	if err != nil {
		return err
	}
	id, err := a.Store.CreateTextPost(post)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "id": id})
}

// handleListTextPosts returns every post for the authenticated admin and
// published posts only for everyone else.
func (a *App) handleListTextPosts(c echo.Context) error {
	_, authenticated := a.currentPrincipal(c)
	posts, err := a.Store.ListTextPosts(!authenticated)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// handleGetTextPost hides drafts from anonymous callers behind a 404, so
// visibility and existence are indistinguishable without a session.
func (a *App) handleGetTextPost(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	}
	_, authenticated := a.currentPrincipal(c)
	post, err := a.Store.GetTextPost(id, !authenticated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "Not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, post)
}

func (a *App) handleUpdateTextPost(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	}
	if _, err := a.Store.GetTextPost(id, false); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "Not found")
		}
		return err
	}

	var req textPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	post, err := req.toPost()
	if err != nil {
		return err
	}
	post.ID = id
	if err := a.Store.UpdateTextPost(post); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "Not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (a *App) handleDeleteTextPost(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	}
	if err := a.Store.DeleteTextPost(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "Not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
