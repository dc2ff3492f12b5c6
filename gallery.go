package tinyrisks

import (
	"database/sql"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
)

// galleryForm pulls the metadata fields and the optional file list out of
// a multipart request. Each optional field defaults to empty when absent.
type galleryForm struct {
	Title       string
	Caption     string
	Description string
	Files       []*multipart.FileHeader
}

func (a *App) bindGalleryForm(c echo.Context) (galleryForm, error) {
	f := galleryForm{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Caption:     c.FormValue("caption"),
		Description: c.FormValue("description"),
	}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		f.Files = form.File["images"]
	}
	if f.Title == "" {
		return galleryForm{}, validationError("Title is required")
	}
	if utf8.RuneCountInString(f.Description) > a.Config.MaxDescriptionLen {
		return galleryForm{}, validationError(fmt.Sprintf("Description too long (max %d characters)", a.Config.MaxDescriptionLen))
	}
	return f, nil
}

// handleCreateGalleryPost validates the batch, writes every file, then
// inserts the metadata row. A failed insert removes the files written by
// this request so no orphans survive the call.
func (a *App) handleCreateGalleryPost(c echo.Context) error {
	form, err := a.bindGalleryForm(c)
	if err != nil {
		return err
	}

	names, err := a.uploads.saveBatch(galleryPrefix, form.Files)
	if err != nil {
		return err
	}

	id, err := a.Store.CreateGalleryPost(GalleryPost{
		Title:       form.Title,
		Caption:     form.Caption,
		Description: form.Description,
		Images:      names,
	})
	if err != nil {
		a.uploads.removeFiles(names)
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"id":      id,
		"images":  names,
	})
}

func (a *App) handleListGalleryPosts(c echo.Context) error {
	posts, err := a.Store.ListGalleryPosts()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

func (a *App) handleGetGalleryPost(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	}
	post, err := a.Store.GetGalleryPost(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "Not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// handleUpdateGalleryPost replaces the metadata and, when a new file list
// is attached, the entire image set. New files are written and the row
// updated before the old files are deleted, so a reader never observes a
// post referencing missing files and a failed update leaves the original
// set intact.
func (a *App) handleUpdateGalleryPost(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	}
	existing, err := a.Store.GetGalleryPost(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "Not found")
		}
		return err
	}

	form, err := a.bindGalleryForm(c)
	if err != nil {
		return err
	}

	updated := GalleryPost{
		ID:          id,
		Title:       form.Title,
		Caption:     form.Caption,
		Description: form.Description,
		Images:      existing.Images,
	}

	if len(form.Files) > 0 {
		names, err := a.uploads.saveBatch(galleryPrefix, form.Files)
		if err != nil {
			return err
		}
		updated.Images = names
		if err := a.Store.UpdateGalleryPost(updated); err != nil {
			a.uploads.removeFiles(names)
			return err
		}
		// Old files go only after the new set is committed.
		a.uploads.removeFiles(existing.Images)
	} else {
		if err := a.Store.UpdateGalleryPost(updated); err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "id": id})
}

// handleDeleteGalleryPost removes the post's files (best effort) and then
// the metadata row.
func (a *App) handleDeleteGalleryPost(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	}
	post, err := a.Store.GetGalleryPost(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "Not found")
		}
		return err
	}

	a.uploads.removeFiles(post.Images)
	if err := a.Store.DeleteGalleryPost(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "Not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
