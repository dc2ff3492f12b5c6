package tinyrisks

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"tinyrisks/views"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *App) handleLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "Too many login attempts. Try again later."})
	}
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Username and password are required")
	}
	p, err := a.Store.VerifyUser(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			// Only failed verifications count toward the limit.
			a.loginLimiter.Record(c.RealIP())
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "Invalid credentials"})
		}
		return err
	}
	if err := setPrincipal(c, p); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (a *App) handleLogout(c echo.Context) error {
	if err := clearPrincipal(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// handleUpload stores one image plus an optional description. The file is
// written before the metadata row; if the insert fails the file is removed
// again so the failed call leaves nothing behind.
func (a *App) handleUpload(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return validationError("No file part")
	}
	description := c.FormValue("description")
	if utf8.RuneCountInString(description) > a.Config.MaxDescriptionLen {
		return validationError(fmt.Sprintf("Description too long (max %d characters)", a.Config.MaxDescriptionLen))
	}

	name, err := a.uploads.saveFile(singlePrefix, fh)
	if err != nil {
		return err
	}
	if _, err := a.Store.SaveImage(name, description); err != nil {
		a.uploads.removeFiles([]string{name})
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"file":    name,
		"url":     a.uploads.url(name),
	})
}

func (a *App) handleListImages(c echo.Context) error {
	images, err := a.Store.ListImages()
	if err != nil {
		return err
	}
	out := make([]echo.Map, 0, len(images))
	for _, img := range images {
		out = append(out, echo.Map{
			"url":         a.uploads.url(img.Filename),
			"time":        timestampUnix(img.UploadedAt),
			"description": img.Description,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// timestampUnix converts a stored RFC3339 timestamp to unix seconds for
// the images listing. A malformed value degrades to zero.
func timestampUnix(ts string) int64 {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return 0
	}
	return t.Unix()
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /api/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

// httpErrorHandler renders JSON errors for the API and styled HTML pages
// for everything else. Internal errors never echo their message through
// the API body.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var ve *ValidationError
	isAPI := strings.HasPrefix(c.Request().URL.Path, "/api/")

	if errors.As(err, &ve) {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Message})
		return
	}

	he, ok := err.(*echo.HTTPError)
	if isAPI {
		code := http.StatusInternalServerError
		msg := "Internal server error"
		if ok {
			code = he.Code
			msg = fmt.Sprint(he.Message)
		}
		if code >= 500 {
			c.Logger().Errorf("server error: %v", err)
			msg = "Internal server error"
		}
		_ = c.JSON(code, echo.Map{"error": msg})
		return
	}

	if ok && he.Code == http.StatusNotFound {
		_ = renderStatus(c, http.StatusNotFound, views.NotFound(a.Config.Name))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = renderStatus(c, code, views.ServerError(a.Config.Name))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
