// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package api

import (
	"net/http"
	"path"
	"strings"

	"github.com/tomtom215/geocrowd/internal/logging"
)

const loginPage = "/login.html"

// Login serves the login page from the templates dir.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.serveFrom(w, r, h.config.TemplatesDir, loginPage) {
		logging.Ctx(r.Context()).Error().
			Str("templates_dir", h.config.TemplatesDir).
			Msg("Login page missing")
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Login page not found")
	}
}

// Page serves the requested file from the templates dir, falling back to
// the static dir. Paths with ".." segments are refused.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	if hasDotDot(r.URL.Path) {
		logging.Ctx(r.Context()).Warn().Str("path", r.URL.Path).Msg("Rejected path traversal attempt")
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid path")
		return
	}

	name := path.Clean("/" + r.URL.Path)
	if name == "/" {
		h.Login(w, r)
		return
	}

	if h.serveFrom(w, r, h.config.TemplatesDir, name) {
		return
	}
	if h.serveFrom(w, r, h.config.StaticDir, name) {
		return
	}
	respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Not found")
}

// serveFrom writes root/name if it is a regular file and reports whether it
// did. http.Dir confines the lookup to root.
func (h *Handler) serveFrom(w http.ResponseWriter, r *http.Request, root, name string) bool {
	if root == "" {
		return false
	}

	f, err := http.Dir(root).Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}

	w.Header().Set("Cache-Control", cacheControl(name))
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return true
}

func cacheControl(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm":
		return "no-cache"
	case ".png", ".svg", ".jpg", ".jpeg", ".webp", ".ico":
		return "public, max-age=604800"
	default:
		return "public, max-age=3600"
	}
}

func hasDotDot(p string) bool {
	if !strings.Contains(p, "..") {
		return false
	}
	for _, seg := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}
