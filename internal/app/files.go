package app

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (app *Application) ServePosterHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "fileName")

	content, info, err := app.catalog.OpenPoster(r.Context(), name)
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}
	defer content.Close()

	if info.ContentType != "" {
		w.Header().Set("Content-Type", info.ContentType)
	}

	if rs, ok := content.(io.ReadSeeker); ok {
		http.ServeContent(w, r, info.Name, info.ModTime, rs)
		return
	}

	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	w.WriteHeader(http.StatusOK)

	_, err = io.Copy(w, content)
	if err != nil {
		app.logError(r, err)
	}
}

func (app *Application) PosterExistsHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "fileName")

	exists, err := app.catalog.PosterExists(r.Context(), name)
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
}
