package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bmw-wellness/apiserver/internal/logging"
	"github.com/bmw-wellness/apiserver/internal/storage"
)

const indexObject = "index.html"

// ClientHandler serves the single-page client from object storage. Paths that
// do not name an object get index.html so the client router can take over.
type ClientHandler struct {
	assets *storage.Storage
	logger logrus.FieldLogger
}

func NewClientHandler(assets *storage.Storage, logger logrus.FieldLogger) *ClientHandler {
	return &ClientHandler{assets: assets, logger: logger}
}

func (h *ClientHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if key == "" {
		key = indexObject
	}

	body, err := h.assets.Get(r.Context(), key)
	if errors.Is(err, storage.ErrNotFound) && key != indexObject {
		key = indexObject
		body, err = h.assets.Get(r.Context(), key)
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		logging.FromRequest(h.logger, r).WithError(err).WithField("object", key).Error("read client asset")
		writeError(w, http.StatusInternalServerError, "failed to load client")
		return
	}
	defer body.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	if key == indexObject {
		w.Header().Set("Cache-Control", "no-cache")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, body)
}
