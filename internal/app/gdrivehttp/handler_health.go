package gdrivehttp

import (
	"net/http"
	"time"

	"github.com/yourname/gdrive_lite/pkg/httperrors"
)

// defaultGCTTL используется, если Deps.GCTTL не задан.
const defaultGCTTL = 24 * time.Hour

// healthStats — payload ответа /health.
type healthStats struct {
	OK         bool  `json:"ok"`
	TotalBytes int64 `json:"total_bytes"`
	Files      int   `json:"files"`
}

// health возвращает объём и количество сохранённых файлов.
func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	total, files, err := s.Storage.Usage()
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, healthStats{OK: true, TotalBytes: total, Files: files})
}

// gcOnce вручную удаляет брошенные временные файлы старше GCTTL.
func (s *Server) gcOnce(w http.ResponseWriter, _ *http.Request) {
	ttl := s.GCTTL
	if ttl <= 0 {
		ttl = defaultGCTTL
	}
	removed, err := s.Storage.SweepOnce(ttl)
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}
