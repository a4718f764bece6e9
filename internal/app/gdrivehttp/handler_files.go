package gdrivehttp

import (
	"encoding/json"
	"net/http"

	"github.com/yourname/gdrive_lite/internal/models"
	"github.com/yourname/gdrive_lite/internal/usecase/uploadsvc"
	"github.com/yourname/gdrive_lite/pkg/httperrors"
)

// listFiles отдаёт снимок каталога загрузок.
func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.Files.GetFileStatus(r.Context())
	if err != nil {
		s.Logger.Error("list files failed", "error", err)
		httperrors.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, files)
}

// upload потоково принимает multipart-тело; ответ об успехе пишет onFinish.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	socketID := r.URL.Query().Get("socketId")
	log := s.Logger.With("socket_id", socketID)

	sess := uploadsvc.NewSession(uploadsvc.Options{
		SocketID:        socketID,
		Storage:         s.Storage,
		MessageInterval: s.MessageInterval,
		Now:             s.Now,
		Emitter:         s.Emitter,
		Mirror:          s.Mirror,
		Logger:          log,
	})

	onFinish := func() {
		log.Info("Request finished with success!")
		writeJSON(w, http.StatusOK, models.UploadResult{Result: models.UploadSuccessMessage})
	}

	consume, err := sess.RegisterEvents(r.Header, onFinish)
	if err != nil {
		s.fail(w, err)
		return
	}

	log.Info("processing upload")
	if err := consume(r.Context(), r.Body); err != nil {
		s.fail(w, err)
		return
	}
}

// fail закрывает соединение: тело запроса могло остаться недочитанным.
func (s *Server) fail(w http.ResponseWriter, err error) {
	s.Logger.Warn("upload failed", "status", httperrors.Status(err), "error", err)
	w.Header().Set("Connection", "close")
	httperrors.Write(w, err)
}

// writeJSON пишет тело без завершающего перевода строки.
func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
