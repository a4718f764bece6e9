// Package uploadsvc принимает multipart-загрузку и потоково пишет файлы в каталог хранения,
// отправляя в сокет клиента события прогресса.
package uploadsvc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/yourname/gdrive_lite/internal/mirror"
	"github.com/yourname/gdrive_lite/internal/models"
	"github.com/yourname/gdrive_lite/internal/notify"
	"github.com/yourname/gdrive_lite/internal/storage"
	"github.com/yourname/gdrive_lite/pkg/pipeline"
	"github.com/yourname/gdrive_lite/pkg/throttle"
)

// DefaultMessageInterval: минимальный интервал между событиями прогресса.
const DefaultMessageInterval = 200 * time.Millisecond

type Options struct {
	SocketID        string
	Storage         *storage.Dir
	MessageInterval time.Duration
	Now             func() time.Time
	Emitter         notify.Emitter
	Mirror          mirror.Mirror
	Logger          *slog.Logger
}

// Session обслуживает один POST-запрос. Части обрабатываются последовательно
// в горутине запроса, поэтому блокировки не нужны.
type Session struct {
	SocketID string

	storage *storage.Dir
	gate    throttle.Gate
	emitter notify.Emitter
	mirror  mirror.Mirror
	log     *slog.Logger

	// время последнего отправленного события прогресса
	lastEmit time.Time
}

func NewSession(opts Options) *Session {
	if opts.MessageInterval <= 0 {
		opts.MessageInterval = DefaultMessageInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Emitter == nil {
		opts.Emitter = notify.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Session{
		SocketID: opts.SocketID,
		storage:  opts.Storage,
		gate:     throttle.New(opts.MessageInterval, opts.Now),
		emitter:  opts.Emitter,
		mirror:   opts.Mirror,
		log:      opts.Logger,
	}
}

// CanExecute: прошло ли с last не меньше интервала сообщений.
func (s *Session) CanExecute(last time.Time) bool {
	return s.gate.CanExecute(last)
}

// DestinationPath: куда будет записан файл filename.
func (s *Session) DestinationPath(filename string) string {
	return s.storage.Path(filename)
}

// HandleFileBytes возвращает стадию, которая пропускает байты без изменений и
// раз в интервал сообщает, сколько байт файла уже принято.
func (s *Session) HandleFileBytes(filename string) pipeline.Stage {
	return s.handleFileBytes(context.Background(), filename)
}

func (s *Session) handleFileBytes(ctx context.Context, filename string) pipeline.Stage {
	s.lastEmit = s.gate.Now()

	return func(next io.Writer) io.Writer {
		return &progressWriter{
			ctx:      ctx,
			session:  s,
			filename: filename,
			next:     next,
		}
	}
}

type progressWriter struct {
	ctx       context.Context
	session   *Session
	filename  string
	next      io.Writer
	processed int64
}

func (w *progressWriter) Write(p []byte) (int, error) {
	n, err := w.next.Write(p)
	if err != nil {
		return n, err
	}

	w.processed += int64(n)
	s := w.session
	now := s.gate.Now()
	if !s.gate.Due(s.lastEmit, now) {
		return n, nil
	}

	s.lastEmit = now
	s.emit(w.ctx, w.filename, w.processed)

	return n, nil
}

func (s *Session) emit(ctx context.Context, filename string, processed int64) {
	ev := models.ProgressEvent{ProcessedAlready: processed, Filename: filename}
	if err := s.emitter.Emit(ctx, s.SocketID, notify.EventFileUpload, ev); err != nil {
		s.log.Debug("progress event dropped", "socket_id", s.SocketID, "file", filename, "error", err)
	}
	s.log.Info(fmt.Sprintf("File [%s] got %d bytes to %s", filename, processed, s.SocketID),
		"socket_id", s.SocketID, "file", filename, "bytes", processed)
}

// OnFile записывает одну файловую часть. При ошибке частичный файл не остаётся в каталоге.
func (s *Session) OnFile(ctx context.Context, fieldName string, file io.Reader, filename string) error {
	log := s.log.With("socket_id", s.SocketID, "file", filename, "field", fieldName)
	state := partReceiving
	fail := func(err error) error {
		log.Warn("file upload failed", "state", state, "next", partFailed, "error", err)
		return err
	}

	if err := storage.ValidateName(filename); err != nil {
		return fail(err)
	}

	sink, err := s.storage.Create(filename)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", models.ErrStreamWrite, err))
	}
	log.Debug("part state", "state", state, "path", sink.Path())

	n, err := pipeline.Run(ctx, file, sink, s.handleFileBytes(ctx, filename))
	if err != nil {
		_ = sink.Abort()
		if errors.Is(err, pipeline.ErrSink) {
			return fail(fmt.Errorf("%w: %w", models.ErrStreamWrite, err))
		}
		return fail(fmt.Errorf("%w: %w", models.ErrStreamRead, err))
	}

	state = partClosed
	log.Debug("part state", "state", state, "bytes", n)
	if err := sink.Commit(); err != nil {
		return fail(fmt.Errorf("%w: %w", models.ErrStreamWrite, err))
	}

	state = partFlushed
	log.Info(fmt.Sprintf("File [%s] finished processing", filename), "state", state, "bytes", n)

	s.mirrorFile(ctx, log, filename, n)

	return nil
}

func (s *Session) mirrorFile(ctx context.Context, log *slog.Logger, filename string, size int64) {
	if s.mirror == nil {
		return
	}

	f, err := s.storage.Open(filename)
	if err != nil {
		log.Warn("mirror skipped", "error", err)
		return
	}
	defer f.Close()

	if err := s.mirror.Put(ctx, filename, f, size); err != nil {
		log.Warn("mirror failed", "error", err)
	}
}

type partState string

const (
	partReceiving partState = "RECEIVING"
	partClosed    partState = "CLOSED"
	partFlushed   partState = "FLUSHED"
	partFailed    partState = "FAILED"
)
