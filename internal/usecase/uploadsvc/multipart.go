package uploadsvc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/yourname/gdrive_lite/internal/models"
)

// BodyConsumer читает тело запроса, подготовленное RegisterEvents.
type BodyConsumer func(ctx context.Context, body io.Reader) error

// RegisterEvents разбирает Content-Type и возвращает потребителя тела:
// каждая файловая часть уходит в OnFile, обычные поля формы пропускаются,
// onFinish вызывается один раз после успешного чтения всего тела.
func (s *Session) RegisterEvents(header http.Header, onFinish func()) (BodyConsumer, error) {
	ct := header.Get("Content-Type")
	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", models.ErrBadContentType, ct, err)
	}
	boundary := params["boundary"]
	if !strings.HasPrefix(mediaType, "multipart/") || boundary == "" {
		return nil, fmt.Errorf("%w: %q", models.ErrBadContentType, ct)
	}

	return func(ctx context.Context, body io.Reader) error {
		mr := multipart.NewReader(body, boundary)
		for {
			part, err := mr.NextRawPart()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return fmt.Errorf("%w: %w", models.ErrStreamRead, err)
			}

			filename := partFilename(part)
			if filename == "" {
				// обычное поле формы
				if _, err := io.Copy(io.Discard, part); err != nil {
					_ = part.Close()
					return fmt.Errorf("%w: %w", models.ErrStreamRead, err)
				}
				_ = part.Close()
				continue
			}

			err = s.OnFile(ctx, part.FormName(), part, filename)
			_ = part.Close()
			if err != nil {
				return err
			}
		}

		if onFinish != nil {
			onFinish()
		}
		return nil
	}, nil
}

// partFilename достаёт filename как есть: Part.FileName() обрезает путь до базового имени,
// а небезопасные имена должны доходить до проверки и отклоняться.
func partFilename(p *multipart.Part) string {
	_, params, err := mime.ParseMediaType(p.Header.Get("Content-Disposition"))
	if err != nil {
		return ""
	}
	return params["filename"]
}
