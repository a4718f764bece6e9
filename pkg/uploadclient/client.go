package uploadclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/yourname/gdrive_lite/internal/models"
	"golang.org/x/sync/errgroup"
)

// FormField: имя поля, под которым уходят файлы.
const FormField = "files"

type Client interface {
	// Upload отправляет файлы одним multipart-запросом, не читая их целиком в память
	Upload(ctx context.Context, socketID string, paths ...string) (models.UploadResult, error)
	// List возвращает снимок каталога на сервере
	List(ctx context.Context) ([]models.StoredFileRecord, error)
}

type Option func(*httpClient)

// WithHTTPClient подменяет http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *httpClient) { h.c = c }
}

// WithProgress включает прогресс-бары; nil отключает их.
func WithProgress(w io.Writer) Option {
	return func(h *httpClient) { h.progress = w }
}

type httpClient struct {
	c        *http.Client
	baseURL  string
	progress io.Writer
}

// New создаёт HTTP-клиент по умолчанию. Прогресс рисуется в stderr.
func New(baseURL string, opts ...Option) Client {
	h := &httpClient{
		c:        &http.Client{},
		baseURL:  strings.TrimRight(baseURL, "/"),
		progress: os.Stderr,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Upload пишет multipart-тело в pipe из отдельной горутины, пока запрос его читает.
func (h *httpClient) Upload(ctx context.Context, socketID string, paths ...string) (models.UploadResult, error) {
	var res models.UploadResult
	if len(paths) == 0 {
		return res, errors.New("no files to upload")
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := h.writeParts(gctx, mw, paths)
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
		return err
	})

	u := h.baseURL + "/?socketId=" + url.QueryEscape(socketID)
	req, err := http.NewRequestWithContext(gctx, http.MethodPost, u, pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		_ = g.Wait()
		return res, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	respErr := h.do(req, &res)
	// разблокируем писателя, если сервер ответил раньше, чем дочитал тело
	_ = pr.CloseWithError(io.ErrClosedPipe)
	writeErr := g.Wait()

	// ошибка чтения файла важнее, чем оборванный из-за неё запрос
	if writeErr != nil && !errors.Is(writeErr, io.ErrClosedPipe) {
		return res, writeErr
	}
	if respErr != nil {
		return res, respErr
	}
	return res, nil
}

func (h *httpClient) writeParts(ctx context.Context, mw *multipart.Writer, paths []string) error {
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.writePart(mw, p); err != nil {
			return err
		}
	}
	return nil
}

func (h *httpClient) writePart(mw *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}

	name := filepath.Base(path)
	part, err := mw.CreateFormFile(FormField, name)
	if err != nil {
		return err
	}

	bar := h.newBar("Uploading "+name, fi.Size())
	if _, err := io.Copy(io.MultiWriter(part, bar), f); err != nil {
		bar.Fail(err)
		return fmt.Errorf("upload %s: %w", name, err)
	}
	bar.Finish()

	return nil
}

// List скачивает снимок каталога.
func (h *httpClient) List(ctx context.Context) ([]models.StoredFileRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/", nil)
	if err != nil {
		return nil, err
	}

	var out []models.StoredFileRecord
	if err := h.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (h *httpClient) do(req *http.Request, v any) error {
	resp, err := h.c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("%s %s failed: %s: %s", req.Method, req.URL.Path, resp.Status, strings.TrimSpace(string(b)))
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
