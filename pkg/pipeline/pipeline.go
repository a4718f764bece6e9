// Package pipeline описывает потоковую цепочку source -> stages -> sink.
//
// Каждая стадия является io.Writer, который принимает следующий чанк только после того,
// как его принял нижестоящий writer. Поэтому медленный sink автоматически
// притормаживает чтение из source, а данные не накапливаются в памяти.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ChunkSize: размер буфера, которым Run читает из источника.
const ChunkSize = 32 * 1024

var (
	// ErrSource помечает ошибки чтения из источника.
	ErrSource = errors.New("pipeline source failed")
	// ErrSink помечает ошибки записи в стадии или sink.
	ErrSink = errors.New("pipeline sink failed")
)

// Stage оборачивает нижестоящий writer.
type Stage func(next io.Writer) io.Writer

// Compose собирает стадии слева направо поверх sink: stages[0] получает данные первой.
func Compose(sink io.Writer, stages ...Stage) io.Writer {
	w := sink
	for i := len(stages) - 1; i >= 0; i-- {
		w = stages[i](w)
	}
	return w
}

// Run перекачивает src через стадии в sink и возвращает число принятых байт.
func Run(ctx context.Context, src io.Reader, sink io.Writer, stages ...Stage) (int64, error) {
	w := Compose(sink, stages...)
	buf := make([]byte, ChunkSize)

	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, rerr := src.Read(buf)
		if n > 0 {
			m, werr := w.Write(buf[:n])
			written += int64(m)
			if werr != nil {
				return written, fmt.Errorf("%w: %w", ErrSink, werr)
			}
			if m != n {
				return written, fmt.Errorf("%w: %w", ErrSink, io.ErrShortWrite)
			}
		}

		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, fmt.Errorf("%w: %w", ErrSource, rerr)
		}
	}
}
