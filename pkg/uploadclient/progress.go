package uploadclient

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

const progressRenderPeriod = 120 * time.Millisecond

// progressBar: тонкая обёртка над progressbar; нулевой указатель ничего не рисует.
type progressBar struct {
	bar *progressbar.ProgressBar
}

func (h *httpClient) newBar(prefix string, total int64) *progressBar {
	if h.progress == nil {
		return nil
	}

	return &progressBar{bar: progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(h.progress),
		progressbar.OptionSetDescription(prefix),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(32),
		progressbar.OptionThrottle(progressRenderPeriod),
		progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(h.progress, "\n") }),
	)}
}

func (p *progressBar) Write(b []byte) (int, error) {
	if p == nil {
		return len(b), nil
	}
	return p.bar.Write(b)
}

func (p *progressBar) Finish() {
	if p == nil {
		return
	}
	_ = p.bar.Finish()
}

func (p *progressBar) Fail(err error) {
	if p == nil {
		return
	}
	p.bar.Describe("failed: " + err.Error())
	_ = p.bar.Exit()
}
