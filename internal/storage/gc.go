package storage

import (
	"sync"
	"time"
)

// StartGC стартует периодическое удаление брошенных временных файлов.
func (d *Dir) StartGC(ttl time.Duration, every time.Duration) func() {
	if every <= 0 || ttl <= 0 {
		return func() {}
	}

	ticker := time.NewTicker(every)
	stop := make(chan struct{})
	var once sync.Once
	go func() {
		for {
			select {
			case <-ticker.C:
				_, _ = d.SweepOnce(ttl)
			case <-stop:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		once.Do(func() {
			close(stop)
		})
	}
}

// SweepOnce удаляет временные файлы старше ttl и возвращает их количество.
// Такие файлы остаются, если процесс упал посреди загрузки.
func (d *Dir) SweepOnce(ttl time.Duration) (int, error) {
	now := time.Now()
	entries, err := d.fs.Open(d.root)
	if err != nil {
		return 0, err
	}
	infos, err := entries.Readdir(-1)
	_ = entries.Close()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, fi := range infos {
		if fi.IsDir() || !isTemp(fi.Name()) {
			continue
		}
		if now.Sub(fi.ModTime()) < ttl {
			continue
		}
		if err := d.fs.Remove(d.Path(fi.Name())); err == nil {
			removed++
		}
	}

	return removed, nil
}
