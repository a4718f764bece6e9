package models

import "time"

// StoredFileRecord описывает файл в каталоге хранения; строится заново при каждом запросе.
type StoredFileRecord struct {
	File         string    `json:"file"`
	Size         string    `json:"size"`
	Owner        string    `json:"owner"`
	LastModified time.Time `json:"lastModified"`
}
