package models

import "errors"

var (
	ErrBadContentType       = errors.New("content type is not multipart with a boundary")
	ErrUnsafeFilename       = errors.New("unsafe file name")
	ErrStreamRead           = errors.New("upload stream read failed")
	ErrStreamWrite          = errors.New("upload stream write failed")
	ErrDirectoryUnreadable  = errors.New("storage directory unreadable")
	ErrNotificationDelivery = errors.New("notification not delivered")
)
