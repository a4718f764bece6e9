package gdrivehttp

import (
	"io"
	"net/http"
)

type route int

const (
	routeHello route = iota
	routeOptions
	routeList
	routeUpload
)

func routeFor(method string) route {
	switch method {
	case http.MethodOptions:
		return routeOptions
	case http.MethodGet:
		return routeList
	case http.MethodPost:
		return routeUpload
	default:
		return routeHello
	}
}

// dispatch выбирает обработчик только по методу, путь не важен.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	switch routeFor(r.Method) {
	case routeOptions:
		w.WriteHeader(http.StatusNoContent)
	case routeList:
		s.listFiles(w, r)
	case routeUpload:
		s.upload(w, r)
	case routeHello:
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "Hello world")
	}
}
