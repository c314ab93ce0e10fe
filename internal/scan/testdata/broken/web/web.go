package web

import "example.com/broken/store"

type (
	Session interface {
		ID() string
	}
	Handler struct{}
)

// @provider priority=3
func NewHandler(s *store.Store, session Session) *Handler {
	return &Handler{}
}
