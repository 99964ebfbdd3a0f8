package handler

import (
	"chronicles/backend/internal/hub"
	"chronicles/backend/internal/mail"
	"chronicles/backend/internal/store"
	"chronicles/backend/internal/translate"
)

// Services are the collaborators the handlers call into.
type Services struct {
	Users        *store.Users
	Posts        *store.Posts
	Translator   translate.Translator
	Mailer       *mail.Sender
	Hub          *hub.Hub
	PostsPerPage int
}

var svc Services

// Init installs the services used by every handler.
func Init(s Services) {
	if s.Hub == nil {
		s.Hub = hub.GlobalHub
	}
	if s.PostsPerPage <= 0 {
		s.PostsPerPage = 3
	}
	svc = s
}
