package main

import (
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tippingcanoe/validator"
	"github.com/tippingcanoe/validator/handler"
	"github.com/tippingcanoe/validator/pkg/logger"
	"github.com/tippingcanoe/validator/request"
)

var errMissingRules = errors.New("rule set not configured")

type user struct {
	ID         string           `json:"id"`
	Attributes validator.Values `json:"attributes"`
}

type avatar struct {
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// userStore keeps users in memory.
type userStore struct {
	mu    sync.RWMutex
	users map[string]validator.Values
}

func newUserStore() *userStore {
	return &userStore{users: make(map[string]validator.Values)}
}

func (s *userStore) create(values validator.Values) user {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = values.Clone()
	return user{ID: id, Attributes: values.Clone()}
}

func (s *userStore) get(id string) (user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	values, ok := s.users[id]
	if !ok {
		return user{}, false
	}
	return user{ID: id, Attributes: values.Clone()}, true
}

// update merges changes into the stored values.
func (s *userStore) update(id string, changes validator.Values) (user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, ok := s.users[id]
	if !ok {
		return user{}, false
	}
	maps.Copy(values, changes)
	return user{ID: id, Attributes: values.Clone()}, true
}

func (a *app) rulesFor(entity string) (validator.Rules, error) {
	rules, ok := a.rules.Get(entity)
	if !ok {
		return nil, errors.Join(errMissingRules, errors.New(entity))
	}
	return rules, nil
}

func (a *app) createUser(r *http.Request) handler.Response {
	ctx := r.Context()
	rules, err := a.rulesFor("user")
	if err != nil {
		return handler.Fail(err, a.log)
	}

	v := a.provider.Make(ctx, rules)
	if err := v.AssertValid(ctx, false); err != nil {
		return handler.Fail(err, a.log)
	}

	u := a.users.create(v.Only(rules.Fields()...))
	a.log.InfoContext(ctx, "user created",
		logger.Component("users"),
		slog.String("user_id", u.ID),
	)
	return handler.JSON(u, handler.WithJSONStatus(http.StatusCreated))
}

func (a *app) getUser(r *http.Request) handler.Response {
	u, ok := a.users.get(chi.URLParam(r, "id"))
	if !ok {
		return handler.Fail(handler.ErrNotFound, a.log)
	}
	return handler.JSON(u)
}

// updateUser applies a partial update: only fields present in the request
// are validated and stored.
func (a *app) updateUser(r *http.Request) handler.Response {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	if _, ok := a.users.get(id); !ok {
		return handler.Fail(handler.ErrNotFound, a.log)
	}

	rules, err := a.rulesFor("user")
	if err != nil {
		return handler.Fail(err, a.log)
	}

	v := a.provider.Make(ctx, rules)
	if err := v.AssertValid(ctx, true); err != nil {
		return handler.Fail(err, a.log)
	}

	u, ok := a.users.update(id, v.Only(v.Rules().Fields()...))
	if !ok {
		return handler.Fail(handler.ErrNotFound, a.log)
	}
	a.log.InfoContext(ctx, "user updated",
		logger.Component("users"),
		slog.String("user_id", id),
		logger.Fields(v.Rules().Fields()),
	)
	return handler.JSON(u)
}

func (a *app) uploadAvatar(r *http.Request) handler.Response {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	if _, ok := a.users.get(id); !ok {
		return handler.Fail(handler.ErrNotFound, a.log)
	}

	rules, err := a.rulesFor("avatar")
	if err != nil {
		return handler.Fail(err, a.log)
	}

	v := a.provider.Make(ctx, rules)
	if err := v.AssertValid(ctx, false); err != nil {
		return handler.Fail(err, a.log)
	}

	var upload *request.FileUpload
	switch f := v.Files()["avatar"].(type) {
	case *request.FileUpload:
		upload = f
	case []*request.FileUpload:
		upload = f[0]
	default:
		msgs := validator.NewMessages()
		msgs.Add("avatar", "The avatar must be a file.")
		return handler.Fail(validator.NewValidationError(msgs), a.log)
	}

	meta := avatar{
		Filename:    upload.Filename,
		Size:        upload.Size,
		ContentType: upload.ContentType(),
	}
	u, _ := a.users.update(id, validator.Values{"avatar": meta})
	return handler.JSON(u)
}
