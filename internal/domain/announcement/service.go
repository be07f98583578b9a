package announcement

import (
	"context"
	"net/http"
	"net/url"

	"hrmportal/internal/hrapi"
)

const (
	OpList      = "announcement.list"
	OpCreate    = "announcement.create"
	OpDelete    = "announcement.delete"
	OpSetPinned = "announcement.set_pinned"
)

type Service struct {
	API hrapi.Caller
}

func NewService(api hrapi.Caller) *Service {
	return &Service{API: api}
}

func (s *Service) List(ctx context.Context, token string) ([]Announcement, error) {
	var out []Announcement
	_, err := s.API.Do(ctx, hrapi.Request{Op: OpList, Method: http.MethodGet, Path: "/announcements", Token: token, Schema: hrapi.SchemaAnnouncementList}, &out)
	return out, err
}

func (s *Service) Create(ctx context.Context, token string, in CreateInput) (Announcement, error) {
	if in.TargetAudience == "" {
		in.TargetAudience = AudienceAll
	}
	if !IsAudience(in.TargetAudience) {
		return Announcement{}, hrapi.Invalid(OpCreate, "Unknown target audience")
	}
	var out Announcement
	_, err := s.API.Do(ctx, hrapi.Request{Op: OpCreate, Method: http.MethodPost, Path: "/announcements", Token: token, Body: in, Schema: hrapi.SchemaAnnouncement}, &out)
	return out, err
}

func (s *Service) Delete(ctx context.Context, token, id string) error {
	_, err := s.API.Do(ctx, hrapi.Request{Op: OpDelete, Method: http.MethodDelete, Path: "/announcements/" + url.PathEscape(id), Token: token}, nil)
	return err
}

func (s *Service) SetPinned(ctx context.Context, token, id string, pinned bool) error {
	_, err := s.API.Do(ctx, hrapi.Request{
		Op:     OpSetPinned,
		Method: http.MethodPatch,
		Path:   "/announcements/" + url.PathEscape(id) + "/pin",
		Token:  token,
		Body:   pinUpdate{IsPinned: pinned},
	}, nil)
	return err
}
