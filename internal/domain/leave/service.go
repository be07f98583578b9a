package leave

import (
	"context"
	"net/http"
	"net/url"

	"hrmportal/internal/hrapi"
)

const (
	OpListMine     = "leave.list_mine"
	OpListPending  = "leave.list_pending"
	OpApply        = "leave.apply"
	OpUpdateStatus = "leave.update_status"
)

type Service struct {
	API hrapi.Caller
}

func NewService(api hrapi.Caller) *Service {
	return &Service{API: api}
}

func (s *Service) ListMine(ctx context.Context, token string) ([]Leave, error) {
	var out []Leave
	_, err := s.API.Do(ctx, hrapi.Request{Op: OpListMine, Method: http.MethodGet, Path: "/leaves/my", Token: token, Schema: hrapi.SchemaLeaveList}, &out)
	return out, err
}

func (s *Service) ListPending(ctx context.Context, token string) ([]Leave, error) {
	var out []Leave
	_, err := s.API.Do(ctx, hrapi.Request{Op: OpListPending, Method: http.MethodGet, Path: "/leaves/pending", Token: token, Schema: hrapi.SchemaLeaveList}, &out)
	return out, err
}

func (s *Service) Apply(ctx context.Context, token string, in ApplyInput) (Leave, error) {
	var out Leave
	_, err := s.API.Do(ctx, hrapi.Request{Op: OpApply, Method: http.MethodPost, Path: "/leaves", Token: token, Body: in, Schema: hrapi.SchemaLeave}, &out)
	return out, err
}

func (s *Service) UpdateStatus(ctx context.Context, token, id, status string) error {
	if !IsDecision(status) {
		return hrapi.Invalid(OpUpdateStatus, "Status must be APPROVED or REJECTED")
	}
	_, err := s.API.Do(ctx, hrapi.Request{
		Op:     OpUpdateStatus,
		Method: http.MethodPatch,
		Path:   "/leaves/" + url.PathEscape(id) + "/status",
		Token:  token,
		Body:   statusUpdate{Status: status},
	}, nil)
	return err
}
