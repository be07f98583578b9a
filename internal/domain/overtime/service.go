package overtime

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"hrmportal/internal/hrapi"
)

const (
	OpListMine     = "overtime.list_mine"
	OpListPending  = "overtime.list_pending"
	OpLog          = "overtime.log"
	OpUpdateStatus = "overtime.update_status"
)

type Service struct {
	API hrapi.Caller
}

func NewService(api hrapi.Caller) *Service {
	return &Service{API: api}
}

func (s *Service) ListMine(ctx context.Context, token string) ([]Request, error) {
	var out []Request
	_, err := s.API.Do(ctx, hrapi.Request{Op: OpListMine, Method: http.MethodGet, Path: "/overtime/my", Token: token, Schema: hrapi.SchemaOvertimeRequestList}, &out)
	return out, err
}

func (s *Service) ListPending(ctx context.Context, token string) ([]Request, error) {
	var out []Request
	_, err := s.API.Do(ctx, hrapi.Request{Op: OpListPending, Method: http.MethodGet, Path: "/overtime/pending", Token: token, Schema: hrapi.SchemaOvertimeRequestList}, &out)
	return out, err
}

func (s *Service) Log(ctx context.Context, token string, in LogInput) (Request, error) {
	if in.Hours <= 0 {
		return Request{}, hrapi.Invalid(OpLog, "Hours must be greater than zero")
	}
	var out Request
	_, err := s.API.Do(ctx, hrapi.Request{Op: OpLog, Method: http.MethodPost, Path: "/overtime", Token: token, Body: in, Schema: hrapi.SchemaOvertimeRequest}, &out)
	return out, err
}

func (s *Service) UpdateStatus(ctx context.Context, token, id string, in StatusInput) error {
	if !IsDecision(in.Status) {
		return hrapi.Invalid(OpUpdateStatus, "Status must be APPROVED or REJECTED")
	}
	in.Remarks = strings.TrimSpace(in.Remarks)
	_, err := s.API.Do(ctx, hrapi.Request{
		Op:     OpUpdateStatus,
		Method: http.MethodPatch,
		Path:   "/overtime/" + url.PathEscape(id) + "/status",
		Token:  token,
		Body:   in,
	}, nil)
	return err
}
