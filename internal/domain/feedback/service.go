package feedback

import (
	"context"
	"net/http"

	"hrmportal/internal/hrapi"
)

const (
	OpList   = "feedback.list"
	OpSubmit = "feedback.submit"
)

type Service struct {
	API hrapi.Caller
}

func NewService(api hrapi.Caller) *Service {
	return &Service{API: api}
}

func (s *Service) List(ctx context.Context, token string) ([]Feedback, error) {
	var out []Feedback
	_, err := s.API.Do(ctx, hrapi.Request{Op: OpList, Method: http.MethodGet, Path: "/feedback", Token: token, Schema: hrapi.SchemaFeedbackList}, &out)
	return out, err
}

func (s *Service) Submit(ctx context.Context, token string, in SubmitInput) (Feedback, error) {
	var out Feedback
	_, err := s.API.Do(ctx, hrapi.Request{Op: OpSubmit, Method: http.MethodPost, Path: "/feedback", Token: token, Body: in, Schema: hrapi.SchemaFeedback}, &out)
	return out, err
}
