package bonus

import (
	"context"
	"net/http"
	"net/url"

	"hrmportal/internal/hrapi"
)

const (
	OpListMine       = "bonus.list_mine"
	OpListAll        = "bonus.list_all"
	OpListCandidates = "bonus.list_candidates"
	OpStats          = "bonus.stats"
	OpAssign         = "bonus.assign"
	OpApprove        = "bonus.approve"
)

type Service struct {
	API hrapi.Caller
}

func NewService(api hrapi.Caller) *Service {
	return &Service{API: api}
}

func (s *Service) ListMine(ctx context.Context, token string) ([]Bonus, error) {
	var out []Bonus
	_, err := s.API.Do(ctx, hrapi.Request{Op: OpListMine, Method: http.MethodGet, Path: "/bonuses/my", Token: token, Schema: hrapi.SchemaBonusList}, &out)
	return out, err
}

func (s *Service) ListAll(ctx context.Context, token string) ([]Bonus, error) {
	var out []Bonus
	_, err := s.API.Do(ctx, hrapi.Request{Op: OpListAll, Method: http.MethodGet, Path: "/bonuses/all", Token: token, Schema: hrapi.SchemaBonusList}, &out)
	return out, err
}

func (s *Service) ListCandidates(ctx context.Context, token string) ([]Candidate, error) {
	var out []Candidate
	_, err := s.API.Do(ctx, hrapi.Request{Op: OpListCandidates, Method: http.MethodGet, Path: "/bonuses/candidates", Token: token, Schema: hrapi.SchemaBonusCandidateList}, &out)
	return out, err
}

func (s *Service) Stats(ctx context.Context, token string) (Stats, error) {
	var out Stats
	_, err := s.API.Do(ctx, hrapi.Request{Op: OpStats, Method: http.MethodGet, Path: "/bonuses/stats", Token: token, Schema: hrapi.SchemaBonusStats}, &out)
	return out, err
}

func (s *Service) Assign(ctx context.Context, token string, in AssignInput) (Bonus, error) {
	if in.Amount <= 0 {
		return Bonus{}, hrapi.Invalid(OpAssign, "Amount must be greater than zero")
	}
	if !IsType(in.Type) {
		return Bonus{}, hrapi.Invalid(OpAssign, "Unknown bonus type")
	}
	var out Bonus
	_, err := s.API.Do(ctx, hrapi.Request{Op: OpAssign, Method: http.MethodPost, Path: "/bonuses", Token: token, Body: in, Schema: hrapi.SchemaBonus}, &out)
	return out, err
}

func (s *Service) Approve(ctx context.Context, token, id string) error {
	_, err := s.API.Do(ctx, hrapi.Request{
		Op:     OpApprove,
		Method: http.MethodPatch,
		Path:   "/bonuses/" + url.PathEscape(id) + "/approve",
		Token:  token,
	}, nil)
	return err
}
