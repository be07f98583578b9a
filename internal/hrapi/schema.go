package hrapi

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var schemaDocument []byte

// Schema names from openapi.yaml.
const (
	SchemaObject              = "Object"
	SchemaLoginResponse       = "LoginResponse"
	SchemaHRMHandoff          = "HRMHandoff"
	SchemaBonus               = "Bonus"
	SchemaBonusList           = "BonusList"
	SchemaBonusCandidateList  = "BonusCandidateList"
	SchemaBonusStats          = "BonusStats"
	SchemaAnnouncement        = "Announcement"
	SchemaAnnouncementList    = "AnnouncementList"
	SchemaFeedback            = "Feedback"
	SchemaFeedbackList        = "FeedbackList"
	SchemaLeave               = "Leave"
	SchemaLeaveList           = "LeaveList"
	SchemaOvertimeRequest     = "OvertimeRequest"
	SchemaOvertimeRequestList = "OvertimeRequestList"
)

type Schemas struct {
	doc *openapi3.T
}

func LoadSchemas() (*Schemas, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(schemaDocument)
	if err != nil {
		return nil, fmt.Errorf("load response schemas: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate response schemas: %w", err)
	}
	return &Schemas{doc: doc}, nil
}

// Validate checks raw against the named component schema.
func (s *Schemas) Validate(name string, raw []byte) error {
	if s == nil || s.doc == nil {
		return fmt.Errorf("schemas not loaded")
	}
	ref, ok := s.doc.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return fmt.Errorf("unknown schema %q", name)
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return ref.Value.VisitJSON(value)
}
