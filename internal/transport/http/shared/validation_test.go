package shared

import (
	"errors"
	"strings"
	"testing"
	"time"

	"hrmportal/internal/hrapi"
)

func TestValidatorErr(t *testing.T) {
	v := NewValidator()
	if err := v.Err("leave.apply", "All fields are required"); err != nil {
		t.Fatalf("expected no error without issues, got %v", err)
	}

	v.Required("reason", "  ", "is required")
	v.Enum("type", "vacation", []string{"SICK", "CASUAL"}, "is not a leave type")
	err := v.Err("leave.apply", "All fields are required")
	if !errors.Is(err, hrapi.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := hrapi.UserMessage(err, "Failed to apply"); got != "All fields are required" {
		t.Fatalf("unexpected user message %q", got)
	}
	if !strings.Contains(err.Error(), "reason is required") || !strings.Contains(err.Error(), "type is not a leave type") {
		t.Fatalf("expected issues in error text, got %q", err.Error())
	}
}

func TestValidatorFields(t *testing.T) {
	cases := []struct {
		name  string
		check func(v *Validator)
		bad   bool
	}{
		{name: "enum ignores case", check: func(v *Validator) { v.Enum("type", "sick", []string{"SICK"}, "bad") }},
		{name: "empty enum skipped", check: func(v *Validator) { v.Enum("type", "", []string{"SICK"}, "bad") }},
		{name: "plain date", check: func(v *Validator) { v.Date("date", "2024-06-01") }},
		{name: "bad date", check: func(v *Validator) { v.Date("date", "01/06/2024") }, bad: true},
		{name: "positive", check: func(v *Validator) { v.Positive("hours", "2.5") }},
		{name: "zero hours", check: func(v *Validator) { v.Positive("hours", "0") }, bad: true},
		{name: "text hours", check: func(v *Validator) { v.Positive("hours", "two") }, bad: true},
		{name: "same day", check: func(v *Validator) {
			d := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
			v.DateOrder("startDate", d, "endDate", d)
		}},
		{name: "reversed dates", check: func(v *Validator) {
			v.DateOrder("startDate", time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), "endDate", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
		}, bad: true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			v := NewValidator()
			tc.check(v)
			if v.HasIssues() != tc.bad {
				t.Fatalf("expected issues=%v, got %v", tc.bad, v.issues)
			}
		})
	}
}
