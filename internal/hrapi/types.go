package hrapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID is a record identifier. The HR API sends either strings or integers.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Decimal is a money or hours amount. Decimal columns arrive as JSON
// strings from some HR API deployments.
type Decimal float64

func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("decimal: %w", err)
		}
		*d = Decimal(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decimal: %w", err)
	}
	*d = Decimal(f)
	return nil
}

func (d Decimal) Float() float64 {
	return float64(d)
}

// Person is the embedded user shape attached to records.
type Person struct {
	ID       ID              `json:"id,omitempty"`
	Name     string          `json:"name,omitempty"`
	Email    string          `json:"email,omitempty"`
	Role     string          `json:"role,omitempty"`
	Employee []EmployeeBrief `json:"Employee,omitempty"`
}

type EmployeeBrief struct {
	Name      string `json:"name,omitempty"`
	RoleTitle string `json:"roleTitle,omitempty"`
}

// DisplayName picks the employee profile name, then the user name, then the
// email.
func (p *Person) DisplayName() string {
	if p == nil {
		return ""
	}
	for _, e := range p.Employee {
		if e.Name != "" {
			return e.Name
		}
	}
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}

// ParseDate reads the date forms the HR API emits: RFC 3339 timestamps and
// plain YYYY-MM-DD dates.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders raw as YYYY-MM-DD, or returns it unchanged when it is
// not a date.
func FormatDate(raw string) string {
	if t, ok := ParseDate(raw); ok {
		return t.UTC().Format("2006-01-02")
	}
	return raw
}
