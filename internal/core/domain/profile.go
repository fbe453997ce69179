package domain

import (
	"fmt"
	"strings"
	"time"
)

// DataElement is one extractable/redactable field an operator configured
// for a document type, e.g. "Account Number" with aliases ["acct no"].
type DataElement struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Aliases     []string `json:"aliases,omitempty"`
	Redact      bool     `json:"redact"`
	Required    bool     `json:"required,omitempty"`
}

// SubTypeRule scopes additional data elements to a document sub-type.
type SubTypeRule struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Elements    []DataElement `json:"elements,omitempty"`
}

// DocTypeProfile is the operator-maintained configuration for one document
// type: its sub-types and the data elements to extract and redact.
type DocTypeProfile struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Elements    []DataElement `json:"elements,omitempty"`
	SubTypes    []SubTypeRule `json:"sub_types,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Validate enforces profile invariants before persistence.
func (p *DocTypeProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return WrapError(ErrInvalidInput, "validate profile", fmt.Errorf("profile name is empty"))
	}
	if err := validateElements(p.Elements, "profile "+p.Name); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(p.SubTypes))
	for _, st := range p.SubTypes {
		name := strings.ToLower(strings.TrimSpace(st.Name))
		if name == "" {
			return WrapError(ErrInvalidInput, "validate profile", fmt.Errorf("sub-type name is empty in profile %s", p.Name))
		}
		if _, dup := seen[name]; dup {
			return WrapError(ErrInvalidInput, "validate profile", fmt.Errorf("duplicate sub-type %q in profile %s", st.Name, p.Name))
		}
		seen[name] = struct{}{}
		if err := validateElements(st.Elements, fmt.Sprintf("sub-type %s of profile %s", st.Name, p.Name)); err != nil {
			return err
		}
	}
	return nil
}

func validateElements(elements []DataElement, scope string) error {
	seen := make(map[string]struct{}, len(elements))
	for _, el := range elements {
		name := strings.ToLower(strings.TrimSpace(el.Name))
		if name == "" {
			return WrapError(ErrInvalidInput, "validate elements", fmt.Errorf("data element with empty name in %s", scope))
		}
		if _, dup := seen[name]; dup {
			return WrapError(ErrInvalidInput, "validate elements", fmt.Errorf("duplicate data element %q in %s", el.Name, scope))
		}
		seen[name] = struct{}{}
	}
	return nil
}

// ElementsFor returns the effective data elements for a sub-type: the
// profile-level elements plus the sub-type's own. Unknown sub-type names
// fall back to the profile-level elements only.
func (p *DocTypeProfile) ElementsFor(subType string) []DataElement {
	out := make([]DataElement, 0, len(p.Elements))
	out = append(out, p.Elements...)
	want := strings.ToLower(strings.TrimSpace(subType))
	if want == "" {
		return out
	}
	for _, st := range p.SubTypes {
		if strings.ToLower(strings.TrimSpace(st.Name)) == want {
			out = append(out, st.Elements...)
			break
		}
	}
	return out
}

// SubTypeNames lists configured sub-type names in declaration order.
func (p *DocTypeProfile) SubTypeNames() []string {
	names := make([]string, 0, len(p.SubTypes))
	for _, st := range p.SubTypes {
		names = append(names, st.Name)
	}
	return names
}
