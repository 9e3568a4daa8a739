package models

import "time"

// Script types
const (
	ScriptTypeDiscovery    = "discovery"
	ScriptTypePresentation = "presentation"
	ScriptTypeObjection    = "objection"
	ScriptTypeClosing      = "closing"
)

// SalesScript is a templated call/presentation script. Placeholders in
// the content use the [VARIABLE] form listed in Variables.
type SalesScript struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Content       string    `json:"content"`
	Variables     []string  `json:"variables"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Usage         int       `json:"usage"`
	Effectiveness int       `json:"effectiveness"`
	AIGenerated   bool      `json:"aiGenerated"`
}

// ScriptPatch holds partial updates for a sales script
type ScriptPatch struct {
	Name          *string   `json:"name,omitempty" validate:"omitempty,min=2"`
	Type          *string   `json:"type,omitempty" validate:"omitempty,oneof=discovery presentation objection closing"`
	Content       *string   `json:"content,omitempty"`
	Variables     *[]string `json:"variables,omitempty"`
	IsActive      *bool     `json:"isActive,omitempty"`
	Usage         *int      `json:"usage,omitempty" validate:"omitempty,min=0"`
	Effectiveness *int      `json:"effectiveness,omitempty" validate:"omitempty,min=0,max=100"`
	AIGenerated   *bool     `json:"aiGenerated,omitempty"`
}

// Apply merges the patch into the script
func (p ScriptPatch) Apply(s *SalesScript) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Type != nil {
		s.Type = *p.Type
	}
	if p.Content != nil {
		s.Content = *p.Content
	}
	if p.Variables != nil {
		s.Variables = *p.Variables
	}
	if p.IsActive != nil {
		s.IsActive = *p.IsActive
	}
	if p.Usage != nil {
		s.Usage = *p.Usage
	}
	if p.Effectiveness != nil {
		s.Effectiveness = *p.Effectiveness
	}
	if p.AIGenerated != nil {
		s.AIGenerated = *p.AIGenerated
	}
}
