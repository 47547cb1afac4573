// Package swagger models the subset of an OpenAPI 2.0 (Swagger) document that
// the compiler reads, and loads such documents from files or URLs.
package swagger

import (
	"strings"

	"github.com/reaper-esi/esi2ddl/internal/ordered"
)

const (
	// TokenParameterRef is the shared parameter reference that denotes a bearer
	// token: operations using it require an authenticated caller.
	TokenParameterRef = "#/parameters/token"

	// CharacterIDParameter is the key of the canonical caller identifier in the
	// shared parameter catalog.
	CharacterIDParameter = "character_id"

	// SuccessResponse is the response code whose schema describes a table.
	SuccessResponse = "200"

	parameterRefPrefix = "#/parameters/"
)

// Document is an API description.
type Document struct {
	Swagger    string                  `json:"swagger" yaml:"swagger"`
	Info       Info                    `json:"info" yaml:"info"`
	BasePath   string                  `json:"basePath,omitempty" yaml:"basePath,omitempty"`
	Paths      *ordered.Map[*PathItem] `json:"paths" yaml:"paths"`
	Parameters map[string]*Parameter   `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Info carries the document metadata copied into the script header and catalog.
type Info struct {
	Title       string `json:"title" yaml:"title"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description" yaml:"description"`
}

// PathItem holds the operations of one path. Only GET is read.
type PathItem struct {
	Get *Operation `json:"get,omitempty" yaml:"get,omitempty"`
}

// Operation is a single GET endpoint.
type Operation struct {
	OperationID string                  `json:"operationId" yaml:"operationId"`
	Summary     string                  `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string                  `json:"description,omitempty" yaml:"description,omitempty"`
	Parameters  []*Parameter            `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Responses   *ordered.Map[*Response] `json:"responses,omitempty" yaml:"responses,omitempty"`

	// RequiredRoles is the x-required-roles extension. nil means the extension
	// is absent; a non-nil empty slice means it is present but lists no role.
	RequiredRoles *[]string `json:"x-required-roles,omitempty" yaml:"x-required-roles,omitempty"`
}

// SuccessSchema returns the schema of the 200 response, or nil.
func (o *Operation) SuccessSchema() *Schema {
	resp, ok := o.Responses.Get(SuccessResponse)
	if !ok || resp == nil {
		return nil
	}
	return resp.Schema
}

// Response is one entry of an operation's responses.
type Response struct {
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Schema      *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Parameter is either an inline parameter or a reference into the document's
// shared parameter catalog.
type Parameter struct {
	Ref         string  `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Name        string  `json:"name,omitempty" yaml:"name,omitempty"`
	In          string  `json:"in,omitempty" yaml:"in,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool    `json:"required,omitempty" yaml:"required,omitempty"`
	Type        string  `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string  `json:"format,omitempty" yaml:"format,omitempty"`
	Items       *Schema `json:"items,omitempty" yaml:"items,omitempty"`
}

// IsRef reports whether the parameter points into the shared catalog.
func (p *Parameter) IsRef() bool {
	return p.Ref != ""
}

// RefName returns the catalog key a reference points to, e.g. "character_id"
// for "#/parameters/character_id".
func (p *Parameter) RefName() string {
	return strings.TrimPrefix(p.Ref, parameterRefPrefix)
}

// IsToken reports whether the parameter is the bearer-token reference.
func (p *Parameter) IsToken() bool {
	return p.Ref == TokenParameterRef
}

// InPath reports whether the parameter is a URL path segment.
func (p *Parameter) InPath() bool {
	return p.In == "path"
}

// Schema is a JSON schema fragment describing a response body.
type Schema struct {
	Ref         string                `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type        string                `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string                `json:"format,omitempty" yaml:"format,omitempty"`
	Title       string                `json:"title,omitempty" yaml:"title,omitempty"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Properties  *ordered.Map[*Schema] `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items       *Schema               `json:"items,omitempty" yaml:"items,omitempty"`
	Required    []string              `json:"required,omitempty" yaml:"required,omitempty"`
}

// IsRequired reports whether the named property is listed in Required.
func (s *Schema) IsRequired(property string) bool {
	for _, r := range s.Required {
		if r == property {
			return true
		}
	}
	return false
}

// Label names the schema in diagnostics.
func (s *Schema) Label() string {
	switch {
	case s.Title != "":
		return s.Title
	case s.Ref != "":
		return s.Ref
	default:
		return "<anonymous>"
	}
}
