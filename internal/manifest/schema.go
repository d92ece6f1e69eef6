package manifest

import (
	"github.com/invopop/jsonschema"
)

// Schema returns the JSON schema of a workspace manifest: an object whose
// reserved "//" property holds root metadata and whose every other property
// is a Member.
func Schema() *jsonschema.Schema {
	// Fields without omitempty (deps, version, description) come out required.
	r := &jsonschema.Reflector{}
	member := r.Reflect(&Member{})

	s := &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "pupi workspace manifest",
		Type:        "object",
		Properties:  jsonschema.NewProperties(),
		Definitions: member.Definitions,
		AdditionalProperties: &jsonschema.Schema{
			Ref: "#/$defs/Member",
		},
	}
	s.Properties.Set(CoreKey, &jsonschema.Schema{
		Type:        "object",
		Description: "Root-level metadata.",
	})
	return s
}
