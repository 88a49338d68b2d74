package core

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate checks the note against the metadata contract: a publishable
// note carries exactly one non-empty title and one non-empty layout.
// Tags are free-text labels with no enforced vocabulary, but blank tags
// are rejected. Parsing never calls this: a metadata-less document is a
// valid parse result, just not a publishable note.
func (n Note) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Title, validation.Required.Error("title is required")),
		validation.Field(&n.Layout, validation.Required.Error("layout is required")),
		validation.Field(&n.Tags, validation.By(noBlankTags)),
	)
}

func noBlankTags(value any) error {
	tags, _ := value.([]string)
	for _, t := range tags {
		if strings.TrimSpace(t) == "" {
			return validation.NewError("note.blank_tag", "tags must not be blank")
		}
	}
	return nil
}
