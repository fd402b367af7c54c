// Package validation checks configuration and command input before a client
// is built.
//
// Struct tag validation uses go-playground/validator with two extra tags:
// absurl (an absolute http or https URL) and mediatype (a parseable MIME type).
// Field names in messages come from the mapstructure tag so they match the
// config file keys.
//
//	type Config struct {
//	    Endpoint string `mapstructure:"endpoint" validate:"required,absurl"`
//	}
//	err := validation.Validate(cfg)
//
// Programmatic validation collects errors for values that do not live in a
// struct, such as command line flags:
//
//	v := validation.New()
//	v.OneOf("format", format, []string{"json", "xml", "yaml", "raw"})
//	err := v.Validate()
package validation
