package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/linuxmatters/atmosplit/internal/audio"
)

// Request describes one run from a source file to per-channel WAV files.
type Request struct {
	Input            string   `validate:"required"`
	Output           string   // base path for outputs; defaults to Input
	Bits             int      `validate:"oneof=16 24 32"`
	Delay            int      // samples, positive pads and negative trims
	Volume           *int     // dB; nil derives gain from dialnorm
	Duration         float64  `validate:"gte=0"` // seconds; 0 keeps the full length
	Layout           string   `validate:"required,layout"`
	ChannelsFilter   []string `validate:"dive,required"`
	KeepIntermediate bool
	NoNumbering      bool
}

// OutputBase is the output path with a .wav extension.
func (r Request) OutputBase() string {
	base := r.Output
	if base == "" {
		base = r.Input
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".wav"
}

// RawPath is the intermediate decode next to the outputs.
func (r Request) RawPath() string {
	return r.stem() + ".raw"
}

// SidecarPath is the metadata file that accompanies RawPath.
func (r Request) SidecarPath() string {
	return r.stem() + ".txt"
}

func (r Request) stem() string {
	base := r.OutputBase()
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ValidationError lists invalid request fields.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	slices.Sort(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("layout", func(fl validator.FieldLevel) bool {
		_, ok := audio.LookupLayout(fl.Field().String())
		return ok
	})
	return v
}

// Validate checks field constraints. It does not touch the filesystem.
func (r Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	ve := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		ve.Fields[fe.Field()] = friendlyMessage(fe)
	}
	return ve
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "layout":
		return fmt.Sprintf("must be one of: %s", strings.Join(audio.LayoutNames(), " "))
	default:
		return "is invalid"
	}
}
