package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"reelcaption/internal/caption"
	"reelcaption/internal/services"
)

// document mirrors the transcript file. Pointer fields let validation tell a
// missing key apart from a zero value.
type document struct {
	Transcription []rawEntry `json:"transcription" validate:"required,dive"`
}

type rawEntry struct {
	StartInSeconds *float64 `json:"startInSeconds" validate:"required,gte=0"`
	Text           *string  `json:"text" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Decode parses and validates a transcript document. Any malformed entry
// rejects the whole transcript.
func Decode(data []byte) ([]caption.Entry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, services.Wrap(services.ErrValidation, "transcript", "decode", "document is empty", nil)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, services.Wrap(services.ErrValidation, "transcript", "decode", "document is not valid transcript JSON", err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, services.Wrap(services.ErrValidation, "transcript", "decode", describeValidation(err), nil)
	}

	entries := make([]caption.Entry, len(doc.Transcription))
	for i, raw := range doc.Transcription {
		entries[i] = caption.Entry{
			StartInSeconds: *raw.StartInSeconds,
			Text:           caption.NormalizeText(*raw.Text),
		}
	}
	if err := caption.Validate(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "document.")
		switch fe.Tag() {
		case "required":
			problems = append(problems, fmt.Sprintf("%s is required", field))
		case "gte":
			problems = append(problems, fmt.Sprintf("%s must be >= %s", field, fe.Param()))
		default:
			problems = append(problems, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(problems, "; ")
}
