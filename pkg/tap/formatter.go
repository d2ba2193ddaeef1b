package tap

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sqlscope/bridge/pkg/types"
)

// TemplateFormatter renders an event envelope into one log line using a
// placeholder template, e.g. "{timestamp}\t{kind}\t{payload}".
type TemplateFormatter struct {
	template     string
	placeholders []placeholder
}

type placeholder struct {
	field string
	start int
	end   int
}

// validFields contains all known placeholder names.
var validFields = map[string]bool{
	"timestamp":   true,
	"kind":        true,
	"code":        true,
	"payload":     true,
	"seq":         true,
	"instance_id": true,
}

// NewTemplateFormatter parses and validates the template. Returns an error
// if the template is empty or any placeholder is unknown or unclosed.
func NewTemplateFormatter(template string) (*TemplateFormatter, error) {
	if template == "" {
		return nil, fmt.Errorf("template cannot be empty")
	}

	placeholders, err := parsePlaceholders(template)
	if err != nil {
		return nil, err
	}

	return &TemplateFormatter{
		template:     template,
		placeholders: placeholders,
	}, nil
}

func parsePlaceholders(template string) ([]placeholder, error) {
	var placeholders []placeholder
	i := 0

	for i < len(template) {
		start := strings.Index(template[i:], "{")
		if start == -1 {
			break
		}
		start += i

		end := strings.Index(template[start:], "}")
		if end == -1 {
			return nil, fmt.Errorf("unclosed placeholder at position %d", start)
		}
		end += start

		field := template[start+1 : end]
		if field == "" {
			return nil, fmt.Errorf("empty placeholder at position %d", start)
		}
		if !validFields[field] {
			return nil, fmt.Errorf("unknown placeholder {%s}", field)
		}

		placeholders = append(placeholders, placeholder{
			field: field,
			start: start,
			end:   end + 1,
		})

		i = end + 1
	}

	return placeholders, nil
}

// Template returns the original template string.
func (f *TemplateFormatter) Template() string {
	return f.template
}

// Format renders one envelope using the template.
func (f *TemplateFormatter) Format(env *types.Envelope) string {
	if len(f.placeholders) == 0 {
		return f.template
	}

	result := f.template
	// Replace in reverse order so recorded positions stay valid.
	for i := len(f.placeholders) - 1; i >= 0; i-- {
		p := f.placeholders[i]
		result = result[:p.start] + fieldValue(env, p.field) + result[p.end:]
	}

	return result
}

func fieldValue(env *types.Envelope, field string) string {
	switch field {
	case "timestamp":
		return env.EmittedAt.UTC().Format(time.RFC3339Nano)
	case "kind":
		return env.KindName
	case "code":
		return strconv.Itoa(env.Kind)
	case "payload":
		return env.Payload
	case "seq":
		return strconv.FormatUint(env.Seq, 10)
	case "instance_id":
		return env.InstanceID
	default:
		return "-"
	}
}
