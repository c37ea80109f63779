package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/doeshing/irisform/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return describe(verrs)
		}
		return err
	}
	return validateHistory(cfg.History)
}

func validateHistory(history domain.HistorySettings) error {
	if history.TimestampLayout == "" {
		return nil
	}
	layout := history.TimestampLayout
	// Every field of these two instants differs from the layout reference and from each other.
	first := time.Date(2011, 11, 12, 13, 14, 15, 0, time.UTC).Format(layout)
	second := time.Date(2019, 8, 27, 9, 48, 37, 0, time.UTC).Format(layout)
	if first == layout || first == second {
		return fmt.Errorf("history.timestamp_layout %q contains no time fields", layout)
	}
	return nil
}

func describe(verrs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (got %v)", yamlPath(fe.Namespace()), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// yamlPath turns "Config.Endpoint.URL" into "endpoint.url".
func yamlPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = toSnake(p)
	}
	return strings.Join(parts, ".")
}

func toSnake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
