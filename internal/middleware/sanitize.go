package middleware

import (
	"html"
	"strings"
	"unicode"

	"github.com/rbbhati/solar-estimator/internal/model"
)

// SanitizeConfig contains configuration for input sanitization
type SanitizeConfig struct {
	MaxStringLength int  // Maximum allowed string length
	AllowHTML       bool // Whether to allow HTML in strings
}

// DefaultSanitizeConfig returns default sanitization configuration
func DefaultSanitizeConfig() SanitizeConfig {
	return SanitizeConfig{
		MaxStringLength: 10000,
		AllowHTML:       false,
	}
}

// ContactSanitizeConfig é usado nos campos do formulário de orçamento.
// O HTML é escapado pelos templates na renderização, não aqui.
func ContactSanitizeConfig() SanitizeConfig {
	return SanitizeConfig{
		MaxStringLength: 255,
		AllowHTML:       true,
	}
}

// SanitizeString sanitizes a string input by:
// - Removing null bytes and control characters
// - Trimming whitespace
// - Escaping HTML entities (if AllowHTML is false)
// - Truncating to max length
func SanitizeString(input string, config SanitizeConfig) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")
	input = removeControlChars(input)

	// Trim whitespace
	input = strings.TrimSpace(input)

	// Escape HTML if not allowed
	if !config.AllowHTML {
		input = html.EscapeString(input)
	}

	// Truncate to max length, never splitting a rune
	if config.MaxStringLength > 0 && len(input) > config.MaxStringLength {
		input = truncateRunes(input, config.MaxStringLength)
	}

	return input
}

// SanitizeQuoteRequest limpa os campos de contato antes da validação
func SanitizeQuoteRequest(req *model.QuoteRequest) {
	cfg := ContactSanitizeConfig()
	req.Installer = SanitizeString(req.Installer, cfg)
	req.Name = SanitizeString(req.Name, cfg)
	req.Phone = SanitizeString(req.Phone, cfg)
	req.Email = SanitizeString(req.Email, cfg)
	req.Location = SanitizeString(req.Location, cfg)
}

// removeControlChars removes control characters from a string
func removeControlChars(s string) string {
	var result strings.Builder
	for _, r := range s {
		if !unicode.IsControl(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

func truncateRunes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := 0
	for i := range s {
		if i > maxBytes {
			break
		}
		cut = i
	}
	return s[:cut]
}
