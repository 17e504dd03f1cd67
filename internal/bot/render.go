package bot

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/crypted-pay/crypted-pay/internal/models"
	"github.com/crypted-pay/crypted-pay/pkg/telegram"
)

// Renderer substitutes context variables into catalogue templates. A template
// referencing a variable the context did not supply is an error: that is a
// configuration defect and must fail the turn instead of being masked.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render executes the template text against the supplied variables.
func (r *Renderer) Render(text string, vars map[string]any) (string, error) {
	tmpl, err := template.New("screen").Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

// Markup converts a button matrix to the transport's inline keyboard, nil for
// an empty matrix.
func Markup(rows [][]models.Button) *telegram.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	kb := make([][]telegram.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		line := make([]telegram.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			line = append(line, telegram.InlineKeyboardButton{
				Text:         b.Label,
				CallbackData: b.Payload,
			})
		}
		kb = append(kb, line)
	}
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: kb}
}
