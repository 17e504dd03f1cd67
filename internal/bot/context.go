package bot

import (
	"context"
	"log"

	"github.com/crypted-pay/crypted-pay/internal/catalogue"
	"github.com/crypted-pay/crypted-pay/internal/models"
	"github.com/crypted-pay/crypted-pay/internal/triggers"
)

// ScreenContext resolves the render variables and button matrix for one
// screen. Implementations degrade external-service failures to zero values
// instead of failing the turn.
type ScreenContext interface {
	Ctx(ctx context.Context) map[string]any
	Markup(ctx context.Context) [][]models.Button
}

type contextConstructor func(e *Engine, user models.User, chain []string, page int) ScreenContext

// contextRegistry is the closed dispatch table from a ResponseSpec context
// tag to its constructor. Registration stays explicit: no reflection.
var contextRegistry = map[string]contextConstructor{
	catalogue.CtxDefault: func(e *Engine, user models.User, chain []string, page int) ScreenContext {
		return &DefaultContext{}
	},
	catalogue.CtxStart: func(e *Engine, user models.User, chain []string, page int) ScreenContext {
		return &StartContext{engine: e, user: user}
	},
	catalogue.CtxWallet: func(e *Engine, user models.User, chain []string, page int) ScreenContext {
		return &WalletContext{engine: e, user: user}
	},
	catalogue.CtxSettings: func(e *Engine, user models.User, chain []string, page int) ScreenContext {
		return &SettingsContext{engine: e, user: user}
	},
	catalogue.CtxP2P: func(e *Engine, user models.User, chain []string, page int) ScreenContext {
		return &P2PContext{}
	},
	catalogue.CtxStock: func(e *Engine, user models.User, chain []string, page int) ScreenContext {
		return &StockContext{}
	},
	catalogue.CtxCurrencySelect: func(e *Engine, user models.User, chain []string, page int) ScreenContext {
		return &CurrencySelectContext{}
	},
	catalogue.CtxCurrencyStep: func(e *Engine, user models.User, chain []string, page int) ScreenContext {
		return &CurrencyStepContext{engine: e, user: user, chain: chain}
	},
	catalogue.CtxVoucherList: func(e *Engine, user models.User, chain []string, page int) ScreenContext {
		return &VoucherListContext{engine: e, user: user, chain: chain, page: page}
	},
	catalogue.CtxNotFound: func(e *Engine, user models.User, chain []string, page int) ScreenContext {
		return &DefaultContext{}
	},
}

// backRow is the trailing single-button row navigating one breadcrumb up, or
// to the root screen when the chain has a single element.
func backRow(chain []string) []models.Button {
	target := triggers.Start
	if len(chain) >= 2 {
		target = chain[len(chain)-2]
	}
	return []models.Button{{Label: "‹ Назад", Payload: target}}
}

// resolveScreen maps a registered trigger to its rendered text and keyboard.
// Template/context mismatches propagate as errors; everything else degrades.
func (e *Engine) resolveScreen(ctx context.Context, user models.User, chain []string, trigger string, page int) (string, [][]models.Button, error) {
	spec, err := e.Catalogue.Response(ctx, trigger)
	if err != nil {
		log.Printf("No response configured for trigger %q: %v", trigger, err)
		return e.notFoundScreen(ctx, chain)
	}

	construct, ok := contextRegistry[spec.Context]
	if !ok {
		log.Printf("Unknown context tag %q for trigger %q", spec.Context, trigger)
		return e.notFoundScreen(ctx, chain)
	}
	screen := construct(e, user, chain, page)

	templateText, err := e.Catalogue.Template(ctx, spec.TemplateID)
	if err != nil {
		// A spec pointing at a missing template is a configuration defect.
		return "", nil, err
	}

	text, err := e.Renderer.Render(templateText, screen.Ctx(ctx))
	if err != nil {
		return "", nil, err
	}

	// A statically catalogued keyboard takes precedence over context markup.
	if spec.KeyboardID != "" {
		if kb, kbErr := e.Catalogue.Keyboard(ctx, spec.KeyboardID); kbErr == nil {
			return text, kb, nil
		} else {
			log.Printf("Failed to load keyboard %q: %v", spec.KeyboardID, kbErr)
		}
	}

	kb := append(screen.Markup(ctx), backRow(chain))
	return text, kb, nil
}

func (e *Engine) notFoundScreen(ctx context.Context, chain []string) (string, [][]models.Button, error) {
	text := "Ответ не найден"
	if t, err := e.Catalogue.Template(ctx, "not_found"); err == nil {
		if rendered, rErr := e.Renderer.Render(t, map[string]any{}); rErr == nil {
			text = rendered
		}
	}
	return text, [][]models.Button{backRow(chain)}, nil
}
