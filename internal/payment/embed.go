// Package payment renders the third-party payment widget embed. The widget
// itself is an opaque external script; this service only parameterizes it
// with the signed values the backend returned for a transaction.
package payment

import (
	"fmt"
	"html/template"
	"strings"

	"storefront/internal/domain"
)

const embedTemplate = `<div id="payment-checkout-button" data-bold-button="dark-L" data-render-mode="embedded" data-api-key="{{.APIKey}}" data-order-id="{{.OrderID}}" data-currency="{{.Currency}}" data-amount="{{.Amount}}" data-integrity-signature="{{.IntegrityHash}}" data-redirection-url="{{.RedirectURL}}"></div>
<script src="{{.ScriptURL}}" async></script>`

type Renderer struct {
	scriptURL   string
	redirectURL string
	tmpl        *template.Template
}

// NewRenderer builds the embed renderer. redirectURL is where the provider
// sends the browser after payment, the purchase-records route of this
// service.
func NewRenderer(scriptURL, redirectURL string) *Renderer {
	return &Renderer{
		scriptURL:   scriptURL,
		redirectURL: redirectURL,
		tmpl:        template.Must(template.New("embed").Parse(embedTemplate)),
	}
}

// Render produces the widget HTML for one transaction. Callers store the
// result in the session, replacing any previous embed, so at most one widget
// instance exists per session.
func (r *Renderer) Render(params domain.PaymentParams) (string, error) {
	data := struct {
		domain.PaymentParams
		RedirectURL string
		ScriptURL   string
	}{
		PaymentParams: params,
		RedirectURL:   r.redirectURL,
		ScriptURL:     r.scriptURL,
	}

	var sb strings.Builder
	if err := r.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render payment embed: %w", err)
	}
	return sb.String(), nil
}
