package domain

// CheckoutPhase is the checkout lifecycle state. Transitions are one-way
// until the widget is up; a creation failure falls back to idle, and a
// ready widget is retired to idle once the provider has redirected the
// buyer to the purchase records.
type CheckoutPhase string

const (
	CheckoutIdle          CheckoutPhase = "idle"
	CheckoutCreating      CheckoutPhase = "creating"
	CheckoutWidgetLoading CheckoutPhase = "widget_loading"
	CheckoutWidgetReady   CheckoutPhase = "widget_ready"
)

var checkoutNext = map[CheckoutPhase]map[CheckoutPhase]bool{
	CheckoutIdle:          {CheckoutCreating: true},
	CheckoutCreating:      {CheckoutWidgetLoading: true, CheckoutIdle: true},
	CheckoutWidgetLoading: {CheckoutWidgetReady: true, CheckoutIdle: true},
	CheckoutWidgetReady:   {CheckoutIdle: true},
}

func CanTransitionCheckout(from, to CheckoutPhase) bool {
	return checkoutNext[from][to]
}
