package event

// BusOption configures a Bus.
type BusOption func(*Bus)

// PanicHandler is called when a handler panics during delivery.
type PanicHandler func(ev Event, subscriptionID string, recovered any)

// ErrorHandler is called when a handler returns an error.
type ErrorHandler func(err *HandlerError)

// WithPanicHandler sets the handler invoked for recovered handler panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(b *Bus) {
		if h != nil {
			b.panicHandler = h
		}
	}
}

// WithErrorHandler sets the handler invoked for handler errors.
func WithErrorHandler(h ErrorHandler) BusOption {
	return func(b *Bus) {
		if h != nil {
			b.errorHandler = h
		}
	}
}
