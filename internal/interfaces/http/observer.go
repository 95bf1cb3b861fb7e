package http

// Observer métricas que registran los handlers. Lo implementa *metrics.Metrics.
type Observer interface {
	ObserveOrder(result string)
	ObserveValidation(valid bool)
}

type nopObserver struct{}

func (nopObserver) ObserveOrder(string)    {}
func (nopObserver) ObserveValidation(bool) {}

func orNop(o Observer) Observer {
	if o == nil {
		return nopObserver{}
	}
	return o
}
