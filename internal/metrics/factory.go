package metrics

import (
	"fmt"
	"net/http"

	"hrcore/internal/config"
)

// Open builds the recorder selected by cfg.Driver and the handler that
// exposes it. The handler is nil for the none driver.
func Open(cfg config.Metrics) (Recorder, http.Handler, error) {
	switch cfg.Driver {
	case config.MetricsPrometheus, "":
		p := NewPrometheus()
		return p, p.Handler(), nil
	case config.MetricsExpvar:
		e := NewExpvar("")
		return e, e.Handler(), nil
	case config.MetricsNone:
		return Noop{}, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown metrics driver %s", cfg.Driver)
	}
}
