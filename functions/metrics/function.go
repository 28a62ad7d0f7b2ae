package metrics

import (
	"net/http"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/dickravison/health-fitness-tracker/pkg/metrics"
)

func init() {
	functions.HTTP("Metrics", Metrics)
}

// Metrics serves the instance's Prometheus registry.
func Metrics(w http.ResponseWriter, r *http.Request) {
	metrics.Handler().ServeHTTP(w, r)
}
