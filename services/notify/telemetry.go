package notify

import (
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/notify")
