package shopify

import (
	"stocksnoop/lib/restyutil"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/shopify")

var restyInstrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput enables dumping of raw HTTP exchanges. It may be
// called before or after NewClient.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}

// outputProxy defers to whatever output is configured at write time.
type outputProxy struct{}

func (outputProxy) Write(id string, contents string) {
	if restyInstrumentOutput == nil {
		return
	}
	restyInstrumentOutput.Write(id, contents)
}
