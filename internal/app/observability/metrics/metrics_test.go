package metrics

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitAppMetrics_QuietWhenInstrumentsRegister(t *testing.T) {
	var handled atomic.Int32
	prev := otel.GetErrorHandler()
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(error) { handled.Add(1) }))
	t.Cleanup(func() { otel.SetErrorHandler(prev) })

	once = sync.Once{}
	appMetrics = nil
	InitAppMetrics()

	assert.Zero(t, handled.Load(), "no error handler call without an error")
	m := Get()
	require.NotNil(t, m)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.TemplateRenderDuration)
}
