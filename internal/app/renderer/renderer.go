package renderer

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin/render"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-checkpoint/internal/app/observability/metrics"
)

// HTMLTemplRenderer lets c.HTML render templ components and falls back to the
// gin renderer for anything else.
type HTMLTemplRenderer struct {
	FallbackHTMLRenderer render.HTMLRender
}

func (r *HTMLTemplRenderer) Instance(s string, d any) render.Render {
	templData, ok := d.(templ.Component)
	if !ok {
		if r.FallbackHTMLRenderer != nil {
			return r.FallbackHTMLRenderer.Instance(s, d)
		}
	}
	return &Renderer{
		Ctx:       context.Background(),
		Status:    -1,
		Component: templData,
		Name:      s,
	}
}

const renderFailedBody = `<p role="alert">Não foi possível exibir esta página.</p>`

type Renderer struct {
	Ctx       context.Context
	Status    int
	Component templ.Component
	Name      string
}

// Render buffers the component so a failing template yields a 500 instead of
// a committed status with a truncated body.
func (t Renderer) Render(w http.ResponseWriter) error {
	t.WriteContentType(w)
	if t.Component == nil {
		t.writeStatus(w)
		return nil
	}

	var buf bytes.Buffer
	start := time.Now()
	err := t.Component.Render(t.Ctx, &buf)
	metrics.Get().TemplateRenderDuration.Record(t.Ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("template", t.Name), attribute.Bool("error", err != nil)))
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, renderFailedBody)
		return err
	}

	t.writeStatus(w)
	_, err = buf.WriteTo(w)
	return err
}

func (t Renderer) writeStatus(w http.ResponseWriter) {
	if t.Status != -1 {
		w.WriteHeader(t.Status)
	}
}

func (t Renderer) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}
