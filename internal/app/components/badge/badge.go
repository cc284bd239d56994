package badge

import (
	"html/template"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantSecondary   Variant = "secondary"
	VariantDestructive Variant = "destructive"
	VariantOutline     Variant = "outline"
)

type Props struct {
	ID      string
	Class   string
	Label   string
	Variant Variant
}

const base = "inline-flex items-center rounded-md border px-2.5 py-0.5 text-xs font-semibold transition-colors"

var variantClasses = map[Variant]string{
	VariantDefault:     "border-transparent bg-primary text-primary-foreground",
	VariantSecondary:   "border-transparent bg-secondary text-secondary-foreground",
	VariantDestructive: "border-transparent bg-destructive text-destructive-foreground",
	VariantOutline:     "text-foreground",
}

func Class(variant Variant, extra string) string {
	v, ok := variantClasses[variant]
	if !ok {
		v = variantClasses[VariantDefault]
	}
	return twmerge.Merge(base, v, extra)
}

var tmpl = template.Must(template.New("badge").Parse(
	`<span{{if .ID}} id="{{.ID}}"{{end}} class="{{.Class}}">{{.Label}}</span>`,
))

func Badge(p Props) templ.Component {
	p.Class = Class(p.Variant, p.Class)
	return templ.FromGoHTML(tmpl, p)
}
