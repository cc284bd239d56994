package button

import (
	"html/template"
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
	VariantOutline     Variant = "outline"
	VariantSecondary   Variant = "secondary"
	VariantGhost       Variant = "ghost"
	VariantLink        Variant = "link"
)

type Size string

const (
	SizeDefault Size = "default"
	SizeSm      Size = "sm"
	SizeLg      Size = "lg"
	SizeIcon    Size = "icon"
)

type Type string

const (
	TypeButton Type = "button"
	TypeSubmit Type = "submit"
	TypeReset  Type = "reset"
)

type Props struct {
	ID       string
	Class    string
	Href     string
	Label    string
	Variant  Variant
	Size     Size
	Type     Type
	Disabled bool
	// Attributes are extra attributes such as hx-post, already escaped.
	Attributes []template.HTMLAttr
}

const base = "inline-flex items-center justify-center gap-2 whitespace-nowrap rounded-md text-sm font-medium transition-colors focus-visible:outline-none focus-visible:ring-2 focus-visible:ring-ring disabled:pointer-events-none disabled:opacity-50"

var variantClasses = map[Variant]string{
	VariantDefault:     "bg-primary text-primary-foreground hover:bg-primary/90",
	VariantDestructive: "bg-destructive text-destructive-foreground hover:bg-destructive/90",
	VariantOutline:     "border border-input bg-background hover:bg-accent hover:text-accent-foreground",
	VariantSecondary:   "bg-secondary text-secondary-foreground hover:bg-secondary/80",
	VariantGhost:       "hover:bg-accent hover:text-accent-foreground",
	VariantLink:        "text-primary underline-offset-4 hover:underline",
}

var sizeClasses = map[Size]string{
	SizeDefault: "h-9 px-4 py-2",
	SizeSm:      "h-8 rounded-md px-3 text-xs",
	SizeLg:      "h-10 rounded-md px-8",
	SizeIcon:    "h-9 w-9",
}

// Class merges the variant, size and extra classes. Later classes win.
func Class(variant Variant, size Size, extra ...string) string {
	v, ok := variantClasses[variant]
	if !ok {
		v = variantClasses[VariantDefault]
	}
	s, ok := sizeClasses[size]
	if !ok {
		s = sizeClasses[SizeDefault]
	}
	return twmerge.Merge(base, v, s, strings.Join(extra, " "))
}

var tmpl = template.Must(template.New("button").Parse(
	`{{if .Href}}<a{{if .ID}} id="{{.ID}}"{{end}} href="{{.Href}}" class="{{.Class}}"{{range .Attributes}} {{.}}{{end}}>{{.Label}}</a>` +
		`{{else}}<button{{if .ID}} id="{{.ID}}"{{end}} type="{{.Type}}" class="{{.Class}}"{{if .Disabled}} disabled{{end}}{{range .Attributes}} {{.}}{{end}}>{{.Label}}</button>{{end}}`,
))

// Button renders a button, or an anchor styled as one when Href is set.
func Button(props ...Props) templ.Component {
	var p Props
	if len(props) > 0 {
		p = props[0]
	}
	if p.Type == "" {
		p.Type = TypeButton
	}
	p.Class = Class(p.Variant, p.Size, p.Class)
	return templ.FromGoHTML(tmpl, p)
}
