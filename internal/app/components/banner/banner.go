package banner

import (
	"html/template"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
)

type BannerType string

const (
	BannerSuccess BannerType = "success"
	BannerError   BannerType = "error"
	BannerInfo    BannerType = "info"
)

// BannerProps is a toast-like message rendered into an htmx target.
type BannerProps struct {
	ID          string
	Type        BannerType
	Message     string
	Description string
	Dismissable bool
	// AutoDismiss removes the banner after this many seconds. Zero keeps it.
	AutoDismiss int
	Class       string
}

var typeClasses = map[BannerType]string{
	BannerSuccess: "border-green-500/50 bg-green-50 text-green-900",
	BannerError:   "border-red-500/50 bg-red-50 text-red-900",
	BannerInfo:    "border-blue-500/50 bg-blue-50 text-blue-900",
}

type view struct {
	BannerProps
	Classes string
	Role    string
}

var tmpl = template.Must(template.New("banner").Parse(`<div{{if .ID}} id="{{.ID}}"{{end}} role="{{.Role}}" class="{{.Classes}}" data-banner="{{.Type}}"` +
	`{{if gt .AutoDismiss 0}} data-auto-dismiss="{{.AutoDismiss}}"{{end}}>` +
	`<p class="font-medium">{{.Message}}</p>` +
	`{{if .Description}}<p class="text-sm opacity-90">{{.Description}}</p>{{end}}` +
	`{{if .Dismissable}}<button type="button" class="absolute right-2 top-2 text-sm" aria-label="Fechar" onclick="this.parentElement.remove()">&times;</button>{{end}}` +
	`</div>`))

func Banner(p BannerProps) templ.Component {
	if p.Type == "" {
		p.Type = BannerInfo
	}
	role := "status"
	if p.Type == BannerError {
		role = "alert"
	}
	return templ.FromGoHTML(tmpl, view{
		BannerProps: p,
		Classes:     twmerge.Merge("relative w-full rounded-lg border p-4", typeClasses[p.Type], p.Class),
		Role:        role,
	})
}
