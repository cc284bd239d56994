package models

import "github.com/a-h/templ"

type NavItem struct {
	Name string
	URL  string
}

type Navigation struct {
	Items []NavItem
}

type LayoutTempl struct {
	Title     string
	User      *User
	Nav       Navigation
	ActiveNav string
	Content   templ.Component
	Flash     string
}

var MainNav = Navigation{
	Items: []NavItem{
		{Name: "Início", URL: "/"},
		{Name: "Jogos", URL: "/games"},
		{Name: "Listas", URL: "/lists"},
		{Name: "Perfil", URL: "/profile"},
	},
}

var OfflineNav = Navigation{
	Items: []NavItem{
		{Name: "Início", URL: "/"},
		{Name: "Jogos", URL: "/games"},
		{Name: "Listas", URL: "/lists"},
	},
}
