package models

import (
	"io"
	"strings"
	"time"
)

// Game is a catalog entry.
type Game struct {
	ID          int64  `json:"id_jogo"`
	Name        string `json:"nm_jogo"`
	Genre       string `json:"genero"`
	Rating      string `json:"classificacao"`
	ReleaseDate string `json:"dt_jogo"`
	OwnerID     int64  `json:"id_usuario"`
	HasImage    bool   `json:"tem_imagem"`
}

// ReleaseDay returns the release date as YYYY-MM-DD, dropping any time part.
func (g Game) ReleaseDay() string {
	return releaseDay(g.ReleaseDate)
}

// ReleaseYear returns the release year, or 0 when the date is missing or malformed.
func (g Game) ReleaseYear() int {
	return releaseYear(g.ReleaseDate)
}

// GameSummary is the denormalized view of a game embedded in a list.
type GameSummary struct {
	ID          int64  `json:"id_jogo"`
	Name        string `json:"nm_jogo"`
	Genre       string `json:"genero,omitempty"`
	ReleaseDate string `json:"dt_jogo,omitempty"`
	HasImage    bool   `json:"tem_imagem,omitempty"`
}

func (g GameSummary) ReleaseYear() int {
	return releaseYear(g.ReleaseDate)
}

// ImageUpload is an optional cover image sent with a game form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

// GameInput carries the fields of a create or update. Empty strings are left out
// of the request; a nil Image omits the image field entirely.
type GameInput struct {
	Name        string
	Genre       string
	Rating      string
	ReleaseDate string
	Image       *ImageUpload
}

func releaseDay(raw string) string {
	if i := strings.IndexByte(raw, 'T'); i >= 0 {
		return raw[:i]
	}
	return raw
}

func releaseYear(raw string) int {
	day := releaseDay(raw)
	if day == "" {
		return 0
	}
	t, err := time.Parse(time.DateOnly, day)
	if err != nil {
		return 0
	}
	return t.Year()
}
