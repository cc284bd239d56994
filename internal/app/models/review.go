package models

// Review is a user's score and comment on a game.
type Review struct {
	ID        int64   `json:"id_avaliacao"`
	GameID    int64   `json:"id_jogo"`
	UserID    int64   `json:"id_usuario"`
	Score     float64 `json:"nota"`
	Comment   string  `json:"comentario"`
	CreatedAt string  `json:"dt_avaliacao"`
	UserName  string  `json:"nm_usuario,omitempty"`
	GameName  string  `json:"nm_jogo,omitempty"`
}

type CreateReviewRequest struct {
	GameID  int64   `json:"id_jogo"`
	UserID  int64   `json:"id_usuario"`
	Score   float64 `json:"nota"`
	Comment string  `json:"comentario"`
}

type UpdateReviewRequest struct {
	Score   *float64 `json:"nota,omitempty"`
	Comment *string  `json:"comentario,omitempty"`
}

const (
	MinScore = 0
	MaxScore = 5
)
