package models

// GameList is a user-curated collection of games.
type GameList struct {
	ID         int64         `json:"id_lista"`
	Name       string        `json:"nm_lista"`
	OwnerID    int64         `json:"id_usuario"`
	GameIDs    []int64       `json:"lista_jogos,omitempty"`
	OwnerName  string        `json:"nm_usuario,omitempty"`
	TotalGames int           `json:"total_jogos,omitempty"`
	Games      []GameSummary `json:"jogos,omitempty"`
}

// GameCount prefers the denormalized games, then the backend total, then the id references.
func (l GameList) GameCount() int {
	switch {
	case len(l.Games) > 0:
		return len(l.Games)
	case l.TotalGames > 0:
		return l.TotalGames
	default:
		return len(l.GameIDs)
	}
}

// Contains reports whether gameID is referenced by the list.
func (l GameList) Contains(gameID int64) bool {
	for _, g := range l.Games {
		if g.ID == gameID {
			return true
		}
	}
	for _, id := range l.GameIDs {
		if id == gameID {
			return true
		}
	}
	return false
}

type CreateListRequest struct {
	Name    string  `json:"nm_lista"`
	GameIDs []int64 `json:"lista_jogos"`
}

type UpdateListRequest struct {
	Name    *string `json:"nm_lista,omitempty"`
	GameIDs []int64 `json:"lista_jogos,omitempty"`
}

type AddGameRequest struct {
	GameID int64 `json:"id_jogo"`
}
