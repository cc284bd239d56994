package cache

import "strconv"

// Query keys shared by the services so mutations in one service can
// invalidate reads owned by another.
const (
	KeyGames   = "games"
	KeyLists   = "lists"
	KeyReviews = "reviews"
	KeyUsers   = "users"
)

func GameKey(id int64) string        { return "game:" + strconv.FormatInt(id, 10) }
func ListKey(id int64) string        { return "list:" + strconv.FormatInt(id, 10) }
func UserListsKey(id int64) string   { return "lists:user:" + strconv.FormatInt(id, 10) }
func GameReviewsKey(id int64) string { return "reviews:game:" + strconv.FormatInt(id, 10) }
func UserKey(id int64) string        { return "user:" + strconv.FormatInt(id, 10) }

// Prefixes for InvalidatePrefix.
const (
	PrefixList        = "list:"
	PrefixUserLists   = "lists:user:"
	PrefixGameReviews = "reviews:game:"
)
