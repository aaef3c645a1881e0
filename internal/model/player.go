package model

type Player struct {
	ID    string
	Color Color
}

type ClientPlayer struct {
	ID       string `json:"name"`
	Color    Color  `json:"color"`
	TimeLeft int    `json:"timeLeft"`
}

// MatchFoundEvent is sent to a queued player when matchmaking pairs them.
type MatchFoundEvent struct {
	GameID string `json:"gameId"`
	Color  Color  `json:"color"`
}
