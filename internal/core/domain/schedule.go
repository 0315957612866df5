package domain

// Pairing is a single scheduled game between two registrants.
type Pairing struct {
	Round     int    `json:"round"`
	Player1ID string `json:"player1ID"`
	Player2ID string `json:"player2ID"`
}

// ChunkSchedule is the round robin of one chunk of at most six registrants.
type ChunkSchedule struct {
	Chunk    int       `json:"chunk"`
	Pairings []Pairing `json:"pairings"`
}

// GroupSchedule lists the chunk round robins of one competition group.
// Groups of six or fewer registrants have a single chunk. No cross-chunk
// bracket is produced.
type GroupSchedule struct {
	Group  GroupLabel      `json:"group"`
	Chunks []ChunkSchedule `json:"chunks"`
}

// MatchSchedule is the full derived schedule of a match.
type MatchSchedule struct {
	MatchID string          `json:"matchID"`
	Groups  []GroupSchedule `json:"groups"`
}
