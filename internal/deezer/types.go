package deezer

// Track is one entry of a Deezer chart.
type Track struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Link    string `json:"link"`
	Preview string `json:"preview"`
	Rank    int    `json:"rank"`
	Artist  Artist `json:"artist"`
	Album   Album  `json:"album"`
}

// Artist is the artist summary embedded in a track.
type Artist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Album is the album summary embedded in a track.
type Album struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Cover       string `json:"cover"`
	CoverSmall  string `json:"cover_small"`
	CoverMedium string `json:"cover_medium"`
	CoverBig    string `json:"cover_big"`
}

// chartResponse is the JSON response for /chart/{genre}.
type chartResponse struct {
	Tracks struct {
		Data  []Track `json:"data"`
		Total int     `json:"total"`
	} `json:"tracks"`
}

// apiError represents a Deezer error envelope. Deezer reports errors with
// HTTP 200 and this body.
type apiError struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}
