package feed

type fixturesResponse struct {
	Data []fixturePayload `json:"data"`
	Meta struct {
		TotalPages int `json:"totalPages"`
	} `json:"meta"`
}

type fixturePayload struct {
	ID       string      `json:"id"`
	Sport    string      `json:"sport"`
	StartsAt string      `json:"startsAt"`
	Venue    string      `json:"venue"`
	BestOf   int         `json:"bestOf"`
	Home     teamPayload `json:"home"`
	Away     teamPayload `json:"away"`
}

type teamPayload struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}
