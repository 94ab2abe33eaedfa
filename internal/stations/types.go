package stations

type StationInfo struct {
	Name       string `json:"name"` // graph key, "<line> - <station>"
	Station    string `json:"station"`
	Line       string `json:"line"`
	Departures int    `json:"departures"`
}
