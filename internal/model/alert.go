package model

// DeltaPAlert flags a differential pressure above the configured threshold on
// the most recent reading (proxy for membrane fouling).
type DeltaPAlert struct {
	Fecha   Date    `json:"fecha"`
	DeltaP  float64 `json:"delta_p"`
	Mensaje string  `json:"mensaje"`
}

// StockAlert flags a chemical under the critical stock percentage.
type StockAlert struct {
	Nombre  string  `json:"nombre"`
	Percent float64 `json:"percent"`
	Stock   float64 `json:"stock"`
	Mensaje string  `json:"mensaje"`
}

// AlertReport is the full alert evaluation. It is recomputed on demand and
// never persisted.
type AlertReport struct {
	Stock  []StockAlert  `json:"stock"`
	DeltaP []DeltaPAlert `json:"delta_p"`
}
