package models

// CompletionStatus grades how much of a planned task was executed.
type CompletionStatus string

const (
	CompletionNotCompleted CompletionStatus = "Não Concluído"
	CompletionStarted      CompletionStatus = "Iniciado"
	CompletionInProgress   CompletionStatus = "Em Andamento"
	CompletionCompleted    CompletionStatus = "Concluído"
)

// LogEntry is one production-log row after column mapping. ServiceDate keeps
// the raw cell so date matching can tolerate mixed formats.
type LogEntry struct {
	ProjectCode string
	ServiceDate any
	Supervisor  string
	Crew        string
	Activity    string
	Quantity    float64
	FieldReturn string
	Latitude    *float64
	Longitude   *float64
}

// ProductionRecord is the reconciliation of one PlannedTask against the
// production log.
type ProductionRecord struct {
	Date              LocalDate `json:"data"`
	ProjectCode       string    `json:"projeto"`
	Supervisor        string    `json:"supervisor"`
	Foreman           string    `json:"encarregado"`
	Title             string    `json:"titulo"`
	Municipality      string    `json:"municipio"`
	ScheduledActivity string    `json:"atividadeProgramada"`

	TrenchesActual       float64 `json:"cavaReal"`
	TrenchesInRockActual float64 `json:"cavaEmRocha"`
	PolesActual          float64 `json:"posteReal"`
	LayoutActual         float64 `json:"locacao"`
	ResponsibleTeam      string  `json:"responsavel"`
	FieldJustification   string  `json:"justificativa"`
	MatchedEntries       int     `json:"lancamentos"`

	CompletionPercent int              `json:"progresso"`
	CompletionStatus  CompletionStatus `json:"status"`
}
