package models

// RawRow is one spreadsheet row as read from a workbook. Cells are string,
// float64, bool, time.Time or nil.
type RawRow []any

// Cell returns the value at column i, or nil when the row is shorter.
func (r RawRow) Cell(i int) any {
	if i < 0 || i >= len(r) {
		return nil
	}
	return r[i]
}

// Status is the lifecycle state derived for a work order.
type Status string

const (
	StatusEnergized  Status = "Energizada"
	StatusExpired    Status = "Vencida"
	StatusCompleted  Status = "Concluída"
	StatusScheduled  Status = "Programada"
	StatusInProgress Status = "Em Andamento"
)

// AllStatuses lists statuses in dashboard order.
var AllStatuses = []Status{
	StatusInProgress,
	StatusScheduled,
	StatusExpired,
	StatusCompleted,
	StatusEnergized,
}

// WorkOrder ("obra") is one normalized row of the monthly schedule.
type WorkOrder struct {
	ID int `json:"id"`

	Foreman    string `json:"encarregado"`
	Supervisor string `json:"supervisor"`

	ProjectCode string `json:"projeto"`
	Client      string `json:"cliente"`
	Locality    string `json:"localidade"`
	Criterion   string `json:"criterio"`
	Notes       string `json:"anotacoes"`

	PlannedPoles       int       `json:"postesPrevistos"`
	StartDate          LocalDate `json:"dataInicio"`
	DueDate            LocalDate `json:"dataTermino"`
	Deadline           LocalDate `json:"prazo"` // same as DueDate, kept for older clients
	WeeklyTag          string    `json:"obraSemana"`
	DelayReason        string    `json:"motivoAtraso"`
	DailyActivity      string    `json:"atividadeDiaria"`
	VoltageScheduleTag string    `json:"programacaoLv"`

	TrenchesCompleted int `json:"cavasRealizadas"`
	PolesInstalled    int `json:"postesImplantados"`

	Latitude            *float64 `json:"latitude"`
	Longitude           *float64 `json:"longitude"`
	HasValidCoordinates bool     `json:"hasCoordinates"`

	ExpectedClients        int    `json:"clientesPrevistos"`
	KitProjectRef          string `json:"projetoKit"`
	MeterProjectRef        string `json:"projetoMedidor"`
	RegionalAgentRef       string `json:"arCoelba"`
	PriorVisitDate         string `json:"dataVisitaPrevia"`
	VisitObservation       string `json:"observacaoVisita"`
	PreClosureAnalysis     string `json:"analisePreFechamento"`
	ReservationRequestDate string `json:"dataSolicitacaoReserva"`

	ProgressPercent int    `json:"progresso"`
	IsEnergized     bool   `json:"isEnergizada"`
	Status          Status `json:"status"`
}
