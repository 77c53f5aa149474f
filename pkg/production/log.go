package production

import (
	"strings"

	"mariua.net/obras/models"
	"mariua.net/obras/utils"
)

// LogColumns positions the production-log fields. -1 means absent.
type LogColumns struct {
	Project     int
	ServiceDate int
	Supervisor  int
	Crew        int
	Activity    int
	Quantity    int
	FieldReturn int
	Latitude    int
	Longitude   int
}

// DefaultLogColumns is used when the header cannot be recognised.
var DefaultLogColumns = LogColumns{
	Project:     0,
	ServiceDate: 1,
	Supervisor:  2,
	Crew:        3,
	Activity:    4,
	Quantity:    5,
	FieldReturn: 6,
	Latitude:    7,
	Longitude:   8,
}

// header aliases, accent-folded; first match wins
var headerAliases = map[string][]string{
	"project":     {"PROJETO", "OBRA", "PROJ"},
	"serviceDate": {"DATA SERVICO", "DATA DO SERVICO", "DATA EXECUCAO", "DATA"},
	"supervisor":  {"SUPERVISOR"},
	"crew":        {"EQUIPE", "ENCARREGADO", "TURMA"},
	"activity":    {"ATIVIDADE", "SERVICO", "DESCRICAO"},
	"quantity":    {"QUANTIDADE", "QTD", "QTDE"},
	"fieldReturn": {"RETORNO", "OBSERVACAO", "OBS", "JUSTIFICATIVA"},
	"latitude":    {"LATITUDE", "LAT"},
	"longitude":   {"LONGITUDE", "LONG", "LNG"},
}

// ColumnsFromHeader resolves columns by header text. Fields whose header is
// not found keep their DefaultLogColumns position unless that position is
// already taken by a recognised header. ok is false when neither the project
// nor the activity header is present.
func ColumnsFromHeader(header models.RawRow) (cols LogColumns, ok bool) {
	folded := make([]string, len(header))
	for i, cell := range header {
		folded[i] = utils.FoldAccents(utils.TextOr(cell, ""))
	}

	taken := map[int]bool{}
	find := func(key string) int {
		for _, alias := range headerAliases[key] {
			for i, h := range folded {
				if taken[i] || h == "" {
					continue
				}
				if h == alias || strings.HasPrefix(h, alias+" ") {
					taken[i] = true
					return i
				}
			}
		}
		return -1
	}

	// more specific headers first so "DATA" does not swallow "DATA SERVICO"
	found := map[string]int{}
	for _, key := range []string{"project", "supervisor", "crew", "activity", "quantity", "fieldReturn", "latitude", "longitude", "serviceDate"} {
		found[key] = find(key)
	}
	if found["project"] < 0 || found["activity"] < 0 {
		return DefaultLogColumns, false
	}

	pick := func(key string, def int) int {
		if found[key] >= 0 {
			return found[key]
		}
		if taken[def] {
			return -1
		}
		return def
	}
	return LogColumns{
		Project:     found["project"],
		ServiceDate: pick("serviceDate", DefaultLogColumns.ServiceDate),
		Supervisor:  pick("supervisor", DefaultLogColumns.Supervisor),
		Crew:        pick("crew", DefaultLogColumns.Crew),
		Activity:    found["activity"],
		Quantity:    pick("quantity", DefaultLogColumns.Quantity),
		FieldReturn: pick("fieldReturn", DefaultLogColumns.FieldReturn),
		Latitude:    pick("latitude", DefaultLogColumns.Latitude),
		Longitude:   pick("longitude", DefaultLogColumns.Longitude),
	}, true
}

// ParseLog maps raw log rows to entries. Rows without a project are dropped.
func ParseLog(rows []models.RawRow, cols LogColumns) []models.LogEntry {
	entries := make([]models.LogEntry, 0, len(rows))
	for _, row := range rows {
		project, ok := utils.CleanText(row.Cell(cols.Project))
		if !ok {
			continue
		}
		entries = append(entries, models.LogEntry{
			ProjectCode: project,
			ServiceDate: row.Cell(cols.ServiceDate),
			Supervisor:  utils.TextOr(row.Cell(cols.Supervisor), ""),
			Crew:        utils.TextOr(row.Cell(cols.Crew), ""),
			Activity:    utils.TextOr(row.Cell(cols.Activity), ""),
			Quantity:    utils.ToNumber(row.Cell(cols.Quantity), 0),
			FieldReturn: utils.TextOr(row.Cell(cols.FieldReturn), ""),
			Latitude:    utils.ToCoordinate(row.Cell(cols.Latitude)),
			Longitude:   utils.ToCoordinate(row.Cell(cols.Longitude)),
		})
	}
	return entries
}
