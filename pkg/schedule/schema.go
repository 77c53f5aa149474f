package schedule

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"mariua.net/obras/models"
	"mariua.net/obras/utils"
)

// ErrInvalidSchema is returned when a schema descriptor cannot address a
// table (missing project column, duplicated or negative columns).
var ErrInvalidSchema = errors.New("invalid schedule schema")

// Field names, also used as keys in schema override files.
const (
	FieldForeman                = "encarregado"
	FieldSupervisor             = "supervisor"
	FieldProject                = "projeto"
	FieldClient                 = "cliente"
	FieldLocality               = "localidade"
	FieldCriterion              = "criterio"
	FieldNotes                  = "anotacoes"
	FieldPlannedPoles           = "postesPrevistos"
	FieldStartDate              = "dataInicio"
	FieldDueDate                = "dataTermino"
	FieldWeeklyTag              = "obraSemana"
	FieldDelayReason            = "motivoAtraso"
	FieldDailyActivity          = "atividadeDiaria"
	FieldVoltageScheduleTag     = "programacaoLv"
	FieldTrenchesCompleted      = "cavasRealizadas"
	FieldPolesInstalled         = "postesImplantados"
	FieldLatitude               = "latitude"
	FieldLongitude              = "longitude"
	FieldExpectedClients        = "clientesPrevistos"
	FieldKitProjectRef          = "projetoKit"
	FieldMeterProjectRef        = "projetoMedidor"
	FieldRegionalAgentRef       = "arCoelba"
	FieldPriorVisitDate         = "dataVisitaPrevia"
	FieldVisitObservation       = "observacaoVisita"
	FieldPreClosureAnalysis     = "analisePreFechamento"
	FieldReservationRequestDate = "dataSolicitacaoReserva"
)

const (
	notAvailable         = "N/A"
	defaultDailyActivity = "IMPLANTAÇÃO"
)

// Field binds one named work-order attribute to a column and the coercion
// that writes it.
type Field struct {
	Name   string
	Column int
	Apply  func(o *models.WorkOrder, v any)
}

// Schema is an ordered descriptor of the monthly schedule columns.
type Schema struct {
	Version string
	Fields  []Field

	// SynthesizeMissingProject gives rows with a blank project but some team
	// data a "B-0007" style code instead of dropping them.
	SynthesizeMissingProject bool
}

// Column returns the column index bound to name.
func (s Schema) Column(name string) (int, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Column, true
		}
	}
	return 0, false
}

// Width is the number of columns the schema addresses.
func (s Schema) Width() int {
	w := 0
	for _, f := range s.Fields {
		if f.Column+1 > w {
			w = f.Column + 1
		}
	}
	return w
}

// Validate checks the descriptor can address a table.
func (s Schema) Validate() error {
	if _, ok := s.Column(FieldProject); !ok {
		return fmt.Errorf("%w: no %q column", ErrInvalidSchema, FieldProject)
	}
	seen := make(map[int]string, len(s.Fields))
	for _, f := range s.Fields {
		if f.Column < 0 {
			return fmt.Errorf("%w: field %q has negative column %d", ErrInvalidSchema, f.Name, f.Column)
		}
		if f.Apply == nil {
			return fmt.Errorf("%w: field %q has no coercion", ErrInvalidSchema, f.Name)
		}
		if other, dup := seen[f.Column]; dup {
			return fmt.Errorf("%w: column %d bound to both %q and %q", ErrInvalidSchema, f.Column, other, f.Name)
		}
		seen[f.Column] = f.Name
	}
	return nil
}

// coercions per field; shared by every schema version
var coercions = map[string]func(o *models.WorkOrder, v any){
	FieldForeman:    func(o *models.WorkOrder, v any) { o.Foreman = utils.TextOr(v, notAvailable) },
	FieldSupervisor: func(o *models.WorkOrder, v any) { o.Supervisor = utils.TextOr(v, notAvailable) },
	FieldProject:    func(o *models.WorkOrder, v any) { o.ProjectCode = utils.TextOr(v, "") },
	FieldClient:     func(o *models.WorkOrder, v any) { o.Client = utils.TextOr(v, notAvailable) },
	FieldLocality:   func(o *models.WorkOrder, v any) { o.Locality = utils.TextOr(v, notAvailable) },
	FieldCriterion:  func(o *models.WorkOrder, v any) { o.Criterion = utils.TextOr(v, "") },
	FieldNotes:      func(o *models.WorkOrder, v any) { o.Notes = utils.TextOr(v, "") },
	FieldPlannedPoles: func(o *models.WorkOrder, v any) {
		o.PlannedPoles = utils.ToInt(v)
	},
	FieldStartDate: func(o *models.WorkOrder, v any) { o.StartDate = models.NewLocalDate(utils.ToDate(v)) },
	FieldDueDate: func(o *models.WorkOrder, v any) {
		o.DueDate = models.NewLocalDate(utils.ToDate(v))
		o.Deadline = o.DueDate
	},
	FieldWeeklyTag:          func(o *models.WorkOrder, v any) { o.WeeklyTag = utils.TextOr(v, "") },
	FieldDelayReason:        func(o *models.WorkOrder, v any) { o.DelayReason = utils.TextOr(v, "") },
	FieldDailyActivity:      func(o *models.WorkOrder, v any) { o.DailyActivity = utils.TextOr(v, defaultDailyActivity) },
	FieldVoltageScheduleTag: func(o *models.WorkOrder, v any) { o.VoltageScheduleTag = utils.TextOr(v, "") },
	FieldTrenchesCompleted:  func(o *models.WorkOrder, v any) { o.TrenchesCompleted = utils.ToInt(v) },
	FieldPolesInstalled:     func(o *models.WorkOrder, v any) { o.PolesInstalled = utils.ToInt(v) },
	FieldLatitude:           func(o *models.WorkOrder, v any) { o.Latitude = utils.ToCoordinate(v) },
	FieldLongitude:          func(o *models.WorkOrder, v any) { o.Longitude = utils.ToCoordinate(v) },
	FieldExpectedClients:    func(o *models.WorkOrder, v any) { o.ExpectedClients = utils.ToInt(v) },
	FieldKitProjectRef:      func(o *models.WorkOrder, v any) { o.KitProjectRef = utils.TextOr(v, "") },
	FieldMeterProjectRef:    func(o *models.WorkOrder, v any) { o.MeterProjectRef = utils.TextOr(v, "") },
	FieldRegionalAgentRef:   func(o *models.WorkOrder, v any) { o.RegionalAgentRef = utils.TextOr(v, notAvailable) },
	FieldPriorVisitDate:     func(o *models.WorkOrder, v any) { o.PriorVisitDate = textOrDate(v) },
	FieldVisitObservation:   func(o *models.WorkOrder, v any) { o.VisitObservation = utils.TextOr(v, "") },
	FieldPreClosureAnalysis: func(o *models.WorkOrder, v any) { o.PreClosureAnalysis = utils.TextOr(v, "") },
	FieldReservationRequestDate: func(o *models.WorkOrder, v any) {
		o.ReservationRequestDate = textOrDate(v)
	},
}

// textOrDate keeps pass-through date columns readable when the cell holds a
// serial number instead of text.
func textOrDate(v any) string {
	if f, ok := v.(float64); ok {
		return utils.FormatDateLocal(utils.ToDate(f))
	}
	return utils.TextOr(v, "")
}

// defaults applied before any column is read, so fields missing from a
// schema version still carry their documented default
func applyDefaults(o *models.WorkOrder) {
	for _, name := range []string{
		FieldForeman, FieldSupervisor, FieldClient, FieldLocality,
		FieldDailyActivity, FieldRegionalAgentRef,
	} {
		coercions[name](o, nil)
	}
}

func buildSchema(version string, columns []string) Schema {
	s := Schema{Version: version}
	for i, name := range columns {
		if name == "" {
			continue
		}
		s.Fields = append(s.Fields, Field{Name: name, Column: i, Apply: coercions[name]})
	}
	return s
}

// SchemaV3 is the canonical 26-column layout with the delay-reason column.
func SchemaV3() Schema {
	return buildSchema("v3", []string{
		FieldForeman, FieldSupervisor, FieldProject, FieldClient, FieldLocality,
		FieldCriterion, FieldNotes, FieldPlannedPoles, FieldStartDate, FieldDueDate,
		FieldWeeklyTag, FieldDelayReason, FieldDailyActivity, FieldVoltageScheduleTag,
		FieldTrenchesCompleted, FieldPolesInstalled, FieldLatitude, FieldLongitude,
		FieldExpectedClients, FieldKitProjectRef, FieldMeterProjectRef, FieldRegionalAgentRef,
		FieldPriorVisitDate, FieldVisitObservation, FieldPreClosureAnalysis,
		FieldReservationRequestDate,
	})
}

// SchemaV2 is the 25-column layout used before the daily-activity column
// existed.
//
// Deprecated: kept only to read old monthly files; use SchemaV3.
func SchemaV2() Schema {
	return buildSchema("v2", []string{
		FieldForeman, FieldSupervisor, FieldProject, FieldClient, FieldLocality,
		FieldCriterion, FieldNotes, FieldPlannedPoles, FieldStartDate, FieldDueDate,
		FieldWeeklyTag, FieldDelayReason, FieldVoltageScheduleTag,
		FieldTrenchesCompleted, FieldPolesInstalled, FieldLatitude, FieldLongitude,
		FieldExpectedClients, FieldKitProjectRef, FieldMeterProjectRef, FieldRegionalAgentRef,
		FieldPriorVisitDate, FieldVisitObservation, FieldPreClosureAnalysis,
		FieldReservationRequestDate,
	})
}

// SchemaByVersion returns a built-in descriptor.
func SchemaByVersion(version string) (Schema, error) {
	switch version {
	case "", "v3":
		return SchemaV3(), nil
	case "v2":
		return SchemaV2(), nil
	}
	return Schema{}, fmt.Errorf("%w: unknown version %q", ErrInvalidSchema, version)
}

// schemaFile is the YAML override format:
//
//	base: v3
//	version: nov-2025
//	synthesizeMissingProject: false
//	columns:
//	  latitude: 16
//	  longitude: 17
type schemaFile struct {
	Base                     string         `yaml:"base"`
	Version                  string         `yaml:"version"`
	SynthesizeMissingProject bool           `yaml:"synthesizeMissingProject"`
	Columns                  map[string]int `yaml:"columns"`
}

// LoadSchema reads a YAML override file and applies it over its base
// version. An empty path returns SchemaV3.
func LoadSchema(path string) (Schema, error) {
	if path == "" {
		return SchemaV3(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("read schema file %q: %w", path, err)
	}
	return ParseSchema(data)
}

// ParseSchema decodes a YAML override document.
func ParseSchema(data []byte) (Schema, error) {
	var sf schemaFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return Schema{}, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	s, err := SchemaByVersion(sf.Base)
	if err != nil {
		return Schema{}, err
	}
	if sf.Version != "" {
		s.Version = sf.Version
	}
	s.SynthesizeMissingProject = sf.SynthesizeMissingProject

	for name, col := range sf.Columns {
		apply, known := coercions[name]
		if !known {
			return Schema{}, fmt.Errorf("%w: unknown field %q", ErrInvalidSchema, name)
		}
		found := false
		for i := range s.Fields {
			if s.Fields[i].Name == name {
				s.Fields[i].Column = col
				found = true
			}
		}
		if !found {
			s.Fields = append(s.Fields, Field{Name: name, Column: col, Apply: apply})
		}
	}

	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}
