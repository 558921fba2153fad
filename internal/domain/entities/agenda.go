package entities

// AgendaStatus is the lifecycle state of an appointment slot
type AgendaStatus string

const (
	AgendaStatusDisponible AgendaStatus = "DISPONIBLE"
	AgendaStatusOcupado    AgendaStatus = "OCUPADO"
	AgendaStatusCancelado  AgendaStatus = "CANCELADO"
)

// Valid reports whether s is one of the known states.
func (s AgendaStatus) Valid() bool {
	switch s {
	case AgendaStatusDisponible, AgendaStatusOcupado, AgendaStatusCancelado:
		return true
	}
	return false
}

const (
	DefaultNombrePrestador = "No disponible"
	DefaultMnemonico       = "N/A"
)

// Agenda is one bookable slot of a provider on a date and time.
// At most one non-cancelled slot exists per (CodigoPrestador, Fecha, Hora).
type Agenda struct {
	ID              int64        `json:"id_agenda" db:"ID_AGENDA"`
	CodigoPrestador int64        `json:"codigo_prestador" db:"CD_PRESTADOR"`
	Fecha           string       `json:"fecha" db:"FECHA"`
	Hora            string       `json:"hora" db:"HORA"`
	Estado          AgendaStatus `json:"estado" db:"ESTADO"`
	NombrePrestador string       `json:"nombre_prestador" db:"NM_PRESTADOR"`
	Mnemonico       string       `json:"mnemonico" db:"NM_MNEMONICO"`
}

// AgendaInput is the create/update payload. Nil fields were not supplied.
type AgendaInput struct {
	CodigoPrestador *NumericField `json:"codigo_prestador"`
	Fecha           *string       `json:"fecha"`
	Hora            *string       `json:"hora"`
	Estado          *string       `json:"estado"`
}

// AgendaChanges are the validated columns an update writes.
type AgendaChanges struct {
	CodigoPrestador *int64
	Fecha           *string
	Hora            *string
	Estado          *AgendaStatus
}

// Empty reports whether no column would change.
func (c AgendaChanges) Empty() bool {
	return c.CodigoPrestador == nil && c.Fecha == nil && c.Hora == nil && c.Estado == nil
}

// AgendaStats summarises the stored slots.
type AgendaStats struct {
	TotalAgendas      int            `json:"total_agendas"`
	PorEstado         map[string]int `json:"por_estado"`
	PorPrestador      map[string]int `json:"por_prestador"`
	PorFecha          map[string]int `json:"por_fecha"`
	PrestadoresUnicos int            `json:"prestadores_unicos"`
}
