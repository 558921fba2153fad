package entities

// AgndAgenda is a weekly schedule block in EDITOR_CUSTOM.AGND_AGENDA.
// HoraInicio and HoraFin use the "YYYY-MM-DD HH:MM" layout.
type AgndAgenda struct {
	Codigo                 int64  `json:"codigo_agenda"`
	CodigoConsultorio      int64  `json:"codigo_consultorio"`
	CodigoPrestador        int64  `json:"codigo_prestador"`
	CodigoItemAgendamiento int64  `json:"codigo_item_agendamiento"`
	CodigoDia              int64  `json:"codigo_dia"`
	HoraInicio             string `json:"hora_inicio"`
	HoraFin                string `json:"hora_fin"`
	Tipo                   string `json:"tipo"`
}

// AgndAgendaInput is the create/update payload. Nil fields were not supplied.
type AgndAgendaInput struct {
	CodigoConsultorio      *NumericField `json:"codigo_consultorio"`
	CodigoPrestador        *NumericField `json:"codigo_prestador"`
	CodigoItemAgendamiento *NumericField `json:"codigo_item_agendamiento"`
	CodigoDia              *NumericField `json:"codigo_dia"`
	HoraInicio             *string       `json:"hora_inicio"`
	HoraFin                *string       `json:"hora_fin"`
	Tipo                   *string       `json:"tipo"`
}

// AgndAgendaChanges are the validated columns an update writes.
type AgndAgendaChanges struct {
	CodigoConsultorio      *int64
	CodigoPrestador        *int64
	CodigoItemAgendamiento *int64
	CodigoDia              *int64
	HoraInicio             *string
	HoraFin                *string
	Tipo                   *string
}

// Empty reports whether no column would change.
func (c AgndAgendaChanges) Empty() bool {
	return c.CodigoConsultorio == nil && c.CodigoPrestador == nil &&
		c.CodigoItemAgendamiento == nil && c.CodigoDia == nil &&
		c.HoraInicio == nil && c.HoraFin == nil && c.Tipo == nil
}
