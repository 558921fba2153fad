package entities

// Medico is a provider offering one scheduling item, read from the DBAMV
// catalogue. A provider with several items appears once per item.
type Medico struct {
	CodigoPrestador         int64  `json:"codigo_prestador"`
	NombrePrestador         string `json:"nombre_prestador"`
	Mnemonico               string `json:"mnemonico"`
	CodigoItemAgendamiento  int64  `json:"codigo_item_agendamiento"`
	DescripcionAgendamiento string `json:"descripcion_agendamiento"`
}

// Especialidad is a scheduling item as stored in ITEM_AGENDAMENTO.
type Especialidad struct {
	Codigo int64  `json:"codigo_especialidad"`
	Nombre string `json:"nombre_especialidad"`
}

// EspecialidadExterna is a specialty returned by the provider API, normalised.
type EspecialidadExterna struct {
	EspecialidadID any    `json:"especialidadId"`
	Descripcion    string `json:"descripcion"`
	Tipo           any    `json:"tipo"`
	Icono          any    `json:"icono"`
}

// MedicoExterno is a provider record from the remote API. Its schema is not
// stable, so it is kept as decoded JSON and read through a field mapping.
type MedicoExterno map[string]any

// MedicoFilter narrows a provider lookup. Zero values mean no filter.
type MedicoFilter struct {
	Especialidad string
	CodigoItem   int64
	Nombre       string
}

// MedicoStats summarises a provider list.
type MedicoStats struct {
	TotalMedicos              int            `json:"total_medicos"`
	TotalEspecialidades       int            `json:"total_especialidades"`
	TotalCombinaciones        int            `json:"total_combinaciones"`
	MedicosPorEspecialidad    map[string]int `json:"medicos_por_especialidad"`
	EspecialidadesDisponibles []string       `json:"especialidades_disponibles"`
}
