package entities

// Consultorio is a consulting room
type Consultorio struct {
	Codigo         int64  `json:"codigo_consultorio"`
	Descripcion    string `json:"descripcion_consultorio"`
	CodigoEdificio *int64 `json:"codigo_edificio"`
	CodigoPiso     *int64 `json:"codigo_piso"`
}

// Dia is a weekday of the scheduling calendar
type Dia struct {
	Codigo      int64  `json:"codigo_dia"`
	Descripcion string `json:"descripcion_dia"`
}

// Edificio is a building
type Edificio struct {
	Codigo      int64  `json:"codigo_edificio"`
	Descripcion string `json:"descripcion_edificio"`
}

// Piso is a floor of a building
type Piso struct {
	Codigo         int64  `json:"codigo_piso"`
	CodigoEdificio int64  `json:"codigo_edificio"`
	Descripcion    string `json:"descripcion_piso"`
}
