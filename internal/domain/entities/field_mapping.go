package entities

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FieldMapping lists, in priority order, the source keys that may carry one
// logical field of an upstream record.
type FieldMapping []string

// Known upstream key variants per field.
var (
	EspecialidadFields    = FieldMapping{"especialidad", "especialidadNombre", "descripcion_agendamiento", "descripcionEspecialidad", "specialty"}
	CodigoItemFields      = FieldMapping{"codigoItem", "codigo_item", "cd_item_agendamento", "codigoItemAgendamiento", "itemCode"}
	NombreFields          = FieldMapping{"nombre", "nombreMedico", "nm_prestador", "nombrePrestador", "name", "fullName"}
	CodigoPrestadorFields = FieldMapping{"codigoPrestador", "codigo_prestador", "cd_prestador", "providerId", "id"}

	EspecialidadIDFields          = FieldMapping{"especialidadId", "id", "codigo", "code"}
	EspecialidadDescripcionFields = FieldMapping{"descripcion", "nombre", "name", "description"}
	EspecialidadTipoFields        = FieldMapping{"tipo", "type"}
	EspecialidadIconoFields       = FieldMapping{"icono", "icon"}
)

// Lookup returns the first non-empty value among the mapped keys.
func (f FieldMapping) Lookup(record map[string]any) (any, bool) {
	for _, key := range f {
		value, ok := record[key]
		if !ok || isEmptyValue(value) {
			continue
		}
		return value, true
	}
	return nil, false
}

// String returns the first non-empty value rendered as text, or "".
func (f FieldMapping) String(record map[string]any) string {
	value, ok := f.Lookup(record)
	if !ok {
		return ""
	}
	return valueString(value)
}

func isEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	}
	return false
}

func valueString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

// Especialidad returns the specialty name of a remote provider record.
func (m MedicoExterno) Especialidad() string {
	return EspecialidadFields.String(m)
}

// CodigoItem returns the scheduling item code of a remote provider record.
func (m MedicoExterno) CodigoItem() string {
	return CodigoItemFields.String(m)
}

// Nombre returns the display name of a remote provider record.
func (m MedicoExterno) Nombre() string {
	return NombreFields.String(m)
}

// CodigoPrestador returns the provider code of a remote provider record.
func (m MedicoExterno) CodigoPrestador() string {
	return CodigoPrestadorFields.String(m)
}

// NewEspecialidadExterna normalises an upstream specialty object.
func NewEspecialidadExterna(record map[string]any) EspecialidadExterna {
	id, _ := EspecialidadIDFields.Lookup(record)
	tipo, _ := EspecialidadTipoFields.Lookup(record)
	icono, _ := EspecialidadIconoFields.Lookup(record)
	return EspecialidadExterna{
		EspecialidadID: id,
		Descripcion:    EspecialidadDescripcionFields.String(record),
		Tipo:           tipo,
		Icono:          icono,
	}
}
