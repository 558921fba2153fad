package entities_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agendas-medicas/backend/internal/domain/entities"
)

func TestFieldMapping_FirstNonEmptyWins(t *testing.T) {
	record := entities.MedicoExterno{
		"especialidad":             "",
		"especialidadNombre":       nil,
		"descripcion_agendamiento": "Cardiología",
		"specialty":                "Cardiology",
	}
	assert.Equal(t, "Cardiología", record.Especialidad())
}

func TestFieldMapping_NumbersRenderAsText(t *testing.T) {
	record := entities.MedicoExterno{
		"cd_item_agendamento": json.Number("301"),
		"providerId":          float64(12),
	}
	assert.Equal(t, "301", record.CodigoItem())
	assert.Equal(t, "12", record.CodigoPrestador())
	assert.Equal(t, "", record.Nombre())
}

func TestNewEspecialidadExterna(t *testing.T) {
	esp := entities.NewEspecialidadExterna(map[string]any{
		"code": "CAR",
		"name": "Cardiología",
		"icon": "heart",
	})
	assert.Equal(t, "CAR", esp.EspecialidadID)
	assert.Equal(t, "Cardiología", esp.Descripcion)
	assert.Nil(t, esp.Tipo)
	assert.Equal(t, "heart", esp.Icono)
}
