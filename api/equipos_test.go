package api

import (
	"fmt"
	"net/http"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bithouse/models"
)

func TestCreateEquipo(t *testing.T) {
	router, db := setupTestRouter(t)
	cliente := seedCliente(t, db, "Juan Pérez", "1155550001")

	w := performRequest(t, router, "POST", "/api/equipos", gin.H{
		"cliente_id":        cliente.ID,
		"marca":             "Samsung",
		"modelo":            "Galaxy S21",
		"sistema_operativo": "Android",
		"falla_reportada":   "No carga",
		"accesorios":        []string{"Cargador", "Funda"},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	respuesta := decodeJSON(t, w)
	equipo := respuesta["equipo"].(map[string]interface{})
	assert.Regexp(t, regexp.MustCompile(`^BH-\d{4}-\d{4}$`), equipo["numero_orden"])
	assert.Equal(t, models.EstadoIngresado, equipo["estado_actual"])

	// Los accesorios sobreviven el viaje JSON → tabla → JSON
	var guardado models.Equipo
	require.NoError(t, db.First(&guardado, uint(equipo["id"].(float64))).Error)
	assert.Equal(t, []string{"Cargador", "Funda"}, []string(guardado.Accesorios))
}

func TestCreateEquipoValidaciones(t *testing.T) {
	router, db := setupTestRouter(t)
	cliente := seedCliente(t, db, "Juan Pérez", "1155550001")

	tests := []struct {
		name   string
		body   gin.H
		status int
	}{
		{
			name: "Falta la falla reportada",
			body: gin.H{
				"cliente_id": cliente.ID, "marca": "Apple",
				"modelo": "iPhone 13", "sistema_operativo": "iOS",
			},
			status: http.StatusBadRequest,
		},
		{
			name: "Sistema operativo desconocido",
			body: gin.H{
				"cliente_id": cliente.ID, "marca": "Nokia", "modelo": "3310",
				"sistema_operativo": "Symbian", "falla_reportada": "Pantalla rota",
			},
			status: http.StatusBadRequest,
		},
		{
			name: "Cliente inexistente",
			body: gin.H{
				"cliente_id": 9999, "marca": "Apple", "modelo": "iPhone 13",
				"sistema_operativo": "iOS", "falla_reportada": "No carga",
			},
			status: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(t, router, "POST", "/api/equipos", tt.body)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestGetEquiposConFiltros(t *testing.T) {
	router, db := setupTestRouter(t)
	cliente := seedCliente(t, db, "Juan Pérez", "1155550001")
	seedEquipoEnEstado(t, db, cliente.ID, models.EstadoListo)
	seedEquipo(t, db, cliente.ID)

	w := performRequest(t, router, "GET", "/api/equipos", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJSON(t, w)["equipos"], 2)

	w = performRequest(t, router, "GET", "/api/equipos?estado=listo", nil)
	assert.Len(t, decodeJSON(t, w)["equipos"], 1)

	w = performRequest(t, router, "GET", "/api/equipos?sistema_operativo=Android", nil)
	assert.Empty(t, decodeJSON(t, w)["equipos"])
}

func TestGetEquipoDetalle(t *testing.T) {
	router, db := setupTestRouter(t)
	cliente := seedCliente(t, db, "Juan Pérez", "1155550001")
	equipo := seedEquipoEnEstado(t, db, cliente.ID, models.EstadoListo)

	w := performRequest(t, router, "GET", fmt.Sprintf("/api/equipos/%d", equipo.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	respuesta := decodeJSON(t, w)
	assert.NotNil(t, respuesta["equipo"])
	assert.Nil(t, respuesta["diagnostico"]) // todavía no hay diagnóstico
	assert.Empty(t, respuesta["presupuestos"])
	assert.Len(t, respuesta["historial"], 2)
}

func TestGetEquipoFallaDeConsultaRespondeError(t *testing.T) {
	router, db := setupTestRouter(t)
	cliente := seedCliente(t, db, "Juan Pérez", "1155550001")
	equipo := seedEquipo(t, db, cliente.ID)

	// Si la lectura de presupuestos falla, la respuesta es un error y
	// no un detalle con listas vacías
	require.NoError(t, db.Migrator().DropTable(&models.Presupuesto{}))

	w := performRequest(t, router, "GET", fmt.Sprintf("/api/equipos/%d", equipo.ID), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error al obtener equipo", decodeJSON(t, w)["error"])
}

func TestUpdateEquipo(t *testing.T) {
	router, db := setupTestRouter(t)
	cliente := seedCliente(t, db, "Juan Pérez", "1155550001")
	equipo := seedEquipo(t, db, cliente.ID)

	w := performRequest(t, router, "PUT", fmt.Sprintf("/api/equipos/%d", equipo.ID), gin.H{
		"imei":          "123456789012345",
		"estado_fisico": "Rayones en la tapa",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var actualizado models.Equipo
	require.NoError(t, db.First(&actualizado, equipo.ID).Error)
	assert.Equal(t, "123456789012345", actualizado.IMEI)
	assert.Equal(t, "Rayones en la tapa", actualizado.EstadoFisico)
	// Los campos no enviados quedan como estaban
	assert.Equal(t, "Apple", actualizado.Marca)
	assert.Equal(t, equipo.NumeroOrden, actualizado.NumeroOrden)
}

func TestCambiarEstadoEndpoint(t *testing.T) {
	router, db := setupTestRouter(t)
	cliente := seedCliente(t, db, "Juan Pérez", "1155550001")
	equipo := seedEquipo(t, db, cliente.ID)

	w := performRequest(t, router, "POST", fmt.Sprintf("/api/equipos/%d/cambiar-estado", equipo.ID), gin.H{
		"nuevo_estado":  "en_reparacion",
		"observaciones": "Se aprobó por teléfono",
		"usuario":       "Carlos",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var actualizado models.Equipo
	require.NoError(t, db.First(&actualizado, equipo.ID).Error)
	assert.Equal(t, models.EstadoEnReparacion, actualizado.EstadoActual)
}

func TestCambiarEstadoEndpointInvalido(t *testing.T) {
	router, db := setupTestRouter(t)
	cliente := seedCliente(t, db, "Juan Pérez", "1155550001")
	equipo := seedEquipo(t, db, cliente.ID)

	w := performRequest(t, router, "POST", fmt.Sprintf("/api/equipos/%d/cambiar-estado", equipo.ID), gin.H{
		"nuevo_estado": "perdido",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(t, router, "POST", "/api/equipos/9999/cambiar-estado", gin.H{
		"nuevo_estado": "listo",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetHistorialEndpoint(t *testing.T) {
	router, db := setupTestRouter(t)
	cliente := seedCliente(t, db, "Juan Pérez", "1155550001")
	equipo := seedEquipoEnEstado(t, db, cliente.ID, models.EstadoDiagnostico)

	w := performRequest(t, router, "GET", fmt.Sprintf("/api/equipos/%d/historial", equipo.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	respuesta := decodeJSON(t, w)
	historial := respuesta["historial"].([]interface{})
	require.Len(t, historial, 2)

	// Orden cronológico: primero el ingreso con estado anterior null
	primera := historial[0].(map[string]interface{})
	assert.Nil(t, primera["estado_anterior"])
	assert.Equal(t, models.EstadoIngresado, primera["estado_nuevo"])

	segunda := historial[1].(map[string]interface{})
	assert.Equal(t, models.EstadoIngresado, segunda["estado_anterior"])
	assert.Equal(t, models.EstadoDiagnostico, segunda["estado_nuevo"])

	w = performRequest(t, router, "GET", "/api/equipos/9999/historial", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
