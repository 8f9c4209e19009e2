package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bithouse/models"
)

func TestGetDashboard(t *testing.T) {
	router, db := setupTestRouter(t)
	cliente := seedCliente(t, db, "Juan Pérez", "1155550001")
	seedEquipo(t, db, cliente.ID)
	seedEquipo(t, db, cliente.ID)
	seedEquipoEnEstado(t, db, cliente.ID, models.EstadoListo)
	seedEquipoEnEstado(t, db, cliente.ID, models.EstadoEntregado)

	w := performRequest(t, router, "GET", "/api/estados/equipos", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	respuesta := decodeJSON(t, w)

	// Las estadísticas cuentan todos los equipos, entregados incluidos
	estadisticas := respuesta["estadisticas"].([]interface{})
	conteos := make(map[string]float64)
	for _, fila := range estadisticas {
		m := fila.(map[string]interface{})
		conteos[m["estado_actual"].(string)] += m["cantidad"].(float64)
	}
	assert.EqualValues(t, 2, conteos[models.EstadoIngresado])
	assert.EqualValues(t, 1, conteos[models.EstadoListo])
	assert.EqualValues(t, 1, conteos[models.EstadoEntregado])

	// El agrupado excluye los entregados
	agrupados := respuesta["equipos_por_estado"].(map[string]interface{})
	assert.Len(t, agrupados[models.EstadoIngresado], 2)
	assert.Len(t, agrupados[models.EstadoListo], 1)
	assert.NotContains(t, agrupados, models.EstadoEntregado)
}

func TestCreateRetiro(t *testing.T) {
	router, db := setupTestRouter(t)
	cliente := seedCliente(t, db, "Juan Pérez", "1155550001")
	equipo := seedEquipo(t, db, cliente.ID)

	w := performRequest(t, router, "POST", "/api/estados/retiros", gin.H{
		"equipo_id": equipo.ID,
		"direccion": "Calle Falsa 123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var retiro models.RetiroEntrega
	require.NoError(t, db.Where("equipo_id = ?", equipo.ID).First(&retiro).Error)
	assert.Equal(t, models.TipoRetiro, retiro.Tipo)
	assert.Equal(t, models.RetiroEntregaPendiente, retiro.Estado)

	// El retiro no mueve el estado del equipo
	var recargado models.Equipo
	require.NoError(t, db.First(&recargado, equipo.ID).Error)
	assert.Equal(t, models.EstadoIngresado, recargado.EstadoActual)
}

func TestCreateEntregaRequiereListo(t *testing.T) {
	router, db := setupTestRouter(t)
	cliente := seedCliente(t, db, "Juan Pérez", "1155550001")
	equipo := seedEquipo(t, db, cliente.ID)

	w := performRequest(t, router, "POST", "/api/estados/entregas", gin.H{
		"equipo_id": equipo.ID,
		"direccion": "Av. Siempreviva 742",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// La falla no deja nada persistido
	var registros int64
	db.Model(&models.RetiroEntrega{}).Count(&registros)
	assert.Zero(t, registros)

	var historial int64
	db.Model(&models.EstadoHistorial{}).Where("equipo_id = ?", equipo.ID).Count(&historial)
	assert.EqualValues(t, 1, historial) // solo la entrada del ingreso
}

func TestCreateEntregaConEquipoListo(t *testing.T) {
	router, db := setupTestRouter(t)
	cliente := seedCliente(t, db, "Juan Pérez", "1155550001")
	equipo := seedEquipoEnEstado(t, db, cliente.ID, models.EstadoListo)

	w := performRequest(t, router, "POST", "/api/estados/entregas", gin.H{
		"equipo_id": equipo.ID,
		"direccion": "Av. Siempreviva 742",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var recargado models.Equipo
	require.NoError(t, db.First(&recargado, equipo.ID).Error)
	assert.Equal(t, models.EstadoEnCamino, recargado.EstadoActual)
}

func TestGetPendientes(t *testing.T) {
	router, db := setupTestRouter(t)
	cliente := seedCliente(t, db, "Juan Pérez", "1155550001")
	equipoA := seedEquipo(t, db, cliente.ID)
	equipoB := seedEquipoEnEstado(t, db, cliente.ID, models.EstadoListo)

	w := performRequest(t, router, "POST", "/api/estados/retiros", gin.H{
		"equipo_id": equipoA.ID, "direccion": "Calle Falsa 123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(t, router, "POST", "/api/estados/entregas", gin.H{
		"equipo_id": equipoB.ID, "direccion": "Av. Siempreviva 742",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(t, router, "GET", "/api/estados/retiros-entregas/pendientes", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJSON(t, w)["pendientes"], 2)

	w = performRequest(t, router, "GET", "/api/estados/retiros-entregas/pendientes?tipo=entrega", nil)
	pendientes := decodeJSON(t, w)["pendientes"].([]interface{})
	require.Len(t, pendientes, 1)
	assert.Equal(t, models.TipoEntrega, pendientes[0].(map[string]interface{})["tipo"])
}

func TestResolverEntregaRealizada(t *testing.T) {
	router, db := setupTestRouter(t)
	cliente := seedCliente(t, db, "Juan Pérez", "1155550001")
	equipo := seedEquipoEnEstado(t, db, cliente.ID, models.EstadoListo)

	w := performRequest(t, router, "POST", "/api/estados/entregas", gin.H{
		"equipo_id": equipo.ID, "direccion": "Av. Siempreviva 742",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	entregaID := uint(decodeJSON(t, w)["entrega"].(map[string]interface{})["id"].(float64))

	w = performRequest(t, router, "PUT", fmt.Sprintf("/api/estados/retiros-entregas/%d", entregaID), gin.H{
		"estado": "realizado",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Entrega marcado como realizado", decodeJSON(t, w)["message"])

	// El equipo queda entregado con fecha de entrega sellada
	var recargado models.Equipo
	require.NoError(t, db.First(&recargado, equipo.ID).Error)
	assert.Equal(t, models.EstadoEntregado, recargado.EstadoActual)
	assert.NotNil(t, recargado.FechaEntrega)
}

func TestResolverRetiroEntregaValidaciones(t *testing.T) {
	router, db := setupTestRouter(t)
	cliente := seedCliente(t, db, "Juan Pérez", "1155550001")
	equipo := seedEquipo(t, db, cliente.ID)

	w := performRequest(t, router, "POST", "/api/estados/retiros", gin.H{
		"equipo_id": equipo.ID, "direccion": "Calle Falsa 123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	retiroID := uint(decodeJSON(t, w)["retiro"].(map[string]interface{})["id"].(float64))

	w = performRequest(t, router, "PUT", fmt.Sprintf("/api/estados/retiros-entregas/%d", retiroID), gin.H{
		"estado": "pendiente",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(t, router, "PUT", "/api/estados/retiros-entregas/9999", gin.H{
		"estado": "realizado",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
