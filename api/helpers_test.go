package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"bithouse/config"
	"bithouse/models"
	"bithouse/services"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Cliente{},
		&models.Equipo{},
		&models.Diagnostico{},
		&models.Presupuesto{},
		&models.EstadoHistorial{},
		&models.RetiroEntrega{},
		&models.Foto{},
	)
	require.NoError(t, err)

	fotoService, err := services.NewFotoService(db, config.UploadsConfig{
		Dir:         t.TempDir(),
		MaxFileSize: 5 * 1024 * 1024,
		MaxFiles:    10,
	})
	require.NoError(t, err)

	router := gin.New()
	RegisterRoutes(router, db, fotoService)

	return router, db
}

func performRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var respuesta map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &respuesta))
	return respuesta
}

func seedCliente(t *testing.T, db *gorm.DB, nombre, telefono string) models.Cliente {
	cliente := models.Cliente{Nombre: nombre, Telefono: telefono, Activo: true}
	require.NoError(t, db.Create(&cliente).Error)
	return cliente
}

func seedEquipo(t *testing.T, db *gorm.DB, clienteID uint) models.Equipo {
	workflow := services.NewWorkflowService(db)
	equipo := models.Equipo{
		ClienteID:        clienteID,
		Marca:            "Apple",
		Modelo:           "iPhone 13",
		SistemaOperativo: models.SistemaIOS,
		FallaReportada:   "Pantalla rota",
	}
	require.NoError(t, workflow.RegistrarIngreso(&equipo))
	return equipo
}

func seedEquipoEnEstado(t *testing.T, db *gorm.DB, clienteID uint, estado string) models.Equipo {
	equipo := seedEquipo(t, db, clienteID)
	if estado != models.EstadoIngresado {
		workflow := services.NewWorkflowService(db)
		actualizado, err := workflow.CambiarEstado(equipo.ID, estado, "", "")
		require.NoError(t, err)
		return *actualizado
	}
	return equipo
}
