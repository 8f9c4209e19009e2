package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bithouse/models"
)

// mimeDeArchivo imita el Content-Type que declararía un navegador
func mimeDeArchivo(nombre string) string {
	switch strings.ToLower(filepath.Ext(nombre)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

func performUpload(t *testing.T, router *gin.Engine, campos map[string]string, nombres []string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for campo, valor := range campos {
		require.NoError(t, writer.WriteField(campo, valor))
	}
	for _, nombre := range nombres {
		encabezado := make(textproto.MIMEHeader)
		encabezado.Set("Content-Disposition", fmt.Sprintf(`form-data; name="fotos"; filename="%s"`, nombre))
		encabezado.Set("Content-Type", mimeDeArchivo(nombre))
		parte, err := writer.CreatePart(encabezado)
		require.NoError(t, err)
		_, err = parte.Write([]byte("imagen de prueba"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req, err := http.NewRequest("POST", "/api/fotos", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadFotos(t *testing.T) {
	router, db := setupTestRouter(t)
	cliente := seedCliente(t, db, "Juan Pérez", "1155550001")
	equipo := seedEquipo(t, db, cliente.ID)

	w := performUpload(t, router, map[string]string{
		"equipo_id":   fmt.Sprint(equipo.ID),
		"tipo":        models.FotoIngreso,
		"descripcion": "Estado al ingresar",
	}, []string{"frente.jpg", "dorso.png"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "2 foto(s) subida(s) exitosamente", decodeJSON(t, w)["message"])

	var total int64
	db.Model(&models.Foto{}).Count(&total)
	assert.EqualValues(t, 2, total)
}

func TestUploadFotosValidaciones(t *testing.T) {
	router, db := setupTestRouter(t)
	cliente := seedCliente(t, db, "Juan Pérez", "1155550001")
	equipo := seedEquipo(t, db, cliente.ID)

	muchosNombres := make([]string, 11)
	for i := range muchosNombres {
		muchosNombres[i] = fmt.Sprintf("foto_%d.jpg", i)
	}

	tests := []struct {
		name    string
		campos  map[string]string
		nombres []string
		status  int
	}{
		{
			name:    "Sin equipo_id ni tipo",
			campos:  map[string]string{},
			nombres: []string{"a.jpg"},
			status:  http.StatusBadRequest,
		},
		{
			name:    "Tipo desconocido",
			campos:  map[string]string{"equipo_id": fmt.Sprint(equipo.ID), "tipo": "selfie"},
			nombres: []string{"a.jpg"},
			status:  http.StatusBadRequest,
		},
		{
			name:    "Más de diez archivos",
			campos:  map[string]string{"equipo_id": fmt.Sprint(equipo.ID), "tipo": models.FotoIngreso},
			nombres: muchosNombres,
			status:  http.StatusBadRequest,
		},
		{
			name:    "Extensión no permitida",
			campos:  map[string]string{"equipo_id": fmt.Sprint(equipo.ID), "tipo": models.FotoIngreso},
			nombres: []string{"documento.pdf"},
			status:  http.StatusBadRequest,
		},
		{
			name:    "Equipo inexistente",
			campos:  map[string]string{"equipo_id": "9999", "tipo": models.FotoIngreso},
			nombres: []string{"a.jpg"},
			status:  http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performUpload(t, router, tt.campos, tt.nombres)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	// Ningún rechazo dejó metadatos
	var total int64
	db.Model(&models.Foto{}).Count(&total)
	assert.Zero(t, total)
}

func TestGetFotosEquipo(t *testing.T) {
	router, db := setupTestRouter(t)
	cliente := seedCliente(t, db, "Juan Pérez", "1155550001")
	equipo := seedEquipo(t, db, cliente.ID)

	w := performUpload(t, router, map[string]string{
		"equipo_id": fmt.Sprint(equipo.ID), "tipo": models.FotoIngreso,
	}, []string{"a.jpg", "b.jpg"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performUpload(t, router, map[string]string{
		"equipo_id": fmt.Sprint(equipo.ID), "tipo": models.FotoEntrega,
	}, []string{"c.jpg"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(t, router, "GET", fmt.Sprintf("/api/fotos/equipo/%d", equipo.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJSON(t, w)["fotos"], 3)

	w = performRequest(t, router, "GET", fmt.Sprintf("/api/fotos/equipo/%d?tipo=entrega", equipo.ID), nil)
	assert.Len(t, decodeJSON(t, w)["fotos"], 1)
}

func TestDeleteFoto(t *testing.T) {
	router, db := setupTestRouter(t)
	cliente := seedCliente(t, db, "Juan Pérez", "1155550001")
	equipo := seedEquipo(t, db, cliente.ID)

	w := performUpload(t, router, map[string]string{
		"equipo_id": fmt.Sprint(equipo.ID), "tipo": models.FotoIngreso,
	}, []string{"a.jpg"})
	require.Equal(t, http.StatusCreated, w.Code)

	var foto models.Foto
	require.NoError(t, db.First(&foto).Error)

	w = performRequest(t, router, "DELETE", fmt.Sprintf("/api/fotos/%d", foto.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var total int64
	db.Model(&models.Foto{}).Count(&total)
	assert.Zero(t, total)

	w = performRequest(t, router, "DELETE", fmt.Sprintf("/api/fotos/%d", foto.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
