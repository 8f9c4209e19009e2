package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bithouse/services"
)

// FotoAPI expone la subida, el listado y el borrado de fotos
type FotoAPI struct {
	Fotos *services.FotoService
}

// NewFotoAPI crea un nuevo FotoAPI
func NewFotoAPI(fotos *services.FotoService) *FotoAPI {
	return &FotoAPI{Fotos: fotos}
}

// UploadFotos recibe un lote multipart (campo "fotos") asociado a un
// equipo y una etapa de la reparación
func (api *FotoAPI) UploadFotos(c *gin.Context) {
	equipoIDStr := c.PostForm("equipo_id")
	tipo := c.PostForm("tipo")
	descripcion := c.PostForm("descripcion")

	if equipoIDStr == "" || tipo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campos obligatorios: equipo_id, tipo"})
		return
	}

	equipoID, err := strconv.ParseUint(equipoIDStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "equipo_id inválido"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formulario multipart inválido: " + err.Error()})
		return
	}

	archivos := form.File["fotos"]
	fotos, err := api.Fotos.SubirFotos(uint(equipoID), tipo, descripcion, archivos)
	if err != nil {
		responderError(c, err, "Error al subir fotos")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": strconv.Itoa(len(fotos)) + " foto(s) subida(s) exitosamente",
		"fotos":   fotos,
	})
}

// GetFotosEquipo lista las fotos de un equipo, con filtro opcional por tipo
func (api *FotoAPI) GetFotosEquipo(c *gin.Context) {
	equipoID, ok := parseID(c, "equipoId")
	if !ok {
		return
	}

	fotos, err := api.Fotos.ListarFotos(equipoID, c.Query("tipo"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener fotos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"fotos": fotos})
}

// DeleteFoto elimina el metadato y el archivo físico de una foto
func (api *FotoAPI) DeleteFoto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := api.Fotos.EliminarFoto(id); err != nil {
		responderError(c, err, "Error al eliminar foto")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Foto eliminada exitosamente"})
}
