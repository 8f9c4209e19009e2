package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bithouse/services"
)

// responderError traduce un error de negocio al código HTTP que
// corresponde y contesta con el envelope {"error": "..."}
func responderError(c *gin.Context, err error, mensajeInterno string) {
	switch {
	case errors.Is(err, services.ErrClienteNoEncontrado),
		errors.Is(err, services.ErrEquipoNoEncontrado),
		errors.Is(err, services.ErrPresupuestoNoEncontrado),
		errors.Is(err, services.ErrDiagnosticoNoEncontrado),
		errors.Is(err, services.ErrRetiroEntregaNoEncontrado),
		errors.Is(err, services.ErrFotoNoEncontrada):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEstadoInvalido),
		errors.Is(err, services.ErrSistemaOperativoInvalido),
		errors.Is(err, services.ErrTipoFotoInvalido),
		errors.Is(err, services.ErrDatosInvalidos),
		errors.Is(err, services.ErrClienteConEquipos),
		errors.Is(err, services.ErrEquipoNoListo):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": mensajeInterno})
	}
}

// parseID lee el parámetro :id (o el indicado) de la URL
func parseID(c *gin.Context, nombre string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(nombre), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return 0, false
	}
	return uint(id), true
}

// parsePaginacion lee page y limit con los defaults del sistema
func parsePaginacion(c *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 {
		limit = 50
	}
	return page, limit, (page - 1) * limit
}
