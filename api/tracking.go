package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bithouse/models"
)

// TrackingAPI expone la consulta pública de estado por número de
// orden. No pasa por el flujo: es solo lectura.
type TrackingAPI struct {
	DB *gorm.DB
}

// NewTrackingAPI crea un nuevo TrackingAPI
func NewTrackingAPI(db *gorm.DB) *TrackingAPI {
	return &TrackingAPI{DB: db}
}

// GetTracking busca un equipo por número de orden (insensible a
// mayúsculas) y devuelve el resumen, el historial completo y el
// presupuesto vigente no rechazado
func (api *TrackingAPI) GetTracking(c *gin.Context) {
	numeroOrden := strings.ToUpper(c.Param("numeroOrden"))

	var equipo models.Equipo
	err := api.DB.Preload("Cliente").
		Where("numero_orden = ?", numeroOrden).
		First(&equipo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Número de orden no encontrado",
				"message": "Verifique que el número de orden sea correcto",
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al consultar el estado"})
		}
		return
	}

	var historial []models.EstadoHistorial
	err = api.DB.Select("estado_nuevo, observaciones, fecha_cambio").
		Where("equipo_id = ?", equipo.ID).
		Order("fecha_cambio ASC").
		Find(&historial).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al consultar el estado"})
		return
	}

	// El presupuesto que se muestra es el más reciente no rechazado:
	// uno rechazado queda oculto apenas se genera otro
	var presupuesto *models.Presupuesto
	var ultimo models.Presupuesto
	err = api.DB.Where("equipo_id = ? AND estado != ?", equipo.ID, models.PresupuestoRechazado).
		Order("fecha_creacion DESC").
		First(&ultimo).Error
	if err == nil {
		presupuesto = &ultimo
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al consultar el estado"})
		return
	}

	resumen := gin.H{
		"numero_orden":      equipo.NumeroOrden,
		"marca":             equipo.Marca,
		"modelo":            equipo.Modelo,
		"sistema_operativo": equipo.SistemaOperativo,
		"estado_actual":     equipo.EstadoActual,
		"fecha_ingreso":     equipo.FechaIngreso,
		"fecha_entrega":     equipo.FechaEntrega,
	}
	if equipo.Cliente != nil {
		resumen["cliente_nombre"] = equipo.Cliente.Nombre
	}

	c.JSON(http.StatusOK, gin.H{
		"equipo":      resumen,
		"historial":   historial,
		"presupuesto": presupuesto,
	})
}
