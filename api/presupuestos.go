package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bithouse/models"
	"bithouse/services"
)

// PresupuestoAPI expone las operaciones sobre presupuestos
type PresupuestoAPI struct {
	DB       *gorm.DB
	Workflow *services.WorkflowService
}

// NewPresupuestoAPI crea un nuevo PresupuestoAPI
func NewPresupuestoAPI(db *gorm.DB, workflow *services.WorkflowService) *PresupuestoAPI {
	return &PresupuestoAPI{DB: db, Workflow: workflow}
}

// Los costos son punteros para poder exigir su presencia: cero es un
// costo válido, ausente no
type presupuestoCreateRequest struct {
	EquipoID         uint             `json:"equipo_id"`
	DiagnosticoID    *uint            `json:"diagnostico_id"`
	DetalleRepuestos []string         `json:"detalle_repuestos"`
	CostoRepuestos   *decimal.Decimal `json:"costo_repuestos"`
	CostoManoObra    *decimal.Decimal `json:"costo_mano_obra"`
	Observaciones    string           `json:"observaciones"`
}

type presupuestoEstadoRequest struct {
	Estado        string `json:"estado"`
	Observaciones string `json:"observaciones"`
}

// CreatePresupuesto genera la cotización y pasa el equipo al estado
// "presupuestado"
func (api *PresupuestoAPI) CreatePresupuesto(c *gin.Context) {
	var req presupuestoCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: " + err.Error()})
		return
	}

	if req.EquipoID == 0 || req.CostoRepuestos == nil || req.CostoManoObra == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Campos obligatorios: equipo_id, costo_repuestos, costo_mano_obra",
		})
		return
	}

	presupuesto := models.Presupuesto{
		EquipoID:         req.EquipoID,
		DiagnosticoID:    req.DiagnosticoID,
		DetalleRepuestos: req.DetalleRepuestos,
		CostoRepuestos:   *req.CostoRepuestos,
		CostoManoObra:    *req.CostoManoObra,
		Observaciones:    req.Observaciones,
	}

	if err := api.Workflow.CrearPresupuesto(&presupuesto); err != nil {
		responderError(c, err, "Error al crear presupuesto")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Presupuesto creado exitosamente",
		"presupuesto": presupuesto,
	})
}

// GetPresupuestosEquipo devuelve todos los presupuestos de un equipo,
// del más reciente al más viejo
func (api *PresupuestoAPI) GetPresupuestosEquipo(c *gin.Context) {
	equipoID, ok := parseID(c, "equipoId")
	if !ok {
		return
	}

	var presupuestos []models.Presupuesto
	err := api.DB.Where("equipo_id = ?", equipoID).
		Order("fecha_creacion DESC").
		Find(&presupuestos).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener presupuestos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"presupuestos": presupuestos})
}

// GetPresupuestosPendientes devuelve los presupuestos a la espera de
// respuesta del cliente, con el equipo y el cliente asociados
func (api *PresupuestoAPI) GetPresupuestosPendientes(c *gin.Context) {
	var presupuestos []models.Presupuesto
	err := api.DB.Preload("Equipo.Cliente").
		Where("estado = ?", models.PresupuestoPendiente).
		Order("fecha_creacion DESC").
		Find(&presupuestos).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener presupuestos pendientes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"presupuestos": presupuestos})
}

// CambiarEstadoPresupuesto registra la aceptación o el rechazo
func (api *PresupuestoAPI) CambiarEstadoPresupuesto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req presupuestoEstadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: " + err.Error()})
		return
	}

	if req.Estado != models.PresupuestoAceptado && req.Estado != models.PresupuestoRechazado {
		c.JSON(http.StatusBadRequest, gin.H{"error": `Estado debe ser "aceptado" o "rechazado"`})
		return
	}

	presupuesto, err := api.Workflow.ResponderPresupuesto(id, req.Estado, req.Observaciones)
	if err != nil {
		responderError(c, err, "Error al actualizar estado del presupuesto")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Presupuesto " + req.Estado + " exitosamente",
		"presupuesto": presupuesto,
	})
}
