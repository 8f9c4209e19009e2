package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bithouse/models"
	"bithouse/services"
)

// EstadoAPI expone el tablero de estados y la agenda de retiros y
// entregas a domicilio
type EstadoAPI struct {
	DB       *gorm.DB
	Workflow *services.WorkflowService
}

// NewEstadoAPI crea un nuevo EstadoAPI
func NewEstadoAPI(db *gorm.DB, workflow *services.WorkflowService) *EstadoAPI {
	return &EstadoAPI{DB: db, Workflow: workflow}
}

type retiroEntregaCreateRequest struct {
	EquipoID        uint       `json:"equipo_id"`
	Direccion       string     `json:"direccion"`
	FechaProgramada *time.Time `json:"fecha_programada"`
	Observaciones   string     `json:"observaciones"`
}

type retiroEntregaEstadoRequest struct {
	Estado        string `json:"estado"`
	Observaciones string `json:"observaciones"`
}

type conteoEstado struct {
	EstadoActual     string `json:"estado_actual"`
	SistemaOperativo string `json:"sistema_operativo"`
	Cantidad         int64  `json:"cantidad"`
}

// GetDashboard devuelve el conteo de equipos por estado y sistema
// operativo, más los equipos sin entregar agrupados por estado
func (api *EstadoAPI) GetDashboard(c *gin.Context) {
	var estadisticas []conteoEstado
	err := api.DB.Model(&models.Equipo{}).
		Select("estado_actual, sistema_operativo, COUNT(*) as cantidad").
		Group("estado_actual, sistema_operativo").
		Order("estado_actual").
		Scan(&estadisticas).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener dashboard de estados"})
		return
	}

	var equipos []models.Equipo
	err = api.DB.Preload("Cliente").
		Where("estado_actual != ?", models.EstadoEntregado).
		Order("fecha_ingreso DESC").
		Find(&equipos).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener dashboard de estados"})
		return
	}

	agrupados := make(map[string][]models.Equipo)
	for _, equipo := range equipos {
		agrupados[equipo.EstadoActual] = append(agrupados[equipo.EstadoActual], equipo)
	}

	c.JSON(http.StatusOK, gin.H{
		"estadisticas":       estadisticas,
		"equipos_por_estado": agrupados,
	})
}

// CreateRetiro programa el retiro de un equipo a domicilio
func (api *EstadoAPI) CreateRetiro(c *gin.Context) {
	var req retiroEntregaCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: " + err.Error()})
		return
	}

	if req.EquipoID == 0 || req.Direccion == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campos obligatorios: equipo_id, direccion"})
		return
	}

	retiro := models.RetiroEntrega{
		EquipoID:        req.EquipoID,
		Direccion:       req.Direccion,
		FechaProgramada: req.FechaProgramada,
		Observaciones:   req.Observaciones,
	}

	if err := api.Workflow.ProgramarRetiro(&retiro); err != nil {
		responderError(c, err, "Error al programar retiro")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Retiro programado exitosamente",
		"retiro":  retiro,
	})
}

// CreateEntrega programa la entrega a domicilio de un equipo listo
func (api *EstadoAPI) CreateEntrega(c *gin.Context) {
	var req retiroEntregaCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: " + err.Error()})
		return
	}

	if req.EquipoID == 0 || req.Direccion == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campos obligatorios: equipo_id, direccion"})
		return
	}

	entrega := models.RetiroEntrega{
		EquipoID:        req.EquipoID,
		Direccion:       req.Direccion,
		FechaProgramada: req.FechaProgramada,
		Observaciones:   req.Observaciones,
	}

	if err := api.Workflow.ProgramarEntrega(&entrega); err != nil {
		responderError(c, err, "Error al programar entrega")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Entrega programada exitosamente",
		"entrega": entrega,
	})
}

// GetPendientes devuelve los retiros y entregas sin resolver,
// opcionalmente filtrados por tipo
func (api *EstadoAPI) GetPendientes(c *gin.Context) {
	query := api.DB.Preload("Equipo.Cliente").
		Where("estado = ?", models.RetiroEntregaPendiente)
	if tipo := c.Query("tipo"); tipo != "" {
		query = query.Where("tipo = ?", tipo)
	}

	var pendientes []models.RetiroEntrega
	if err := query.Order("fecha_programada ASC").Find(&pendientes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener retiros/entregas pendientes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pendientes": pendientes})
}

// ResolverRetiroEntrega marca un retiro/entrega como realizado o cancelado
func (api *EstadoAPI) ResolverRetiroEntrega(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req retiroEntregaEstadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: " + err.Error()})
		return
	}

	if req.Estado != models.RetiroEntregaRealizado && req.Estado != models.RetiroEntregaCancelado {
		c.JSON(http.StatusBadRequest, gin.H{"error": `Estado debe ser "realizado" o "cancelado"`})
		return
	}

	registro, err := api.Workflow.ResolverRetiroEntrega(id, req.Estado, req.Observaciones)
	if err != nil {
		responderError(c, err, "Error al actualizar retiro/entrega")
		return
	}

	etiqueta := "Retiro"
	if registro.Tipo == models.TipoEntrega {
		etiqueta = "Entrega"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        etiqueta + " marcado como " + req.Estado,
		"retiro_entrega": registro,
	})
}
