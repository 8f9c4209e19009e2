package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bithouse/models"
	"bithouse/services"
)

// EquipoAPI expone el alta, la consulta y las transiciones de estado
// de los equipos
type EquipoAPI struct {
	DB       *gorm.DB
	Workflow *services.WorkflowService
}

// NewEquipoAPI crea un nuevo EquipoAPI
func NewEquipoAPI(db *gorm.DB, workflow *services.WorkflowService) *EquipoAPI {
	return &EquipoAPI{DB: db, Workflow: workflow}
}

type equipoCreateRequest struct {
	ClienteID        uint     `json:"cliente_id"`
	Marca            string   `json:"marca"`
	Modelo           string   `json:"modelo"`
	SistemaOperativo string   `json:"sistema_operativo"`
	IMEI             string   `json:"imei"`
	FallaReportada   string   `json:"falla_reportada"`
	EstadoFisico     string   `json:"estado_fisico"`
	Accesorios       []string `json:"accesorios"`
	ICloudStatus     string   `json:"icloud_status"`
	BiometriaTipo    string   `json:"biometria_tipo"`
}

// Campos editables después del alta. Punteros para distinguir "no
// enviado" de "enviado vacío"; numero_orden y estado_actual nunca se
// tocan por esta vía.
type equipoUpdateRequest struct {
	Marca          *string   `json:"marca"`
	Modelo         *string   `json:"modelo"`
	IMEI           *string   `json:"imei"`
	FallaReportada *string   `json:"falla_reportada"`
	EstadoFisico   *string   `json:"estado_fisico"`
	Accesorios     *[]string `json:"accesorios"`
	ICloudStatus   *string   `json:"icloud_status"`
	BiometriaTipo  *string   `json:"biometria_tipo"`
}

type cambiarEstadoRequest struct {
	NuevoEstado   string `json:"nuevo_estado"`
	Observaciones string `json:"observaciones"`
	Usuario       string `json:"usuario"`
}

// GetEquipos devuelve los equipos con su cliente, filtrables por
// estado y sistema operativo
func (api *EquipoAPI) GetEquipos(c *gin.Context) {
	_, limit, offset := parsePaginacion(c)

	query := api.DB.Model(&models.Equipo{}).Preload("Cliente")
	if estado := c.Query("estado"); estado != "" {
		query = query.Where("estado_actual = ?", estado)
	}
	if so := c.Query("sistema_operativo"); so != "" {
		query = query.Where("sistema_operativo = ?", so)
	}

	var equipos []models.Equipo
	if err := query.Order("fecha_ingreso DESC").Limit(limit).Offset(offset).Find(&equipos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener equipos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"equipos": equipos})
}

// GetEquipo devuelve un equipo con su cliente, el último diagnóstico,
// todos los presupuestos y el historial completo
func (api *EquipoAPI) GetEquipo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var equipo models.Equipo
	if err := api.DB.Preload("Cliente").First(&equipo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipo no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener equipo"})
		}
		return
	}

	// El diagnóstico más reciente es el vigente
	var diagnostico *models.Diagnostico
	var ultimo models.Diagnostico
	err := api.DB.Where("equipo_id = ?", id).Order("fecha_diagnostico DESC").First(&ultimo).Error
	if err == nil {
		diagnostico = &ultimo
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener equipo"})
		return
	}

	var presupuestos []models.Presupuesto
	if err := api.DB.Where("equipo_id = ?", id).Order("fecha_creacion DESC").Find(&presupuestos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener equipo"})
		return
	}

	var historial []models.EstadoHistorial
	if err := api.DB.Where("equipo_id = ?", id).Order("fecha_cambio ASC").Find(&historial).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener equipo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"equipo":       equipo,
		"diagnostico":  diagnostico,
		"presupuestos": presupuestos,
		"historial":    historial,
	})
}

// CreateEquipo registra un equipo nuevo y devuelve el número de orden asignado
func (api *EquipoAPI) CreateEquipo(c *gin.Context) {
	var req equipoCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: " + err.Error()})
		return
	}

	if req.ClienteID == 0 || req.Marca == "" || req.Modelo == "" || req.SistemaOperativo == "" || req.FallaReportada == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Campos obligatorios: cliente_id, marca, modelo, sistema_operativo, falla_reportada",
		})
		return
	}

	equipo := models.Equipo{
		ClienteID:        req.ClienteID,
		Marca:            req.Marca,
		Modelo:           req.Modelo,
		SistemaOperativo: req.SistemaOperativo,
		IMEI:             req.IMEI,
		FallaReportada:   req.FallaReportada,
		EstadoFisico:     req.EstadoFisico,
		Accesorios:       req.Accesorios,
		ICloudStatus:     req.ICloudStatus,
		BiometriaTipo:    req.BiometriaTipo,
	}

	if err := api.Workflow.RegistrarIngreso(&equipo); err != nil {
		responderError(c, err, "Error al registrar equipo")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Equipo registrado exitosamente",
		"equipo":  equipo,
	})
}

// UpdateEquipo actualiza los datos descriptivos de un equipo
func (api *EquipoAPI) UpdateEquipo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var equipo models.Equipo
	if err := api.DB.First(&equipo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipo no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar equipo"})
		}
		return
	}

	var req equipoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: " + err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Marca != nil && *req.Marca != "" {
		updates["marca"] = *req.Marca
	}
	if req.Modelo != nil && *req.Modelo != "" {
		updates["modelo"] = *req.Modelo
	}
	if req.FallaReportada != nil && *req.FallaReportada != "" {
		updates["falla_reportada"] = *req.FallaReportada
	}
	if req.IMEI != nil {
		updates["imei"] = *req.IMEI
	}
	if req.EstadoFisico != nil {
		updates["estado_fisico"] = *req.EstadoFisico
	}
	if req.Accesorios != nil {
		equipo.Accesorios = *req.Accesorios
		updates["accesorios"] = equipo.Accesorios
	}
	if req.ICloudStatus != nil {
		updates["icloud_status"] = *req.ICloudStatus
	}
	if req.BiometriaTipo != nil {
		updates["biometria_tipo"] = *req.BiometriaTipo
	}

	if len(updates) > 0 {
		if err := api.DB.Model(&equipo).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar equipo"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Equipo actualizado exitosamente",
		"equipo":  equipo,
	})
}

// CambiarEstado aplica una transición explícita de estado
func (api *EquipoAPI) CambiarEstado(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req cambiarEstadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: " + err.Error()})
		return
	}

	equipo, err := api.Workflow.CambiarEstado(id, req.NuevoEstado, req.Observaciones, req.Usuario)
	if err != nil {
		responderError(c, err, "Error al cambiar estado")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Estado actualizado exitosamente",
		"equipo":  equipo,
	})
}

// GetHistorial devuelve el historial completo de estados de un equipo,
// del ingreso hasta hoy
func (api *EquipoAPI) GetHistorial(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var equipo models.Equipo
	if err := api.DB.Select("id").First(&equipo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipo no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener historial"})
		}
		return
	}

	var historial []models.EstadoHistorial
	if err := api.DB.Where("equipo_id = ?", id).Order("fecha_cambio ASC").Find(&historial).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener historial"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"historial": historial})
}
