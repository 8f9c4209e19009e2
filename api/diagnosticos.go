package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bithouse/models"
	"bithouse/services"
)

// DiagnosticoAPI expone las operaciones sobre diagnósticos técnicos
type DiagnosticoAPI struct {
	DB       *gorm.DB
	Workflow *services.WorkflowService
}

// NewDiagnosticoAPI crea un nuevo DiagnosticoAPI
func NewDiagnosticoAPI(db *gorm.DB, workflow *services.WorkflowService) *DiagnosticoAPI {
	return &DiagnosticoAPI{DB: db, Workflow: workflow}
}

type diagnosticoCreateRequest struct {
	EquipoID             uint   `json:"equipo_id"`
	Tecnico              string `json:"tecnico"`
	DiagnosticoDetallado string `json:"diagnostico_detallado"`
	Reparable            *bool  `json:"reparable"`
	Observaciones        string `json:"observaciones"`
}

type diagnosticoUpdateRequest struct {
	Tecnico              *string `json:"tecnico"`
	DiagnosticoDetallado *string `json:"diagnostico_detallado"`
	Reparable            *bool   `json:"reparable"`
	Observaciones        *string `json:"observaciones"`
}

// CreateDiagnostico registra el diagnóstico y pasa el equipo al estado
// "diagnostico"
func (api *DiagnosticoAPI) CreateDiagnostico(c *gin.Context) {
	var req diagnosticoCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: " + err.Error()})
		return
	}

	if req.EquipoID == 0 || req.Tecnico == "" || req.DiagnosticoDetallado == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Campos obligatorios: equipo_id, tecnico, diagnostico_detallado",
		})
		return
	}

	// Salvo indicación explícita, el equipo se considera reparable
	reparable := true
	if req.Reparable != nil {
		reparable = *req.Reparable
	}

	diagnostico := models.Diagnostico{
		EquipoID:             req.EquipoID,
		Tecnico:              req.Tecnico,
		DiagnosticoDetallado: req.DiagnosticoDetallado,
		Reparable:            reparable,
		Observaciones:        req.Observaciones,
	}

	if err := api.Workflow.RegistrarDiagnostico(&diagnostico); err != nil {
		responderError(c, err, "Error al crear diagnóstico")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Diagnóstico creado exitosamente",
		"diagnostico": diagnostico,
	})
}

// GetDiagnosticoEquipo devuelve el diagnóstico vigente (el más
// reciente) de un equipo
func (api *DiagnosticoAPI) GetDiagnosticoEquipo(c *gin.Context) {
	equipoID, ok := parseID(c, "equipoId")
	if !ok {
		return
	}

	var diagnostico models.Diagnostico
	err := api.DB.Where("equipo_id = ?", equipoID).
		Order("fecha_diagnostico DESC").
		First(&diagnostico).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Diagnóstico no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener diagnóstico"})
		}
		return
	}

	c.JSON(http.StatusOK, diagnostico)
}

// UpdateDiagnostico corrige un diagnóstico ya cargado. No dispara
// ninguna transición de estado.
func (api *DiagnosticoAPI) UpdateDiagnostico(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var diagnostico models.Diagnostico
	if err := api.DB.First(&diagnostico, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Diagnóstico no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar diagnóstico"})
		}
		return
	}

	var req diagnosticoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: " + err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Tecnico != nil && *req.Tecnico != "" {
		updates["tecnico"] = *req.Tecnico
	}
	if req.DiagnosticoDetallado != nil && *req.DiagnosticoDetallado != "" {
		updates["diagnostico_detallado"] = *req.DiagnosticoDetallado
	}
	if req.Reparable != nil {
		updates["reparable"] = *req.Reparable
	}
	if req.Observaciones != nil {
		updates["observaciones"] = *req.Observaciones
	}

	if len(updates) > 0 {
		if err := api.DB.Model(&diagnostico).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar diagnóstico"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Diagnóstico actualizado exitosamente",
		"diagnostico": diagnostico,
	})
}
