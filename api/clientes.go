package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bithouse/models"
	"bithouse/services"
)

// ClienteAPI expone el CRUD de clientes
type ClienteAPI struct {
	DB       *gorm.DB
	Workflow *services.WorkflowService
}

// NewClienteAPI crea un nuevo ClienteAPI
func NewClienteAPI(db *gorm.DB, workflow *services.WorkflowService) *ClienteAPI {
	return &ClienteAPI{DB: db, Workflow: workflow}
}

type clienteRequest struct {
	Nombre    string `json:"nombre"`
	Telefono  string `json:"telefono"`
	Direccion string `json:"direccion"`
	Email     string `json:"email"`
	Notas     string `json:"notas"`
}

// GetClientes devuelve los clientes activos, con búsqueda por nombre o
// teléfono y paginación
func (api *ClienteAPI) GetClientes(c *gin.Context) {
	page, limit, offset := parsePaginacion(c)

	query := api.DB.Model(&models.Cliente{}).Where("activo = ?", true)
	if search := c.Query("search"); search != "" {
		query = query.Where("nombre LIKE ? OR telefono LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener clientes"})
		return
	}

	var clientes []models.Cliente
	if err := query.Order("nombre ASC").Limit(limit).Offset(offset).Find(&clientes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener clientes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clientes": clientes,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// GetCliente devuelve un cliente activo por ID
func (api *ClienteAPI) GetCliente(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var cliente models.Cliente
	if err := api.DB.Where("id = ? AND activo = ?", id, true).First(&cliente).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener cliente"})
		}
		return
	}

	c.JSON(http.StatusOK, cliente)
}

// GetEquiposCliente devuelve todos los equipos de un cliente
func (api *ClienteAPI) GetEquiposCliente(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var cliente models.Cliente
	if err := api.DB.Where("id = ? AND activo = ?", id, true).First(&cliente).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener equipos del cliente"})
		}
		return
	}

	var equipos []models.Equipo
	if err := api.DB.Where("cliente_id = ?", id).Order("fecha_ingreso DESC").Find(&equipos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener equipos del cliente"})
		return
	}

	c.JSON(http.StatusOK, equipos)
}

// CreateCliente da de alta un cliente
func (api *ClienteAPI) CreateCliente(c *gin.Context) {
	var req clienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: " + err.Error()})
		return
	}

	if req.Nombre == "" || req.Telefono == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nombre y teléfono son obligatorios"})
		return
	}

	cliente := models.Cliente{
		Nombre:    req.Nombre,
		Telefono:  req.Telefono,
		Direccion: req.Direccion,
		Email:     req.Email,
		Notas:     req.Notas,
		Activo:    true,
	}

	if err := api.DB.Create(&cliente).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear cliente"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Cliente creado exitosamente",
		"cliente": cliente,
	})
}

// UpdateCliente actualiza los datos de contacto de un cliente
func (api *ClienteAPI) UpdateCliente(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var cliente models.Cliente
	if err := api.DB.Where("id = ? AND activo = ?", id, true).First(&cliente).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar cliente"})
		}
		return
	}

	var req clienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: " + err.Error()})
		return
	}

	if req.Nombre == "" || req.Telefono == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nombre y teléfono son obligatorios"})
		return
	}

	updates := map[string]interface{}{
		"nombre":    req.Nombre,
		"telefono":  req.Telefono,
		"direccion": req.Direccion,
		"email":     req.Email,
		"notas":     req.Notas,
	}
	if err := api.DB.Model(&cliente).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar cliente"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cliente actualizado exitosamente",
		"cliente": cliente,
	})
}

// DeleteCliente hace el soft delete del cliente, siempre que no tenga
// equipos en proceso
func (api *ClienteAPI) DeleteCliente(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := api.Workflow.EliminarCliente(id); err != nil {
		responderError(c, err, "Error al eliminar cliente")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cliente eliminado exitosamente"})
}
