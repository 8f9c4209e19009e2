package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bithouse/services"
)

// RegisterRoutes arma todos los handlers y los cuelga bajo /api
func RegisterRoutes(router *gin.Engine, db *gorm.DB, fotoService *services.FotoService) {
	workflow := services.NewWorkflowService(db)

	clienteAPI := NewClienteAPI(db, workflow)
	equipoAPI := NewEquipoAPI(db, workflow)
	diagnosticoAPI := NewDiagnosticoAPI(db, workflow)
	presupuestoAPI := NewPresupuestoAPI(db, workflow)
	estadoAPI := NewEstadoAPI(db, workflow)
	fotoAPI := NewFotoAPI(fotoService)
	trackingAPI := NewTrackingAPI(db)

	api := router.Group("/api")
	{
		clientes := api.Group("/clientes")
		{
			clientes.GET("", clienteAPI.GetClientes)
			clientes.GET("/:id", clienteAPI.GetCliente)
			clientes.GET("/:id/equipos", clienteAPI.GetEquiposCliente)
			clientes.POST("", clienteAPI.CreateCliente)
			clientes.PUT("/:id", clienteAPI.UpdateCliente)
			clientes.DELETE("/:id", clienteAPI.DeleteCliente)
		}

		equipos := api.Group("/equipos")
		{
			equipos.GET("", equipoAPI.GetEquipos)
			equipos.GET("/:id", equipoAPI.GetEquipo)
			equipos.POST("", equipoAPI.CreateEquipo)
			equipos.PUT("/:id", equipoAPI.UpdateEquipo)
			equipos.POST("/:id/cambiar-estado", equipoAPI.CambiarEstado)
			equipos.GET("/:id/historial", equipoAPI.GetHistorial)
		}

		diagnosticos := api.Group("/diagnosticos")
		{
			diagnosticos.POST("", diagnosticoAPI.CreateDiagnostico)
			diagnosticos.GET("/equipo/:equipoId", diagnosticoAPI.GetDiagnosticoEquipo)
			diagnosticos.PUT("/:id", diagnosticoAPI.UpdateDiagnostico)
		}

		presupuestos := api.Group("/presupuestos")
		{
			presupuestos.POST("", presupuestoAPI.CreatePresupuesto)
			presupuestos.GET("/pendientes", presupuestoAPI.GetPresupuestosPendientes)
			presupuestos.GET("/equipo/:equipoId", presupuestoAPI.GetPresupuestosEquipo)
			presupuestos.PUT("/:id/estado", presupuestoAPI.CambiarEstadoPresupuesto)
		}

		estados := api.Group("/estados")
		{
			estados.GET("/equipos", estadoAPI.GetDashboard)
			estados.POST("/retiros", estadoAPI.CreateRetiro)
			estados.POST("/entregas", estadoAPI.CreateEntrega)
			estados.GET("/retiros-entregas/pendientes", estadoAPI.GetPendientes)
			estados.PUT("/retiros-entregas/:id", estadoAPI.ResolverRetiroEntrega)
		}

		fotos := api.Group("/fotos")
		{
			fotos.POST("", fotoAPI.UploadFotos)
			fotos.GET("/equipo/:equipoId", fotoAPI.GetFotosEquipo)
			fotos.DELETE("/:id", fotoAPI.DeleteFoto)
		}

		// Consulta pública, sin autenticación
		api.GET("/tracking/:numeroOrden", trackingAPI.GetTracking)
	}
}
