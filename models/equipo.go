package models

import (
	"time"

	"gorm.io/datatypes"
)

// Estados posibles de un equipo dentro del flujo de reparación.
// El orden refleja el camino feliz, pero las transiciones no están
// restringidas a avanzar: ver services.WorkflowService.
const (
	EstadoIngresado     = "ingresado"
	EstadoDiagnostico   = "diagnostico"
	EstadoPresupuestado = "presupuestado"
	EstadoEnReparacion  = "en_reparacion"
	EstadoListo         = "listo"
	EstadoEnCamino      = "en_camino"
	EstadoEntregado     = "entregado"
)

// EstadosValidos lista los estados reconocidos por el flujo, en orden
var EstadosValidos = []string{
	EstadoIngresado,
	EstadoDiagnostico,
	EstadoPresupuestado,
	EstadoEnReparacion,
	EstadoListo,
	EstadoEnCamino,
	EstadoEntregado,
}

// Sistemas operativos soportados
const (
	SistemaAndroid = "Android"
	SistemaIOS     = "iOS"
)

// Equipo representa un teléfono ingresado a reparación
type Equipo struct {
	ID uint `json:"id" gorm:"primarykey"`

	// Dueño del equipo
	ClienteID uint     `json:"cliente_id" gorm:"not null;index"`
	Cliente   *Cliente `json:"cliente,omitempty" gorm:"foreignKey:ClienteID"`

	// Número de orden con formato BH-YYYY-NNNN, inmutable una vez asignado
	NumeroOrden string `json:"numero_orden" gorm:"uniqueIndex;not null;type:varchar(20)"`

	// Datos del equipo
	Marca            string                      `json:"marca" gorm:"not null;type:varchar(100)"`
	Modelo           string                      `json:"modelo" gorm:"not null;type:varchar(100)"`
	SistemaOperativo string                      `json:"sistema_operativo" gorm:"not null;type:varchar(10)"` // Android, iOS
	IMEI             string                      `json:"imei" gorm:"type:varchar(20)"`
	FallaReportada   string                      `json:"falla_reportada" gorm:"not null;type:text"`
	EstadoFisico     string                      `json:"estado_fisico" gorm:"type:text"`
	Accesorios       datatypes.JSONSlice[string] `json:"accesorios"`

	// Campos específicos de iOS (se aceptan también para Android, pero
	// solo tienen significado cuando sistema_operativo = iOS)
	ICloudStatus  string `json:"icloud_status" gorm:"type:varchar(50)"`
	BiometriaTipo string `json:"biometria_tipo" gorm:"type:varchar(50)"`

	// Estado actual: cache derivado del historial, mantenido por el
	// WorkflowService junto con cada entrada de estados_historial
	EstadoActual string `json:"estado_actual" gorm:"default:'ingresado';type:varchar(20);index"`

	FechaIngreso time.Time  `json:"fecha_ingreso" gorm:"autoCreateTime"`
	FechaEntrega *time.Time `json:"fecha_entrega"`

	// Relaciones
	Diagnosticos    []Diagnostico     `json:"diagnosticos,omitempty" gorm:"foreignKey:EquipoID"`
	Presupuestos    []Presupuesto     `json:"presupuestos,omitempty" gorm:"foreignKey:EquipoID"`
	Historial       []EstadoHistorial `json:"historial,omitempty" gorm:"foreignKey:EquipoID"`
	RetirosEntregas []RetiroEntrega   `json:"retiros_entregas,omitempty" gorm:"foreignKey:EquipoID"`
	Fotos           []Foto            `json:"fotos,omitempty" gorm:"foreignKey:EquipoID"`
}

// TableName define el nombre de la tabla para el modelo Equipo
func (Equipo) TableName() string {
	return "equipos"
}

// EsEstadoValido indica si el nombre de estado pertenece al flujo
func EsEstadoValido(estado string) bool {
	for _, e := range EstadosValidos {
		if e == estado {
			return true
		}
	}
	return false
}

// EsSistemaOperativoValido valida el tag de sistema operativo
func EsSistemaOperativoValido(so string) bool {
	return so == SistemaAndroid || so == SistemaIOS
}
