package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Estados posibles de un presupuesto
const (
	PresupuestoPendiente = "pendiente"
	PresupuestoAceptado  = "aceptado"
	PresupuestoRechazado = "rechazado"
)

// Presupuesto representa la cotización de una reparación
type Presupuesto struct {
	ID uint `json:"id" gorm:"primarykey"`

	EquipoID uint    `json:"equipo_id" gorm:"not null;index"`
	Equipo   *Equipo `json:"equipo,omitempty" gorm:"foreignKey:EquipoID"`

	// Diagnóstico sobre el que se cotiza (opcional)
	DiagnosticoID *uint        `json:"diagnostico_id"`
	Diagnostico   *Diagnostico `json:"diagnostico,omitempty" gorm:"foreignKey:DiagnosticoID"`

	DetalleRepuestos datatypes.JSONSlice[string] `json:"detalle_repuestos"`

	// Total = repuestos + mano de obra, calculado al crear el
	// presupuesto y nunca recalculado después
	CostoRepuestos decimal.Decimal `json:"costo_repuestos" gorm:"type:decimal(12,2)"`
	CostoManoObra  decimal.Decimal `json:"costo_mano_obra" gorm:"type:decimal(12,2)"`
	Total          decimal.Decimal `json:"total" gorm:"type:decimal(12,2)"`

	Estado        string `json:"estado" gorm:"default:'pendiente';type:varchar(20);index"`
	Observaciones string `json:"observaciones" gorm:"type:text"`

	FechaCreacion  time.Time  `json:"fecha_creacion" gorm:"autoCreateTime"`
	FechaRespuesta *time.Time `json:"fecha_respuesta"`
}

// TableName define el nombre de la tabla para el modelo Presupuesto
func (Presupuesto) TableName() string {
	return "presupuestos"
}
