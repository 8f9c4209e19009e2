package models

import (
	"time"
)

// Tipos de visita a domicilio
const (
	TipoRetiro  = "retiro"
	TipoEntrega = "entrega"
)

// Estados de un retiro/entrega
const (
	RetiroEntregaPendiente = "pendiente"
	RetiroEntregaRealizado = "realizado"
	RetiroEntregaCancelado = "cancelado"
)

// RetiroEntrega representa una visita programada al domicilio del
// cliente, ya sea para retirar un equipo o para entregarlo reparado
type RetiroEntrega struct {
	ID uint `json:"id" gorm:"primarykey"`

	EquipoID uint    `json:"equipo_id" gorm:"not null;index"`
	Equipo   *Equipo `json:"equipo,omitempty" gorm:"foreignKey:EquipoID"`

	Tipo      string `json:"tipo" gorm:"not null;type:varchar(10)"` // retiro, entrega
	Direccion string `json:"direccion" gorm:"not null;type:text"`

	FechaProgramada *time.Time `json:"fecha_programada"`
	FechaRealizada  *time.Time `json:"fecha_realizada"`

	Estado        string `json:"estado" gorm:"default:'pendiente';type:varchar(20);index"`
	Observaciones string `json:"observaciones" gorm:"type:text"`

	FechaCreacion time.Time `json:"fecha_creacion" gorm:"autoCreateTime"`
}

// TableName define el nombre de la tabla para el modelo RetiroEntrega
func (RetiroEntrega) TableName() string {
	return "retiros_entregas"
}
