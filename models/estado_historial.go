package models

import (
	"time"
)

// EstadoHistorial es una entrada inmutable del historial de estados de
// un equipo. Nunca se actualiza ni se borra: ordenado por fecha de
// cambio ascendente forma la auditoría completa del ciclo de vida.
type EstadoHistorial struct {
	ID uint `json:"id" gorm:"primarykey"`

	EquipoID uint    `json:"equipo_id" gorm:"not null;index"`
	Equipo   *Equipo `json:"equipo,omitempty" gorm:"foreignKey:EquipoID"`

	// EstadoAnterior es NULL únicamente en la entrada inicial de ingreso
	EstadoAnterior *string `json:"estado_anterior" gorm:"type:varchar(20)"`
	EstadoNuevo    string  `json:"estado_nuevo" gorm:"not null;type:varchar(20)"`

	Observaciones string `json:"observaciones" gorm:"type:text"`
	Usuario       string `json:"usuario" gorm:"default:'Sistema';type:varchar(100)"`

	FechaCambio time.Time `json:"fecha_cambio" gorm:"autoCreateTime"`
}

// TableName define el nombre de la tabla para el modelo EstadoHistorial
func (EstadoHistorial) TableName() string {
	return "estados_historial"
}
