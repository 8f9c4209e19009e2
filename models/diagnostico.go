package models

import (
	"time"
)

// Diagnostico representa el diagnóstico técnico de un equipo.
// Un equipo puede tener varios; el más reciente es el vigente.
type Diagnostico struct {
	ID uint `json:"id" gorm:"primarykey"`

	EquipoID uint    `json:"equipo_id" gorm:"not null;index"`
	Equipo   *Equipo `json:"equipo,omitempty" gorm:"foreignKey:EquipoID"`

	Tecnico              string `json:"tecnico" gorm:"not null;type:varchar(100)"`
	DiagnosticoDetallado string `json:"diagnostico_detallado" gorm:"not null;type:text"`
	Reparable            bool   `json:"reparable" gorm:"default:true"`
	Observaciones        string `json:"observaciones" gorm:"type:text"`

	FechaDiagnostico time.Time `json:"fecha_diagnostico" gorm:"autoCreateTime"`
}

// TableName define el nombre de la tabla para el modelo Diagnostico
func (Diagnostico) TableName() string {
	return "diagnosticos"
}
