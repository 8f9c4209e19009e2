package models

import (
	"time"
)

// Tipos de foto según la etapa de la reparación
const (
	FotoIngreso     = "ingreso"
	FotoDiagnostico = "diagnostico"
	FotoReparacion  = "reparacion"
	FotoEntrega     = "entrega"
)

// TiposFotoValidos lista las categorías aceptadas
var TiposFotoValidos = []string{FotoIngreso, FotoDiagnostico, FotoReparacion, FotoEntrega}

// Foto representa una imagen asociada a un equipo
type Foto struct {
	ID uint `json:"id" gorm:"primarykey"`

	EquipoID uint    `json:"equipo_id" gorm:"not null;index"`
	Equipo   *Equipo `json:"equipo,omitempty" gorm:"foreignKey:EquipoID"`

	Tipo          string `json:"tipo" gorm:"not null;type:varchar(20)"` // ingreso, diagnostico, reparacion, entrega
	NombreArchivo string `json:"nombre_archivo" gorm:"not null;type:varchar(255)"`
	RutaArchivo   string `json:"ruta_archivo" gorm:"not null;type:varchar(255)"`
	Descripcion   string `json:"descripcion" gorm:"type:text"`

	FechaSubida time.Time `json:"fecha_subida" gorm:"autoCreateTime"`
}

// TableName define el nombre de la tabla para el modelo Foto
func (Foto) TableName() string {
	return "fotos"
}

// EsTipoFotoValido valida la categoría de una foto
func EsTipoFotoValido(tipo string) bool {
	for _, t := range TiposFotoValidos {
		if t == tipo {
			return true
		}
	}
	return false
}
