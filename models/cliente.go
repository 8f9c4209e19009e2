package models

import (
	"time"
)

// Cliente representa un cliente del local
type Cliente struct {
	ID uint `json:"id" gorm:"primarykey"`

	// Datos de contacto
	Nombre    string `json:"nombre" gorm:"not null;type:varchar(200)"`
	Telefono  string `json:"telefono" gorm:"not null;type:varchar(30)"`
	Direccion string `json:"direccion" gorm:"type:text"`
	Email     string `json:"email" gorm:"type:varchar(100)"`
	Notas     string `json:"notas" gorm:"type:text"`

	// Soft delete: el registro nunca se borra, solo se desactiva
	Activo bool `json:"activo" gorm:"default:true;index"`

	FechaCreacion time.Time `json:"fecha_creacion" gorm:"autoCreateTime"`

	// Relaciones
	Equipos []Equipo `json:"equipos,omitempty" gorm:"foreignKey:ClienteID"`
}

// TableName define el nombre de la tabla para el modelo Cliente
func (Cliente) TableName() string {
	return "clientes"
}
