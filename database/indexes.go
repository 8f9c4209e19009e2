package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"
)

// DatabaseIndex describe un índice a crear después de la migración
type DatabaseIndex struct {
	Name    string
	Table   string
	Columns []string
	Unique  bool
}

// PerformanceIndexes índices para las consultas más frecuentes.
// El índice único sobre numero_orden es además la garantía de que dos
// altas concurrentes no puedan quedarse con el mismo número de orden.
var PerformanceIndexes = []DatabaseIndex{
	{
		Name:    "idx_equipos_numero_orden",
		Table:   "equipos",
		Columns: []string{"numero_orden"},
		Unique:  true,
	},
	{
		Name:    "idx_equipos_cliente_estado",
		Table:   "equipos",
		Columns: []string{"cliente_id", "estado_actual"},
	},
	{
		Name:    "idx_historial_equipo_fecha",
		Table:   "estados_historial",
		Columns: []string{"equipo_id", "fecha_cambio"},
	},
	{
		Name:    "idx_presupuestos_equipo_estado",
		Table:   "presupuestos",
		Columns: []string{"equipo_id", "estado"},
	},
	{
		Name:    "idx_retiros_entregas_estado_tipo",
		Table:   "retiros_entregas",
		Columns: []string{"estado", "tipo"},
	},
	{
		Name:    "idx_fotos_equipo_tipo",
		Table:   "fotos",
		Columns: []string{"equipo_id", "tipo"},
	},
}

// CreateIndexes crea los índices que no existan todavía
func CreateIndexes(db *gorm.DB) error {
	for _, idx := range PerformanceIndexes {
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		stmt := fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)",
			unique, idx.Name, idx.Table, strings.Join(idx.Columns, ", "))

		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("no se pudo crear el índice %s: %w", idx.Name, err)
		}
	}

	log.Printf("✅ %d índices verificados", len(PerformanceIndexes))
	return nil
}
