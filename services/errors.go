package services

import "errors"

// Errores de negocio. Los handlers los traducen a códigos HTTP:
// datos inválidos → 400, no encontrado → 404, precondición → 400.
var (
	ErrClienteNoEncontrado       = errors.New("cliente no encontrado")
	ErrEquipoNoEncontrado        = errors.New("equipo no encontrado")
	ErrPresupuestoNoEncontrado   = errors.New("presupuesto no encontrado")
	ErrDiagnosticoNoEncontrado   = errors.New("diagnóstico no encontrado")
	ErrRetiroEntregaNoEncontrado = errors.New("retiro/entrega no encontrado")
	ErrFotoNoEncontrada          = errors.New("foto no encontrada")

	ErrEstadoInvalido           = errors.New("estado no válido")
	ErrSistemaOperativoInvalido = errors.New("sistema operativo debe ser Android o iOS")
	ErrTipoFotoInvalido         = errors.New("tipo de foto no válido: debe ser ingreso, diagnostico, reparacion o entrega")
	ErrDatosInvalidos           = errors.New("datos inválidos")

	// Precondiciones de negocio
	ErrClienteConEquipos = errors.New("no se puede eliminar el cliente porque tiene equipos en proceso de reparación")
	ErrEquipoNoListo     = errors.New(`el equipo debe estar en estado "listo" para programar entrega`)
)
