package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"bithouse/models"
)

// Prefijo de los números de orden: BH-YYYY-NNNN
const prefijoOrden = "BH"

// Intentos ante colisión de número de orden bajo concurrencia
const maxIntentosNumeroOrden = 3

// WorkflowService es el dueño del flujo de estados de los equipos.
// Toda transición — explícita o disparada por otra operación — pasa
// por acá, de modo que la actualización de estado_actual y el alta de
// la entrada de historial ocurran siempre juntas y en una transacción.
type WorkflowService struct {
	DB *gorm.DB
}

// NewWorkflowService crea un nuevo WorkflowService
func NewWorkflowService(db *gorm.DB) *WorkflowService {
	return &WorkflowService{DB: db}
}

// GenerarNumeroOrden calcula el próximo número de orden del año en
// curso: toma el mayor código existente con el prefijo del año y suma
// uno, empezando en 0001 si no hay ninguno. El orden por largo primero
// mantiene el máximo correcto cuando la secuencia pasa de 9999 y el
// sufijo crece a cinco dígitos.
func (s *WorkflowService) GenerarNumeroOrden(tx *gorm.DB) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", prefijoOrden, time.Now().Year())

	var ultimo models.Equipo
	err := tx.Where("numero_orden LIKE ?", prefix+"%").
		Order("LENGTH(numero_orden) DESC, numero_orden DESC").
		First(&ultimo).Error

	siguiente := 1
	if err == nil {
		partes := strings.Split(ultimo.NumeroOrden, "-")
		n, convErr := strconv.Atoi(partes[len(partes)-1])
		if convErr != nil {
			return "", fmt.Errorf("número de orden corrupto: %s", ultimo.NumeroOrden)
		}
		siguiente = n + 1
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	return fmt.Sprintf("%s%04d", prefix, siguiente), nil
}

// RegistrarIngreso da de alta un equipo: valida los datos, asigna el
// número de orden y crea la entrada inicial del historial (estado
// anterior NULL → ingresado), todo en una transacción. El índice único
// sobre numero_orden más el reintento acotado cierran la carrera entre
// dos altas simultáneas.
func (s *WorkflowService) RegistrarIngreso(equipo *models.Equipo) error {
	if equipo.Marca == "" || equipo.Modelo == "" || equipo.FallaReportada == "" {
		return fmt.Errorf("%w: marca, modelo y falla_reportada son obligatorios", ErrDatosInvalidos)
	}
	if !models.EsSistemaOperativoValido(equipo.SistemaOperativo) {
		return ErrSistemaOperativoInvalido
	}

	// El cliente debe existir y estar activo
	var cliente models.Cliente
	if err := s.DB.Where("id = ? AND activo = ?", equipo.ClienteID, true).First(&cliente).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClienteNoEncontrado
		}
		return err
	}

	var err error
	for intento := 0; intento < maxIntentosNumeroOrden; intento++ {
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			numero, genErr := s.GenerarNumeroOrden(tx)
			if genErr != nil {
				return genErr
			}

			equipo.ID = 0
			equipo.NumeroOrden = numero
			equipo.EstadoActual = models.EstadoIngresado
			equipo.FechaEntrega = nil

			if createErr := tx.Create(equipo).Error; createErr != nil {
				return createErr
			}

			historial := models.EstadoHistorial{
				EquipoID:       equipo.ID,
				EstadoAnterior: nil,
				EstadoNuevo:    models.EstadoIngresado,
				Observaciones:  "Equipo recibido en local",
				Usuario:        "Sistema",
			}
			return tx.Create(&historial).Error
		})

		if err == nil || !esErrorDeDuplicado(err) {
			return err
		}
		// Otro ingreso concurrente se quedó con el número: reintentamos
	}

	return fmt.Errorf("no se pudo asignar un número de orden tras %d intentos: %w", maxIntentosNumeroOrden, err)
}

// CambiarEstado aplica una transición explícita de estado. El flujo es
// permisivo a propósito: fuera del chequeo de nombre válido no hay
// validación de orden, para tolerar correcciones reales (por ejemplo
// volver a diagnosticar un equipo ya presupuestado).
func (s *WorkflowService) CambiarEstado(equipoID uint, nuevoEstado, observaciones, usuario string) (*models.Equipo, error) {
	if !models.EsEstadoValido(nuevoEstado) {
		return nil, ErrEstadoInvalido
	}

	var equipo models.Equipo
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&equipo, equipoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEquipoNoEncontrado
			}
			return err
		}
		return s.cambiarEstadoTx(tx, &equipo, nuevoEstado, observaciones, usuario)
	})
	if err != nil {
		return nil, err
	}
	return &equipo, nil
}

// cambiarEstadoTx es el núcleo del flujo: actualiza estado_actual (y
// fecha_entrega si corresponde) y agrega exactamente una entrada de
// historial con el estado inmediatamente anterior. Debe ejecutarse
// dentro de la transacción recibida.
func (s *WorkflowService) cambiarEstadoTx(tx *gorm.DB, equipo *models.Equipo, nuevoEstado, observaciones, usuario string) error {
	if usuario == "" {
		usuario = "Sistema"
	}

	anterior := equipo.EstadoActual

	updates := map[string]interface{}{"estado_actual": nuevoEstado}
	if nuevoEstado == models.EstadoEntregado {
		ahora := time.Now()
		updates["fecha_entrega"] = &ahora
		equipo.FechaEntrega = &ahora
	}

	if err := tx.Model(equipo).Updates(updates).Error; err != nil {
		return err
	}
	equipo.EstadoActual = nuevoEstado

	historial := models.EstadoHistorial{
		EquipoID:       equipo.ID,
		EstadoAnterior: &anterior,
		EstadoNuevo:    nuevoEstado,
		Observaciones:  observaciones,
		Usuario:        usuario,
	}
	return tx.Create(&historial).Error
}

// RegistrarDiagnostico crea el diagnóstico y fuerza el equipo al
// estado "diagnostico", sin importar en qué estado estuviera
func (s *WorkflowService) RegistrarDiagnostico(diagnostico *models.Diagnostico) error {
	if diagnostico.Tecnico == "" || diagnostico.DiagnosticoDetallado == "" {
		return fmt.Errorf("%w: tecnico y diagnostico_detallado son obligatorios", ErrDatosInvalidos)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var equipo models.Equipo
		if err := tx.First(&equipo, diagnostico.EquipoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEquipoNoEncontrado
			}
			return err
		}

		if err := tx.Create(diagnostico).Error; err != nil {
			return err
		}

		return s.cambiarEstadoTx(tx, &equipo, models.EstadoDiagnostico,
			"Diagnóstico técnico completado", diagnostico.Tecnico)
	})
}

// CrearPresupuesto crea la cotización, calcula el total una única vez
// y fuerza el equipo al estado "presupuestado"
func (s *WorkflowService) CrearPresupuesto(presupuesto *models.Presupuesto) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var equipo models.Equipo
		if err := tx.First(&equipo, presupuesto.EquipoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEquipoNoEncontrado
			}
			return err
		}

		presupuesto.Total = presupuesto.CostoRepuestos.Add(presupuesto.CostoManoObra)
		presupuesto.Estado = models.PresupuestoPendiente
		presupuesto.FechaRespuesta = nil

		if err := tx.Create(presupuesto).Error; err != nil {
			return err
		}

		return s.cambiarEstadoTx(tx, &equipo, models.EstadoPresupuestado,
			"Presupuesto generado", "Sistema")
	})
}

// ResponderPresupuesto registra la respuesta del cliente. Aceptarlo
// inicia la reparación (equipo → en_reparacion); rechazarlo no toca
// el estado del equipo.
func (s *WorkflowService) ResponderPresupuesto(id uint, estado, observaciones string) (*models.Presupuesto, error) {
	if estado != models.PresupuestoAceptado && estado != models.PresupuestoRechazado {
		return nil, ErrEstadoInvalido
	}

	var presupuesto models.Presupuesto
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&presupuesto, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPresupuestoNoEncontrado
			}
			return err
		}

		ahora := time.Now()
		if observaciones == "" {
			observaciones = presupuesto.Observaciones
		}
		updates := map[string]interface{}{
			"estado":          estado,
			"fecha_respuesta": &ahora,
			"observaciones":   observaciones,
		}
		if err := tx.Model(&presupuesto).Updates(updates).Error; err != nil {
			return err
		}
		presupuesto.Estado = estado
		presupuesto.FechaRespuesta = &ahora
		presupuesto.Observaciones = observaciones

		if estado != models.PresupuestoAceptado {
			return nil
		}

		var equipo models.Equipo
		if err := tx.First(&equipo, presupuesto.EquipoID).Error; err != nil {
			return err
		}
		return s.cambiarEstadoTx(tx, &equipo, models.EstadoEnReparacion,
			"Presupuesto aceptado - Reparación iniciada", "Sistema")
	})
	if err != nil {
		return nil, err
	}
	return &presupuesto, nil
}

// ProgramarRetiro agenda el retiro de un equipo en el domicilio del
// cliente. No tiene precondición ni efecto sobre el estado del equipo.
func (s *WorkflowService) ProgramarRetiro(retiro *models.RetiroEntrega) error {
	if retiro.Direccion == "" {
		return fmt.Errorf("%w: direccion es obligatoria", ErrDatosInvalidos)
	}

	var equipo models.Equipo
	if err := s.DB.First(&equipo, retiro.EquipoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEquipoNoEncontrado
		}
		return err
	}

	retiro.Tipo = models.TipoRetiro
	retiro.Estado = models.RetiroEntregaPendiente
	return s.DB.Create(retiro).Error
}

// ProgramarEntrega agenda la entrega a domicilio. Solo se permite con
// el equipo en estado "listo" y lo pasa a "en_camino".
func (s *WorkflowService) ProgramarEntrega(entrega *models.RetiroEntrega) error {
	if entrega.Direccion == "" {
		return fmt.Errorf("%w: direccion es obligatoria", ErrDatosInvalidos)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var equipo models.Equipo
		if err := tx.First(&equipo, entrega.EquipoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEquipoNoEncontrado
			}
			return err
		}

		if equipo.EstadoActual != models.EstadoListo {
			return ErrEquipoNoListo
		}

		entrega.Tipo = models.TipoEntrega
		entrega.Estado = models.RetiroEntregaPendiente
		if err := tx.Create(entrega).Error; err != nil {
			return err
		}

		return s.cambiarEstadoTx(tx, &equipo, models.EstadoEnCamino,
			"Entrega programada", "Sistema")
	})
}

// ResolverRetiroEntrega marca un retiro/entrega como realizado o
// cancelado. Una entrega realizada marca el equipo como entregado y
// sella la fecha de entrega; un retiro realizado o cualquier
// cancelación no tocan el estado del equipo.
func (s *WorkflowService) ResolverRetiroEntrega(id uint, estado, observaciones string) (*models.RetiroEntrega, error) {
	if estado != models.RetiroEntregaRealizado && estado != models.RetiroEntregaCancelado {
		return nil, ErrEstadoInvalido
	}

	var registro models.RetiroEntrega
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&registro, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRetiroEntregaNoEncontrado
			}
			return err
		}

		ahora := time.Now()
		if observaciones == "" {
			observaciones = registro.Observaciones
		}
		updates := map[string]interface{}{
			"estado":          estado,
			"fecha_realizada": &ahora,
			"observaciones":   observaciones,
		}
		if err := tx.Model(&registro).Updates(updates).Error; err != nil {
			return err
		}
		registro.Estado = estado
		registro.FechaRealizada = &ahora
		registro.Observaciones = observaciones

		if registro.Tipo != models.TipoEntrega || estado != models.RetiroEntregaRealizado {
			return nil
		}

		var equipo models.Equipo
		if err := tx.First(&equipo, registro.EquipoID).Error; err != nil {
			return err
		}
		return s.cambiarEstadoTx(tx, &equipo, models.EstadoEntregado,
			"Equipo entregado al cliente", "Sistema")
	})
	if err != nil {
		return nil, err
	}
	return &registro, nil
}

// EliminarCliente hace el soft delete de un cliente. Se rechaza
// mientras tenga algún equipo que no haya llegado a "entregado".
func (s *WorkflowService) EliminarCliente(id uint) error {
	var cliente models.Cliente
	if err := s.DB.Where("id = ? AND activo = ?", id, true).First(&cliente).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClienteNoEncontrado
		}
		return err
	}

	var activos int64
	if err := s.DB.Model(&models.Equipo{}).
		Where("cliente_id = ? AND estado_actual != ?", id, models.EstadoEntregado).
		Count(&activos).Error; err != nil {
		return err
	}
	if activos > 0 {
		return ErrClienteConEquipos
	}

	return s.DB.Model(&cliente).Update("activo", false).Error
}

// esErrorDeDuplicado detecta la violación del índice único de
// numero_orden en los dos motores soportados
func esErrorDeDuplicado(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
