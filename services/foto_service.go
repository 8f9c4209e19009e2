package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bithouse/config"
	"bithouse/models"
)

// Extensiones de imagen aceptadas
var extensionesPermitidas = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Content-Type declarados aceptados. Se exige que extensión y
// mimetype pasen el filtro, igual que el multer original.
var mimesPermitidos = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// FotoService maneja la subida, el listado y el borrado de fotos de
// equipos: los archivos van al directorio de uploads y los metadatos a
// la tabla fotos
type FotoService struct {
	DB  *gorm.DB
	Cfg config.UploadsConfig
}

// NewFotoService crea un nuevo FotoService y asegura el directorio de uploads
func NewFotoService(db *gorm.DB, cfg config.UploadsConfig) (*FotoService, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("no se pudo crear el directorio de uploads: %w", err)
	}
	return &FotoService{DB: db, Cfg: cfg}, nil
}

// SubirFotos guarda un lote de fotos para un equipo. La operación es
// todo o nada: ante cualquier falla de validación o de persistencia se
// eliminan los archivos ya escritos antes de devolver el error, y no
// queda ningún metadato guardado.
func (s *FotoService) SubirFotos(equipoID uint, tipo, descripcion string, archivos []*multipart.FileHeader) ([]models.Foto, error) {
	if !models.EsTipoFotoValido(tipo) {
		return nil, ErrTipoFotoInvalido
	}
	if len(archivos) == 0 {
		return nil, fmt.Errorf("%w: no se subieron archivos", ErrDatosInvalidos)
	}
	if len(archivos) > s.Cfg.MaxFiles {
		return nil, fmt.Errorf("%w: se permiten hasta %d archivos por lote", ErrDatosInvalidos, s.Cfg.MaxFiles)
	}

	var equipo models.Equipo
	if err := s.DB.First(&equipo, equipoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEquipoNoEncontrado
		}
		return nil, err
	}

	// Validamos el lote completo antes de escribir nada a disco
	for _, archivo := range archivos {
		ext := strings.ToLower(filepath.Ext(archivo.Filename))
		if !extensionesPermitidas[ext] {
			return nil, fmt.Errorf("%w: solo se permiten imágenes (JPEG, PNG, GIF, WEBP)", ErrDatosInvalidos)
		}
		if mime := archivo.Header.Get("Content-Type"); !mimesPermitidos[mime] {
			return nil, fmt.Errorf("%w: solo se permiten imágenes (JPEG, PNG, GIF, WEBP)", ErrDatosInvalidos)
		}
		if archivo.Size > s.Cfg.MaxFileSize {
			return nil, fmt.Errorf("%w: el archivo %s supera el tamaño máximo de %d bytes",
				ErrDatosInvalidos, archivo.Filename, s.Cfg.MaxFileSize)
		}
	}

	guardados := make([]string, 0, len(archivos))
	limpiar := func() {
		for _, ruta := range guardados {
			os.Remove(ruta)
		}
	}

	fotos := make([]models.Foto, 0, len(archivos))
	for _, archivo := range archivos {
		ext := strings.ToLower(filepath.Ext(archivo.Filename))
		nombre := fmt.Sprintf("equipo_%d_%s%s", equipoID, uuid.New().String(), ext)
		destino := filepath.Join(s.Cfg.Dir, nombre)

		if err := guardarArchivo(archivo, destino); err != nil {
			limpiar()
			return nil, fmt.Errorf("no se pudo guardar el archivo %s: %w", archivo.Filename, err)
		}
		guardados = append(guardados, destino)

		fotos = append(fotos, models.Foto{
			EquipoID:      equipoID,
			Tipo:          tipo,
			NombreArchivo: nombre,
			RutaArchivo:   "/uploads/" + nombre,
			Descripcion:   descripcion,
		})
	}

	// Los metadatos se insertan en una sola transacción: o quedan
	// todas las filas o ninguna
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for i := range fotos {
			if err := tx.Create(&fotos[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		limpiar()
		return nil, err
	}

	return fotos, nil
}

// ListarFotos devuelve las fotos de un equipo, opcionalmente
// filtradas por tipo, de la más reciente a la más vieja
func (s *FotoService) ListarFotos(equipoID uint, tipo string) ([]models.Foto, error) {
	query := s.DB.Where("equipo_id = ?", equipoID)
	if tipo != "" {
		query = query.Where("tipo = ?", tipo)
	}

	var fotos []models.Foto
	err := query.Order("fecha_subida DESC").Find(&fotos).Error
	return fotos, err
}

// EliminarFoto borra el metadato y el archivo físico. Si el archivo ya
// no existe en disco, el metadato se borra igual.
func (s *FotoService) EliminarFoto(id uint) error {
	var foto models.Foto
	if err := s.DB.First(&foto, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFotoNoEncontrada
		}
		return err
	}

	ruta := filepath.Join(s.Cfg.Dir, foto.NombreArchivo)
	if err := os.Remove(ruta); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("no se pudo eliminar el archivo %s: %w", foto.NombreArchivo, err)
	}

	return s.DB.Delete(&foto).Error
}

// guardarArchivo copia el contenido subido al destino en disco
func guardarArchivo(archivo *multipart.FileHeader, destino string) error {
	origen, err := archivo.Open()
	if err != nil {
		return err
	}
	defer origen.Close()

	out, err := os.Create(destino)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, origen)
	return err
}
