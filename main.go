package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"bithouse/api"
	"bithouse/config"
	"bithouse/database"
	"bithouse/middleware"
	"bithouse/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Configuración desde .env / variables de entorno
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("❌ Error al cargar la configuración:", err)
	}

	// Base de datos: el handle se abre una vez acá y se inyecta en
	// servicios y handlers; se cierra al recibir la señal de corte
	log.Println("🔧 Inicializando base de datos...")
	if err := database.CreateDatabaseIfNotExists(&cfg.Database); err != nil {
		log.Fatal("❌ Error al crear la base de datos:", err)
	}
	db, err := database.Connect(&cfg.Database)
	if err != nil {
		log.Fatal("❌ Error de conexión a la base de datos:", err)
	}

	fotoService, err := services.NewFotoService(db, cfg.Uploads)
	if err != nil {
		log.Fatal("❌ Error al preparar el almacenamiento de fotos:", err)
	}

	// En desarrollo Gin queda en modo debug; en cualquier otro entorno
	// pasa a release salvo que DEBUG_MODE lo fuerce
	if !cfg.IsDevelopment() && !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) == 1 && cfg.CORS.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	router.Use(cors.New(corsConfig))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":   "success",
			"message":  "pong",
			"database": cfg.Database.Driver,
		})
	})

	// Las fotos subidas se sirven como estáticos
	router.Static("/uploads", cfg.Uploads.Dir)

	api.RegisterRoutes(router, db, fotoService)

	// Cierre ordenado: cerramos el handle de la base al recibir la señal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("👋 Cerrando servidor...")
		if err := database.Close(db); err != nil {
			log.Println("⚠️  Error al cerrar la base de datos:", err)
		}
		os.Exit(0)
	}()

	log.Printf("🚀 Servidor corriendo en http://%s:%s", cfg.App.Host, cfg.App.Port)
	if err := router.Run(cfg.App.Host + ":" + cfg.App.Port); err != nil {
		log.Fatal("❌ Error al iniciar servidor:", err)
	}
}
