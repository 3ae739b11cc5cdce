package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"socialnet/api/middleware"
	"socialnet/api/routes"
	"socialnet/config"
	"socialnet/db"
	"socialnet/services"

	"github.com/gin-gonic/gin"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	if err := config.LoadConfig(configPath); err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	log.Println("Starting server...")

	if err := db.ConnectDB(); err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis и RabbitMQ не обязательны для старта: без них кеш лент
	// и push-события деградируют до прямых запросов в БД
	if err := services.InitRedis(); err != nil {
		log.Printf("Warning: Redis initialization failed: %v", err)
	} else {
		services.QueueServiceInstance.StartWorkers(ctx)
	}

	if err := services.InitRabbitMQ(); err != nil {
		log.Printf("Warning: RabbitMQ initialization failed: %v", err)
	} else {
		defer services.CloseRabbitMQ()
		if err := services.StartEventConsumer(ctx, "socialnet_push"); err != nil {
			log.Printf("Warning: failed to start event consumer: %v", err)
		}
	}

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(middleware.PrometheusMiddleware("socialnet"))

	routes.PublicApi(router)

	addr := fmt.Sprintf("%s:%d", config.AppConfig.Backend.Host, config.AppConfig.Backend.Port)
	if err := router.Run(addr); err != nil {
		panic(err)
	}
}
