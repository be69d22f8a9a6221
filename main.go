package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	log.SetPrefix("lg/balance-go-api: ")
	log.SetFlags(0)

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	var h *Handler
	switch cfg.Store {
	case "memory":
		store := newMemoryStore()
		store.putProfile(Profile{UserID: devUserID, Timezone: cfg.DefaultLocation.String(), CreatedAt: time.Now()})
		h = newHandler(cfg, nil, store, systemClock{})
		log.Printf("memory store: all requests act as user %d", devUserID)
	default:
		pool := getDBPool(cfg.DBURL)
		defer pool.Close()
		h = newHandler(cfg, pool, newPGStore(pool), systemClock{})
	}

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	log.Printf("listening on %s", cfg.Addr)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
