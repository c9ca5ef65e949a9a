// app.go - Wiring shared by the commands

package cmd

import (
	"fmt"

	"store-manager/auth"
	"store-manager/config"
	"store-manager/database"
	"store-manager/events"
	"store-manager/logger"
	"store-manager/service"
	"store-manager/store"

	"gorm.io/gorm"
)

// app holds everything the commands share once configuration is loaded.
type app struct {
	cfg    *config.Config
	log    logger.Logger
	db     *gorm.DB
	store  *store.Gorm
	tokens *auth.TokenService
	users  *service.Users
	hub    *events.Hub
	mqtt   *events.MQTTPublisher

	// The websocket feed only carries sales; MQTT carries everything.
	salesPub   events.Publisher
	productPub events.Publisher
}

func newApp(cfg *config.Config, log logger.Logger) (*app, error) {
	db, err := database.Connect(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	a := &app{
		cfg:    cfg,
		log:    log,
		db:     db,
		store:  store.NewGorm(db),
		tokens: auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL),
		hub:    events.NewHub(),
	}
	a.users = service.NewUsers(a.store, auth.NewBcryptHasher(0), a.tokens, log)
	a.salesPub = a.hub
	a.productPub = events.Nop{}
	return a, nil
}

// connectMQTT adds the MQTT publisher when a broker is configured.
func (a *app) connectMQTT() error {
	if a.cfg.MQTTBroker == "" {
		return nil
	}
	p, err := events.DialMQTT(a.cfg.MQTTBroker, a.cfg.MQTTClientID, a.cfg.MQTTTopicPrefix)
	if err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	a.mqtt = p
	a.salesPub = events.Multi{a.hub, p}
	a.productPub = p
	a.log.Info("publishing events over mqtt", "broker", a.cfg.MQTTBroker, "prefix", a.cfg.MQTTTopicPrefix)
	return nil
}

func (a *app) ownerInput() service.SignupInput {
	return service.SignupInput{
		FirstName:       a.cfg.OwnerFirstName,
		LastName:        a.cfg.OwnerLastName,
		Email:           a.cfg.OwnerEmail,
		Password:        a.cfg.OwnerPassword,
		ConfirmPassword: a.cfg.OwnerPassword,
	}
}

func (a *app) close() {
	if a.mqtt != nil {
		a.mqtt.Close()
	}
	if err := database.Close(a.db); err != nil {
		a.log.Warn("close database", "err", err)
	}
}

// loadApp reads the configuration and builds the app with a logger to match.
func loadApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON})
	return newApp(cfg, log)
}
