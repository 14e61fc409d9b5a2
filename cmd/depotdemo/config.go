package main

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type settings struct {
	entities     int
	ticks        int
	workers      int
	chunkBytes   int
	stallTimeout time.Duration
	level        logrus.Level
}

func loadSettings() settings {
	if err := godotenv.Load(); err != nil {
		log.Warn("Error loading .env file, using defaults")
	}
	s := settings{
		entities:     envInt("DEPOT_ENTITIES", 10000),
		ticks:        envInt("DEPOT_TICKS", 60),
		workers:      envInt("DEPOT_WORKERS", runtime.NumCPU()),
		chunkBytes:   envInt("DEPOT_CHUNK_BYTES", 16*1024),
		stallTimeout: envDuration("DEPOT_STALL_TIMEOUT", 5*time.Second),
		level:        logrus.InfoLevel,
	}
	if raw := os.Getenv("DEPOT_LOG_LEVEL"); raw != "" {
		level, err := logrus.ParseLevel(raw)
		if err != nil {
			log.WithError(err).WithField("value", raw).Warn("invalid DEPOT_LOG_LEVEL")
		} else {
			s.level = level
		}
	}
	return s
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("invalid integer, using default")
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("invalid duration, using default")
		return fallback
	}
	return v
}
