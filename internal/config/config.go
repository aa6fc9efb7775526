package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Server    Server    `koanf:"server"`
	Timetable Timetable `koanf:"timetable"`
	ClubSoc   ClubSoc   `koanf:"clubsoc"`
	Cache     Cache     `koanf:"cache"`
	Term      Term      `koanf:"term"`
}

type Server struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"readtimeout"`
	WriteTimeout time.Duration `koanf:"writetimeout"`
}

// Timetable configures the university timetable provider.
type Timetable struct {
	BaseURL     string `koanf:"baseurl"`
	Institution string `koanf:"institution"`
	// Timezone the provider declares its local timestamps in.
	Timezone string `koanf:"timezone"`
}

// ClubSoc configures the clubs-and-societies provider.
type ClubSoc struct {
	BaseURL string `koanf:"baseurl"`
}

type Cache struct {
	// RedisAddr enables the Redis cache when non-empty; otherwise an
	// in-process cache is used.
	RedisAddr string        `koanf:"redisaddr"`
	TTL       time.Duration `koanf:"ttl"`
}

// Term describes the academic term the recurrence expander works against.
type Term struct {
	// Start is the Monday of week 1, formatted 2006-01-02.
	Start string `koanf:"start"`
	Weeks int    `koanf:"weeks"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Server: Server{
			Addr:         ":8181",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Timetable: Timetable{
			BaseURL:  "https://scientia-eu-v4-api-d1-03.azurewebsites.net/api/Public",
			Timezone: "Europe/Dublin",
		},
		ClubSoc: ClubSoc{
			BaseURL: "http://localhost:8182/dcuclubsandsocs.ie",
		},
		Cache: Cache{
			TTL: 10 * time.Minute,
		},
		Term: Term{
			Start: "2024-09-23",
			Weeks: 33,
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "CAMPUSSYNC_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "CAMPUSSYNC_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
