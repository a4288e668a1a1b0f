package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const DefaultPath = "./config/application.yaml"

type Application struct {
	Database Database `koanf:"db"`
	Ledger   Ledger   `koanf:"ledger"`
	Log      Log      `koanf:"log"`
}

type Database struct {
	Path string `koanf:"path"`
	// MaxIdleConns is how many connections stay open between calls. Zero closes every connection after use.
	MaxIdleConns int `koanf:"maxidleconns"`
	// BusyTimeout is how long, in milliseconds, a statement waits on a locked database file.
	BusyTimeout int `koanf:"busytimeout"`
}

type Ledger struct {
	ListLimit      int `koanf:"listlimit"`
	MaxBudgetLines int `koanf:"maxbudgetlines"`
}

type Log struct {
	Level string `koanf:"level"`
}

func Defaults() Application {
	return Application{
		Database: Database{
			Path:         "./data/ledger.sqlite",
			MaxIdleConns: 0,
			BusyTimeout:  5000,
		},
		Ledger: Ledger{
			ListLimit:      100,
			MaxBudgetLines: 3,
		},
		Log: Log{
			Level: "info",
		},
	}
}

func Load(path string) (Application, error) {
	// a missing .env is the common case
	_ = godotenv.Load()

	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Debugf("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "POCKETLEDGER_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "POCKETLEDGER_")), "_", ".")
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

	if err := app.Validate(); err != nil {
		return Application{}, err
	}

	return app, nil
}

// Validate reports every configuration problem at once.
func (a Application) Validate() error {
	var problems []string

	if strings.TrimSpace(a.Database.Path) == "" {
		problems = append(problems, "db.path cannot be empty")
	}
	if a.Database.MaxIdleConns < 0 {
		problems = append(problems, fmt.Sprintf("db.maxidleconns %d: must not be negative", a.Database.MaxIdleConns))
	}
	if a.Database.BusyTimeout < 0 {
		problems = append(problems, fmt.Sprintf("db.busytimeout %d: must not be negative", a.Database.BusyTimeout))
	}
	if a.Ledger.ListLimit < 1 {
		problems = append(problems, fmt.Sprintf("ledger.listlimit %d: must be at least 1", a.Ledger.ListLimit))
	}
	if a.Ledger.MaxBudgetLines < 1 || a.Ledger.MaxBudgetLines > 10 {
		problems = append(problems, fmt.Sprintf("ledger.maxbudgetlines %d: must be between 1 and 10", a.Ledger.MaxBudgetLines))
	}
	if _, err := log.ParseLevel(a.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("log.level %q: %v", a.Log.Level, err))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
