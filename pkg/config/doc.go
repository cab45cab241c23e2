// Package config loads settings from an optional YAML file and the
// environment.
//
// Precedence, highest first: environment variables, the YAML file, the
// envDefault tags. Any struct using caarlos0/env tags can be loaded:
//
//	type AppConfig struct {
//	    config.Config `yaml:",inline"`
//	    DB            db.Config      `yaml:"db"`
//	    Storage       storage.Config `yaml:"storage"`
//	}
//
//	var cfg AppConfig
//	if err := config.Load(&cfg, config.WithFile("config.yaml", true)); err != nil {
//	    return err
//	}
package config
