/*
Copyright © 2025 chaosmap.io
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose bool          `mapstructure:"verbose"`
	JSON    bool          `mapstructure:"json"`
	Config  string        `mapstructure:"config"`
	Project ProjectConfig `mapstructure:"project" validate:"required"`
	Data    DataConfig    `mapstructure:"data" validate:"required"`
}

// ProjectConfig holds project-related settings
type ProjectConfig struct {
	RootDir string `mapstructure:"rootDir" validate:"required"`
	DataDir string `mapstructure:"dataDir" validate:"required"`
}

// DataConfig holds data storage configuration
type DataConfig struct {
	File    string `mapstructure:"file" validate:"required"`
	Format  string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
	Backend string `mapstructure:"backend" validate:"required,oneof=file sqlite"`
}
