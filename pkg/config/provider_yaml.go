package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	var config ConfigData
	if err := yaml.Unmarshal(cfgFile, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", y.filename, err)
	}

	y.config = &config
	return &config, nil
}

func (y *YAMLProvider) loaded() (*ConfigData, error) {
	if y.config != nil {
		return y.config, nil
	}
	return y.LoadConfig()
}

// GetSourceConfig returns the sample source configuration
func (y *YAMLProvider) GetSourceConfig() (*SourceData, error) {
	config, err := y.loaded()
	if err != nil {
		return nil, err
	}
	return &config.Source, nil
}

// GetAnalysisDefaults returns the default analysis parameters
func (y *YAMLProvider) GetAnalysisDefaults() (*AnalysisData, error) {
	config, err := y.loaded()
	if err != nil {
		return nil, err
	}
	return &config.Analysis, nil
}

// GetDashboardConfig returns the dashboard server configuration
func (y *YAMLProvider) GetDashboardConfig() (*DashboardData, error) {
	config, err := y.loaded()
	if err != nil {
		return nil, err
	}
	return &config.Dashboard, nil
}

// IsReadOnly returns true since YAML files are read-only in this implementation
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}
