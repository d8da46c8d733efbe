package service

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"moveops_backend/internal/merchants/repository"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type ruleDefaults struct {
	BaseFee     int64              `yaml:"base_fee"`
	PerKm       int64              `yaml:"per_km"`
	PerFloor    int64              `yaml:"per_floor"`
	VolumeCoeff map[string]float64 `yaml:"volume_coeff"`
}

// DefaultPricingRule returns the rule every merchant starts with.
func DefaultPricingRule() (repository.PricingRule, error) {
	var d ruleDefaults
	if err := yaml.Unmarshal(defaultsYAML, &d); err != nil {
		return repository.PricingRule{}, fmt.Errorf("parse pricing defaults: %w", err)
	}
	return repository.PricingRule{
		BaseFee:     d.BaseFee,
		PerKm:       d.PerKm,
		PerFloor:    d.PerFloor,
		VolumeCoeff: d.VolumeCoeff,
	}, nil
}
