package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPrompt is used when the detection config does not set aiPrompt.
// The single %s is replaced with the username.
const DefaultPrompt = "Analyze this Roblox username for Johnny Charlie patterns: %s. Respond ONLY with 'UNSAFE' or 'SAFE'."

var detectionValidate *validator.Validate

func init() {
	detectionValidate = validator.New()

	// aiPrompt must carry exactly one username placeholder
	_ = detectionValidate.RegisterValidation("prompt_template", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || strings.Count(s, "%s") == 1 && strings.Count(s, "%") == 1
	})
}

// Detection holds the detection rules. It is loaded once at startup and
// never modified afterwards. Keys follow the detectionConfig.json layout;
// the YAML decoder accepts both JSON and YAML documents.
type Detection struct {
	DirectPatterns  []string `yaml:"directPatterns" validate:"dive,required"`
	KnownAlts       []string `yaml:"knownAlts" validate:"dive,required"`
	MaxEditDistance float64  `yaml:"maxEditDistance" validate:"gte=0,lte=1"`
	AIModel         string   `yaml:"aiModel" validate:"required"`
	AITemperature   float64  `yaml:"aiTemperature" validate:"gte=0,lte=2"`
	AIPrompt        string   `yaml:"aiPrompt" validate:"prompt_template"`
}

// LoadDetection reads and validates the detection config file.
func LoadDetection(path string) (*Detection, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open detection config: %w", err)
	}
	defer file.Close()

	return ParseDetection(file)
}

// ParseDetection decodes and validates a detection config document.
func ParseDetection(r io.Reader) (*Detection, error) {
	d := &Detection{}

	if err := yaml.NewDecoder(r).Decode(d); err != nil {
		return nil, fmt.Errorf("failed to decode detection config: %w", err)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}

	if d.AIPrompt == "" {
		d.AIPrompt = DefaultPrompt
	}

	return d, nil
}

// Validate checks field ranges. An empty pattern would match every
// username, so empty list entries are rejected.
func (d *Detection) Validate() error {
	if err := detectionValidate.Struct(d); err != nil {
		return fmt.Errorf("invalid detection config: %w", err)
	}
	return nil
}
