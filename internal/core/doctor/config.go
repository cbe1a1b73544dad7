package doctor

import (
	"context"
	"errors"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/tickdown/internal/core/config"
)

// ConfigCheck validates the loaded configuration, including filesystem checks.
type ConfigCheck struct {
	cfg        *config.Config
	configPath string
}

// NewConfigCheck creates a new configuration check.
func NewConfigCheck(cfg *config.Config, configPath string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, configPath: configPath}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if err := c.cfg.ValidateDeep(c.configPath); err != nil {
		var fieldErrs criterio.FieldErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				result.Items = append(result.Items, CheckItem{
					Label:  fe.Field,
					Status: StatusFail,
					Detail: fe.Err.Error(),
				})
			}
		} else {
			result.Items = append(result.Items, CheckItem{
				Label:  "config",
				Status: StatusFail,
				Detail: err.Error(),
			})
		}
		return result
	}

	label := c.configPath
	if label == "" {
		label = "defaults"
	}
	result.Items = append(result.Items, CheckItem{Label: label, Status: StatusPass, Detail: "valid"})

	for _, w := range c.cfg.Warnings() {
		item := w.Item
		if item == "" {
			item = w.Category
		}
		result.Items = append(result.Items, CheckItem{Label: item, Status: StatusWarn, Detail: w.Message})
	}

	return result
}
