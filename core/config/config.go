package config

import (
	_ "embed"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/josephlewis42/elvi/core/vars"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
)

// Configuration holds the settings the shell starts with.
type Configuration struct {
	// ShellName prefixes every diagnostic.
	ShellName   string `json:"shell_name" validate:"required,alphanum"`
	DefaultPath string `json:"default_path" validate:"required"`
	Prompt      string `json:"prompt"`
	IFS         string `json:"ifs"`
	Color       string `json:"color" validate:"oneof=always auto never"`
	Trace       bool   `json:"trace"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// StoreDefaults returns the values a new variable store is seeded with.
func (c *Configuration) StoreDefaults(home, pwd, version string) vars.Defaults {
	return vars.Defaults{
		Prompt:  c.Prompt,
		IFS:     c.IFS,
		Path:    c.DefaultPath,
		Home:    home,
		PWD:     pwd,
		Version: version,
	}
}

// Default returns the built in configuration.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
