package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/logger"
)

// AutoloadName is the name of the configuration file listing what every request loads.
const AutoloadName = "autoload"

// Autoload lists what every request loads before its handler runs.
type Autoload struct {
	Packages  []string `mapstructure:"packages"`
	Config    []string `mapstructure:"config"`
	Helpers   []string `mapstructure:"helper"`
	Language  []string `mapstructure:"language"`
	Libraries []string `mapstructure:"libraries"`
	Handlers  []string `mapstructure:"handler"`
	Drivers   []string `mapstructure:"drivers"`
	Models    []string `mapstructure:"model"`
}

// initAutoload reads the autoload block, then adds its packages and loads its configuration files.
func (l *Loader) initAutoload() error {
	b, err := l.store.Get(AutoloadName)
	switch {
	case errors.Is(err, switchback.ErrNotExist):
		return nil
	case err != nil:
		return switchback.Fail(err)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &l.autoload,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return switchback.Fail(err)
	}

	if err := dec.Decode(b); err != nil {
		err = fmt.Errorf("%w: %s", switchback.ErrBadConfig, err)
		return switchback.Fail(err, "The autoload config file is not formatted correctly.")
	}

	for _, pkg := range l.autoload.Packages {
		l.AddPackagePath(pkg, true)
	}

	for _, name := range l.autoload.Config {
		if err := l.Config(name); err != nil {
			return err
		}
	}

	return nil
}

// Autoload loads the helpers, language files, libraries, handlers, drivers and models
// the autoload block names, in that order.
//
// The "database" library loads first, through Database.
// Each handler named is a URI dispatched in full.
func (l *Loader) Autoload() error {
	a := l.autoload
	if err := l.Helper(a.Helpers...); err != nil {
		return err
	}

	if err := l.Language(a.Language...); err != nil {
		return err
	}

	libs := make([]string, 0, len(a.Libraries))
	for _, lib := range a.Libraries {
		if strings.EqualFold(lib, DatabaseConfig) {
			if err := l.Database(""); err != nil {
				return err
			}
			continue
		}

		libs = append(libs, lib)
	}

	if err := l.Components(libs...); err != nil {
		return err
	}

	for _, uri := range a.Handlers {
		if _, err := l.HandlerURI(uri, "", true, false); err != nil {
			return err
		}
	}

	for _, name := range a.Drivers {
		if err := l.Driver(name, nil, ""); err != nil {
			return err
		}
	}

	if err := l.Models(a.Models...); err != nil {
		return err
	}

	l.logger.Debug("autoload complete", &logger.LogContext{Data: map[string]any{"fields": l.c.Fields()}})
	return nil
}
