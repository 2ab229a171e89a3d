package loader

import (
	"fmt"
	"strings"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/logger"
)

const helperSuffix = "_helper"

// Helper makes the functions of each named helper available to views rendered after.
// "url", "url_helper" and "URL_helper.go" all name the same helper.
//
// An extension of a helper, MY_<name>_helper, is merged over the helper it extends,
// which must be found in the framework base.
func (l *Loader) Helper(names ...string) error {
	for _, name := range names {
		h := l.helperName(name)
		if h == "" || l.reg.HasHelper(h) {
			continue
		}

		if err := l.loadHelper(h); err != nil {
			return err
		}

		l.reg.MarkHelper(h)
	}

	return nil
}

func (l *Loader) helperName(name string) string {
	h := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), l.srcExt))
	if h == "" {
		return ""
	}

	if !strings.HasSuffix(h, helperSuffix) {
		h += helperSuffix
	}

	return h
}

func (l *Loader) loadHelper(h string) error {
	ext := l.subclass + h
	if dir, ok := l.r.Resolve(l.set.Library(), "helpers/"+ext+l.srcExt); ok {
		base := l.set.Base() + "helpers/" + h + l.srcExt
		if !l.r.Exists(base) {
			err := fmt.Errorf("%w: %shelpers/%s%s extends missing %s", switchback.ErrNotExist, dir, ext, l.srcExt, base)
			return switchback.Fail(err, "Unable to load the requested file: helpers/"+h+l.srcExt)
		}

		if err := l.mergeHelper(h); err != nil {
			return err
		}

		return l.mergeHelper(ext)
	}

	if _, ok := l.r.Resolve(l.set.Library(), "helpers/"+h+l.srcExt); ok {
		return l.mergeHelper(h)
	}

	err := fmt.Errorf("%w: helper %s", switchback.ErrNotExist, h)
	return switchback.Fail(err, "Unable to load the requested file: helpers/"+h+l.srcExt)
}

func (l *Loader) mergeHelper(name string) error {
	fns, ok := l.cat.Helper(name)
	if !ok {
		err := fmt.Errorf("%w: helper %s found but not registered", switchback.ErrNotExist, name)
		return switchback.Fail(err, "Unable to load the requested file: helpers/"+name+l.srcExt)
	}

	l.parser.AddFuncs(fns)
	l.logger.Debug("helper loaded", &logger.LogContext{Data: map[string]any{"helper": name}})
	return nil
}
