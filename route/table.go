package route

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/xy-planning-network/switchback"
)

// Reserved keys of the routes configuration block.
const (
	DefaultHandlerKey   = "default_handler"
	NotFoundOverrideKey = "404_override"
	ErrorOverrideKey    = "error_override"
)

var (
	wildcards = strings.NewReplacer(":any", "[^/]+", ":num", "[0-9]+")
	backref   = regexp.MustCompile(`\$(\d+)`)
)

// A Parameter is a formal parameter of a [Callback].
type Parameter struct {
	Name       string
	Default    string
	HasDefault bool
}

// Param declares a Callback parameter without a default value.
func Param(name string) Parameter {
	return Parameter{Name: name}
}

// Default declares a Callback parameter substituting def when its group matched nothing.
func Default(name, def string) Parameter {
	return Parameter{Name: name, Default: def, HasDefault: true}
}

// A Callback computes the route a pattern rule resolves to from the groups it captured.
type Callback struct {
	fn     func(groups ...string) string
	params []Parameter
}

// Func constructs a Callback calling fn with one argument per captured group,
// padded with empty strings up to the number of params declared.
func Func(fn func(groups ...string) string, params ...Parameter) *Callback {
	return &Callback{fn: fn, params: params}
}

func (cb *Callback) call(groups []string) string {
	args := append([]string(nil), groups...)
	for len(args) < len(cb.params) {
		args = append(args, "")
	}

	for i, p := range cb.params {
		if args[i] == "" && p.HasDefault {
			args[i] = p.Default
		}
	}

	return cb.fn(args...)
}

// A Rule rewrites URIs matching Pattern into Target, or into what Callback returns.
type Rule struct {
	Pattern  string
	Target   string
	Callback *Callback

	re *regexp.Regexp
}

// A Table holds the route rules of an app in declaration order,
// along with the default handler and override routes.
//
// A Table is read-only once built and is shared by every request.
type Table struct {
	DefaultHandler   string
	NotFoundOverride string
	ErrorOverride    string

	literal map[string]string
	rules   []Rule
}

type ruleConfig struct {
	Pattern  string `mapstructure:"pattern"`
	Target   string `mapstructure:"target"`
	Callback string `mapstructure:"callback"`
}

type tableConfig struct {
	DefaultHandler   string       `mapstructure:"default_handler"`
	NotFoundOverride string       `mapstructure:"404_override"`
	ErrorOverride    string       `mapstructure:"error_override"`
	Rules            []ruleConfig `mapstructure:"rules"`
}

// NewTable decodes the routes configuration block into a Table.
//
// Rules are read from the "rules" sequence so their declaration order survives decoding.
// A rule naming a callback looks it up in callbacks.
func NewTable(block map[string]any, callbacks map[string]*Callback) (*Table, error) {
	var cfg tableConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return nil, err
	}

	if err := dec.Decode(block); err != nil {
		return nil, fmt.Errorf("%w: decoding routes: %s", switchback.ErrBadConfig, err)
	}

	t := &Table{
		DefaultHandler:   cfg.DefaultHandler,
		NotFoundOverride: cfg.NotFoundOverride,
		ErrorOverride:    cfg.ErrorOverride,
	}
	for _, rc := range cfg.Rules {
		if rc.Callback != "" {
			cb, ok := callbacks[rc.Callback]
			if !ok {
				return nil, fmt.Errorf("%w: route %q names unknown callback %q", switchback.ErrBadConfig, rc.Pattern, rc.Callback)
			}

			if err := t.AddFunc(rc.Pattern, cb); err != nil {
				return nil, err
			}
			continue
		}

		if err := t.Add(rc.Pattern, rc.Target); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Add appends a rule rewriting URIs matching pattern into target.
// A pattern added again replaces the earlier rule in place, keeping its position.
func (t *Table) Add(pattern, target string) error {
	return t.add(Rule{Pattern: pattern, Target: target})
}

// AddFunc appends a rule resolving URIs matching pattern with cb.
// Like [Table.Add], it replaces an earlier rule with the same pattern.
func (t *Table) AddFunc(pattern string, cb *Callback) error {
	if cb == nil || cb.fn == nil {
		return fmt.Errorf("%w: route %q has a nil callback", switchback.ErrBadConfig, pattern)
	}

	return t.add(Rule{Pattern: pattern, Callback: cb})
}

func (t *Table) add(r Rule) error {
	switch r.Pattern {
	case "", DefaultHandlerKey, NotFoundOverrideKey, ErrorOverrideKey:
		return fmt.Errorf("%w: %q is not a route pattern", switchback.ErrBadConfig, r.Pattern)
	}

	re, err := regexp.Compile("^" + wildcards.Replace(r.Pattern) + "$")
	if err != nil {
		return fmt.Errorf("%w: route %q: %s", switchback.ErrBadConfig, r.Pattern, err)
	}

	r.re = re
	if t.literal == nil {
		t.literal = make(map[string]string)
	}

	delete(t.literal, r.Pattern)
	if r.Callback == nil {
		t.literal[r.Pattern] = r.Target
	}

	for i := range t.rules {
		if t.rules[i].Pattern == r.Pattern {
			t.rules[i] = r
			return nil
		}
	}

	t.rules = append(t.rules, r)
	return nil
}

// template rewrites the $N back references of target into groups of ExpandString,
// escaping every other $ so it is kept literally.
func template(target string) string {
	var b strings.Builder
	last := 0
	for _, m := range backref.FindAllStringSubmatchIndex(target, -1) {
		b.WriteString(strings.ReplaceAll(target[last:m[0]], "$", "$$"))
		b.WriteString("${" + target[m[2]:m[3]] + "}")
		last = m[1]
	}

	b.WriteString(strings.ReplaceAll(target[last:], "$", "$$"))
	return b.String()
}

// Rules returns the rules of t in declaration order.
func (t *Table) Rules() []Rule {
	return append([]Rule(nil), t.rules...)
}

// Match rewrites segments by the first rule matching them.
//
// An exact literal match short circuits pattern rules.
// Match reports false when no rule matches.
func (t *Table) Match(segments []string) ([]string, bool) {
	uri := strings.Join(segments, "/")
	if target, ok := t.literal[uri]; ok {
		return strings.Split(target, "/"), true
	}

	for _, r := range t.rules {
		m := r.re.FindStringSubmatchIndex(uri)
		if m == nil {
			continue
		}

		switch {
		case r.Callback != nil:
			groups := make([]string, 0, len(m)/2-1)
			for i := 2; i < len(m); i += 2 {
				if m[i] < 0 {
					groups = append(groups, "")
					continue
				}
				groups = append(groups, uri[m[i]:m[i+1]])
			}
			return strings.Split(r.Callback.call(groups), "/"), true

		case strings.Contains(r.Target, "$") && strings.Contains(r.Pattern, "("):
			return strings.Split(string(r.re.ExpandString(nil, template(r.Target), uri, m)), "/"), true

		default:
			return strings.Split(r.Target, "/"), true
		}
	}

	return nil, false
}

// DefaultSegments returns the default handler route with an entry point appended when missing.
func (t *Table) DefaultSegments() []string {
	if t == nil || t.DefaultHandler == "" {
		return nil
	}

	segs := strings.Split(strings.ToLower(t.DefaultHandler), "/")
	if len(segs) < 2 {
		segs = append(segs, Index)
	}

	return segs
}
