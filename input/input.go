package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	v10 "github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/schema"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/catalog"
)

// TypeName is the catalog type name of the input component.
const TypeName = catalog.FrameworkPrefix + "Input"

// DefaultMaxBodyBytes bounds how much of a JSON body JSON reads.
const DefaultMaxBodyBytes int64 = 1 << 20

// A Config is what config/input holds.
type Config struct {
	// Strict rejects query and form keys no field of the destination names.
	Strict bool `mapstructure:"strict"`

	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
}

// An Input decodes and validates what clients send.
//
// An Input holds no request state; one serves every request.
type Input struct {
	dec     *schema.Decoder
	valid   *v10.Validate
	maxBody int64
}

// NewInput constructs an Input configured by cfg.
func NewInput(cfg Config) *Input {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(!cfg.Strict)

	limit := cfg.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}

	return &Input{dec: dec, valid: newValidate(), maxBody: limit}
}

// New is the catalog.Constructor of the input component.
func New(cfg catalog.Config) (any, error) {
	var c Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &c,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}

	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: input config: %s", switchback.ErrBadConfig, err)
	}

	return NewInput(c), nil
}

// Register makes the input component available in cat under [TypeName].
func Register(cat *catalog.Catalog) {
	cat.Register(TypeName, New)
}

// Query decodes the query string of r into structPtr, then validates it.
func (in *Input) Query(r *http.Request, structPtr any) error {
	if err := mustStructPtr(structPtr); err != nil {
		return err
	}

	if err := in.dec.Decode(structPtr, r.URL.Query()); err != nil {
		return translateDecoderError(err)
	}

	return in.validate(structPtr)
}

// Form decodes the form values posted with r into structPtr, then validates it.
func (in *Input) Form(r *http.Request, structPtr any) error {
	if err := mustStructPtr(structPtr); err != nil {
		return err
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: parsing form: %s", switchback.ErrNotValid, err)
	}

	if err := in.dec.Decode(structPtr, r.PostForm); err != nil {
		return translateDecoderError(err)
	}

	return in.validate(structPtr)
}

// JSON decodes the JSON body of r into structPtr, then validates it.
//
// JSON consumes r.Body.
func (in *Input) JSON(r *http.Request, structPtr any) error {
	if err := mustStructPtr(structPtr); err != nil {
		return err
	}

	if r.Body == nil {
		return fmt.Errorf("%w: empty request body", switchback.ErrNotValid)
	}

	if err := json.NewDecoder(io.LimitReader(r.Body, in.maxBody)).Decode(structPtr); err != nil {
		return fmt.Errorf("%w: decoding request body: %s", switchback.ErrNotValid, err)
	}

	return in.validate(structPtr)
}

// Get returns the query string value of r under key.
func Get(r *http.Request, key string) string { return r.URL.Query().Get(key) }

// Post returns the posted form value of r under key.
func Post(r *http.Request, key string) string { return r.PostFormValue(key) }

// IPAddress returns the client address of r,
// preferring what a proxy reported over the address of the connection.
func IPAddress(r *http.Request) string {
	if ip, ok := r.Context().Value(switchback.IpAddrKey).(string); ok && ip != "" {
		return ip
	}

	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > -1 {
		host = host[:i]
	}

	return strings.Trim(host, "[]")
}

// IsAJAX reports whether r was sent with XMLHttpRequest.
func IsAJAX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}

// AsError turns what Query, Form or JSON returned into the *switchback.Error
// rendering it: a 400 for input that does not decode or validate, a 500 otherwise.
func AsError(err error) error {
	if err == nil {
		return nil
	}

	var ves ValidationErrors
	if errors.As(err, &ves) {
		msgs := make([]string, 0, len(ves))
		for _, ve := range ves {
			msgs = append(msgs, ve.Message())
		}

		return &switchback.Error{
			Status:   http.StatusBadRequest,
			Heading:  switchback.DefaultHeading,
			Messages: msgs,
			Template: switchback.GeneralTemplate,
			Err:      err,
		}
	}

	if errors.Is(err, switchback.ErrNotValid) {
		e := switchback.BadRequest(err.Error())
		e.Err = err
		return e
	}

	return switchback.Fail(err)
}

func mustStructPtr(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: decoding into %T, not a pointer to a struct", switchback.ErrUnexpected, v)
	}

	return nil
}
