package session

import (
	"errors"
	"net/http"

	gorilla "github.com/gorilla/sessions"
)

// ErrNotValid is returned when a value stored in a session is not of the type expected.
var ErrNotValid = errors.New("not valid")

// A Session is the session of the request being dispatched.
//
// Its functionality is implemented by lightly wrapping a gorilla.Session;
// every change is saved through the response the request is assembling,
// so the cookie rides out with the rest of its headers.
type Session struct {
	s *gorilla.Session
	w http.ResponseWriter
	r *http.Request
}

// ClearFlashes removes every Flash from the session.
func (s *Session) ClearFlashes() error {
	s.s.Flashes()
	return s.Save()
}

// Delete removes a session by making the MaxAge negative.
func (s *Session) Delete() error {
	s.s.Options.MaxAge = -1
	return s.Save()
}

// Flashes retrieves the []Flash stored in the session, removing them.
func (s *Session) Flashes() ([]Flash, error) {
	raw := s.s.Flashes()
	fs := make([]Flash, 0, len(raw))
	for _, r := range raw {
		f, ok := r.(Flash)
		if !ok {
			continue
		}

		fs = append(fs, f)
	}

	if len(raw) > 0 {
		// NOTE: flashes are removed when read but stay in the store until saved.
		if err := s.Save(); err != nil {
			return nil, err
		}
	}

	return fs, nil
}

// Get retrieves a value from the session according to the key passed in.
func (s *Session) Get(key string) any {
	return s.s.Values[key]
}

// GetString retrieves a string value from the session.
// If the value stored under key is not a string, ErrNotValid returns.
func (s *Session) GetString(key string) (string, error) {
	v, ok := s.s.Values[key]
	if !ok {
		return "", nil
	}

	str, ok := v.(string)
	if !ok {
		return "", ErrNotValid
	}

	return str, nil
}

// IsNew reports whether the session was created for this request.
func (s *Session) IsNew() bool { return s.s.IsNew }

// Remove deletes the value stored under key.
func (s *Session) Remove(key string) error {
	delete(s.s.Values, key)
	return s.Save()
}

// ResetExpiry resets the expiration of the session by saving it.
func (s *Session) ResetExpiry() error { return s.Save() }

// Save wraps gorilla.Session.Save, saving the session in the request.
func (s *Session) Save() error { return s.s.Save(s.r, s.w) }

// Set stores a value according to the key passed in on the session.
func (s *Session) Set(key string, val any) error {
	s.s.Values[key] = val
	return s.Save()
}

// SetFlash stores the passed in Flash in the session.
func (s *Session) SetFlash(flash Flash) error {
	s.s.AddFlash(flash)
	return s.Save()
}
