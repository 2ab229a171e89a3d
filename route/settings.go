package route

import "github.com/xy-planning-network/switchback/config"

// DefaultPermittedChars are the characters a URI segment may hold, matched case insensitively.
const DefaultPermittedChars = `a-z 0-9~%.:_\-`

// Settings configure how a Router reads the request.
type Settings struct {
	// Ext is the extension of handler source files.
	Ext string

	// Suffix is stripped from the URI before splitting it, e.g., ".html".
	Suffix string

	// PermittedChars is a regular expression character class every URI segment must match.
	// Leave empty to permit anything.
	PermittedChars string

	// QueryStrings dispatches on the triggers below instead of the URI path.
	QueryStrings     bool
	DirectoryTrigger string
	HandlerTrigger   string
	EntryTrigger     string
}

func (s Settings) withDefaults() Settings {
	if s.Ext == "" {
		s.Ext = ".go"
	}

	if s.DirectoryTrigger == "" {
		s.DirectoryTrigger = "d"
	}

	if s.HandlerTrigger == "" {
		s.HandlerTrigger = "c"
	}

	if s.EntryTrigger == "" {
		s.EntryTrigger = "m"
	}

	return s
}

// SettingsFrom reads Settings from the core items of store:
// source_ext, url_suffix, permitted_uri_chars, enable_query_strings,
// directory_trigger, handler_trigger and entry_point_trigger.
func SettingsFrom(store *config.Store) Settings {
	return Settings{
		Ext:              store.String("source_ext"),
		Suffix:           store.String("url_suffix"),
		PermittedChars:   store.StringOr("permitted_uri_chars", DefaultPermittedChars),
		QueryStrings:     store.Bool("enable_query_strings"),
		DirectoryTrigger: store.String("directory_trigger"),
		HandlerTrigger:   store.String("handler_trigger"),
		EntryTrigger:     store.String("entry_point_trigger"),
	}
}
