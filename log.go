package switchback

import "net/url"

const (
	LogKindKey = "kind"
	LogMaskVal = "xxxxxx"
)

const (
	AppLogKind      = "app"
	DispatchLogKind = "dispatch"
	HTTPLogKind     = "http"
)

// Mask replaces every value stored under key in vals with [LogMaskVal].
func Mask(vals url.Values, key string) {
	if _, ok := vals[key]; !ok {
		return
	}

	vals[key] = []string{LogMaskVal}
}
