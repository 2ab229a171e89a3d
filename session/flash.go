package session

// Default Flash classes.
const (
	FlashError   = "error"
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashWarning = "warning"
)

// A Flash is a message shown once, on the next page the session renders.
type Flash struct {
	Class string `json:"class"`
	Msg   string `json:"msg"`
}
