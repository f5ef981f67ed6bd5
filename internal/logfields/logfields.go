package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyArtifact   = "artifact"
	KeyPath       = "path"
	KeyLane       = "lane"
	KeyLinkID     = "link_id"
	KeyCount      = "count"
	KeyReason     = "reason"
	KeyError      = "error"
)

func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Artifact(a string) slog.Attr     { return slog.String(KeyArtifact, a) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Lane(l string) slog.Attr         { return slog.String(KeyLane, l) }
func LinkID(id string) slog.Attr      { return slog.String(KeyLinkID, id) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Reason(r string) slog.Attr       { return slog.String(KeyReason, r) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
