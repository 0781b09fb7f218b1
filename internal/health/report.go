package health

// Status labels used in supervisor output.
const (
	StatusOK      = "OK"
	StatusFailure = "FALHA"
)

// Report is one supervisor cycle's view of the flags.
type Report struct {
	Generation bool
	Reception  bool
}

// GenerationStatus returns [StatusOK] or [StatusFailure].
func (r Report) GenerationStatus() string {
	return status(r.Generation)
}

// ReceptionStatus returns [StatusOK] or [StatusFailure].
func (r Report) ReceptionStatus() string {
	return status(r.Reception)
}

// Healthy reports whether both flags were set during the cycle.
func (r Report) Healthy() bool {
	return r.Generation && r.Reception
}

func status(ok bool) string {
	if ok {
		return StatusOK
	}
	return StatusFailure
}
