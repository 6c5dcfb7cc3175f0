package notifications

import "time"

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

const (
	DefaultDuration = 5 * time.Second
	// MaxPending bounds the undelivered toasts kept per console session.
	MaxPending = 50
)

// LoadFailedMessage is shown when a catalog reload fails.
const LoadFailedMessage = "Error al cargar los datos. Por favor, intenta de nuevo."
