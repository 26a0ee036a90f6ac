package interfaces

import "context"

// Warmer precarga la caché durante el arranque, antes de aceptar tráfico.
// Un fallo no impide el arranque: el servicio sirve datos obsoletos o 503.
type Warmer interface {
	Warmup(ctx context.Context) error
}
