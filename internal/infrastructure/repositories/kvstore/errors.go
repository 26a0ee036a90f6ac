package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"crypto-quote-service/internal/domain/apperror"

	"github.com/redis/go-redis/v9"
)

// transientReplyPrefixes son respuestas del servidor que indican un estado temporal
var transientReplyPrefixes = []string{"LOADING", "BUSY", "TRYAGAIN", "CLUSTERDOWN", "MASTERDOWN"}

func notFound(key string) error {
	return fmt.Errorf("%w: %s", apperror.ErrNotFound, key)
}

// wrapStoreError clasifica un fallo del backend como transitorio o permanente
func wrapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, apperror.ErrNotFound) {
		return err
	}
	if _, ok := apperror.As(err); ok {
		return err
	}
	return apperror.Store(op, err, isTransient(err))
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var replyErr redis.Error
	if errors.As(err, &replyErr) {
		msg := replyErr.Error()
		for _, prefix := range transientReplyPrefixes {
			if strings.HasPrefix(msg, prefix) {
				return true
			}
		}
		return false
	}

	msg := err.Error()
	return strings.Contains(msg, "connection refused") || strings.Contains(msg, "pool timeout")
}

var (
	errStoreClosed = errors.New("store is closed")
	errNotCounter  = errors.New("value is not an integer counter")
)
