package indexconfig

import (
	"errors"
	"fmt"

	"github.com/adfharrison1/go-graph-index/pkg/domain"
)

var (
	ErrConfigurationMismatch  = errors.New("indexconfig: configuration mismatch")
	ErrIndexNameNotRegistered = errors.New("indexconfig: index name not registered")
)

// MismatchError is returned when inheriting between configurations of
// different entity kinds.
type MismatchError struct {
	Want domain.EntityKind
	Got  domain.EntityKind
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("can't inherit from different index type %s != %s", e.Want, e.Got)
}

func (e *MismatchError) Is(target error) bool {
	return target == ErrConfigurationMismatch
}
