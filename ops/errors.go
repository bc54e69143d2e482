package ops

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/cottand/ocl/types"
)

// enableDebugErrorPrinting makes errors include the frame they were created at when formatted
var enableDebugErrorPrinting = false

type ErrCode int

const (
	None ErrCode = iota
	UnknownOperation
	NoApplicableOperation
	AmbiguousOperation
	RegistrySealed
	InvalidVariant
)

// OpError is a static error: it is reported before any evaluation takes place
type OpError interface {
	Error() string
	Code() ErrCode

	withStack([]byte) OpError
	getStack() []byte
}

func FormatWithCode(e OpError) string {
	if enableDebugErrorPrinting && e.getStack() != nil {
		lines := strings.Split(string(e.getStack()), "\n")
		if len(lines) > 6 {
			return fmt.Sprintf("%s:(E%03d) %s", strings.TrimSpace(lines[6]), e.Code(), e.Error())
		}
	}
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

func New[E OpError](err E) OpError {
	return err.withStack(debug.Stack())
}

// CodeOf returns the code of the first OpError in err's chain, or None
func CodeOf(err error) ErrCode {
	var opErr OpError
	if errors.As(err, &opErr) {
		return opErr.Code()
	}
	return None
}

func IsCode(err error, code ErrCode) bool {
	return err != nil && CodeOf(err) == code
}

type NewUnknownOperation struct {
	Name  string
	stack []byte
}

func (e NewUnknownOperation) Error() string {
	return fmt.Sprintf("unknown operation '%s'", e.Name)
}
func (e NewUnknownOperation) Code() ErrCode    { return UnknownOperation }
func (e NewUnknownOperation) getStack() []byte { return e.stack }
func (e NewUnknownOperation) withStack(stack []byte) OpError {
	e.stack = stack
	return e
}

type NewNoApplicableOperation struct {
	Name       string
	Params     []types.Type
	Candidates []string
	stack      []byte
}

func (e NewNoApplicableOperation) Error() string {
	msg := fmt.Sprintf("no applicable operation '%s' for argument types (%s)", e.Name, types.List(e.Params, ", "))
	if len(e.Candidates) != 0 {
		msg += "; candidates are:\n  " + strings.Join(e.Candidates, "\n  ")
	}
	return msg
}
func (e NewNoApplicableOperation) Code() ErrCode    { return NoApplicableOperation }
func (e NewNoApplicableOperation) getStack() []byte { return e.stack }
func (e NewNoApplicableOperation) withStack(stack []byte) OpError {
	e.stack = stack
	return e
}

type NewAmbiguousOperation struct {
	Name    string
	Params  []types.Type
	Matches []string
	stack   []byte
}

func (e NewAmbiguousOperation) Error() string {
	return fmt.Sprintf("ambiguous operation '%s' for argument types (%s): %d variants match:\n  %s",
		e.Name, types.List(e.Params, ", "), len(e.Matches), strings.Join(e.Matches, "\n  "))
}
func (e NewAmbiguousOperation) Code() ErrCode    { return AmbiguousOperation }
func (e NewAmbiguousOperation) getStack() []byte { return e.stack }
func (e NewAmbiguousOperation) withStack(stack []byte) OpError {
	e.stack = stack
	return e
}

type NewRegistrySealed struct {
	Name  string
	stack []byte
}

func (e NewRegistrySealed) Error() string {
	return fmt.Sprintf("cannot register operation '%s': the registry is sealed", e.Name)
}
func (e NewRegistrySealed) Code() ErrCode    { return RegistrySealed }
func (e NewRegistrySealed) getStack() []byte { return e.stack }
func (e NewRegistrySealed) withStack(stack []byte) OpError {
	e.stack = stack
	return e
}

type NewInvalidVariant struct {
	Name   string
	Reason string
	stack  []byte
}

func (e NewInvalidVariant) Error() string {
	return fmt.Sprintf("invalid variant of operation '%s': %s", e.Name, e.Reason)
}
func (e NewInvalidVariant) Code() ErrCode    { return InvalidVariant }
func (e NewInvalidVariant) getStack() []byte { return e.stack }
func (e NewInvalidVariant) withStack(stack []byte) OpError {
	e.stack = stack
	return e
}
