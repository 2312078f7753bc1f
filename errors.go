package siteplan

import (
	"errors"
	"fmt"
)

// PlanError is a validation failure raised by the planning core. Every
// PlanError aborts the run before any plan output is produced; the core never
// retries, and none of these conditions are retryable since planning performs
// no I/O.
type PlanError struct {
	// Code is one of the ErrorCode* constants.
	Code string

	// Subject names the offending domain or configuration field.
	Subject string

	Message string
}

func (e *PlanError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Subject, e.Message)
}

// NewDuplicateDomainError reports an apex that appears more than once across
// the main and redirect domains.
func NewDuplicateDomainError(apex string) *PlanError {
	return &PlanError{
		Code:    ErrorCodeDuplicateDomain,
		Subject: apex,
		Message: "apex is configured more than once",
	}
}

// NewUnknownDomainRoleError reports a DomainSpec whose role is outside the
// known set, or a spec supplied in a position its role does not allow.
func NewUnknownDomainRoleError(apex string, role Role) *PlanError {
	return &PlanError{
		Code:    ErrorCodeUnknownDomainRole,
		Subject: apex,
		Message: fmt.Sprintf("unknown or misplaced domain role %q", role),
	}
}

// NewMissingRequiredConfigError reports a configuration value the topology
// requires but that was left empty.
func NewMissingRequiredConfigError(field, message string) *PlanError {
	return &PlanError{
		Code:    ErrorCodeMissingRequiredConfig,
		Subject: field,
		Message: message,
	}
}

// NewInvalidRegionError reports an operation pinned to a specific region that
// was configured with a different one. The planner surfaces this immediately
// rather than silently re-homing the resource.
func NewInvalidRegionError(field, got, want string) *PlanError {
	return &PlanError{
		Code:    ErrorCodeInvalidRegion,
		Subject: field,
		Message: fmt.Sprintf("region %q not allowed, must be %q", got, want),
	}
}

func errorHasCode(err error, code string) bool {
	var planErr *PlanError
	if errors.As(err, &planErr) {
		return planErr.Code == code
	}
	return false
}

func IsDuplicateDomain(err error) bool { return errorHasCode(err, ErrorCodeDuplicateDomain) }

func IsUnknownDomainRole(err error) bool { return errorHasCode(err, ErrorCodeUnknownDomainRole) }

func IsMissingRequiredConfig(err error) bool {
	return errorHasCode(err, ErrorCodeMissingRequiredConfig)
}

func IsInvalidRegion(err error) bool { return errorHasCode(err, ErrorCodeInvalidRegion) }
