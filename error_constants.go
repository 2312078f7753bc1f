package siteplan

// Error codes are stable strings: configuration tooling and tests match on
// them, so they must never change once published.
const (
	ErrorCodeDuplicateDomain       = "plan.duplicate_domain"
	ErrorCodeUnknownDomainRole     = "plan.unknown_domain_role"
	ErrorCodeMissingRequiredConfig = "plan.missing_required_config"
	ErrorCodeInvalidRegion         = "plan.invalid_region"
)
