package siteplan

// Resolve derives the canonical list of SubdomainTargets for one main domain
// and zero or more redirect domains: the apex and www name of every spec, in
// configuration order, main first.
//
// The output order is part of the contract. Downstream resource naming keys
// off it, and reordering targets between runs would show up as spurious
// diffs (and potentially recreations) in the cloud resource planner.
func Resolve(main DomainSpec, redirects []DomainSpec) ([]SubdomainTarget, error) {
	if !main.Role.Valid() || main.Role != RoleMain {
		return nil, NewUnknownDomainRoleError(main.Apex, main.Role)
	}

	seen := map[string]bool{main.Apex: true}

	for _, redirect := range redirects {
		if !redirect.Role.Valid() || redirect.Role != RoleRedirect {
			return nil, NewUnknownDomainRoleError(redirect.Apex, redirect.Role)
		}
		if seen[redirect.Apex] {
			return nil, NewDuplicateDomainError(redirect.Apex)
		}
		seen[redirect.Apex] = true
	}

	targets := make([]SubdomainTarget, 0, 2*(1+len(redirects)))
	targets = append(targets, targetsFor(main)...)
	for _, redirect := range redirects {
		targets = append(targets, targetsFor(redirect)...)
	}
	return targets, nil
}

// targetsFor returns the apex and www targets for one domain, in that order.
// Every domain gets exactly these two; skipping the www variant is not
// supported anywhere in the topology.
func targetsFor(domain DomainSpec) []SubdomainTarget {
	return []SubdomainTarget{
		{FQDN: domain.Apex, Variant: VariantApex, Domain: domain},
		{FQDN: "www." + domain.Apex, Variant: VariantWWW, Domain: domain},
	}
}
