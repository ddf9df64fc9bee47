// Package anomaly runs heuristic pattern detection over a normalized
// exposure record.
//
// A fixed battery of independent rules inspects the platform-status
// distribution, the handle's shape, and the category mix. Each
// triggered rule appends a human-readable flag. Two additive point
// scores estimate impersonation risk and bot likelihood from disjoint
// rule sets, and a coordination score measures how consistently the
// handle is managed across platforms. All rules are stateless and
// deterministic; there is no learning and no persistence.
//
// The platform sets the rules test against are rule data, deliberately
// separate from the catalog's category tags: the impersonation rules
// care about a platform's social reach, not its catalog grouping.
package anomaly
