package quota

// Identifier derives the per-caller quota key from the network origin and
// an optional client-supplied fingerprint. An empty fingerprint falls back
// to the origin alone.
//
// Every component keys off this exact composition; a limiter, lock and
// grantor using different compositions would silently fragment quotas.
//
// The fingerprint is client-generated and never verified, so the scheme is
// trivially spoofable by fingerprint rotation. Accepted tradeoff: the
// burst limiter still bounds abuse from a fixed origin.
func Identifier(origin, fingerprint string) string {
	if fingerprint == "" {
		return origin
	}
	return origin + ":" + fingerprint
}
