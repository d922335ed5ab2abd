package banks

import "strings"

// Detect matches a header row against the known profile fingerprints and
// returns the best-scoring profile. A profile scores one point for each
// fingerprint token contained in any normalized header; ties keep the
// earlier declaration. A zero score across all profiles returns nil, in
// which case callers fall back to the merged synonym set.
func Detect(headers []string) *Profile {
	normalized := NormalizeHeaders(headers)

	var best *Profile
	bestScore := 0

	for _, profile := range Profiles {
		score := 0
		for _, token := range profile.Fingerprints {
			for _, header := range normalized {
				if strings.Contains(header, token) {
					score++
					break
				}
			}
		}
		if score > bestScore {
			best = profile
			bestScore = score
		}
	}

	return best
}
