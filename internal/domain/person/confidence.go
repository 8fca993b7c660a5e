package person

import "strings"

// ConfidenceTier classifies how reliable a discovered person record is
type ConfidenceTier string

const (
	TierHigh   ConfidenceTier = "high"
	TierMedium ConfidenceTier = "medium"
	TierLow    ConfidenceTier = "low"
)

func (t ConfidenceTier) Valid() bool {
	return t == TierHigh || t == TierMedium || t == TierLow
}

// OverrideTagPrefix marks a user-set confidence override. The tag value
// after the prefix names the tier and always wins over classification.
const OverrideTagPrefix = "confidence-override:"

// OverrideTier returns the user-set tier if the person carries a valid
// override tag. The last valid override applied wins.
func (p *Person) OverrideTier() (ConfidenceTier, bool) {
	tier := ConfidenceTier("")
	found := false
	for _, tag := range p.Tags {
		if !strings.HasPrefix(tag, OverrideTagPrefix) {
			continue
		}
		if t := ConfidenceTier(strings.TrimPrefix(tag, OverrideTagPrefix)); t.Valid() {
			tier = t
			found = true
		}
	}
	return tier, found
}

// Classify derives the person's confidence tier from their evidence.
// orgDomain is the owning project's target domain.
//
// The rules are deterministic: high requires a verified social profile with
// a handle plus an email on the target organization's domain; medium is
// exactly one weak signal (an unverified profile, or an email off the org
// domain); everything else is low. An override tag trumps the computation.
func Classify(p *Person, orgDomain string) ConfidenceTier {
	if tier, ok := p.OverrideTier(); ok {
		return tier
	}

	var verified, unverified bool
	for _, sp := range p.SocialProfiles {
		if sp.Handle == "" {
			continue
		}
		if sp.Verified {
			verified = true
		} else {
			unverified = true
		}
	}

	orgEmail := hasOrgEmail(p.Email, orgDomain)
	if verified && orgEmail {
		return TierHigh
	}

	weak := 0
	if !verified && unverified {
		weak++
	}
	if p.Email != "" && !orgEmail {
		weak++
	}
	if weak == 1 {
		return TierMedium
	}
	return TierLow
}

func hasOrgEmail(email, orgDomain string) bool {
	if email == "" || orgDomain == "" {
		return false
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	orgDomain = strings.ToLower(orgDomain)
	return domain == orgDomain || strings.HasSuffix(domain, "."+orgDomain)
}
