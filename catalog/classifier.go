package catalog

import "strings"

// v2LoadBalancerPath marks ALB/NLB-style ARNs. Classic ELB ARNs end in
// "loadbalancer/<name>" with no type segment, so this only appears on
// resources the ALB/NLB entries already cover.
const v2LoadBalancerPath = "loadbalancer/"

// Classify selects the single catalog entry for an ARN, or nil when the
// resource should not be rendered.
//
// Rules, in order:
//  1. Candidates are entries whose match token is a substring of the ARN.
//     No candidate means the resource type is not dashboarded; that is
//     expected noise, not an error.
//  2. Among candidates the longest match token wins: "loadbalancer/app"
//     beats "loadbalancer" for an ALB ARN that contains both. Equal
//     lengths are broken by family key so iteration order never matters.
//  3. If the winner is the classic ELB entry but the ARN carries a
//     v2-style "loadbalancer/" path, the resource is skipped outright.
//     The ALB/NLB entries cover it, and their tokens are not guaranteed
//     to be longer in every catalog configuration, so rule 2 alone is
//     not enough to prevent rendering it twice.
func Classify(arn string, c Catalog) *Entry {
	var best *Entry
	for i := range c.entries {
		e := &c.entries[i]
		if !strings.Contains(arn, e.MatchToken) {
			continue
		}
		if best == nil || betterMatch(e, best) {
			best = e
		}
	}
	if best == nil {
		return nil
	}

	if best.Family == FamilyClassicELB && strings.Contains(arn, v2LoadBalancerPath) {
		return nil
	}

	out := *best
	return &out
}

func betterMatch(candidate, current *Entry) bool {
	if len(candidate.MatchToken) != len(current.MatchToken) {
		return len(candidate.MatchToken) > len(current.MatchToken)
	}
	return candidate.Family < current.Family
}
