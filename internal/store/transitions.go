package store

var proposalTransitions = map[string][]string{
	ProposalDraft:    {ProposalDraft, ProposalSent},
	ProposalSent:     {ProposalSent, ProposalDraft, ProposalAccepted, ProposalRejected},
	ProposalAccepted: {ProposalAccepted},
	ProposalRejected: {ProposalRejected, ProposalDraft},
}

// ValidProposalTransition reports whether a proposal in status from may be
// moved to status to. Accepted proposals are final.
func ValidProposalTransition(from, to string) bool {
	allowed, ok := proposalTransitions[from]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == to {
			return true
		}
	}
	return false
}
