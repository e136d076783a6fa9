// Package clusterpb defines the cluster-membership record carried inside
// conf-change context and cluster snapshots.
//
// The teacher's internal/raftpb package (referenced throughout engine.go and
// membership/types.go) was not among the retrieved files. Member is a
// "non-critical record" in the sense of spec.md §4.A — it travels inside
// raftpb.ConfChange.Context and inside a Snapshot's member list, never as a
// log entry's canonical wire payload — so it is encoded with encoding/json
// rather than guessed-at protobuf, exactly as §4.A allows.
package clusterpb

import "encoding/json"

// MemberType distinguishes a fully caught-up voter from one still catching
// up (staging) or a non-voting observer (learner).
type MemberType int

const (
	// VoterMember participates in quorum and leader election.
	VoterMember MemberType = iota
	// StagingMember is being added to the cluster and is still catching
	// up; the engine's promotion pass promotes it to VoterMember once it
	// has caught up.
	StagingMember
	// LearnerMember receives the replicated log but never votes.
	LearnerMember
)

func (t MemberType) String() string {
	switch t {
	case VoterMember:
		return "voter"
	case StagingMember:
		return "staging"
	case LearnerMember:
		return "learner"
	default:
		return "unknown"
	}
}

// Member is one cluster participant.
type Member struct {
	ID      uint64     `json:"id"`
	Address string     `json:"address"`
	Type    MemberType `json:"type"`
}

// Marshal encodes m for use as ConfChange context or snapshot state.
func (m *Member) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Unmarshal decodes m from bytes produced by Marshal.
func (m *Member) Unmarshal(data []byte) error {
	return json.Unmarshal(data, m)
}

// Replicate wraps an opaque client proposal with the change ID the engine
// uses to wake the waiting caller once the entry is applied.
type Replicate struct {
	CID  uint64 `json:"cid"`
	Data []byte `json:"data"`
}

func (r *Replicate) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

func (r *Replicate) Unmarshal(data []byte) error {
	return json.Unmarshal(data, r)
}
