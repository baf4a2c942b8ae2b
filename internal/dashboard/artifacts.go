package dashboard

import "github.com/qil-lattice/votboard/internal/core"

// ArtifactLimit caps the artifact viewer.
const ArtifactLimit = 50

// ArtifactEntry is one run in the artifact viewer.
type ArtifactEntry struct {
	RunID  string        `json:"run_id"`
	Day    int           `json:"day"`
	State  core.RunState `json:"state"`
	Pretty string        `json:"pretty"`
	Links  []string      `json:"links"`
}

// ArtifactEntries lists the first ArtifactLimit runs that carry a non-empty
// payload. Runs keep the order they were fetched in; there is no recency sort.
func ArtifactEntries(runs []core.Run) []ArtifactEntry {
	entries := []ArtifactEntry{}
	for _, r := range runs {
		if r.Artifacts.Empty() {
			continue
		}
		entries = append(entries, ArtifactEntry{
			RunID:  r.ID,
			Day:    r.Day,
			State:  r.State(),
			Pretty: r.Artifacts.Pretty(),
			Links:  r.Artifacts.Links(),
		})
		if len(entries) == ArtifactLimit {
			break
		}
	}
	return entries
}
